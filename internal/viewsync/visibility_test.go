package viewsync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFullyVisible_StrictContainment(t *testing.T) {
	vp := Viewport{Offset: 0, Height: 10}

	// Entirely inside.
	require.True(t, FullyVisible(0, 10, vp))
	require.True(t, FullyVisible(3, 4, vp))

	// Clipped at the top: local rect starts below row 0.
	require.False(t, FullyVisible(-1, 5, Viewport{Offset: 0, Height: 10}))

	// Clipped at the bottom: local rect ends before full height.
	require.False(t, FullyVisible(8, 5, vp))

	// Entirely above or below the viewport.
	require.False(t, FullyVisible(0, 3, Viewport{Offset: 5, Height: 10}))
	require.False(t, FullyVisible(20, 3, vp))
}

func TestFullyVisible_ExactBoundaries(t *testing.T) {
	// View spans the viewport exactly.
	require.True(t, FullyVisible(0, 10, Viewport{Offset: 0, Height: 10}))

	// One row off either edge breaks strict containment.
	require.False(t, FullyVisible(-1, 10, Viewport{Offset: 0, Height: 10}))
	require.False(t, FullyVisible(1, 10, Viewport{Offset: 0, Height: 10}))
}

func TestFullyVisible_ZeroHeightIsTriviallyVisible(t *testing.T) {
	// top == 0 && bottom == 0 == height. Callers treat this as a
	// transient not-yet-laid-out answer.
	require.True(t, FullyVisible(4, 0, Viewport{Offset: 0, Height: 10}))
	require.True(t, FullyVisible(50, 0, Viewport{Offset: 0, Height: 10}))
}

func TestVisibleRect_PartialOverlap(t *testing.T) {
	vp := Viewport{Offset: 5, Height: 10} // rows 5..15

	top, bottom := VisibleRect(3, 6, vp) // view rows 3..9
	require.Equal(t, 2, top)
	require.Equal(t, 6, bottom)

	top, bottom = VisibleRect(12, 6, vp) // view rows 12..18
	require.Equal(t, 0, top)
	require.Equal(t, 3, bottom)

	top, bottom = VisibleRect(20, 6, vp) // no overlap
	require.Equal(t, top, bottom)
}
