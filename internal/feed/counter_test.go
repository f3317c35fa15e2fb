package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter_SetClampsAtZero(t *testing.T) {
	c := NewCounter()
	c.Set(-5)
	require.Equal(t, 0, c.Value())

	c.Set(3)
	require.Equal(t, 3, c.Value())

	c.Reset()
	require.Equal(t, 0, c.Value())
}

func TestCounter_NotifiesOnChangeOnly(t *testing.T) {
	c := NewCounter()
	var got []int
	c.Observe(func(n int) { got = append(got, n) })

	c.Set(2)
	c.Set(2)
	c.Set(0)
	c.Set(-1) // clamps to 0, already 0

	require.Equal(t, []int{2, 0}, got)
}
