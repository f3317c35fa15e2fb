package viewsync

// Viewport is the window over the rendered feed content: rows
// [Offset, Offset+Height) in content coordinates.
type Viewport struct {
	Offset int
	Height int
}

// VisibleRect returns the portion of a view that is inside the
// viewport, in the view's own coordinates. The view occupies content
// rows [top, top+height). An empty rect (equal top and bottom) means
// no overlap at all.
func VisibleRect(top, height int, vp Viewport) (localTop, localBottom int) {
	localTop = clamp(vp.Offset-top, 0, height)
	localBottom = clamp(vp.Offset+vp.Height-top, 0, height)
	if localBottom < localTop {
		localBottom = localTop
	}
	return localTop, localBottom
}

// FullyVisible reports whether the view is strictly contained in the
// viewport: the visible rect starts at its own row 0 and ends at its
// full height. Partial overlap does not count. A zero-height view is
// trivially fully visible; callers treat that as a transient
// not-yet-laid-out answer, not a real verdict.
func FullyVisible(top, height int, vp Viewport) bool {
	localTop, localBottom := VisibleRect(top, height, vp)
	return localTop == 0 && localBottom == height
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
