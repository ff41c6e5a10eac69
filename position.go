package cartesian

import "fmt"

// AxisPosition identifies one edge of the chart. The zero value means "no
// particular axis" and selects the chart-wide y range.
type AxisPosition uint8

const (
	PositionUnset AxisPosition = iota
	PositionStart
	PositionTop
	PositionEnd
	PositionBottom
)

func (p AxisPosition) String() string {
	switch p {
	case PositionUnset:
		return "unset"
	case PositionStart:
		return "start"
	case PositionTop:
		return "top"
	case PositionEnd:
		return "end"
	case PositionBottom:
		return "bottom"
	default:
		panic(fmt.Sprintf("unexpected axis position %d", uint8(p)))
	}
}

// Vertical reports whether axes at p run vertically.
func (p AxisPosition) Vertical() bool {
	switch p {
	case PositionStart, PositionEnd:
		return true
	case PositionTop, PositionBottom, PositionUnset:
		return false
	default:
		panic(fmt.Sprintf("unexpected axis position %d", uint8(p)))
	}
}

// Left reports whether p is drawn on the left edge for the given layout
// direction.
func (p AxisPosition) Left(ltr bool) bool {
	switch p {
	case PositionStart:
		return ltr
	case PositionEnd:
		return !ltr
	default:
		panic(fmt.Sprintf("axis position %s has no horizontal side", p))
	}
}

// HorizontalPosition places a drawn element relative to an anchor x.
type HorizontalPosition uint8

const (
	// HorizontalStart places the element before the anchor.
	HorizontalStart HorizontalPosition = iota
	HorizontalCenter
	// HorizontalEnd places the element after the anchor.
	HorizontalEnd
)

// VerticalPosition places a drawn element relative to an anchor y.
type VerticalPosition uint8

const (
	VerticalCenter VerticalPosition = iota
	// VerticalTop places the element above the anchor.
	VerticalTop
	// VerticalBottom places the element below the anchor.
	VerticalBottom
)

// InBounds returns the position at which an element of the given height,
// drawn distance pixels away from y, stays within bounds. The preferred
// position wins when it fits.
func (v VerticalPosition) InBounds(bounds Rect, distance, height, y float32) VerticalPosition {
	topFits := y-distance-height >= bounds.Top
	centerFits := y-height/2 >= bounds.Top && y+height/2 <= bounds.Bottom
	bottomFits := y+distance+height <= bounds.Bottom
	switch v {
	case VerticalTop:
		switch {
		case topFits:
			return VerticalTop
		case bottomFits:
			return VerticalBottom
		default:
			return VerticalCenter
		}
	case VerticalBottom:
		switch {
		case bottomFits:
			return VerticalBottom
		case topFits:
			return VerticalTop
		default:
			return VerticalCenter
		}
	case VerticalCenter:
		switch {
		case centerFits:
			return VerticalCenter
		case topFits:
			return VerticalTop
		default:
			return VerticalBottom
		}
	default:
		panic(fmt.Sprintf("unexpected vertical position %d", uint8(v)))
	}
}
