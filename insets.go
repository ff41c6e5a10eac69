package cartesian

// Insets is the space reserved along each edge of the chart, in pixels.
// Contributions from several components are combined with EnsureAtLeast, so
// overlapping needs are never reserved twice.
type Insets struct {
	Start, Top, End, Bottom float32
}

// EnsureAtLeast raises every edge to at least the corresponding edge of o.
func (i *Insets) EnsureAtLeast(o Insets) {
	i.Start = max(i.Start, o.Start)
	i.Top = max(i.Top, o.Top)
	i.End = max(i.End, o.End)
	i.Bottom = max(i.Bottom, o.Bottom)
}

// EnsureVertical raises the top and bottom edges.
func (i *Insets) EnsureVertical(top, bottom float32) {
	i.Top = max(i.Top, top)
	i.Bottom = max(i.Bottom, bottom)
}

func (i Insets) Left(ltr bool) float32 {
	if ltr {
		return i.Start
	}
	return i.End
}

func (i Insets) Right(ltr bool) float32 {
	if ltr {
		return i.End
	}
	return i.Start
}

func (i Insets) Horizontal() float32 { return i.Start + i.End }
func (i Insets) Vertical() float32   { return i.Top + i.Bottom }

// HorizontalInsets is the space reserved along the start and end edges. It
// is measured once the height available to the layers is known.
type HorizontalInsets struct {
	Start, End float32
}

// EnsureAtLeast raises both edges to at least start and end.
func (h *HorizontalInsets) EnsureAtLeast(start, end float32) {
	h.Start = max(h.Start, start)
	h.End = max(h.End, end)
}
