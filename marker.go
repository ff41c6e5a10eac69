package cartesian

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"gioui.org/f32"
	"gioui.org/unit"
	"golang.org/x/exp/maps"
)

// MarkerPoint is one rendered entry at a marker target's x.
type MarkerPoint struct {
	Series int
	// Entry is the model entry: a model.LineEntry, model.ColumnEntry or
	// model.CandlestickEntry.
	Entry  any
	Y      float64
	Canvas f32.Point
	Color  color.NRGBA
}

// MarkerTarget is the set of points one layer rendered at one x value.
type MarkerTarget struct {
	X       float64
	CanvasX float32
	Layer   int
	Points  []MarkerPoint
}

// MarkerTargets collects marker targets while layers draw.
type MarkerTargets struct {
	byX   map[float64][]*MarkerTarget
	layer int
}

// NewMarkerTargets returns an empty collection.
func NewMarkerTargets() *MarkerTargets {
	return &MarkerTargets{byX: make(map[float64][]*MarkerTarget)}
}

// Add records p at x for the layer currently drawing. A nil collection
// discards it.
func (t *MarkerTargets) Add(x float64, canvasX float32, p MarkerPoint) {
	if t == nil {
		return
	}
	for _, target := range t.byX[x] {
		if target.Layer == t.layer {
			target.Points = append(target.Points, p)
			return
		}
	}
	t.byX[x] = append(t.byX[x], &MarkerTarget{X: x, CanvasX: canvasX, Layer: t.layer, Points: []MarkerPoint{p}})
}

func (t *MarkerTargets) setLayer(i int) {
	if t != nil {
		t.layer = i
	}
}

// Len returns the number of distinct x values with targets.
func (t *MarkerTargets) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byX)
}

// Reset removes every target.
func (t *MarkerTargets) Reset() {
	if t == nil {
		return
	}
	clear(t.byX)
	t.layer = 0
}

// Nearest returns the targets of every layer at the x value whose canvas x
// is closest to canvasX, ordered by layer.
func (t *MarkerTargets) Nearest(canvasX float32) []*MarkerTarget {
	if t.Len() == 0 {
		return nil
	}
	xs := maps.Keys(t.byX)
	slices.Sort(xs)
	best, bestDistance := xs[0], float32(math.Inf(1))
	for _, x := range xs {
		if d := abs32(t.byX[x][0].CanvasX - canvasX); d < bestDistance {
			best, bestDistance = x, d
		}
	}
	targets := slices.Clone(t.byX[best])
	slices.SortFunc(targets, func(a, b *MarkerTarget) int { return a.Layer - b.Layer })
	return targets
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// MarkerEventKind distinguishes marker visibility changes.
type MarkerEventKind uint8

const (
	MarkerShown MarkerEventKind = iota
	MarkerUpdated
	MarkerHidden
)

func (k MarkerEventKind) String() string {
	switch k {
	case MarkerShown:
		return "shown"
	case MarkerUpdated:
		return "updated"
	case MarkerHidden:
		return "hidden"
	default:
		panic(fmt.Sprintf("unexpected marker event kind %d", uint8(k)))
	}
}

// MarkerEvent reports a change of the marker's visibility or position.
type MarkerEvent struct {
	Kind    MarkerEventKind
	Targets []*MarkerTarget
	CanvasX float32
}

// Marker highlights the entries nearest to the pointer.
type Marker interface {
	UpdateInsets(ctx *MeasureContext, d HorizontalDimensions, insets *Insets)
	Draw(ctx *DrawContext, targets []*MarkerTarget)
}

// DefaultMarker draws a vertical guideline through the selected x, an
// indicator on each point and a label above the layers.
type DefaultMarker struct {
	Label *TextComponent
	// Format builds the label text. It defaults to the y values of the
	// points, comma separated.
	Format func(targets []*MarkerTarget) string
	// Indicator is drawn on each point, tinted with the point's color when
	// TintIndicator is set.
	Indicator     *ShapeComponent
	IndicatorSize unit.Dp
	TintIndicator bool
	Guideline     *LineComponent
}

var _ Marker = (*DefaultMarker)(nil)

// DefaultMarkerFormat joins the y values of every point with the given
// formatter.
func DefaultMarkerFormat(f ValueFormatter) func(targets []*MarkerTarget) string {
	return func(targets []*MarkerTarget) string {
		var parts []string
		for _, t := range targets {
			for _, p := range t.Points {
				parts = append(parts, f(p.Y, ChartValues{}, PositionUnset))
			}
		}
		return strings.Join(parts, ", ")
	}
}

func (m *DefaultMarker) UpdateInsets(ctx *MeasureContext, _ HorizontalDimensions, insets *Insets) {
	if m.Label == nil {
		return
	}
	insets.EnsureVertical(m.Label.Height(ctx, "0", 0), 0)
}

func (m *DefaultMarker) Draw(ctx *DrawContext, targets []*MarkerTarget) {
	if len(targets) == 0 {
		return
	}
	mc := ctx.MeasureContext
	lb := ctx.LayerBounds
	x := targets[0].CanvasX
	m.Guideline.DrawVertical(ctx, lb.Top, lb.Bottom, x)

	if m.Indicator != nil {
		half := ctx.Dp(m.IndicatorSize) / 2
		for _, t := range targets {
			for _, p := range t.Points {
				indicator := m.Indicator
				if m.TintIndicator {
					tinted := *m.Indicator
					tinted.Color = p.Color
					tinted.Shader = nil
					indicator = &tinted
				}
				indicator.Draw(ctx, Rect{Left: p.Canvas.X - half, Top: p.Canvas.Y - half, Right: p.Canvas.X + half, Bottom: p.Canvas.Y + half})
			}
		}
	}

	if m.Label == nil {
		return
	}
	format := m.Format
	if format == nil {
		format = DefaultMarkerFormat(DecimalFormatter(2))
	}
	text := format(targets)
	w := m.Label.Width(mc, text, 0)
	// Keep the label within the canvas.
	labelX := clamp(x, mc.CanvasBounds.Left+w/2, max(mc.CanvasBounds.Right-w/2, mc.CanvasBounds.Left+w/2))
	m.Label.Draw(ctx, text, labelX, lb.Top, HorizontalCenter, VerticalTop, 0, 0)
}
