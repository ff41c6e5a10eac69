package cartesian

import (
	"fmt"
	"image/color"

	"gioui.org/f32"
	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// MergeMode selects how the columns of several series at one x are arranged.
type MergeMode uint8

const (
	// MergeGrouped places columns side by side.
	MergeGrouped MergeMode = iota
	// MergeStacked stacks columns on top of each other, positive values
	// upward and negative values downward.
	MergeStacked
)

func (m MergeMode) String() string {
	switch m {
	case MergeGrouped:
		return "grouped"
	case MergeStacked:
		return "stacked"
	default:
		panic(fmt.Sprintf("unexpected merge mode %d", uint8(m)))
	}
}

// ColumnPoint is the drawing-model info of one column: its signed height as
// a fraction of the y range length.
type ColumnPoint struct {
	Height float32
}

// ColumnPointInterpolator is the default interpolator of column layers.
func ColumnPointInterpolator() Interpolator[ColumnPoint] {
	return DefaultInterpolator[ColumnPoint]{
		Lerp: func(from, to ColumnPoint, f float32) ColumnPoint {
			return ColumnPoint{Height: lerp(from.Height, to.Height, f)}
		},
		Neutral: func(ColumnPoint, float32) ColumnPoint { return ColumnPoint{} },
	}
}

// ColumnLayerConfig configures a ColumnLayer.
type ColumnLayerConfig struct {
	// Columns style the series; series i uses Columns[i%len(Columns)]. The
	// line thickness is the column width, defaulting to 8dp.
	Columns   []LineComponent
	MergeMode MergeMode
	// Spacing separates neighboring x values. It defaults to 32dp.
	Spacing unit.Dp
	// InnerSpacing separates the columns of one group. It defaults to 8dp.
	InnerSpacing       unit.Dp
	DataLabel          *TextComponent
	DataLabelFormatter ValueFormatter
	DataLabelRotation  float32
	Axis               AxisPosition
	Overrider          AxisValueOverrider
	Interpolator       Interpolator[ColumnPoint]
}

// ColumnLayer draws column series.
type ColumnLayer struct {
	cfg        ColumnLayerConfig
	drawingKey store.Key[*DrawingModel[ColumnPoint]]
	animKey    store.Key[*Animator[ColumnPoint]]
}

var _ Layer = (*ColumnLayer)(nil)

// NewColumnLayer builds a column layer.
func NewColumnLayer(cfg ColumnLayerConfig) (*ColumnLayer, error) {
	if err := checkLayerAxis(cfg.Axis); err != nil {
		return nil, err
	}
	if cfg.MergeMode > MergeStacked {
		return nil, fmt.Errorf("unknown merge mode %d", uint8(cfg.MergeMode))
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = []LineComponent{{Color: color.NRGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xff}}}
	} else {
		cfg.Columns = append([]LineComponent(nil), cfg.Columns...)
	}
	for i := range cfg.Columns {
		if cfg.Columns[i].Thickness == 0 {
			cfg.Columns[i].Thickness = 8
		}
	}
	if cfg.Spacing == 0 {
		cfg.Spacing = 32
	}
	if cfg.InnerSpacing == 0 {
		cfg.InnerSpacing = 8
	}
	if cfg.DataLabelFormatter == nil {
		cfg.DataLabelFormatter = DecimalFormatter(2)
	}
	cfg.Overrider = overriderOrDefault(cfg.Overrider)
	if cfg.Interpolator == nil {
		cfg.Interpolator = ColumnPointInterpolator()
	}
	return &ColumnLayer{
		cfg:        cfg,
		drawingKey: store.NewKey[*DrawingModel[ColumnPoint]]("column drawing model"),
		animKey:    store.NewKey[*Animator[ColumnPoint]]("column animator"),
	}, nil
}

// MustColumnLayer is NewColumnLayer that panics on error.
func MustColumnLayer(cfg ColumnLayerConfig) *ColumnLayer {
	l, err := NewColumnLayer(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *ColumnLayer) column(series int) *LineComponent {
	return &l.cfg.Columns[series%len(l.cfg.Columns)]
}

func (l *ColumnLayer) Accepts(m model.LayerModel) bool {
	_, ok := m.(*model.ColumnModel)
	return ok
}

func (l *ColumnLayer) Axis() AxisPosition { return l.cfg.Axis }

func (l *ColumnLayer) UpdateChartValues(b *ChartValuesBuilder, m model.LayerModel) {
	cm := m.(*model.ColumnModel)
	raw := cm.Bounds()
	if l.cfg.MergeMode == MergeStacked {
		raw.MinY, raw.MaxY = cm.MinAggregateY, cm.MaxAggregateY
	}
	updateValues(b, l.cfg.Overrider, raw, m, l.cfg.Axis)
}

// groupWidth is the width taken by the columns at one x value.
func (l *ColumnLayer) groupWidth(ctx *MeasureContext, series int) float32 {
	series = max(series, 1)
	if l.cfg.MergeMode == MergeStacked {
		var w float32
		for i := 0; i < series; i++ {
			w = max(w, l.column(i).ThicknessPx(ctx))
		}
		return w
	}
	var w float32
	for i := 0; i < series; i++ {
		w += l.column(i).ThicknessPx(ctx)
	}
	return w + ctx.Dp(l.cfg.InnerSpacing)*float32(series-1)
}

func (l *ColumnLayer) UpdateHorizontalDimensions(ctx *MeasureContext, d *HorizontalDimensions, m model.LayerModel) {
	cm := m.(*model.ColumnModel)
	width := l.groupWidth(ctx, len(cm.Series))
	ctx.ensureLayerDimensions(d, width+ctx.Dp(l.cfg.Spacing), width/2)
}

func (l *ColumnLayer) UpdateInsets(*MeasureContext, HorizontalDimensions, *Insets, model.LayerModel) {}

func (l *ColumnLayer) PrepareForTransformation(m model.LayerModel, values ChartValues, state *store.MutableExtraStore) {
	var next *DrawingModel[ColumnPoint]
	if cm, ok := m.(*model.ColumnModel); ok {
		r := values.YRange(l.cfg.Axis)
		next = &DrawingModel[ColumnPoint]{
			Series:  make([]map[float64]ColumnPoint, len(cm.Series)),
			ZeroY:   clamp(float32(r.MaxY/r.Length()), 0, 1),
			Opacity: 1,
		}
		for i, s := range cm.Series {
			points := make(map[float64]ColumnPoint, len(s))
			for _, e := range s {
				points[e.X] = ColumnPoint{Height: float32(e.Y / r.Length())}
			}
			next.Series[i] = points
		}
	}
	animate(state, l.animKey, l.drawingKey, l.cfg.Interpolator, next)
}

func (l *ColumnLayer) Transform(state *store.MutableExtraStore, fraction float32) {
	transform(state, l.animKey, l.drawingKey, fraction)
}

type stackLabel struct {
	x        float64
	canvasX  float32
	top      float32
	bottom   float32
	positive float64
	negative float64
}

func (l *ColumnLayer) Draw(ctx *DrawContext, m model.LayerModel, targets *MarkerTargets) {
	cm := m.(*model.ColumnModel)
	mc := ctx.MeasureContext
	lb := ctx.LayerBounds
	r := ctx.Values.YRange(l.cfg.Axis)
	dm, _ := store.Get(ctx.Extras, l.drawingKey)
	opacity := float32(1)
	if dm != nil {
		opacity = dm.Opacity
	}
	zeroY := lb.Bottom + float32(r.MinY/r.Length())*lb.Height()
	groupWidth := l.groupWidth(mc, len(cm.Series))
	zoom := max(ctx.Zoom, 0)
	if zoom == 0 {
		zoom = 1
	}

	// Running stack extents per x, in canvas coordinates.
	positiveTop := make(map[float64]float32)
	negativeBottom := make(map[float64]float32)
	var stacks []*stackLabel
	stackIndex := make(map[float64]*stackLabel)

	offset := -groupWidth / 2
	for si, series := range cm.Series {
		column := l.column(si)
		thickness := column.ThicknessPx(mc)
		var info map[float64]ColumnPoint
		if dm != nil && si < len(dm.Series) {
			info = dm.Series[si]
		}
		walker := pointWalker{ctx: ctx, n: len(series), x: func(i int) float64 { return series[i].X }}
		walker.walk(func(i int, x float32, _, _ *float32) {
			e := series[i]
			height := float32(e.Y/r.Length()) * lb.Height()
			if p, ok := info[e.X]; ok {
				height = p.Height * lb.Height()
			}
			centerX := x
			if l.cfg.MergeMode == MergeGrouped {
				centerX = x + ctx.Direction()*(offset+thickness/2)
			}

			var top, bottom float32
			switch {
			case l.cfg.MergeMode == MergeStacked && height >= 0:
				base, ok := positiveTop[e.X]
				if !ok {
					base = zeroY
				}
				top, bottom = base-height, base
				positiveTop[e.X] = top
			case l.cfg.MergeMode == MergeStacked:
				base, ok := negativeBottom[e.X]
				if !ok {
					base = zeroY
				}
				top, bottom = base, base-height
				negativeBottom[e.X] = bottom
			case height >= 0:
				top, bottom = zeroY-height, zeroY
			default:
				top, bottom = zeroY, zeroY-height
			}
			if centerX+thickness/2 < lb.Left || centerX-thickness/2 > lb.Right {
				return
			}
			column.DrawVerticalAlpha(ctx, top, bottom, centerX, opacity)

			markY := top
			if e.Y < 0 {
				markY = bottom
			}
			pt := f32.Pt(centerX, clamp(markY, lb.Top, lb.Bottom))
			if centerX > lb.Left-1 && centerX < lb.Right+1 {
				targets.Add(e.X, x, MarkerPoint{
					Series: si,
					Entry:  e,
					Y:      e.Y,
					Canvas: pt,
					Color:  column.ColorAt(pt, lb),
				})
			}

			if l.cfg.DataLabel == nil {
				return
			}
			if l.cfg.MergeMode == MergeGrouped {
				l.drawLabel(ctx, e.Y, centerX, top, bottom, max(thickness, ctx.Dp(l.cfg.Spacing)*zoom))
				return
			}
			s, ok := stackIndex[e.X]
			if !ok {
				s = &stackLabel{x: e.X, canvasX: x, top: zeroY, bottom: zeroY}
				stackIndex[e.X] = s
				stacks = append(stacks, s)
			}
			s.top = min(s.top, top)
			s.bottom = max(s.bottom, bottom)
			if e.Y >= 0 {
				s.positive += e.Y
			} else {
				s.negative += e.Y
			}
		})
		if l.cfg.MergeMode == MergeGrouped {
			offset += thickness + ctx.Dp(l.cfg.InnerSpacing)
		}
	}

	for _, s := range stacks {
		maxWidth := ctx.Dimensions.XSpacing
		if s.positive > 0 || s.negative == 0 {
			l.drawLabel(ctx, s.positive, s.canvasX, s.top, s.bottom, maxWidth)
		}
		if s.negative < 0 {
			l.drawLabel(ctx, s.negative, s.canvasX, s.top, s.bottom, maxWidth)
		}
	}
}

// drawLabel draws a data label above a positive column's top or below a
// negative column's bottom, flipping inside the layer bounds when needed.
func (l *ColumnLayer) drawLabel(ctx *DrawContext, value float64, x, top, bottom, maxWidth float32) {
	text := l.cfg.DataLabelFormatter(value, ctx.Values, l.cfg.Axis)
	_, h := l.cfg.DataLabel.Bounds(ctx.MeasureContext, text, maxWidth, l.cfg.DataLabelRotation)
	y, pos := top, VerticalTop
	if value < 0 {
		y, pos = bottom, VerticalBottom
	}
	pos = pos.InBounds(ctx.LayerBounds, 0, h, y)
	l.cfg.DataLabel.Draw(ctx, text, x, y, HorizontalCenter, pos, l.cfg.DataLabelRotation, maxWidth)
}
