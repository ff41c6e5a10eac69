package cartesian

import (
	"image/color"

	"gioui.org/f32"
	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// LineSpec styles one series of a line layer.
type LineSpec struct {
	Color color.NRGBA
	// Shader overrides Color.
	Shader Shader
	// Thickness defaults to 2dp.
	Thickness unit.Dp
	// Background fills the area between the line and the zero line.
	Background Shader
	Point      *ShapeComponent
	// PointSize defaults to 16dp when Point is set.
	PointSize unit.Dp
	// Connector defaults to a cubic connector of DefaultCurvature.
	Connector          PointConnector
	DataLabel          *TextComponent
	DataLabelPosition  VerticalPosition
	DataLabelFormatter ValueFormatter
	DataLabelRotation  float32

	// SecondBackground replaces Background to the end side of the split.
	SecondBackground Shader
	// SplitFraction returns the fraction of the layer width at which the
	// background switches to SecondBackground. A nil SplitFraction draws
	// no split.
	SplitFraction func() float32
}

func (s *LineSpec) applyDefaults() {
	if s.Thickness == 0 {
		s.Thickness = 2
	}
	if s.Point != nil && s.PointSize == 0 {
		s.PointSize = 16
	}
	if s.Connector == nil {
		s.Connector = CubicConnector{curvature: DefaultCurvature}
	}
	if s.DataLabelFormatter == nil {
		s.DataLabelFormatter = DecimalFormatter(2)
	}
}

func (s *LineSpec) brush(r Rect) Brush {
	if s.Shader != nil {
		return s.Shader.Brush(r)
	}
	return SolidBrush(s.Color)
}

func (s *LineSpec) colorAt(p f32.Point, r Rect) color.NRGBA {
	if s.Shader != nil {
		return s.Shader.ColorAt(p, r)
	}
	return s.Color
}

func (s *LineSpec) pointSize() unit.Dp {
	if s.Point == nil {
		return 0
	}
	return s.PointSize
}

// LinePoint is the drawing-model info of one line entry: the fraction of the
// y range, from the bottom, at which it sits.
type LinePoint struct {
	Y float32
}

// LinePointInterpolator is the default interpolator of line layers.
func LinePointInterpolator() Interpolator[LinePoint] {
	return DefaultInterpolator[LinePoint]{
		Lerp: func(from, to LinePoint, f float32) LinePoint {
			return LinePoint{Y: lerp(from.Y, to.Y, f)}
		},
		Neutral: func(_ LinePoint, zeroY float32) LinePoint {
			return LinePoint{Y: 1 - zeroY}
		},
	}
}

// LineLayerConfig configures a LineLayer.
type LineLayerConfig struct {
	// Lines style the series; series i uses Lines[i%len(Lines)].
	Lines []LineSpec
	// PointSpacing is the room between the largest points of neighboring
	// entries. It defaults to 32dp.
	PointSpacing unit.Dp
	Axis         AxisPosition
	Overrider    AxisValueOverrider
	Interpolator Interpolator[LinePoint]
}

// LineLayer draws line series.
type LineLayer struct {
	cfg        LineLayerConfig
	drawingKey store.Key[*DrawingModel[LinePoint]]
	animKey    store.Key[*Animator[LinePoint]]
}

var _ Layer = (*LineLayer)(nil)

// NewLineLayer builds a line layer.
func NewLineLayer(cfg LineLayerConfig) (*LineLayer, error) {
	if err := checkLayerAxis(cfg.Axis); err != nil {
		return nil, err
	}
	if len(cfg.Lines) == 0 {
		cfg.Lines = []LineSpec{{Color: color.NRGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xff}}}
	} else {
		cfg.Lines = append([]LineSpec(nil), cfg.Lines...)
	}
	for i := range cfg.Lines {
		cfg.Lines[i].applyDefaults()
	}
	if cfg.PointSpacing == 0 {
		cfg.PointSpacing = 32
	}
	cfg.Overrider = overriderOrDefault(cfg.Overrider)
	if cfg.Interpolator == nil {
		cfg.Interpolator = LinePointInterpolator()
	}
	return &LineLayer{
		cfg:        cfg,
		drawingKey: store.NewKey[*DrawingModel[LinePoint]]("line drawing model"),
		animKey:    store.NewKey[*Animator[LinePoint]]("line animator"),
	}, nil
}

// MustLineLayer is NewLineLayer that panics on error.
func MustLineLayer(cfg LineLayerConfig) *LineLayer {
	l, err := NewLineLayer(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *LineLayer) spec(series int) *LineSpec {
	return &l.cfg.Lines[series%len(l.cfg.Lines)]
}

func (l *LineLayer) Accepts(m model.LayerModel) bool {
	_, ok := m.(*model.LineModel)
	return ok
}

func (l *LineLayer) Axis() AxisPosition { return l.cfg.Axis }

func (l *LineLayer) UpdateChartValues(b *ChartValuesBuilder, m model.LayerModel) {
	updateValues(b, l.cfg.Overrider, m.Bounds(), m, l.cfg.Axis)
}

func (l *LineLayer) maxPointSize(ctx *MeasureContext, series int) float32 {
	var size unit.Dp
	for i := 0; i < max(series, 1); i++ {
		size = max(size, l.spec(i).pointSize())
	}
	return ctx.Dp(size)
}

func (l *LineLayer) UpdateHorizontalDimensions(ctx *MeasureContext, d *HorizontalDimensions, m model.LayerModel) {
	lm := m.(*model.LineModel)
	pointSize := l.maxPointSize(ctx, len(lm.Series))
	ctx.ensureLayerDimensions(d, pointSize+ctx.Dp(l.cfg.PointSpacing), pointSize/2)
}

func (l *LineLayer) UpdateInsets(ctx *MeasureContext, _ HorizontalDimensions, insets *Insets, m model.LayerModel) {
	lm := m.(*model.LineModel)
	var inset unit.Dp
	for i := 0; i < max(len(lm.Series), 1); i++ {
		s := l.spec(i)
		inset = max(inset, s.Thickness, s.pointSize())
	}
	half := ctx.Dp(inset) / 2
	insets.EnsureVertical(half, half)
}

func (l *LineLayer) drawingModel(m *model.LineModel, values ChartValues) *DrawingModel[LinePoint] {
	r := values.YRange(l.cfg.Axis)
	dm := &DrawingModel[LinePoint]{
		Series:  make([]map[float64]LinePoint, len(m.Series)),
		ZeroY:   clamp(float32(r.MaxY/r.Length()), 0, 1),
		Opacity: 1,
	}
	for i, s := range m.Series {
		points := make(map[float64]LinePoint, len(s))
		for _, e := range s {
			points[e.X] = LinePoint{Y: float32((e.Y - r.MinY) / r.Length())}
		}
		dm.Series[i] = points
	}
	return dm
}

func (l *LineLayer) PrepareForTransformation(m model.LayerModel, values ChartValues, state *store.MutableExtraStore) {
	var next *DrawingModel[LinePoint]
	if lm, ok := m.(*model.LineModel); ok {
		next = l.drawingModel(lm, values)
	}
	animate(state, l.animKey, l.drawingKey, l.cfg.Interpolator, next)
}

func (l *LineLayer) Transform(state *store.MutableExtraStore, fraction float32) {
	transform(state, l.animKey, l.drawingKey, fraction)
}

func (l *LineLayer) Draw(ctx *DrawContext, m model.LayerModel, targets *MarkerTargets) {
	lm := m.(*model.LineModel)
	lb := ctx.LayerBounds
	r := ctx.Values.YRange(l.cfg.Axis)
	dm, _ := store.Get(ctx.Extras, l.drawingKey)
	zeroY := clamp(float32(r.MaxY/r.Length()), 0, 1)
	opacity := float32(1)
	if dm != nil {
		zeroY, opacity = dm.ZeroY, dm.Opacity
	}

	for si, series := range lm.Series {
		spec := l.spec(si)
		var info map[float64]LinePoint
		if dm != nil && si < len(dm.Series) {
			info = dm.Series[si]
		}
		canvasY := func(e model.LineEntry) float32 {
			if p, ok := info[e.X]; ok {
				return lb.Bottom - p.Y*lb.Height()
			}
			return lb.Bottom - float32((e.Y-r.MinY)/r.Length())*lb.Height()
		}
		walker := pointWalker{ctx: ctx, n: len(series), x: func(i int) float64 { return series[i].X }}

		var path Path
		var prev f32.Point
		walker.walk(func(i int, x float32, _, _ *float32) {
			pt := f32.Pt(x, canvasY(series[i]))
			if path.Empty() {
				path.MoveTo(pt)
			} else {
				spec.Connector.Connect(ctx, &path, prev, pt)
			}
			prev = pt
			l.addMarkerTarget(ctx, targets, si, series[i], pt, spec)
		})
		if path.Empty() {
			continue
		}

		if spec.Background != nil {
			l.drawBackground(ctx, spec, &path, zeroY, opacity)
		}
		ctx.Canvas.StrokePath(&path, ctx.Dp(spec.Thickness), spec.brush(lb).WithAlpha(opacity))
		l.drawPointsAndLabels(ctx, spec, series, walker, canvasY)
	}
}

func (l *LineLayer) addMarkerTarget(ctx *DrawContext, targets *MarkerTargets, series int, e model.LineEntry, pt f32.Point, spec *LineSpec) {
	lb := ctx.LayerBounds
	if pt.X <= lb.Left-1 || pt.X >= lb.Right+1 {
		return
	}
	pt.Y = clamp(pt.Y, lb.Top, lb.Bottom)
	targets.Add(e.X, pt.X, MarkerPoint{
		Series: series,
		Entry:  e,
		Y:      e.Y,
		Canvas: pt,
		Color:  spec.colorAt(pt, lb),
	})
}

// drawBackground fills between the line and the zero line: above the zero
// line toward the bottom, below it toward the top, each clipped to its side.
func (l *LineLayer) drawBackground(ctx *DrawContext, spec *LineSpec, line *Path, zeroY, opacity float32) {
	lb := ctx.LayerBounds
	split := float32(1)
	if spec.SplitFraction != nil && spec.SecondBackground != nil {
		split = clamp(spec.SplitFraction(), 0, 1)
	}
	splitX := lb.Left + lb.Width()*split
	if !ctx.LTR {
		splitX = lb.Right - lb.Width()*split
	}
	first, second := Rect{Left: lb.Left, Top: lb.Top, Right: splitX, Bottom: lb.Bottom}, Rect{Left: splitX, Top: lb.Top, Right: lb.Right, Bottom: lb.Bottom}
	if !ctx.LTR {
		first, second = second, first
	}
	if split > 0 {
		l.fillBackground(ctx, spec.Background, first, line, zeroY, opacity)
	}
	if split < 1 {
		l.fillBackground(ctx, spec.SecondBackground, second, line, zeroY, opacity)
	}
}

func (l *LineLayer) fillBackground(ctx *DrawContext, shader Shader, clip Rect, line *Path, zeroFraction, opacity float32) {
	lb := ctx.LayerBounds
	zeroY := lb.Top + zeroFraction*lb.Height()
	bounds := line.Bounds()
	closeTo := func(y float32) *Path {
		p := line.Clone()
		p.LineTo(f32.Pt(bounds.End(ctx.LTR), y))
		p.LineTo(f32.Pt(bounds.Start(ctx.LTR), y))
		p.Close()
		return p
	}
	if zeroFraction > 0 {
		above := Rect{Left: clip.Left, Top: lb.Top, Right: clip.Right, Bottom: zeroY}
		ctx.Canvas.PushClip(above)
		ctx.Canvas.FillPath(closeTo(lb.Bottom), shader.Brush(Rect{Left: lb.Left, Top: lb.Top, Right: lb.Right, Bottom: zeroY}).WithAlpha(opacity))
		ctx.Canvas.PopClip()
	}
	if zeroFraction < 1 {
		below := Rect{Left: clip.Left, Top: zeroY, Right: clip.Right, Bottom: lb.Bottom}
		ctx.Canvas.PushClip(below)
		ctx.Canvas.FillPath(closeTo(lb.Top), shader.Brush(Rect{Left: lb.Left, Top: zeroY, Right: lb.Right, Bottom: lb.Bottom}).WithAlpha(opacity))
		ctx.Canvas.PopClip()
	}
}

func (l *LineLayer) drawPointsAndLabels(ctx *DrawContext, spec *LineSpec, series []model.LineEntry, walker pointWalker, canvasY func(model.LineEntry) float32) {
	if spec.Point == nil && spec.DataLabel == nil {
		return
	}
	mc := ctx.MeasureContext
	values := ctx.Values
	d := ctx.Dimensions
	walker.walk(func(i int, x float32, prev, next *float32) {
		e := series[i]
		y := canvasY(e)
		if spec.Point != nil {
			half := ctx.Dp(spec.PointSize) / 2
			spec.Point.Draw(ctx, Rect{Left: x - half, Top: y - half, Right: x + half, Bottom: y + half})
		}
		if spec.DataLabel == nil {
			return
		}
		if ctx.Layout.Mode != LayoutSegmented &&
			(e.X == values.MinX && d.StartPadding() <= 0 || e.X == values.MaxX && d.EndPadding() <= 0) {
			return
		}
		distance := ctx.Dp(max(spec.Thickness, spec.pointSize())) / 2
		text := spec.DataLabelFormatter(e.Y, values, l.cfg.Axis)
		maxWidth := maxDataLabelWidth(ctx, e.X, x, prev, next)
		_, h := spec.DataLabel.Bounds(mc, text, maxWidth, spec.DataLabelRotation)
		pos := spec.DataLabelPosition.InBounds(ctx.LayerBounds, distance, h, y)
		labelY := y
		switch pos {
		case VerticalTop:
			labelY -= distance
		case VerticalBottom:
			labelY += distance
		}
		spec.DataLabel.Draw(ctx, text, x, labelY, HorizontalCenter, pos, spec.DataLabelRotation, maxWidth)
	})
}

// maxDataLabelWidth is the room available to the data label of the entry at
// x: the smaller of the gaps to its neighbors, or the padding at the chart
// edges.
func maxDataLabelWidth(ctx *DrawContext, entryX float64, x float32, prev, next *float32) float32 {
	d := ctx.Dimensions
	v := ctx.Values
	switch {
	case prev != nil && next != nil:
		return min(abs32(x-*prev), abs32(*next-x))
	case prev == nil && next == nil:
		return min(d.StartPadding(), d.EndPadding()) * 2
	case next != nil:
		extra := d.StartPadding()
		if ctx.Layout.Mode == LayoutSegmented {
			extra = d.XSpacing / 2
		}
		return min((float32((entryX-v.MinX)/v.XStep)*d.XSpacing+extra)*2, abs32(*next-x))
	default:
		extra := d.EndPadding()
		if ctx.Layout.Mode == LayoutSegmented {
			extra = d.XSpacing / 2
		}
		return min((float32((v.MaxX-entryX)/v.XStep)*d.XSpacing+extra)*2, abs32(x-*prev))
	}
}
