package cartesian

import (
	"image/color"

	"gioui.org/f32"
	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// Candle styles the candles of one direction. The body's thickness is the
// candle width.
type Candle struct {
	Body       LineComponent
	TopWick    *LineComponent
	BottomWick *LineComponent
}

// CandlePoint is the drawing-model info of one candle: its prices as
// fractions of the y range, from the bottom.
type CandlePoint struct {
	Open, Close, Low, High float32
}

// CandlePointInterpolator is the default interpolator of candlestick layers.
// Appearing and disappearing candles collapse onto their body's middle.
func CandlePointInterpolator() Interpolator[CandlePoint] {
	return DefaultInterpolator[CandlePoint]{
		Lerp: func(from, to CandlePoint, f float32) CandlePoint {
			return CandlePoint{
				Open:  lerp(from.Open, to.Open, f),
				Close: lerp(from.Close, to.Close, f),
				Low:   lerp(from.Low, to.Low, f),
				High:  lerp(from.High, to.High, f),
			}
		},
		Neutral: func(p CandlePoint, _ float32) CandlePoint {
			mid := (p.Open + p.Close) / 2
			return CandlePoint{Open: mid, Close: mid, Low: mid, High: mid}
		},
	}
}

// CandlestickLayerConfig configures a CandlestickLayer.
type CandlestickLayerConfig struct {
	Bullish, Neutral, Bearish Candle
	// MinBodyHeight keeps flat candles visible. It defaults to 1dp.
	MinBodyHeight unit.Dp
	// Spacing separates neighboring candles. It defaults to 4dp.
	Spacing      unit.Dp
	Axis         AxisPosition
	Overrider    AxisValueOverrider
	Interpolator Interpolator[CandlePoint]
}

// DefaultCandles returns green bullish, gray neutral and red bearish candles
// with wicks.
func DefaultCandles() (bullish, neutral, bearish Candle) {
	candle := func(c color.NRGBA) Candle {
		wick := &LineComponent{Color: c, Thickness: 1}
		return Candle{Body: LineComponent{Color: c, Thickness: 8}, TopWick: wick, BottomWick: wick}
	}
	return candle(color.NRGBA{R: 0x0a, G: 0xb2, B: 0x5e, A: 0xff}),
		candle(color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}),
		candle(color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff})
}

// CandlestickLayer draws open/high/low/close candles.
type CandlestickLayer struct {
	cfg        CandlestickLayerConfig
	drawingKey store.Key[*DrawingModel[CandlePoint]]
	animKey    store.Key[*Animator[CandlePoint]]
}

var _ Layer = (*CandlestickLayer)(nil)

// NewCandlestickLayer builds a candlestick layer. Candles whose body has no
// thickness fall back to DefaultCandles.
func NewCandlestickLayer(cfg CandlestickLayerConfig) (*CandlestickLayer, error) {
	if err := checkLayerAxis(cfg.Axis); err != nil {
		return nil, err
	}
	bullish, neutral, bearish := DefaultCandles()
	if cfg.Bullish.Body.Thickness == 0 {
		cfg.Bullish = bullish
	}
	if cfg.Neutral.Body.Thickness == 0 {
		cfg.Neutral = neutral
	}
	if cfg.Bearish.Body.Thickness == 0 {
		cfg.Bearish = bearish
	}
	if cfg.MinBodyHeight == 0 {
		cfg.MinBodyHeight = 1
	}
	if cfg.Spacing == 0 {
		cfg.Spacing = 4
	}
	cfg.Overrider = overriderOrDefault(cfg.Overrider)
	if cfg.Interpolator == nil {
		cfg.Interpolator = CandlePointInterpolator()
	}
	return &CandlestickLayer{
		cfg:        cfg,
		drawingKey: store.NewKey[*DrawingModel[CandlePoint]]("candlestick drawing model"),
		animKey:    store.NewKey[*Animator[CandlePoint]]("candlestick animator"),
	}, nil
}

// MustCandlestickLayer is NewCandlestickLayer that panics on error.
func MustCandlestickLayer(cfg CandlestickLayerConfig) *CandlestickLayer {
	l, err := NewCandlestickLayer(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *CandlestickLayer) candle(d model.Direction) *Candle {
	switch d {
	case model.Bullish:
		return &l.cfg.Bullish
	case model.Bearish:
		return &l.cfg.Bearish
	default:
		return &l.cfg.Neutral
	}
}

func (l *CandlestickLayer) Accepts(m model.LayerModel) bool {
	_, ok := m.(*model.CandlestickModel)
	return ok
}

func (l *CandlestickLayer) Axis() AxisPosition { return l.cfg.Axis }

func (l *CandlestickLayer) UpdateChartValues(b *ChartValuesBuilder, m model.LayerModel) {
	updateValues(b, l.cfg.Overrider, m.Bounds(), m, l.cfg.Axis)
}

func (l *CandlestickLayer) bodyWidth(ctx *MeasureContext) float32 {
	return max(l.cfg.Bullish.Body.ThicknessPx(ctx), l.cfg.Neutral.Body.ThicknessPx(ctx), l.cfg.Bearish.Body.ThicknessPx(ctx))
}

func (l *CandlestickLayer) UpdateHorizontalDimensions(ctx *MeasureContext, d *HorizontalDimensions, _ model.LayerModel) {
	width := l.bodyWidth(ctx)
	ctx.ensureLayerDimensions(d, width+ctx.Dp(l.cfg.Spacing), width/2)
}

func (l *CandlestickLayer) UpdateInsets(*MeasureContext, HorizontalDimensions, *Insets, model.LayerModel) {}

func (l *CandlestickLayer) PrepareForTransformation(m model.LayerModel, values ChartValues, state *store.MutableExtraStore) {
	var next *DrawingModel[CandlePoint]
	if cm, ok := m.(*model.CandlestickModel); ok {
		r := values.YRange(l.cfg.Axis)
		fraction := func(y float64) float32 { return float32((y - r.MinY) / r.Length()) }
		points := make(map[float64]CandlePoint, len(cm.Entries))
		for _, e := range cm.Entries {
			points[e.X] = CandlePoint{Open: fraction(e.Open), Close: fraction(e.Close), Low: fraction(e.Low), High: fraction(e.High)}
		}
		next = &DrawingModel[CandlePoint]{
			Series:  []map[float64]CandlePoint{points},
			ZeroY:   clamp(float32(r.MaxY/r.Length()), 0, 1),
			Opacity: 1,
		}
	}
	animate(state, l.animKey, l.drawingKey, l.cfg.Interpolator, next)
}

func (l *CandlestickLayer) Transform(state *store.MutableExtraStore, fraction float32) {
	transform(state, l.animKey, l.drawingKey, fraction)
}

func (l *CandlestickLayer) Draw(ctx *DrawContext, m model.LayerModel, targets *MarkerTargets) {
	cm := m.(*model.CandlestickModel)
	lb := ctx.LayerBounds
	r := ctx.Values.YRange(l.cfg.Axis)
	dm, _ := store.Get(ctx.Extras, l.drawingKey)
	opacity := float32(1)
	var info map[float64]CandlePoint
	if dm != nil {
		opacity = dm.Opacity
		if len(dm.Series) > 0 {
			info = dm.Series[0]
		}
	}
	canvasY := func(fraction float32) float32 { return lb.Bottom - fraction*lb.Height() }
	minBody := ctx.Dp(l.cfg.MinBodyHeight)

	walker := pointWalker{ctx: ctx, n: len(cm.Entries), x: func(i int) float64 { return cm.Entries[i].X }}
	walker.walk(func(i int, x float32, _, _ *float32) {
		e := cm.Entries[i]
		p, ok := info[e.X]
		if !ok {
			fraction := func(y float64) float32 { return float32((y - r.MinY) / r.Length()) }
			p = CandlePoint{Open: fraction(e.Open), Close: fraction(e.Close), Low: fraction(e.Low), High: fraction(e.High)}
		}
		candle := l.candle(e.Direction())
		half := candle.Body.ThicknessPx(ctx.MeasureContext) / 2
		if x+half < lb.Left || x-half > lb.Right {
			return
		}
		bodyTop := canvasY(max(p.Open, p.Close))
		bodyBottom := canvasY(min(p.Open, p.Close))
		if bodyBottom-bodyTop < minBody {
			mid := (bodyTop + bodyBottom) / 2
			bodyTop, bodyBottom = mid-minBody/2, mid+minBody/2
		}
		candle.TopWick.DrawVerticalAlpha(ctx, canvasY(p.High), bodyTop, x, opacity)
		candle.BottomWick.DrawVerticalAlpha(ctx, bodyBottom, canvasY(p.Low), x, opacity)
		candle.Body.DrawVerticalAlpha(ctx, bodyTop, bodyBottom, x, opacity)

		if x > lb.Left-1 && x < lb.Right+1 {
			pt := f32.Pt(x, clamp(canvasY(p.Close), lb.Top, lb.Bottom))
			targets.Add(e.X, x, MarkerPoint{
				Entry:  e,
				Y:      e.Close,
				Canvas: pt,
				Color:  candle.Body.ColorAt(pt, lb),
			})
		}
	})
}
