package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"strconv"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/cartesian"
	"git.sr.ht/~whereswaldon/cartesian/giochart"
	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/source"
	"git.sr.ht/~whereswaldon/cartesian/style"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var pauseIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPause)
	return icon
}()

var playIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPlayArrow)
	return icon
}()

// generatedKinds are the layers of generated models, in model order.
var generatedKinds = []source.Kind{source.KindColumns, source.KindLine}

type loadResult struct {
	name  string
	table *source.Table
	err   error
}

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ctx        context.Context
	controller *stream.Controller
	expl       *explorer.Explorer
	invalidate func()
	cfg        Config
	th         *material.Theme

	chart    *giochart.Chart
	producer *model.Producer
	// stopSource cancels the task feeding the producer.
	stopSource context.CancelFunc
	generator  *model.RandomGenerator
	kinds      []source.Kind

	paused   bool
	pauseBtn widget.Clickable
	openBtn  widget.Clickable
	keyTable component.GridState
	loaded   chan loadResult
	status   string

	// split is the fraction of the layer width left of the marker, or 1
	// while the marker is hidden.
	split float32
}

// NewUI builds the demo UI and starts feeding its chart.
func NewUI(ctx context.Context, controller *stream.Controller, expl *explorer.Explorer, invalidate func(), cfg Config) (*UI, error) {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ctx:        ctx,
		controller: controller,
		expl:       expl,
		invalidate: invalidate,
		cfg:        cfg,
		th:         th,
		generator:  model.NewRandomGenerator(cfg.Seed),
		loaded:     make(chan loadResult, 1),
		split:      1,
	}
	if err := ui.resume(); err != nil {
		return nil, err
	}
	return ui, nil
}

// resume restarts the configured source: the watched file, or the
// generator.
func (ui *UI) resume() error {
	if ui.cfg.File != "" {
		if err := ui.use([]source.Kind{ui.cfg.Kind}); err != nil {
			return err
		}
		path, kind := ui.cfg.File, ui.cfg.Kind
		ui.startSource(func(ctx context.Context, p *model.Producer) error {
			return source.Watch(ctx, path, kind, p)
		})
		ui.status = path
		return nil
	}
	if err := ui.use(generatedKinds); err != nil {
		return err
	}
	ui.startGenerator()
	return nil
}

// buildChart configures a chart with one layer per kind.
func buildChart(doc *style.Document, kinds []source.Kind, onMarker func(cartesian.MarkerEvent), split func() float32) (*cartesian.Chart, error) {
	cfg := cartesian.ChartConfig{OnMarker: onMarker, FadingEdges: doc.Fading()}
	for _, kind := range kinds {
		var (
			layer cartesian.Layer
			err   error
		)
		switch kind {
		case source.KindLine:
			lines := doc.LineSpecs()
			for i := range lines {
				if lines[i].Background != nil {
					lines[i].SecondBackground = cartesian.SolidShader{Color: color.NRGBA{A: 0x10}}
					lines[i].SplitFraction = split
				}
			}
			layer, err = cartesian.NewLineLayer(cartesian.LineLayerConfig{Lines: lines})
		case source.KindColumns:
			layer, err = cartesian.NewColumnLayer(cartesian.ColumnLayerConfig{
				Columns:   doc.ColumnComponents(),
				MergeMode: cartesian.MergeStacked,
			})
		case source.KindCandlesticks:
			bullish, neutral, bearish := doc.CandleStyles()
			layer, err = cartesian.NewCandlestickLayer(cartesian.CandlestickLayerConfig{
				Bullish: bullish,
				Neutral: neutral,
				Bearish: bearish,
			})
		default:
			panic(fmt.Sprintf("unexpected kind %v", kind))
		}
		if err != nil {
			return nil, fmt.Errorf("failed building %s layer: %w", kind, err)
		}
		cfg.Layers = append(cfg.Layers, layer)
	}

	start, err := cartesian.NewVerticalAxis(cartesian.PositionStart, cartesian.VerticalAxisConfig{Style: doc.AxisStyle(cartesian.PositionStart)})
	if err != nil {
		return nil, err
	}
	bottom, err := cartesian.NewHorizontalAxis(cartesian.PositionBottom, cartesian.HorizontalAxisConfig{Style: doc.AxisStyle(cartesian.PositionBottom)})
	if err != nil {
		return nil, err
	}
	cfg.StartAxis, cfg.BottomAxis = start, bottom
	if doc.HasAxis(cartesian.PositionEnd) {
		end, err := cartesian.NewVerticalAxis(cartesian.PositionEnd, cartesian.VerticalAxisConfig{Style: doc.AxisStyle(cartesian.PositionEnd)})
		if err != nil {
			return nil, err
		}
		cfg.EndAxis = end
	}
	if doc.HasAxis(cartesian.PositionTop) {
		top, err := cartesian.NewHorizontalAxis(cartesian.PositionTop, cartesian.HorizontalAxisConfig{Style: doc.AxisStyle(cartesian.PositionTop)})
		if err != nil {
			return nil, err
		}
		cfg.TopAxis = top
	}
	if m := doc.DefaultMarker(); m != nil {
		cfg.Marker = m
	}
	return cartesian.NewChart(cfg)
}

// use replaces the chart with one drawing the given kinds, fed by a new
// producer.
func (ui *UI) use(kinds []source.Kind) error {
	var c *cartesian.Chart
	c, err := buildChart(ui.cfg.Style, kinds, func(ev cartesian.MarkerEvent) {
		if ev.Kind == cartesian.MarkerHidden {
			ui.split = 1
			return
		}
		if lb := c.LayerBounds(); lb.Width() > 0 {
			ui.split = (ev.CanvasX - lb.Left) / lb.Width()
		}
	}, func() float32 { return ui.split })
	if err != nil {
		return err
	}
	session := cartesian.NewSession(c, nil)
	session.Interaction.Scroll.AutoCondition = cartesian.AutoScrollOnModelSizeIncreased
	ui.chart = giochart.NewChart(session, ui.th.Shaper)
	ui.chart.Background = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ui.chart.Placeholder = func(gtx C) D {
		return layout.Center.Layout(gtx, material.Body1(ui.th, "No data yet.").Layout)
	}
	ui.producer = model.NewProducer()
	ui.chart.Follow(ui.controller, ui.producer)
	ui.kinds = kinds
	return nil
}

// startSource runs feed until the source is replaced or paused.
func (ui *UI) startSource(feed func(ctx context.Context, p *model.Producer) error) {
	if ui.stopSource != nil {
		ui.stopSource()
	}
	ctx, cancel := context.WithCancel(ui.ctx)
	ui.stopSource = cancel
	p := ui.producer
	go func() {
		if err := feed(ctx, p); err != nil && ctx.Err() == nil {
			log.Printf("data source stopped: %v", err)
		}
	}()
}

func (ui *UI) startGenerator() {
	build := ui.generator.Build(2, 1, false)
	interval := ui.cfg.Interval
	ui.startSource(func(ctx context.Context, p *model.Producer) error {
		return source.RepeatTransaction(ctx, p, interval, build)
	})
	ui.status = "Generated data"
}

func (ui *UI) stop() {
	if ui.stopSource != nil {
		ui.stopSource()
		ui.stopSource = nil
	}
}

func (ui *UI) openFile() {
	kind := ui.cfg.Kind
	go func() {
		file, err := ui.expl.ChooseFile("csv")
		if err != nil {
			ui.loaded <- loadResult{err: err}
			ui.invalidate()
			return
		}
		defer file.Close()
		table, err := source.ReadTable(file, kind)
		ui.loaded <- loadResult{name: "Opened file", table: table, err: err}
		ui.invalidate()
	}()
}

// Update processes the UI's events.
func (ui *UI) Update(gtx C) {
	if ui.pauseBtn.Clicked(gtx) {
		ui.paused = !ui.paused
		if ui.paused {
			ui.stop()
		} else if err := ui.resume(); err != nil {
			log.Printf("failed resuming: %v", err)
		}
	}
	if ui.openBtn.Clicked(gtx) {
		ui.openFile()
	}
	select {
	case res := <-ui.loaded:
		if res.err != nil {
			ui.status = res.err.Error()
			break
		}
		ui.stop()
		ui.paused = true
		if err := ui.use([]source.Kind{res.table.Kind}); err != nil {
			ui.status = err.Error()
			break
		}
		table := res.table
		ui.startSource(func(ctx context.Context, p *model.Producer) error {
			return p.RunTransaction(ctx, table.Build)
		})
		ui.status = res.name
	default:
	}
	if ui.chart.Err != nil {
		ui.status = ui.chart.Err.Error()
	}
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Flexed(1, ui.chart.Layout),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, gtx.Dp(120))
			return ui.layoutKey(gtx)
		}),
	)
}

func (ui *UI) layoutToolbar(gtx C) D {
	return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				icon := pauseIcon
				if ui.paused {
					icon = playIcon
				}
				return material.Clickable(gtx, &ui.pauseBtn, func(gtx C) D {
					return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
						gtx.Constraints.Min = image.Pt(gtx.Dp(24), gtx.Dp(24))
						return icon.Layout(gtx, ui.th.Fg)
					})
				})
			}),
			layout.Rigid(layout.Spacer{Width: 8}.Layout),
			layout.Rigid(material.Button(ui.th, &ui.openBtn, "Open CSV").Layout),
			layout.Rigid(layout.Spacer{Width: 8}.Layout),
			layout.Flexed(1, material.Body2(ui.th, ui.status).Layout),
		)
	})
}

// keyRow describes one series of the displayed model.
type keyRow struct {
	color   color.NRGBA
	name    string
	entries int
	last    float64
}

func (ui *UI) keyRows() []keyRow {
	m := ui.chart.Session.Model()
	if m.Empty() {
		return nil
	}
	doc := ui.cfg.Style
	lines, columns := doc.LineSpecs(), doc.ColumnComponents()
	var rows []keyRow
	for i, layer := range m.Layers {
		switch l := layer.(type) {
		case *model.LineModel:
			for j, s := range l.Series {
				if len(s) == 0 {
					continue
				}
				r := keyRow{name: fmt.Sprintf("Layer %d line %d", i+1, j+1), entries: len(s), last: s[len(s)-1].Y}
				if len(lines) > 0 {
					r.color = lines[j%len(lines)].Color
				}
				rows = append(rows, r)
			}
		case *model.ColumnModel:
			for j, s := range l.Series {
				if len(s) == 0 {
					continue
				}
				r := keyRow{name: fmt.Sprintf("Layer %d columns %d", i+1, j+1), entries: len(s), last: s[len(s)-1].Y}
				if len(columns) > 0 {
					r.color = columns[j%len(columns)].Color
				}
				rows = append(rows, r)
			}
		case *model.CandlestickModel:
			if len(l.Entries) == 0 {
				continue
			}
			bullish, _, _ := doc.CandleStyles()
			rows = append(rows, keyRow{
				color:   bullish.Body.Color,
				name:    fmt.Sprintf("Layer %d candles", i+1),
				entries: len(l.Entries),
				last:    l.Entries[len(l.Entries)-1].Close,
			})
		}
	}
	return rows
}

func (ui *UI) layoutKey(gtx C) D {
	th := ui.th
	rows := ui.keyRows()
	table := component.Table(th, &ui.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	numberColWidth := gtx.Dp(100)
	nameColWidth := max(gtx.Constraints.Max.X-colorColWidth-2*numberColWidth-gtx.Dp(table.VScrollbarStyle.Width()), 0)
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		nameCol
		entriesCol
		lastCol
		numCols
	)
	return table.Layout(gtx, len(rows), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case nameCol:
				size = nameColWidth
			case entriesCol, lastCol:
				size = numberColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Color")
			case nameCol:
				l = material.Body1(th, "Series")
				l.Alignment = text.Middle
			case entriesCol:
				l = material.Body1(th, "Entries")
				l.Alignment = text.End
			case lastCol:
				l = material.Body1(th, "Last")
				l.Alignment = text.End
			default:
				l = material.Body1(th, "???")
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			r := rows[row]
			switch col {
			case colorCol:
				return layout.UniformInset(unit.Dp(2)).Layout(gtx, func(gtx C) D {
					paint.FillShape(gtx.Ops, r.color, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Max}
				})
			case nameCol:
				return material.Body1(th, r.name).Layout(gtx)
			case entriesCol:
				l := material.Body1(th, strconv.Itoa(r.entries))
				l.Alignment = text.End
				return l.Layout(gtx)
			case lastCol:
				l := material.Body1(th, strconv.FormatFloat(r.last, 'f', 2, 64))
				l.Alignment = text.End
				return l.Layout(gtx)
			default:
				return D{}
			}
		},
	)
}
