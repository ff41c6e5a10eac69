package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"

	"git.sr.ht/~whereswaldon/cartesian/source"
	"git.sr.ht/~whereswaldon/cartesian/style"
)

//go:embed default.yaml
var defaultStyle []byte

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: interactive cartesian chart demo
Usage:

 %[1]s

charts randomly generated columns and lines, regenerated periodically.

 %[1]s -file data.csv -kind line

charts a CSV file whose first column holds x values, following appends to it.

`, os.Args[0])
	flag.PrintDefaults()
}

// Config holds the command-line configuration of the demo.
type Config struct {
	File     string
	Kind     source.Kind
	Style    *style.Document
	Interval time.Duration
	Seed     int64
}

func loadStyle(path string) (*style.Document, error) {
	var r io.Reader = bytes.NewReader(defaultStyle)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed opening style: %w", err)
		}
		defer f.Close()
		r = f
	}
	return style.Parse(r)
}

func main() {
	flag.Usage = usage
	file := flag.String("file", "", "CSV file to chart instead of generated data")
	kindName := flag.String("kind", source.KindLine.String(), "layer fed by CSV files: line, columns or candlesticks")
	stylePath := flag.String("style", "", "YAML chart style (the built-in style when empty)")
	interval := flag.Duration("interval", 2*time.Second, "Interval between generated models")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed of the data generator")
	flag.Parse()

	kind, err := source.ParseKind(*kindName)
	if err != nil {
		log.Fatalf("invalid -kind: %v", err)
	}
	doc, err := loadStyle(*stylePath)
	if err != nil {
		log.Fatalf("failed loading style: %v", err)
	}
	cfg := Config{
		File:     *file,
		Kind:     kind,
		Style:    doc,
		Interval: *interval,
		Seed:     *seed,
	}
	go func() {
		w := app.NewWindow(app.Title("Cartesian"), app.Size(unit.Dp(960), unit.Dp(640)))
		if err := loop(w, cfg); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	expl := explorer.NewExplorer(w)
	controller := stream.NewController(ctx, w.Invalidate)
	ui, err := NewUI(ctx, controller, expl, w.Invalidate, cfg)
	if err != nil {
		return err
	}
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
