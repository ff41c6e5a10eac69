package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

var errWatcherClosed = errors.New("file watcher closed")

// Watch publishes the CSV file at path through p, then publishes again every
// time records are appended to it. Opening the file is retried with
// exponential backoff, so Watch may be started before the file exists.
// Malformed records are logged and skipped. Watch returns when ctx is done.
func Watch(ctx context.Context, path string, kind Kind, p *model.Producer) error {
	var f *os.File
	open := func() error {
		var err error
		f, err = os.Open(path)
		return err
	}
	retry := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	notify := func(err error, next time.Duration) {
		log.Printf("failed opening %q, retrying in %v: %v", path, next, err)
	}
	if err := backoff.RetryNotify(open, retry, notify); err != nil {
		return fmt.Errorf("failed opening %q: %w", path, err)
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed watching %q: %w", path, err)
	}

	csvReader := newCSVReader(NewLineReader(f))
	var table *Table
	published := 0
	for {
		rec, err := csvReader.Read()
		if err == nil {
			if table == nil {
				if table, err = NewTable(kind, rec); err != nil {
					return fmt.Errorf("%q: %w", path, err)
				}
				continue
			}
			if err := table.Append(rec); err != nil {
				log.Printf("skipping record of %q: %v", path, err)
			}
			continue
		}
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed reading %q: %w", path, err)
		}
		if table != nil && table.Len() > published {
			published = table.Len()
			if err := p.RunTransaction(ctx, table.Build); err != nil && !errors.Is(err, model.ErrSuperseded) {
				log.Printf("failed publishing %q: %v", path, err)
			}
		}
		if err := awaitWrite(ctx, watcher); err != nil {
			return err
		}
	}
}

// awaitWrite blocks until the watched file is written to.
func awaitWrite(ctx context.Context, w *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return errWatcherClosed
			}
			if ev.Has(fsnotify.Write) {
				return nil
			}
		case err, ok := <-w.Errors:
			if !ok {
				return errWatcherClosed
			}
			log.Printf("file watcher: %v", err)
		}
	}
}
