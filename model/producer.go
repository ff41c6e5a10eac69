package model

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrSuperseded is returned by RunTransaction when a later transaction
// started before this one could publish its model.
var ErrSuperseded = errors.New("model transaction superseded")

// Snapshot is one published model along with the model it replaced.
type Snapshot struct {
	Model    *ChartModel
	Previous *ChartModel
	// Generation increases with every published snapshot.
	Generation uint64
}

// Producer turns transactions into chart models and publishes them to the UI.
// Transactions may run on any goroutine. Only the most recently started
// transaction can publish; earlier in-flight transactions are cancelled and
// their results discarded.
type Producer struct {
	mu        sync.Mutex
	started   uint64
	published uint64
	cancel    context.CancelFunc
	current   atomic.Pointer[Snapshot]
	subs      map[chan *Snapshot]struct{}
}

// NewProducer returns a producer with no model.
func NewProducer() *Producer {
	return &Producer{subs: make(map[chan *Snapshot]struct{})}
}

// RunTransaction builds a new model from the layers that build adds to the
// transaction and publishes it. build should return promptly once ctx is
// done.
func (p *Producer) RunTransaction(ctx context.Context, build func(ctx context.Context, tx *Transaction) error) error {
	p.mu.Lock()
	p.started++
	gen := p.started
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	superseded := func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.started != gen
	}

	var tx Transaction
	err := build(ctx, &tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if superseded() {
			return ErrSuperseded
		}
		return err
	}
	m, err := tx.Commit(ctx)
	if err != nil {
		if superseded() {
			return ErrSuperseded
		}
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started != gen {
		return ErrSuperseded
	}
	p.cancel = nil
	p.published++
	snap := &Snapshot{Model: m, Generation: p.published}
	if prev := p.current.Load(); prev != nil {
		snap.Previous = prev.Model
	}
	p.current.Store(snap)
	for ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
	return nil
}

// Latest returns the most recently published snapshot, or nil if no model
// has been published yet.
func (p *Producer) Latest() *Snapshot {
	return p.current.Load()
}

// Stream emits the latest snapshot immediately (if any) and then every
// subsequent one. Slow readers only observe the newest snapshot. The channel
// is closed when ctx is done.
func (p *Producer) Stream(ctx context.Context) <-chan *Snapshot {
	ch := make(chan *Snapshot, 1)
	p.mu.Lock()
	if p.subs == nil {
		p.subs = make(map[chan *Snapshot]struct{})
	}
	p.subs[ch] = struct{}{}
	if snap := p.current.Load(); snap != nil {
		ch <- snap
	}
	p.mu.Unlock()
	go func() {
		<-ctx.Done()
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, ch)
		close(ch)
	}()
	return ch
}
