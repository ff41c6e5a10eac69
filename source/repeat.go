package source

import (
	"context"
	"errors"
	"log"
	"time"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

// Repeat calls fn right away and then once per interval until ctx is done.
// Errors from fn are logged and do not stop the repetition. A call still
// running when the next tick arrives delays it.
func Repeat(ctx context.Context, interval time.Duration, fn func(ctx context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := fn(ctx); err != nil && !errors.Is(err, model.ErrSuperseded) && ctx.Err() == nil {
			log.Printf("repeated task failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}

// RepeatTransaction publishes a model built by build through p once per
// interval until ctx is done.
func RepeatTransaction(ctx context.Context, p *model.Producer, interval time.Duration, build func(context.Context, *model.Transaction) error) error {
	return Repeat(ctx, interval, func(ctx context.Context) error {
		return p.RunTransaction(ctx, build)
	})
}
