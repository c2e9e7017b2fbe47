package jukebox

import (
	"context"

	"github.com/go-errors/errors"
	"github.com/marlinbox/marlind/action"
	"github.com/marlinbox/marlind/library"
)

// request runs fn on the loop goroutine, which owns the library. The loop
// skips fn if ctx is done by the time it gets to the request.
type request struct {
	ctx   context.Context
	fn    func() error
	reply chan error
}

func (r *request) run() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}

	return r.fn()
}

// submit hands fn to the loop and waits for its answer. A request whose ctx is
// done before the loop gets to it is never run.
func (j *Jukebox) submit(ctx context.Context, fn func() error) error {
	req := &request{
		ctx:   ctx,
		fn:    fn,
		reply: make(chan error, 1),
	}

	select {
	case j.requests <- req:
	case <-j.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-j.done:
		return ErrStopped
	case <-ctx.Done():
	}

	// An answer that raced with the cancellation still wins.
	select {
	case err := <-req.reply:
		return err
	default:
		return ctx.Err()
	}
}

// Cards returns a snapshot of the library.
func (j *Jukebox) Cards(ctx context.Context) ([]library.Entry, error) {
	var entries []library.Entry

	err := j.submit(ctx, func() error {
		entries = j.library.Entries()
		return nil
	})

	return entries, err
}

// Bind binds the card to the action and persists the library. If persisting
// fails the previous binding is restored.
func (j *Jukebox) Bind(ctx context.Context, card string, a action.Action) error {
	if !a.Valid() {
		return errors.Errorf("cannot bind invalid action %v", a)
	}

	return j.submit(ctx, func() error {
		card := library.NormalizeCard(card)
		restore := j.snapshotCard(card)

		if err := j.library.Bind(card, a); err != nil {
			return err
		}

		if err := j.store.Save(j.library); err != nil {
			restore()
			return errors.Errorf("could not save library: %w", err)
		}

		j.log.Infof("Bound card %v to %v", card, a)

		return nil
	})
}

// Unbind removes the card from the library and persists it. If persisting
// fails the card is restored.
func (j *Jukebox) Unbind(ctx context.Context, card string) error {
	return j.submit(ctx, func() error {
		card := library.NormalizeCard(card)

		if _, known, _ := j.library.Entry(card); !known {
			return errors.Errorf("%w: %v", ErrUnknownCard, card)
		}

		restore := j.snapshotCard(card)
		j.library.Remove(card)

		if err := j.store.Save(j.library); err != nil {
			restore()
			return errors.Errorf("could not save library: %w", err)
		}

		j.log.Infof("Removed card %v", card)

		return nil
	})
}

// snapshotCard returns a func that puts the card back into its current state.
func (j *Jukebox) snapshotCard(card string) func() {
	a, known, bound := j.library.Entry(card)

	return func() {
		j.library.Remove(card)

		switch {
		case bound:
			_ = j.library.Bind(card, a)
		case known:
			j.library.Reserve(card)
		}
	}
}
