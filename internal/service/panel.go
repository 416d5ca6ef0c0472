package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gpdecorators/site/internal/metrics"
)

// Record is anything with a backend identity.
type Record interface {
	RecordID() string
}

// Panel is the in-memory list behind one console tab. The list only
// changes after the backend confirms an operation; a failed call leaves it
// untouched.
type Panel[T Record] struct {
	resource string
	notifier *Notifier
	checkID  func(string) error

	mu      sync.Mutex
	items   []T
	loaded  bool
	loadErr string
	gen     uint64
}

func newPanel[T Record](resource string, n *Notifier, checkID func(string) error) *Panel[T] {
	if checkID == nil {
		checkID = pathIDCheck
	}
	return &Panel[T]{resource: resource, notifier: n, checkID: checkID}
}

// outcome is the notification text for a mutation.
type outcome struct {
	action string
	ok     string
	fail   string
	// failText, when set, builds the failure text from the backend error.
	failText func(error) string
}

func (o outcome) failure(err error) string {
	if errors.Is(err, ErrValidation) {
		return userMessage(err, o.fail)
	}
	if o.failText != nil {
		return o.failText(err)
	}
	return o.fail
}

// Items returns a copy of the current list.
func (p *Panel[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Panel[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Loaded reports whether a load has completed, successfully or not.
func (p *Panel[T]) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// LoadError is the banner text of the last failed load, or "".
func (p *Panel[T]) LoadError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

// Find returns the item with the given id.
func (p *Panel[T]) Find(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, it := range p.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// reset drops the list and invalidates any load in flight.
func (p *Panel[T]) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.items = nil
	p.loaded = false
	p.loadErr = ""
}

// load fetches the whole list. A load that finishes after a newer load or
// reset started is discarded. On failure the list is left empty.
func (p *Panel[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error), failMsg string) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	items, err := fetch(ctx)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		slog.Debug("discarding stale load", "resource", p.resource)
		return nil
	}
	p.loaded = true
	if err != nil {
		p.items = nil
		p.loadErr = failMsg
		p.mu.Unlock()
		slog.Warn("panel load failed", "resource", p.resource, "error", err)
		p.notifier.Error(failMsg)
		return err
	}
	p.items = items
	p.loadErr = ""
	p.mu.Unlock()
	return nil
}

// create calls the backend and prepends the record it returns.
func (p *Panel[T]) create(ctx context.Context, call func(context.Context) (T, error), o outcome) (T, error) {
	rec, err := call(ctx)
	if err != nil {
		var zero T
		return zero, p.fail("", o, err)
	}
	p.mu.Lock()
	p.items = append([]T{rec}, p.items...)
	p.mu.Unlock()
	p.succeed(o)
	return rec, nil
}

// replace calls the backend and swaps in the record it returns.
func (p *Panel[T]) replace(ctx context.Context, id string, call func(context.Context) (T, error), o outcome) (T, error) {
	var zero T
	if err := p.checkID(id); err != nil {
		return zero, p.fail(id, o, err)
	}
	rec, err := call(ctx)
	if err != nil {
		return zero, p.fail(id, o, err)
	}
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].RecordID() == id {
			p.items[i] = rec
		}
	}
	p.mu.Unlock()
	p.succeed(o)
	return rec, nil
}

// patch calls the backend and applies mutate to the matching local item.
func (p *Panel[T]) patch(ctx context.Context, id string, call func(context.Context) error, mutate func(T) T, o outcome) error {
	if err := p.checkID(id); err != nil {
		return p.fail(id, o, err)
	}
	if err := call(ctx); err != nil {
		return p.fail(id, o, err)
	}
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].RecordID() == id {
			p.items[i] = mutate(p.items[i])
		}
	}
	p.mu.Unlock()
	p.succeed(o)
	return nil
}

// remove deletes id on the backend and then locally. Unconfirmed removes
// return ErrNotConfirmed without calling the backend.
func (p *Panel[T]) remove(ctx context.Context, id string, confirmed bool, call func(context.Context) error, o outcome) error {
	if err := p.checkID(id); err != nil {
		return p.fail(id, o, err)
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := call(ctx); err != nil {
		return p.fail(id, o, err)
	}
	p.drop(id)
	p.succeed(o)
	return nil
}

// drop removes id from the local list. Absent ids are a no-op.
func (p *Panel[T]) drop(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.items[:0]
	for _, it := range p.items {
		if it.RecordID() != id {
			kept = append(kept, it)
		}
	}
	p.items = kept
}

func (p *Panel[T]) succeed(o outcome) {
	metrics.IncConsoleMutation(p.resource, o.action, true)
	p.notifier.Success(o.ok)
}

func (p *Panel[T]) fail(id string, o outcome, err error) error {
	metrics.IncConsoleMutation(p.resource, o.action, false)
	if errors.Is(err, ErrValidation) {
		slog.Info("console input rejected", "resource", p.resource, "action", o.action, "id", id, "error", err)
	} else {
		slog.Warn("console mutation failed", "resource", p.resource, "action", o.action, "id", id, "error", err)
	}
	p.notifier.Error(o.failure(err))
	return err
}
