// Package controller keeps client-side views of the back-office collections.
// A controller loads a full collection through a service, exposes it as a
// State snapshot and reloads the whole collection after every successful
// mutation. Each controller owns a context that Close cancels.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by operations started after Close.
var ErrClosed = errors.New("controller closed")

// Status of a controller's last load.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// State is a snapshot of a collection. Items is nil until the first
// successful load and keeps the last loaded value when a reload fails.
type State[T any] struct {
	Status   Status
	Items    []T
	Err      error
	LoadedAt time.Time
}

// Loaded reports whether at least one load has succeeded.
func (s State[T]) Loaded() bool { return !s.LoadedAt.IsZero() }

// IsLoading mirrors the loading flag of the dashboard views.
func (s State[T]) IsLoading() bool { return s.Status == Loading }

// Loader fetches the whole collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// NormalizeError turns any recovered or returned value into an error.
func NormalizeError(v any) error {
	switch e := v.(type) {
	case nil:
		return nil
	case error:
		return e
	case string:
		return errors.New(e)
	default:
		return fmt.Errorf("%v", e)
	}
}

// scope ties operations to the controller lifetime.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newScope() scope {
	ctx, cancel := context.WithCancel(context.Background())
	return scope{ctx: ctx, cancel: cancel}
}

// bind returns a context cancelled when either the caller's ctx or the
// controller's lifetime ends.
func (s scope) bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, nil, ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() { stop(); cancel() }, nil
}

// Collection is the generic list controller.
type Collection[T any] struct {
	name string
	load Loader[T]
	log  *logrus.Entry

	scope scope

	mu    sync.RWMutex
	state State[T]
	subs  []func(State[T])
	clock func() time.Time
}

// NewCollection builds an idle collection. logger may be nil.
func NewCollection[T any](name string, load Loader[T], logger *logrus.Logger) *Collection[T] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Collection[T]{
		name:  name,
		load:  load,
		log:   logger.WithField("controller", name),
		scope: newScope(),
		clock: time.Now,
	}
}

// State returns the current snapshot.
func (c *Collection[T]) State() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Items returns the last loaded items.
func (c *Collection[T]) Items() []T { return c.State().Items }

// Subscribe registers fn to receive every state transition.
func (c *Collection[T]) Subscribe(fn func(State[T])) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Load fetches the full collection. Loading moves to Ready with the items
// replaced, or to Errored with the previous items kept.
func (c *Collection[T]) Load(ctx context.Context) error {
	ctx, done, err := c.scope.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	c.set(func(s *State[T]) { s.Status = Loading })

	items, err := c.fetch(ctx)
	if err != nil {
		c.log.WithError(err).Warn("load failed")
		c.set(func(s *State[T]) {
			s.Status = Errored
			s.Err = err
		})
		return err
	}
	if items == nil {
		items = []T{}
	}
	now := c.clock()
	c.set(func(s *State[T]) {
		s.Status = Ready
		s.Items = items
		s.Err = nil
		s.LoadedAt = now
	})
	return nil
}

// Refresh is Load under the dashboard's name for it.
func (c *Collection[T]) Refresh(ctx context.Context) error { return c.Load(ctx) }

// Mutate runs fn and reloads the whole collection once it succeeds.
// An error from fn is returned unchanged and leaves the state untouched.
// A failed reload after a committed mutation is reported through State
// only; the caller still gets nil.
// Two overlapping mutations both reload; whichever reload finishes last wins.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, done, err := c.scope.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := fn(ctx); err != nil {
		return err
	}
	if err := c.Load(ctx); err != nil {
		c.log.WithError(err).Warn("reload after mutation failed")
	}
	return nil
}

// Close cancels every load or mutation started through the controller.
func (c *Collection[T]) Close() { c.scope.cancel() }

func (c *Collection[T]) fetch(ctx context.Context) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NormalizeError(r)
		}
	}()
	return c.load(ctx)
}

func (c *Collection[T]) set(update func(*State[T])) {
	c.mu.Lock()
	update(&c.state)
	st := c.state
	subs := append([]func(State[T]){}, c.subs...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}

// Mutation runs fn through c.Mutate and returns its result.
func Mutation[T, R any](ctx context.Context, c *Collection[T], fn func(ctx context.Context) (R, error)) (R, error) {
	var out R
	err := c.Mutate(ctx, func(ctx context.Context) error {
		r, err := fn(ctx)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	return out, err
}
