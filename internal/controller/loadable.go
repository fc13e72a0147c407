package controller

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Loadable is a single derived value. Idle means it has not been fetched
// yet, so a zero Value is never mistaken for real data.
type Loadable[T any] struct {
	Status   Status
	Value    T
	Err      error
	LoadedAt time.Time
}

// Get returns the value and whether it has been loaded.
func (l Loadable[T]) Get() (T, bool) { return l.Value, !l.LoadedAt.IsZero() }

// Value controls one Loadable, e.g. KYC metrics.
type Value[T any] struct {
	fetchFn func(ctx context.Context) (T, error)
	log     *logrus.Entry
	scope   scope

	mu sync.RWMutex
	v  Loadable[T]
}

func NewValue[T any](name string, fetch func(ctx context.Context) (T, error), logger *logrus.Logger) *Value[T] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Value[T]{
		fetchFn: fetch,
		log:     logger.WithField("controller", name),
		scope:   newScope(),
	}
}

func (v *Value[T]) State() Loadable[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

// Load fetches the value, keeping the previous one on failure.
func (v *Value[T]) Load(ctx context.Context) error {
	ctx, done, err := v.scope.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	v.mu.Lock()
	v.v.Status = Loading
	v.mu.Unlock()

	val, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.log.WithError(err).Warn("load failed")
		v.v.Status = Errored
		v.v.Err = err
		return err
	}
	v.v = Loadable[T]{Status: Ready, Value: val, LoadedAt: time.Now()}
	return nil
}

func (v *Value[T]) Close() { v.scope.cancel() }

func (v *Value[T]) fetch(ctx context.Context) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NormalizeError(r)
		}
	}()
	return v.fetchFn(ctx)
}
