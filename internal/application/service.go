package application

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// DefaultLatency mirrors the round trip of the backend the dashboard was built against.
const DefaultLatency = 500 * time.Millisecond

// Latency delays every service call and can inject transient failures.
// A nil *Latency adds no delay.
type Latency struct {
	Delay       time.Duration
	FailureRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLatency(delay time.Duration, failureRate float64) *Latency {
	return &Latency{
		Delay:       delay,
		FailureRate: failureRate,
		rnd:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

// Wait blocks for the configured delay or until ctx is done.
func (l *Latency) Wait(ctx context.Context) error {
	if l == nil || l.Delay <= 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	} else {
		t := time.NewTimer(l.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if l != nil && l.FailureRate > 0 && l.roll() < l.FailureRate {
		return fmt.Errorf("simulated backend call: %w", entity.ErrTransient)
	}
	return nil
}

func (l *Latency) roll() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rnd == nil {
		l.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	return l.rnd.Float64()
}

// Clock returns the current time; tests replace it to pin dates.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// BlobStore persists uploaded files and returns the URL they are served from.
type BlobStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// FileUpload is a file received from the dashboard.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (f FileUpload) validate() error {
	if f.Body == nil {
		return entity.NewValidationError("file", "is required")
	}
	if strings.TrimSpace(f.Filename) == "" {
		return entity.NewValidationError("file", "filename is required")
	}
	return nil
}

func (f FileUpload) objectPath(prefix, parentID, id string) string {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	return filepath.ToSlash(filepath.Join(prefix, parentID, id+ext))
}

func newID() string { return uuid.NewString() }

func serviceLog(l *logrus.Logger, name string) *logrus.Entry {
	if l == nil {
		l = logrus.New()
		l.SetOutput(io.Discard)
	}
	return l.WithField("service", name)
}
