// Package bookingid produces human-readable, date-stamped booking ids of the
// form BKG-YYYYMMDD-NN.
package bookingid

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"salonbook/internal/models"

	"github.com/rs/zerolog"
)

// Sequence hands out increasing sequence numbers.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// MemorySequence is a process-lifetime counter. The first value is 1 and it
// is never reset implicitly.
type MemorySequence struct {
	n atomic.Int64
}

func NewMemorySequence() *MemorySequence {
	return &MemorySequence{}
}

func (s *MemorySequence) Next(_ context.Context) (int64, error) {
	return s.n.Add(1), nil
}

// Current returns the last value handed out, 0 before the first call.
func (s *MemorySequence) Current() int64 {
	return s.n.Load()
}

// Reset restarts the counter so the next value is 1.
func (s *MemorySequence) Reset() {
	s.n.Store(0)
}

// Generator formats sequence values into booking ids.
type Generator struct {
	prefix   string
	seq      Sequence
	fallback *MemorySequence
	now      func() time.Time
	loc      *time.Location
	logger   *zerolog.Logger
	onNext   func()
}

// Option customizes a Generator.
type Option func(*Generator)

// WithPrefix overrides the BKG prefix.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		if prefix != "" {
			g.prefix = prefix
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLocation sets the location whose calendar date stamps the id.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithLogger sets the logger used when the sequence fails.
func WithLogger(logger *zerolog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithObserver registers a callback run after each generated id.
func WithObserver(fn func()) Option {
	return func(g *Generator) {
		g.onNext = fn
	}
}

// New builds a generator. A nil seq means an in-memory counter.
func New(seq Sequence, opts ...Option) *Generator {
	nop := zerolog.Nop()
	g := &Generator{
		prefix:   models.DefaultBookingIDPrefix,
		seq:      seq,
		fallback: NewMemorySequence(),
		now:      time.Now,
		loc:      time.Local,
		logger:   &nop,
	}
	if g.seq == nil {
		g.seq = g.fallback
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the next booking id. It never fails: if the sequence
// errors the generator switches to its own in-memory counter for that call.
func (g *Generator) Generate(ctx context.Context) string {
	n, err := g.seq.Next(ctx)
	if err != nil {
		g.logger.Warn().Err(err).Msg("booking sequence failed, using local counter")
		n, _ = g.fallback.Next(ctx)
	}
	if g.onNext != nil {
		g.onNext()
	}
	return Format(g.prefix, g.now().In(g.loc), n)
}

// Format renders prefix, date and sequence number as an id.
func Format(prefix string, date time.Time, n int64) string {
	return fmt.Sprintf("%s-%04d%02d%02d-%02d", prefix, date.Year(), int(date.Month()), date.Day(), n)
}
