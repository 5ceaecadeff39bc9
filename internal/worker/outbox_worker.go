package worker

import (
	"context"
	"errors"

	"salonbook/internal/notify"

	"github.com/rs/zerolog"
)

var ErrQueueFull = errors.New("notification queue is full")

// Sink stores composed messages for the front desk.
type Sink interface {
	Push(ctx context.Context, msg notify.Message) error
}

// OutboxWorker moves composed WhatsApp messages from an in-memory queue to a
// Sink, retrying failed pushes with backoff.
type OutboxWorker struct {
	sink    Sink
	policy  RetryPolicy
	queue   chan notify.Message
	logger  *zerolog.Logger
	observe func(result string)
}

// NewOutboxWorker builds a worker. observe, if set, is called with
// "delivered" or "dropped" for every message that leaves the queue.
func NewOutboxWorker(sink Sink, policy RetryPolicy, queueSize int, logger *zerolog.Logger, observe func(result string)) *OutboxWorker {
	if queueSize <= 0 {
		queueSize = 128
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OutboxWorker{
		sink:    sink,
		policy:  policy.withDefaults(),
		queue:   make(chan notify.Message, queueSize),
		logger:  logger,
		observe: observe,
	}
}

// Enqueue never blocks. It has the notify.Notifier deliver signature.
func (w *OutboxWorker) Enqueue(msg notify.Message) error {
	select {
	case w.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start processes the queue until ctx is done.
func (w *OutboxWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("outbox worker started")
	defer w.logger.Info().Msg("outbox worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.queue:
			w.deliver(ctx, msg)
		}
	}
}

func (w *OutboxWorker) deliver(ctx context.Context, msg notify.Message) {
	var err error
	for attempt := 1; attempt <= w.policy.MaxRetries; attempt++ {
		if err = w.sink.Push(ctx, msg); err == nil {
			w.report("delivered")
			return
		}

		w.logger.Warn().Err(err).
			Str("booking_id", msg.BookingID).
			Int("attempt", attempt).
			Msg("outbox push failed")

		if attempt == w.policy.MaxRetries {
			break
		}
		if werr := w.policy.wait(ctx, attempt); werr != nil {
			err = werr
			break
		}
	}

	w.logger.Error().Err(err).Str("booking_id", msg.BookingID).Str("link", msg.Link).Msg("outbox message dropped")
	w.report("dropped")
}

func (w *OutboxWorker) report(result string) {
	if w.observe != nil {
		w.observe(result)
	}
}
