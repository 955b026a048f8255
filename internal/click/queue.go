package click

import (
	"context"

	"github.com/shortloop/shortloop/internal/messaging"
	"go.uber.org/zap"
)

// QueueRecorder publishes clicks to the click topic instead of writing
// stores in-process. Fingerprinting still happens before the event leaves
// this process; raw IPs and user agents are never put on the wire.
type QueueRecorder struct {
	publish messaging.Publish[Event]
	logger  *zap.Logger
}

// NewQueueRecorder creates a queue-backed click recorder.
func NewQueueRecorder(publish messaging.Publish[Event], logger *zap.Logger) *QueueRecorder {
	return &QueueRecorder{
		publish: publish,
		logger:  logger,
	}
}

// Record publishes one click event.
func (q *QueueRecorder) Record(_ context.Context, raw RawClick) Ack {
	e := raw.Event()

	if err := q.publish(e); err != nil {
		q.logger.Error("failed to publish click event",
			zap.String("code", e.Code),
			zap.Error(err),
		)

		return Ack{Accepted: false, Reason: err.Error()}
	}

	return Ack{Accepted: true}
}

// NewEventHandler adapts an Ingestor into a typed message handler for the
// click consumer binary.
func NewEventHandler(ingestor *Ingestor) messaging.Handler[Event] {
	return func(ctx context.Context, e *Event) error {
		return ingestor.Store(ctx, e)
	}
}

var _ Recorder = (*QueueRecorder)(nil)
var _ Recorder = (*Ingestor)(nil)
