package queue

import "context"

// Job defines a queue job handler.
type Job interface {
	// Name returns the human-readable identifier of the job.
	Name() string

	// Type returns the message type the job handles.
	Type() string

	// Handle processes one message payload.
	Handle(ctx context.Context, payload interface{}) error
}
