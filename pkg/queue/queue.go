package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service is the producer-side queue surface.
type Service interface {
	PublishMessage(ctx context.Context, msgType string, payload interface{}) error
}

// Config contains queue worker configuration.
type Config struct {
	Workers    int
	RetryLimit int
	RetryDelay time.Duration
}

// Message is the wire envelope for queued work.
type Message struct {
	ID        string
	Type      string
	Payload   interface{}
	Attempts  int
	Timestamp time.Time
}

// ParsePayload converts a raw queue payload into a typed struct. Payloads
// arrive as json.RawMessage or generic maps depending on the producer side.
func ParsePayload[T any](payload interface{}) (*T, error) {
	var result T

	switch p := payload.(type) {
	case *T:
		return p, nil
	case T:
		return &p, nil
	case json.RawMessage:
		if err := json.Unmarshal(p, &result); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		return &result, nil
	case map[string]interface{}:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal payload map: %w", err)
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("unmarshal payload map: %w", err)
		}
		return &result, nil
	default:
		return nil, fmt.Errorf("invalid payload type: %T", payload)
	}
}
