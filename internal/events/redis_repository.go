package events

import (
	"context"
	"errors"
	"time"
)

// ErrNoEvent is returned by Receive when the block timeout passes with nothing to read.
var ErrNoEvent = errors.New("no event available")

// Bus is a reliable list-backed event queue. A received message stays in the
// queue's processing list until it is acked or requeued.
type Bus interface {
	Publish(ctx context.Context, queue string, event interface{}) error
	Receive(ctx context.Context, queue string, timeout time.Duration) (string, error)
	Ack(ctx context.Context, queue, message string) error
	Requeue(ctx context.Context, queue, message string) error
	Recover(ctx context.Context, queue string) (int, error)
}
