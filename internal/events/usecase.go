package events

import (
	"context"
	"errors"
)

// ErrInvalidEvent marks a payload that can never be handled and must be dropped.
var ErrInvalidEvent = errors.New("invalid event")

// Handler turns raw bus payloads into lifecycle calls. The bool result reports
// whether the event changed anything.
type Handler interface {
	HandleAssetStatus(ctx context.Context, payload []byte) (bool, error)
	HandleAssetMetadata(ctx context.Context, payload []byte) (bool, error)
	HandleFileStatus(ctx context.Context, payload []byte) (bool, error)
}
