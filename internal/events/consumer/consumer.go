// Package consumer drains the status event queues into the lifecycle managers.
package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/events"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/metrics"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/pkg/errors"
)

const (
	kindAssetStatus   = "asset_status"
	kindAssetMetadata = "asset_metadata"
	kindFileStatus    = "file_status"
)

type handleFunc func(ctx context.Context, payload []byte) (bool, error)

type route struct {
	kind   string
	queue  string
	handle handleFunc
}

type Consumer struct {
	bus          events.Bus
	logger       logger.Logger
	blockTimeout time.Duration
	retryBackoff time.Duration
	routes       []route
	wg           sync.WaitGroup
}

func NewConsumer(cfg *config.Config, bus events.Bus, handler events.Handler, logger logger.Logger) *Consumer {
	return &Consumer{
		bus:          bus,
		logger:       logger,
		blockTimeout: cfg.Events.BlockTimeout,
		retryBackoff: time.Second,
		routes: []route{
			{kind: kindAssetStatus, queue: cfg.Events.AssetStatusQueue, handle: handler.HandleAssetStatus},
			{kind: kindAssetMetadata, queue: cfg.Events.AssetMetadataQueue, handle: handler.HandleAssetMetadata},
			{kind: kindFileStatus, queue: cfg.Events.FileStatusQueue, handle: handler.HandleFileStatus},
		},
	}
}

// Run consumes every event queue until ctx is cancelled. Messages a previous
// process left unacknowledged are redelivered first.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("Starting status event consumer")
	for _, r := range c.routes {
		n, err := c.bus.Recover(ctx, r.queue)
		if err != nil {
			c.logger.Errorf("Consumer - recover %s error: %v", r.queue, err)
		} else if n > 0 {
			c.logger.Infof("Consumer - redelivering %d events on %s", n, r.queue)
		}

		c.wg.Add(1)
		go c.consume(ctx, r)
	}
	c.wg.Wait()
	c.logger.Info("Status event consumer stopped")
}

func (c *Consumer) consume(ctx context.Context, r route) {
	defer c.wg.Done()
	for ctx.Err() == nil {
		msg, err := c.bus.Receive(ctx, r.queue, c.blockTimeout)
		if err != nil {
			if errors.Is(err, events.ErrNoEvent) || ctx.Err() != nil {
				continue
			}
			c.logger.Errorf("Consumer - receive %s error: %v", r.queue, err)
			c.sleep(ctx)
			continue
		}
		if !c.dispatch(ctx, r, msg) {
			c.sleep(ctx)
		}
	}
}

// dispatch handles one message and settles it on the bus. It returns false
// when the message went back on the queue.
func (c *Consumer) dispatch(ctx context.Context, r route, msg string) bool {
	changed, err := r.handle(ctx, []byte(msg))
	switch {
	case errors.Is(err, events.ErrInvalidEvent):
		metrics.EventsConsumedTotal.WithLabelValues(r.kind, metrics.ResultInvalid).Inc()
		c.logger.Warnf("Consumer - dropping malformed %s event: %v", r.kind, err)
	case err != nil:
		metrics.EventsConsumedTotal.WithLabelValues(r.kind, metrics.ResultError).Inc()
		c.logger.Errorf("Consumer - %s event error, requeueing: %v", r.kind, err)
		if rerr := c.bus.Requeue(context.Background(), r.queue, msg); rerr != nil {
			c.logger.Errorf("Consumer - requeue %s error: %v", r.queue, rerr)
		}
		return false
	case changed:
		metrics.EventsConsumedTotal.WithLabelValues(r.kind, metrics.ResultHandled).Inc()
	default:
		metrics.EventsConsumedTotal.WithLabelValues(r.kind, metrics.ResultIgnored).Inc()
	}

	if err := c.bus.Ack(context.Background(), r.queue, msg); err != nil {
		c.logger.Errorf("Consumer - ack %s error: %v", r.queue, err)
	}
	return true
}

func (c *Consumer) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(c.retryBackoff):
	}
}
