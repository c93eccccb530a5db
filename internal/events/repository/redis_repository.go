package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/events"
	"github.com/go-redis/redis/v8"
)

type busRedisRepo struct {
	redisClient *redis.Client
}

func NewBusRedisRepo(redisClient *redis.Client) events.Bus {
	return &busRedisRepo{redisClient: redisClient}
}

func processingKey(queue string) string { return queue + ":processing" }

func (r *busRedisRepo) Publish(ctx context.Context, queue string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err = r.redisClient.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event on %s: %w", queue, err)
	}
	return nil
}

func (r *busRedisRepo) Receive(ctx context.Context, queue string, timeout time.Duration) (string, error) {
	msg, err := r.redisClient.BRPopLPush(ctx, queue, processingKey(queue), timeout).Result()
	if err == redis.Nil {
		return "", events.ErrNoEvent
	}
	if err != nil {
		return "", fmt.Errorf("failed to receive from %s: %w", queue, err)
	}
	return msg, nil
}

func (r *busRedisRepo) Ack(ctx context.Context, queue, message string) error {
	if err := r.redisClient.LRem(ctx, processingKey(queue), 1, message).Err(); err != nil {
		return fmt.Errorf("failed to ack event on %s: %w", queue, err)
	}
	return nil
}

// Requeue hands the message back to the far end of the queue so other
// pending events are read before it comes round again.
func (r *busRedisRepo) Requeue(ctx context.Context, queue, message string) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, processingKey(queue), 1, message)
		pipe.LPush(ctx, queue, message)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to requeue event on %s: %w", queue, err)
	}
	return nil
}

// Recover moves everything left in the processing list back onto the queue.
// Call it once per queue before consuming.
func (r *busRedisRepo) Recover(ctx context.Context, queue string) (int, error) {
	moved := 0
	for {
		_, err := r.redisClient.RPopLPush(ctx, processingKey(queue), queue).Result()
		if err == redis.Nil {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("failed to recover events on %s: %w", queue, err)
		}
		moved++
	}
}
