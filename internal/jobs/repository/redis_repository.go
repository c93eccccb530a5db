package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/go-redis/redis/v8"
)

const (
	fieldState    = "state"
	fieldData     = "data"
	fieldAttempts = "attempts"
	fieldReason   = "reason"
	stateFailed   = "failed"
)

// enqueueScript creates the job record and pushes its id in one step. A live
// record (waiting, active or delayed) with the same id wins and nothing is pushed.
var enqueueScript = redis.NewScript(`
local state = redis.call('HGET', KEYS[1], 'state')
if state == 'waiting' or state == 'active' or state == 'delayed' then
  return 0
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'state', 'waiting', 'data', ARGV[2], 'attempts', '0')
redis.call('LPUSH', KEYS[2], ARGV[1])
return 1
`)

type jobsRedisRepo struct {
	redisClient *redis.Client
	failedTTL   time.Duration
}

func NewJobsRedisRepo(redisClient *redis.Client, failedTTL time.Duration) jobs.RedisRepository {
	return &jobsRedisRepo{redisClient: redisClient, failedTTL: failedTTL}
}

func waitKey(queue string) string    { return fmt.Sprintf("queue:%s:wait", queue) }
func activeKey(queue string) string  { return fmt.Sprintf("queue:%s:active", queue) }
func delayedKey(queue string) string { return fmt.Sprintf("queue:%s:delayed", queue) }
func jobKey(queue, jobID string) string {
	return fmt.Sprintf("queue:%s:job:%s", queue, jobID)
}

func (r *jobsRedisRepo) Enqueue(ctx context.Context, queue string, job *models.Job) (bool, error) {
	job.Queue = queue
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("failed to marshal job: %w", err)
	}
	created, err := enqueueScript.Run(ctx, r.redisClient,
		[]string{jobKey(queue, job.JobID), waitKey(queue)},
		job.JobID, string(data),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to enqueue job %s on %s: %w", job.JobID, queue, err)
	}
	return created == 1, nil
}

func (r *jobsRedisRepo) Exists(ctx context.Context, queue, jobID string) (bool, error) {
	state, err := r.redisClient.HGet(ctx, jobKey(queue, jobID), fieldState).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get job state: %w", err)
	}
	switch models.JobState(state) {
	case models.JobStateWaiting, models.JobStateActive, models.JobStateDelayed:
		return true, nil
	}
	return false, nil
}

func (r *jobsRedisRepo) Dequeue(ctx context.Context, queue string, timeout time.Duration) (*models.Job, error) {
	jobID, err := r.redisClient.BRPopLPush(ctx, waitKey(queue), activeKey(queue), timeout).Result()
	if err == redis.Nil {
		return nil, jobs.ErrNoJob
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue from %s: %w", queue, err)
	}

	key := jobKey(queue, jobID)
	var (
		dataCmd     *redis.StringCmd
		attemptsCmd *redis.IntCmd
	)
	_, err = r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		dataCmd = pipe.HGet(ctx, key, fieldData)
		pipe.HSet(ctx, key, fieldState, string(models.JobStateActive))
		attemptsCmd = pipe.HIncrBy(ctx, key, fieldAttempts, 1)
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to activate job %s: %w", jobID, err)
	}

	data, err := dataCmd.Result()
	if err == redis.Nil {
		// record vanished; drop the dangling id
		r.redisClient.Del(ctx, key)
		r.redisClient.LRem(ctx, activeKey(queue), 1, jobID)
		return nil, jobs.ErrNoJob
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job %s: %w", jobID, err)
	}

	job := &models.Job{}
	if err := json.Unmarshal([]byte(data), job); err != nil {
		return nil, fmt.Errorf("error unmarshalling job: %w", err)
	}
	job.Attempts = int(attemptsCmd.Val())
	return job, nil
}

func (r *jobsRedisRepo) Complete(ctx context.Context, queue, jobID string) error {
	pipe := r.redisClient.TxPipeline()
	pipe.LRem(ctx, activeKey(queue), 1, jobID)
	pipe.Del(ctx, jobKey(queue, jobID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to complete job %s: %w", jobID, err)
	}
	return nil
}

func (r *jobsRedisRepo) Fail(ctx context.Context, queue, jobID, reason string) error {
	key := jobKey(queue, jobID)
	pipe := r.redisClient.TxPipeline()
	pipe.LRem(ctx, activeKey(queue), 1, jobID)
	pipe.HSet(ctx, key, fieldState, stateFailed, fieldReason, reason)
	if r.failedTTL > 0 {
		pipe.Expire(ctx, key, r.failedTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to fail job %s: %w", jobID, err)
	}
	return nil
}

func (r *jobsRedisRepo) Delay(ctx context.Context, queue, jobID string, until time.Time) error {
	pipe := r.redisClient.TxPipeline()
	pipe.LRem(ctx, activeKey(queue), 1, jobID)
	pipe.ZAdd(ctx, delayedKey(queue), &redis.Z{Score: float64(until.Unix()), Member: jobID})
	pipe.HSet(ctx, jobKey(queue, jobID), fieldState, string(models.JobStateDelayed))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delay job %s: %w", jobID, err)
	}
	return nil
}

// PromoteDelayed moves every delayed job due at or before now back to waiting.
func (r *jobsRedisRepo) PromoteDelayed(ctx context.Context, queue string, now time.Time) (int, error) {
	due, err := r.redisClient.ZRangeByScore(ctx, delayedKey(queue), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read delayed jobs: %w", err)
	}

	promoted := 0
	for _, jobID := range due {
		removed, err := r.redisClient.ZRem(ctx, delayedKey(queue), jobID).Result()
		if err != nil {
			return promoted, fmt.Errorf("failed to remove delayed job %s: %w", jobID, err)
		}
		if removed == 0 {
			continue
		}
		pipe := r.redisClient.TxPipeline()
		pipe.HSet(ctx, jobKey(queue, jobID), fieldState, string(models.JobStateWaiting))
		pipe.LPush(ctx, waitKey(queue), jobID)
		if _, err := pipe.Exec(ctx); err != nil {
			return promoted, fmt.Errorf("failed to promote job %s: %w", jobID, err)
		}
		promoted++
	}
	return promoted, nil
}
