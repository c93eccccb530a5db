package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/events"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (events.Bus, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBusRedisRepo(client), mr
}

func TestPublishReceiveAck(t *testing.T) {
	bus, mr := setup(t)
	ctx := context.Background()

	first := models.AssetStatusUpdate{AssetID: uuid.New(), Status: models.AssetStatusDownloading}
	second := models.AssetStatusUpdate{AssetID: uuid.New(), Status: models.AssetStatusDownloaded}
	require.NoError(t, bus.Publish(ctx, "asset-status", first))
	require.NoError(t, bus.Publish(ctx, "asset-status", second))

	msg, err := bus.Receive(ctx, "asset-status", 100*time.Millisecond)
	require.NoError(t, err)
	require.Contains(t, msg, first.AssetID.String())

	inFlight, err := mr.List("asset-status:processing")
	require.NoError(t, err)
	require.Equal(t, []string{msg}, inFlight)

	require.NoError(t, bus.Ack(ctx, "asset-status", msg))
	require.False(t, mr.Exists("asset-status:processing"))

	msg, err = bus.Receive(ctx, "asset-status", 100*time.Millisecond)
	require.NoError(t, err)
	require.Contains(t, msg, second.AssetID.String())
}

func TestReceiveEmpty(t *testing.T) {
	bus, _ := setup(t)

	_, err := bus.Receive(context.Background(), "file-status", 50*time.Millisecond)
	require.ErrorIs(t, err, events.ErrNoEvent)
}

func TestRequeueGoesToTheBack(t *testing.T) {
	bus, mr := setup(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, "q", map[string]string{"n": "1"}))
	require.NoError(t, bus.Publish(ctx, "q", map[string]string{"n": "2"}))

	msg, err := bus.Receive(ctx, "q", 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, bus.Requeue(ctx, "q", msg))
	require.False(t, mr.Exists("q:processing"))

	next, err := bus.Receive(ctx, "q", 50*time.Millisecond)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":"2"}`, next)
}

func TestRecover(t *testing.T) {
	bus, mr := setup(t)
	ctx := context.Background()

	mr.Lpush("q:processing", `{"n":"1"}`)
	mr.Lpush("q:processing", `{"n":"2"}`)

	n, err := bus.Recover(ctx, "q")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.False(t, mr.Exists("q:processing"))

	msg, err := bus.Receive(ctx, "q", 50*time.Millisecond)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":"1"}`, msg)
}
