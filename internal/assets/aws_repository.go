package assets

import (
	"context"
	"time"
)

type AWSRepository interface {
	ListDirectories(ctx context.Context, bucket, prefix string) ([]string, error)
	PresignUpload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
