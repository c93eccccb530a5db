package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type awsRepository struct {
	client        s3.ListObjectsV2APIClient
	preSignClient presigner
}

func NewAwsRepository(client s3.ListObjectsV2APIClient, preSignClient presigner) assets.AWSRepository {
	return &awsRepository{
		client:        client,
		preSignClient: preSignClient,
	}
}

// ListDirectories returns the names of the immediate "sub-directories" under
// prefix, without the prefix and without a trailing slash.
func (a *awsRepository) ListDirectories(ctx context.Context, bucket, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	dirs := make([]string, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s/%s: %w", bucket, prefix, err)
		}
		for _, p := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(p.Prefix), prefix), "/")
			if name != "" {
				dirs = append(dirs, name)
			}
		}
	}
	return dirs, nil
}

func (a *awsRepository) PresignUpload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := a.preSignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(ttl),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return req.URL, nil
}
