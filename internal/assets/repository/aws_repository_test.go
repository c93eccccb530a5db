package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	pages  []*s3.ListObjectsV2Output
	inputs []*s3.ListObjectsV2Input
	err    error
}

func (f *fakeLister) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[len(f.inputs)-1]
	return page, nil
}

type fakePresigner struct {
	input   *s3.PutObjectInput
	expires time.Duration
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.input = in
	opts := &s3.PresignOptions{}
	for _, fn := range optFns {
		fn(opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key), Method: "PUT"}, nil
}

func TestListDirectoriesPaginates(t *testing.T) {
	lister := &fakeLister{pages: []*s3.ListObjectsV2Output{
		{
			CommonPrefixes:        []types.CommonPrefix{{Prefix: aws.String("assets/a/1080/")}, {Prefix: aws.String("assets/a/720/")}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			CommonPrefixes: []types.CommonPrefix{{Prefix: aws.String("assets/a/360/")}},
			IsTruncated:    aws.Bool(false),
		},
	}}
	repo := NewAwsRepository(lister, &fakePresigner{})

	dirs, err := repo.ListDirectories(context.Background(), "out", "assets/a/")
	require.NoError(t, err)
	require.Equal(t, []string{"1080", "720", "360"}, dirs)
	require.Len(t, lister.inputs, 2)
	require.Equal(t, "/", aws.ToString(lister.inputs[0].Delimiter))
	require.Equal(t, "next", aws.ToString(lister.inputs[1].ContinuationToken))
}

func TestListDirectoriesError(t *testing.T) {
	repo := NewAwsRepository(&fakeLister{err: errors.New("boom")}, &fakePresigner{})

	_, err := repo.ListDirectories(context.Background(), "out", "assets/a/")
	require.Error(t, err)
}

func TestPresignUpload(t *testing.T) {
	presigner := &fakePresigner{}
	repo := NewAwsRepository(&fakeLister{}, presigner)

	url, err := repo.PresignUpload(context.Background(), "in", "uploads/a/clip.mp4", 15*time.Minute)
	require.NoError(t, err)
	require.Equal(t, "https://s3.local/in/uploads/a/clip.mp4", url)
	require.Equal(t, 15*time.Minute, presigner.expires)
}
