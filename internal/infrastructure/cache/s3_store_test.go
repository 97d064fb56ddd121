package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3API is a mock implementation of S3API
type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3API) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3API) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

func keyIs(key string) interface{} {
	return mock.MatchedBy(func(in interface{}) bool {
		switch v := in.(type) {
		case *s3.GetObjectInput:
			return aws.ToString(v.Key) == key
		case *s3.PutObjectInput:
			return aws.ToString(v.Key) == key
		case *s3.DeleteObjectInput:
			return aws.ToString(v.Key) == key
		}
		return false
	})
}

func TestS3Store_Load(t *testing.T) {
	ctx := context.Background()
	api := new(MockS3API)
	store := NewS3StoreWithClient(api, "bucket", "")

	modified := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	api.On("GetObject", mock.Anything, keyIs("cache/checks_2025_Q3.json")).Return(&s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader([]byte(`[]`))),
		LastModified: aws.Time(modified),
	}, nil)

	data, modTime, err := store.Load(ctx, "2025_Q3")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
	assert.Equal(t, modified, modTime)
	api.AssertExpectations(t)
}

func TestS3Store_LoadNotFound(t *testing.T) {
	api := new(MockS3API)
	store := NewS3StoreWithClient(api, "bucket", "p/")

	api.On("GetObject", mock.Anything, keyIs("p/2025_Q3.json")).Return(nil, &types.NoSuchKey{})

	_, _, err := store.Load(context.Background(), "2025_Q3")
	assert.ErrorIs(t, err, ErrPartitionNotFound)
}

func TestS3Store_LoadError(t *testing.T) {
	api := new(MockS3API)
	store := NewS3StoreWithClient(api, "bucket", "")

	api.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, _, err := store.Load(context.Background(), "2025_Q3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPartitionNotFound)
}

func TestS3Store_SaveDelete(t *testing.T) {
	ctx := context.Background()
	api := new(MockS3API)
	store := NewS3StoreWithClient(api, "bucket", "")

	api.On("PutObject", mock.Anything, keyIs("cache/checks_2025_Q3.json")).Return(&s3.PutObjectOutput{}, nil)
	api.On("DeleteObject", mock.Anything, keyIs("cache/checks_2025_Q3.json")).Return(&s3.DeleteObjectOutput{}, nil)

	require.NoError(t, store.Save(ctx, "2025_Q3", []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, "2025_Q3"))
	api.AssertExpectations(t)
}

func TestS3Store_Clear(t *testing.T) {
	ctx := context.Background()
	api := new(MockS3API)
	store := NewS3StoreWithClient(api, "bucket", "")

	api.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("cache/checks_2025_Q2.json")},
			{Key: aws.String("cache/checks_notes.txt")},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page2"),
	}, nil).Once()
	api.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page2"
	})).Return(&s3.ListObjectsV2Output{
		Contents:    []types.Object{{Key: aws.String("cache/checks_2025_Q3.json")}},
		IsTruncated: aws.Bool(false),
	}, nil).Once()
	api.On("DeleteObject", mock.Anything, keyIs("cache/checks_2025_Q2.json")).Return(&s3.DeleteObjectOutput{}, nil)
	api.On("DeleteObject", mock.Anything, keyIs("cache/checks_2025_Q3.json")).Return(&s3.DeleteObjectOutput{}, nil)

	require.NoError(t, store.Clear(ctx))
	api.AssertExpectations(t)
	api.AssertNumberOfCalls(t, "DeleteObject", 2)
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)

	_, err = NewS3Store(context.Background(), S3Config{Bucket: "b"})
	assert.Error(t, err)
}
