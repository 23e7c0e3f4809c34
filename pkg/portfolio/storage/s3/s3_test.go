package s3

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Backend_BasicConfiguration(t *testing.T) {
	t.Run("EmptyBucket", func(t *testing.T) {
		_, err := New(Config{Region: "us-east-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("InvalidSSEAlgorithm", func(t *testing.T) {
		_, err := New(Config{
			Bucket:       "test-bucket",
			EnableSSE:    true,
			SSEAlgorithm: "rot13",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid SSE algorithm")
	})

	t.Run("DefaultRegion", func(t *testing.T) {
		backend, err := New(Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", backend.config.Region)
	})

	t.Run("CustomEndpoint", func(t *testing.T) {
		backend, err := New(Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Endpoint:        "http://localhost:9000",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.NotNil(t, backend.client)
	})
}

func TestS3Backend_ObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"no prefix", "", "images/a.png", "images/a.png"},
		{"leading slash", "", "/images/a.png", "images/a.png"},
		{"prefix", "site/", "images/a.png", "site/images/a.png"},
		{"prefix slashes", "/site/", "/data/article.json", "site/data/article.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := New(Config{
				Bucket:          "test-bucket",
				Prefix:          tt.prefix,
				AccessKeyID:     "test-key",
				SecretAccessKey: "test-secret",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, backend.objectKey(tt.key))
		})
	}
}

func TestS3Backend_PutInputEncryption(t *testing.T) {
	backend, err := New(Config{
		Bucket:          "test-bucket",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		EnableSSE:       true,
		SSEAlgorithm:    "aws:kms",
		SSEKMSKeyID:     "key-123",
	})
	require.NoError(t, err)

	input := backend.putInput("images/a.png", nil)
	assert.Equal(t, "aws:kms", string(input.ServerSideEncryption))
	require.NotNil(t, input.SSEKMSKeyId)
	assert.Equal(t, "key-123", *input.SSEKMSKeyId)
	assert.Equal(t, "test-bucket", *input.Bucket)
}

func TestIsMissingBucket(t *testing.T) {
	assert.True(t, isMissingBucket(&types.NotFound{}))
	assert.True(t, isMissingBucket(fmt.Errorf("head: %w", &types.NoSuchBucket{})))
	assert.True(t, isMissingBucket(&smithy.GenericAPIError{Code: "BadRequest"}))
	assert.False(t, isMissingBucket(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isMissingBucket(errors.New("connection refused")))
}
