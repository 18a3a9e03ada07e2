package storage

import (
	"context"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3Store_RejectsBadBucketNames(t *testing.T) {
	for _, bucket := range []string{"", "ab", "UPPERCASE", "has spaces", "-leading-hyphen"} {
		_, err := NewS3Store(context.Background(), S3Config{
			Region:          "us-east-1",
			Bucket:          bucket,
			AccessKeyID:     "AKIAEXAMPLE",
			SecretAccessKey: "secret",
		})
		require.Error(t, err, "bucket %q", bucket)
		assert.Equal(t, KindConfig, KindOf(err))
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****MPLE", maskKey("AKIAEXAMPLE"))
	assert.Equal(t, "****", maskKey("abc"))
	assert.Equal(t, "****", maskKey(""))
}

func TestObjectURL(t *testing.T) {
	s := &S3Store{bucket: "my-bucket", region: "eu-west-1"}
	assert.Equal(t,
		"https://my-bucket.s3.eu-west-1.amazonaws.com/blog/post.md",
		s.objectURL("blog/post.md"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want Kind
	}{
		{"NoSuchKey", KindNotFound},
		{"NotFound", KindNotFound},
		{"AccessDenied", KindAccessDenied},
		{"NoSuchBucket", KindConfig},
		{"InvalidBucketName", KindConfig},
		{"Throttling", KindUnavailable},
	}

	for _, tt := range tests {
		err := classify("blog/post.md", &smithy.GenericAPIError{Code: tt.code})
		assert.Equal(t, tt.want, KindOf(err), "code %s", tt.code)
	}
}
