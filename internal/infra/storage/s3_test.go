package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
)

func TestNewS3StoreURLs(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.S3
		want string
	}{
		{
			name: "aws default",
			cfg:  config.S3{Bucket: "spa", Region: "eu-west-3", AccessKey: "k", SecretKey: "s"},
			want: "https://spa.s3.eu-west-3.amazonaws.com/gallery/a.webp",
		},
		{
			name: "custom endpoint",
			cfg:  config.S3{Bucket: "spa", Region: "auto", Endpoint: "http://minio:9000/", AccessKey: "k", SecretKey: "s"},
			want: "http://minio:9000/spa/gallery/a.webp",
		},
		{
			name: "public base url wins",
			cfg:  config.S3{Bucket: "spa", Region: "auto", PublicBaseURL: "https://cdn.nanaheadspa.fr/", AccessKey: "k"},
			want: "https://cdn.nanaheadspa.fr/gallery/a.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewS3Store(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.URL("gallery/a.webp"))
		})
	}
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(config.S3{})
	assert.Error(t, err)
}
