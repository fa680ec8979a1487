package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/heladeria/flavor-catalog/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(baseURL string) *S3Storage {
	return NewS3Storage(context.Background(), config.S3Config{
		Region:          "us-east-1",
		Bucket:          "flavor-images",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		BaseURL:         baseURL,
	})
}

func TestS3Storage_PresignImageUpload(t *testing.T) {
	s := newTestStorage("")

	upload, err := s.PresignImageUpload(context.Background(), "Pistachio.PNG", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.Key, FlavorImageFolder+"/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Contains(t, upload.UploadURL, "flavor-images")
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "https://flavor-images.s3.us-east-1.amazonaws.com/"+upload.Key, upload.FileURL)
}

func TestS3Storage_PresignImageUpload_UniqueKeys(t *testing.T) {
	s := newTestStorage("")

	first, err := s.PresignImageUpload(context.Background(), "a.jpg", "image/jpeg")
	require.NoError(t, err)
	second, err := s.PresignImageUpload(context.Background(), "a.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

func TestS3Storage_PresignImageUpload_BaseURL(t *testing.T) {
	s := newTestStorage("https://cdn.example.com/")

	upload, err := s.PresignImageUpload(context.Background(), "mango.webp", "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+upload.Key, upload.FileURL)
}

func TestS3Storage_ValidateContentType(t *testing.T) {
	s := newTestStorage("")

	tests := []struct {
		contentType string
		wantErr     bool
	}{
		{contentType: "image/png"},
		{contentType: "image/jpeg"},
		{contentType: "image/webp"},
		{contentType: "application/pdf", wantErr: true},
		{contentType: "text/html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := s.ValidateContentType(tt.contentType)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
