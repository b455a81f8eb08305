package storage_test

import (
	"testing"

	"github.com/scenespin/reference-sync/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("MinioEndpoint", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "media-access",
			SecretKey: "media-secret",
			Bucket:    "media",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	// Config sources often carry the scheme; the client strips it before
	// handing the endpoint to minio.
	t.Run("SchemePrefixedEndpoint", func(t *testing.T) {
		for _, endpoint := range []string{"http://localhost:9000", "https://s3.amazonaws.com"} {
			client, err := storage.NewClient(storage.Config{
				Endpoint:  endpoint,
				AccessKey: "media-access",
				SecretKey: "media-secret",
				UseSSL:    endpoint == "https://s3.amazonaws.com",
				Region:    "us-east-1",
			})
			require.NoError(t, err)
			assert.NotNil(t, client)
		}
	})

	t.Run("ZeroTimeoutGetsDefault", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Endpoint:       "localhost:9000",
			AccessKey:      "media-access",
			SecretKey:      "media-secret",
			TimeoutSeconds: 0,
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}
