package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

func setupMinio(t *testing.T) (endpoint, bucket string) {
	t.Helper()
	ctx := context.Background()

	container, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err = container.ConnectionString(ctx)
	require.NoError(t, err)

	return endpoint, "acfit-test-" + uuid.New().String()[:8]
}

func TestArtifactRoundTrip_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	endpoint, bucket := setupMinio(t)
	ctx := context.Background()

	mstore, err := NewMinioStore(ctx, MinioConfig{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    bucket,
	})
	require.NoError(t, err)

	key := FigureKey(uuid.NewString(), "png")
	loc, err := mstore.Save(ctx, key, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, loc, key)

	// The same bucket through the S3 API
	sstore, err := NewS3Store(ctx, S3Config{
		Bucket:    bucket,
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	data, err := sstore.Fetch(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	key2 := FigureKey(uuid.NewString(), "svg")
	_, err = sstore.Save(ctx, key2, "image/svg+xml", strings.NewReader("<svg/>"))
	require.NoError(t, err)

	data, err = mstore.Fetch(ctx, key2)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}
