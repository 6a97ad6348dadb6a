package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/edp1096/acfit/internal/config"
)

// ArtifactStore persists rendered figures. Save returns a location the
// artifact can be found at.
type ArtifactStore interface {
	Save(ctx context.Context, key string, contentType string, r io.Reader) (string, error)
}

// FigureKey is the storage key of a run's comparison figure.
func FigureKey(runID, ext string) string {
	return fmt.Sprintf("figures/%s.%s", runID, ext)
}

// New builds the store selected by cfg.Backend. "none" yields a nil store.
func New(ctx context.Context, cfg config.StorageConfig) (ArtifactStore, error) {
	var (
		store ArtifactStore
		err   error
	)

	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "local":
		var s *LocalStore
		s, err = NewLocalStore(cfg.LocalDir)
		store = s
	case "s3":
		var s *S3Store
		s, err = NewS3Store(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKeyID,
			SecretKey: cfg.SecretAccessKey,
		})
		store = s
	case "minio":
		var s *MinioStore
		s, err = NewMinioStore(ctx, MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKeyID,
			SecretKey: cfg.SecretAccessKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
			Region:    cfg.Region,
		})
		store = s
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if err != nil {
		return nil, fmt.Errorf("%s storage: %w", cfg.Backend, err)
	}
	return store, nil
}
