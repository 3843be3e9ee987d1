package storage

import (
	"context"
	"fmt"

	"autotube/internal/adapters/storage/gdrive"
	"autotube/internal/adapters/storage/localfs"
	"autotube/internal/adapters/storage/s3"
	"autotube/internal/config"
)

// NewProvider builds the artifact store that audio and thumbnails are written to and
// GET /static reads from.
func NewProvider(ctx context.Context, cfg config.StorageConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "localfs":
		return localfs.New(cfg.LocalRoot), nil

	case "s3":
		c, err := s3.New(s3.Options{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := c.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

// NewArchive builds the optional mirror for rendered videos. It returns nil when archiving
// is disabled.
func NewArchive(ctx context.Context, cfg config.ArchiveConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil

	case "localfs":
		return localfs.New(cfg.LocalRoot), nil

	case "gdrive":
		c, err := gdrive.New(ctx, gdrive.Credentials{
			ClientID:     cfg.GDrive.ClientID,
			ClientSecret: cfg.GDrive.ClientSecret,
			RefreshToken: cfg.GDrive.RefreshToken,
			FolderID:     cfg.GDrive.FolderID,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown archive provider: %s", cfg.Provider)
	}
}
