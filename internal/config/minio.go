package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/knadh/koanf/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// NewMinIO connects to MINIO_URL and makes sure MINIO_BUCKET_NAME exists.
func NewMinIO(ctx context.Context, config *koanf.Koanf, log *zap.Logger) (*minio.Client, error) {
	client, err := minio.New(config.String("MINIO_URL"), &minio.Options{
		Creds:  credentials.NewStaticV4(config.String("MINIO_USER"), config.String("MINIO_PASSWORD"), ""),
		Secure: config.Bool("MINIO_SECURE"),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	MINIO_BUCKET_NAME := config.String("MINIO_BUCKET_NAME")
	if MINIO_BUCKET_NAME == "" {
		return nil, errors.New("MINIO_BUCKET_NAME is required for the minio store")
	}

	exists, err := client.BucketExists(ctx, MINIO_BUCKET_NAME)
	if err != nil {
		return nil, fmt.Errorf("minio bucket %s: %w", MINIO_BUCKET_NAME, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, MINIO_BUCKET_NAME, minio.MakeBucketOptions{Region: config.String("MINIO_LOCATION")})
		if err != nil {
			return nil, fmt.Errorf("create minio bucket %s: %w", MINIO_BUCKET_NAME, err)
		}
		log.Info("created minio bucket", zap.String("bucket", MINIO_BUCKET_NAME))
	}

	return client, nil
}
