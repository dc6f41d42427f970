package config

import (
	"context"
	"fmt"

	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

func noopClose() {}

// NewDocumentStore picks the document backend named by STORE_BACKEND.
// The returned close func releases whatever connection the backend holds.
func NewDocumentStore(ctx context.Context, config *koanf.Koanf, log *zap.Logger) (repository.DocumentStore, func(), error) {
	STORE_BACKEND := config.String("STORE_BACKEND")

	switch STORE_BACKEND {
	case "", "file":
		STORE_DIR := config.String("STORE_DIR")
		if STORE_DIR == "" {
			STORE_DIR = "data"
		}

		store, err := repository.NewFileDocumentStore(log, STORE_DIR)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store %s: %w", STORE_DIR, err)
		}

		log.Info("using file document store", zap.String("dir", STORE_DIR))
		return store, noopClose, nil
	case "postgres":
		pool, err := NewPostgresqlPool(ctx, config, log)
		if err != nil {
			return nil, nil, err
		}

		log.Info("using postgres document store")
		return repository.NewPostgresDocumentStore(log, pool), pool.Close, nil
	case "minio":
		client, err := NewMinIO(ctx, config, log)
		if err != nil {
			return nil, nil, err
		}

		MINIO_BUCKET_NAME := config.String("MINIO_BUCKET_NAME")
		log.Info("using minio document store", zap.String("bucket", MINIO_BUCKET_NAME))
		return repository.NewMinioDocumentStore(log, client, MINIO_BUCKET_NAME, config.String("MINIO_PREFIX")), noopClose, nil
	case "memory":
		log.Warn("using in-memory document store, state is lost on restart")
		return repository.NewMemoryDocumentStore(), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", STORE_BACKEND)
	}
}
