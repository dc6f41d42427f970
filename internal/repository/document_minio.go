package repository

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MinioDocumentStore keeps one object per key. A PutObject replaces the
// whole object, readers never observe a partial body.
type MinioDocumentStore struct {
	Log    *zap.Logger
	Client *minio.Client
	Bucket string
	Prefix string
}

func NewMinioDocumentStore(zap *zap.Logger, client *minio.Client, bucket string, prefix string) *MinioDocumentStore {
	return &MinioDocumentStore{
		Log:    zap,
		Client: client,
		Bucket: bucket,
		Prefix: prefix,
	}
}

func (store *MinioDocumentStore) objectName(key string) string {
	return store.Prefix + key + ".json"
}

func (store *MinioDocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	object, err := store.Client.GetObject(ctx, store.Bucket, store.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, store.mapError(err)
	}
	defer object.Close()

	body, err := io.ReadAll(object)
	if err != nil {
		return nil, store.mapError(err)
	}

	return body, nil
}

func (store *MinioDocumentStore) Save(ctx context.Context, key string, body []byte) error {
	_, err := store.Client.PutObject(ctx, store.Bucket, store.objectName(key), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		store.Log.Error("failed to upload document to minio",
			zap.String("bucket", store.Bucket),
			zap.String("object", store.objectName(key)),
			zap.Error(err))
		return err
	}

	return nil
}

func (store *MinioDocumentStore) mapError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrDocumentNotFound
	}
	return err
}
