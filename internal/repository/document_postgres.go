package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresDocumentStore keeps documents as jsonb rows in the documents
// table.
type PostgresDocumentStore struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewPostgresDocumentStore(zap *zap.Logger, db *pgxpool.Pool) *PostgresDocumentStore {
	return &PostgresDocumentStore{
		Log: zap,
		DB:  db,
	}
}

func (store *PostgresDocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	query := "SELECT body FROM documents WHERE key=$1"

	var body []byte
	err := store.DB.QueryRow(ctx, query, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	return body, nil
}

func (store *PostgresDocumentStore) Save(ctx context.Context, key string, body []byte) error {
	query := "INSERT INTO documents (key, body, create_datetime, update_datetime) VALUES ($1,$2,$3,$3) ON CONFLICT (key) DO UPDATE SET body=EXCLUDED.body, update_datetime=EXCLUDED.update_datetime"

	commited := false

	tx, err := store.DB.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if !commited {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, query, key, string(body), time.Now().UTC())
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}

	commited = true

	return nil
}
