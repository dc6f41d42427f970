package repository

import (
	"context"
	"errors"
	"sync"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists whole documents by key. Save must replace the
// previous body atomically: a reader sees either the old or the new body.
type DocumentStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, body []byte) error
}

// MemoryDocumentStore keeps documents in process memory. It backs the
// "memory" store backend and the tests.
type MemoryDocumentStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves map[string]int

	// LoadErr and SaveErr, when set, are returned instead of touching docs.
	LoadErr error
	SaveErr error
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		docs:  map[string][]byte{},
		saves: map[string]int{},
	}
}

func (store *MemoryDocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.LoadErr != nil {
		return nil, store.LoadErr
	}

	body, ok := store.docs[key]
	if !ok {
		return nil, ErrDocumentNotFound
	}

	return append([]byte(nil), body...), nil
}

func (store *MemoryDocumentStore) Save(ctx context.Context, key string, body []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.SaveErr != nil {
		return store.SaveErr
	}

	store.docs[key] = append([]byte(nil), body...)
	store.saves[key]++

	return nil
}

// Saves reports how many times key was written.
func (store *MemoryDocumentStore) Saves(key string) int {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.saves[key]
}

// Raw returns the stored body for key, or nil.
func (store *MemoryDocumentStore) Raw(key string) []byte {
	store.mu.Lock()
	defer store.mu.Unlock()

	return append([]byte(nil), store.docs[key]...)
}

// Put writes body without counting it as a save.
func (store *MemoryDocumentStore) Put(key string, body []byte) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.docs[key] = append([]byte(nil), body...)
}
