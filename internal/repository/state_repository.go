package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/model"
	"go.uber.org/zap"
)

// StateRepository is the single access point to the guild documents.
// Update holds a mutex across load, mutate and save, so concurrent
// mutations are applied one after another instead of overwriting each
// other.
type StateRepository struct {
	Log   *zap.Logger
	Store DocumentStore
	mu    sync.Mutex
}

func NewStateRepository(zap *zap.Logger, store DocumentStore) *StateRepository {
	return &StateRepository{
		Log:   zap,
		Store: store,
	}
}

// Read returns a fresh snapshot of both documents.
func (repository *StateRepository) Read(ctx context.Context) (model.Guild, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return repository.load(ctx)
}

// Update loads the documents, applies mutate and saves every document
// that changed. An error from mutate aborts the update without saving
// and is returned unchanged.
func (repository *StateRepository) Update(ctx context.Context, mutate func(guild *model.Guild) error) (model.Guild, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	guild, err := repository.load(ctx)
	if err != nil {
		return guild, err
	}

	configBefore, err := encodeDocument(guild.Config)
	if err != nil {
		return guild, err
	}

	stateBefore, err := encodeDocument(guild.State)
	if err != nil {
		return guild, err
	}

	err = mutate(&guild)
	if err != nil {
		return guild, err
	}

	guild.State.Normalize()

	stateAfter, err := encodeDocument(guild.State)
	if err != nil {
		return guild, err
	}

	if !bytes.Equal(stateBefore, stateAfter) {
		err = repository.save(ctx, constant.DocumentState, stateAfter)
		if err != nil {
			return guild, err
		}
	}

	configAfter, err := encodeDocument(guild.Config)
	if err != nil {
		return guild, err
	}

	if !bytes.Equal(configBefore, configAfter) {
		err = repository.save(ctx, constant.DocumentConfig, configAfter)
		if err != nil {
			return guild, err
		}
	}

	return guild, nil
}

func (repository *StateRepository) load(ctx context.Context) (model.Guild, error) {
	guild := model.Guild{
		State: model.NewGuildState(),
	}

	err := repository.loadDocument(ctx, constant.DocumentConfig, &guild.Config)
	if err != nil {
		return guild, err
	}

	err = repository.loadDocument(ctx, constant.DocumentState, &guild.State)
	if err != nil {
		return guild, err
	}

	guild.State.Normalize()

	err = validateState(guild.State)
	if err != nil {
		return guild, &model.StoreError{
			Code: constant.ERR_MALFORMED_DOCUMENT,
			Op:   "load",
			Key:  constant.DocumentState,
			Err:  err,
		}
	}

	return guild, nil
}

func (repository *StateRepository) loadDocument(ctx context.Context, key string, out interface{}) error {
	body, err := repository.Store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			repository.Log.Debug("document not found, starting empty", zap.String("key", key))
			return nil
		}

		return &model.StoreError{
			Code: constant.ERR_IO_FAILURE,
			Op:   "load",
			Key:  key,
			Err:  err,
		}
	}

	err = sonic.ConfigStd.Unmarshal(body, out)
	if err != nil {
		return &model.StoreError{
			Code: constant.ERR_MALFORMED_DOCUMENT,
			Op:   "load",
			Key:  key,
			Err:  err,
		}
	}

	return nil
}

func (repository *StateRepository) save(ctx context.Context, key string, body []byte) error {
	err := repository.Store.Save(ctx, key, body)
	if err != nil {
		repository.Log.Error("failed to save document", zap.String("key", key), zap.Error(err))
		return &model.StoreError{
			Code: constant.ERR_IO_FAILURE,
			Op:   "save",
			Key:  key,
			Err:  err,
		}
	}

	return nil
}

// encodeDocument sorts map keys so identical documents encode to
// identical bytes.
func encodeDocument(document interface{}) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(document, "", "    ")
}

func validateState(state model.GuildState) error {
	for memberId, record := range state.Users {
		if record.Warn < 0 || record.Strike < 0 {
			return fmt.Errorf("negative counter for member %s", memberId)
		}
	}

	return nil
}
