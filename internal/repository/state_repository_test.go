package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStateRepository(t *testing.T) (*StateRepository, *MemoryDocumentStore) {
	store := NewMemoryDocumentStore()
	return NewStateRepository(zaptest.NewLogger(t), store), store
}

func TestStateRepositoryFirstRunDefaults(t *testing.T) {
	repository, store := newTestStateRepository(t)

	guild, err := repository.Read(context.Background())
	require.NoError(t, err)

	assert.Nil(t, guild.Config.StaffChannelId)
	assert.Nil(t, guild.Config.ModerationChannelId)
	assert.Nil(t, guild.Config.LogChannelId)
	assert.Nil(t, guild.Config.StaffMessageId)
	assert.Empty(t, guild.State.StaffRoles)
	assert.Empty(t, guild.State.ModeratorRoles)
	assert.NotNil(t, guild.State.Users)

	assert.Zero(t, store.Saves(constant.DocumentConfig), "reading must not write")
	assert.Zero(t, store.Saves(constant.DocumentState))
}

func TestStateRepositoryDocumentShape(t *testing.T) {
	repository, store := newTestStateRepository(t)

	_, err := repository.Update(context.Background(), func(guild *model.Guild) error {
		guild.Config.StaffChannelId = model.IDPtr(42)
		guild.State.StaffRoles = append(guild.State.StaffRoles, 7)
		guild.State.Users["9"] = model.CounterRecord{Warn: 1}
		return nil
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"staffChannelId": "42",
		"moderationChannelId": null,
		"logChannelId": null,
		"staffMessageId": null
	}`, string(store.Raw(constant.DocumentConfig)))

	assert.JSONEq(t, `{
		"staffRoles": ["7"],
		"moderatorRoles": [],
		"users": {"9": {"warn": 1, "strike": 0}}
	}`, string(store.Raw(constant.DocumentState)))
}

func TestStateRepositoryRoundTrip(t *testing.T) {
	repository, store := newTestStateRepository(t)
	ctx := context.Background()

	written, err := repository.Update(ctx, func(guild *model.Guild) error {
		guild.Config.LogChannelId = model.IDPtr(3)
		guild.State.ModeratorRoles = append(guild.State.ModeratorRoles, 5, 6)
		guild.State.Users["11"] = model.CounterRecord{Warn: 2, Strike: 1}
		return nil
	})
	require.NoError(t, err)

	reloaded, err := NewStateRepository(zaptest.NewLogger(t), store).Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, written, reloaded)
}

func TestStateRepositorySavesOnlyChangedDocuments(t *testing.T) {
	repository, store := newTestStateRepository(t)
	ctx := context.Background()

	_, err := repository.Update(ctx, func(guild *model.Guild) error {
		guild.State.Users["1"] = model.CounterRecord{}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves(constant.DocumentState))
	assert.Zero(t, store.Saves(constant.DocumentConfig))

	_, err = repository.Update(ctx, func(guild *model.Guild) error {
		guild.State.Users["1"] = model.CounterRecord{}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves(constant.DocumentState), "an unchanged document is not rewritten")
}

func TestStateRepositoryMutateErrorAborts(t *testing.T) {
	repository, store := newTestStateRepository(t)
	ctx := context.Background()
	reject := errors.New("rejected")

	_, err := repository.Update(ctx, func(guild *model.Guild) error {
		guild.State.StaffRoles = append(guild.State.StaffRoles, 1)
		return reject
	})
	require.ErrorIs(t, err, reject)
	assert.Zero(t, store.Saves(constant.DocumentState))

	guild, err := repository.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, guild.State.StaffRoles)
}

func TestStateRepositoryMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		key  string
		body string
	}{
		{name: "unparsable config", key: constant.DocumentConfig, body: `{"staffChannelId":`},
		{name: "unparsable state", key: constant.DocumentState, body: `not json`},
		{name: "negative counter", key: constant.DocumentState, body: `{"staffRoles":[],"moderatorRoles":[],"users":{"1":{"warn":-1,"strike":0}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository, store := newTestStateRepository(t)
			store.Put(tt.key, []byte(tt.body))

			_, err := repository.Read(context.Background())

			var storeErr *model.StoreError
			require.ErrorAs(t, err, &storeErr)
			assert.Equal(t, constant.ERR_MALFORMED_DOCUMENT, storeErr.Code)
			assert.True(t, storeErr.Malformed())
			assert.Equal(t, tt.key, storeErr.Key)
		})
	}
}

func TestStateRepositoryIOFailure(t *testing.T) {
	repository, store := newTestStateRepository(t)
	ctx := context.Background()
	disk := errors.New("disk unavailable")

	store.LoadErr = disk
	_, err := repository.Read(ctx)

	var storeErr *model.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, constant.ERR_IO_FAILURE, storeErr.Code)
	assert.ErrorIs(t, err, disk)

	store.LoadErr = nil
	store.SaveErr = disk
	_, err = repository.Update(ctx, func(guild *model.Guild) error {
		guild.Config.StaffChannelId = model.IDPtr(1)
		return nil
	})
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, constant.ERR_IO_FAILURE, storeErr.Code)
	assert.Equal(t, "save", storeErr.Op)
}

func TestStateRepositoryConcurrentUpdates(t *testing.T) {
	repository, _ := newTestStateRepository(t)
	ctx := context.Background()
	member := snowflake.ID(77).String()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repository.Update(ctx, func(guild *model.Guild) error {
				record := guild.State.Users[member]
				record.Warn++
				guild.State.Users[member] = record
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	guild, err := repository.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, guild.State.Users[member].Warn)
}
