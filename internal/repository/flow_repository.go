package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ferdian3456/staffroster/internal/model"
	"go.uber.org/zap"
)

// FlowRepository holds suspended flows, at most one per
// (guild, channel, caller).
type FlowRepository interface {
	// Put stores flow, replacing any flow pending under the same key.
	Put(ctx context.Context, flow model.PendingFlow) error
	// Take removes and returns the flow pending under key.
	Take(ctx context.Context, key model.FlowKey) (model.PendingFlow, bool, error)
	// Expire removes and returns every flow whose deadline is at or before now.
	Expire(ctx context.Context, now time.Time) ([]model.PendingFlow, error)
}

type MemoryFlowRepository struct {
	Log   *zap.Logger
	mu    sync.Mutex
	flows map[model.FlowKey]model.PendingFlow
}

func NewMemoryFlowRepository(zap *zap.Logger) *MemoryFlowRepository {
	return &MemoryFlowRepository{
		Log:   zap,
		flows: map[model.FlowKey]model.PendingFlow{},
	}
}

func (repository *MemoryFlowRepository) Put(ctx context.Context, flow model.PendingFlow) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if previous, ok := repository.flows[flow.Key()]; ok {
		repository.Log.Debug("replacing pending flow",
			zap.String("previous", previous.Id.String()),
			zap.String("kind", string(previous.Kind)))
	}

	repository.flows[flow.Key()] = flow

	return nil
}

func (repository *MemoryFlowRepository) Take(ctx context.Context, key model.FlowKey) (model.PendingFlow, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	flow, ok := repository.flows[key]
	if ok {
		delete(repository.flows, key)
	}

	return flow, ok, nil
}

func (repository *MemoryFlowRepository) Expire(ctx context.Context, now time.Time) ([]model.PendingFlow, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var expired []model.PendingFlow
	for key, flow := range repository.flows {
		if flow.Expired(now) {
			expired = append(expired, flow)
			delete(repository.flows, key)
		}
	}

	return expired, nil
}

// Len reports the number of pending flows.
func (repository *MemoryFlowRepository) Len() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return len(repository.flows)
}
