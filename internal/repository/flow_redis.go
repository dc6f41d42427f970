package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisFlowRepository stores each pending flow under its own key with a
// TTL equal to the remaining timeout. Expiry in redis is the abandonment.
type RedisFlowRepository struct {
	Log     *zap.Logger
	DBCache *redis.Client
}

func NewRedisFlowRepository(zap *zap.Logger, dbCache *redis.Client) *RedisFlowRepository {
	return &RedisFlowRepository{
		Log:     zap,
		DBCache: dbCache,
	}
}

func flowCacheKey(key model.FlowKey) string {
	return fmt.Sprintf("flow:%s:%s:%s", key.GuildId, key.ChannelId, key.CallerId)
}

func (repository *RedisFlowRepository) Put(ctx context.Context, flow model.PendingFlow) error {
	ttl := time.Until(flow.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	payload, err := sonic.Marshal(flow)
	if err != nil {
		return err
	}

	err = repository.DBCache.Set(ctx, flowCacheKey(flow.Key()), payload, ttl).Err()
	if err != nil {
		return err
	}

	return nil
}

func (repository *RedisFlowRepository) Take(ctx context.Context, key model.FlowKey) (model.PendingFlow, bool, error) {
	var flow model.PendingFlow

	payload, err := repository.DBCache.GetDel(ctx, flowCacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return flow, false, nil
	} else if err != nil {
		return flow, false, err
	}

	err = sonic.Unmarshal(payload, &flow)
	if err != nil {
		repository.Log.Warn("dropping unreadable pending flow", zap.String("key", flowCacheKey(key)), zap.Error(err))
		return flow, false, nil
	}

	return flow, true, nil
}

// Expire is a no-op, redis evicts expired flows on its own.
func (repository *RedisFlowRepository) Expire(ctx context.Context, now time.Time) ([]model.PendingFlow, error) {
	return nil, nil
}
