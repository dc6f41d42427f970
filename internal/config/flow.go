package config

import (
	"context"
	"fmt"
	"time"

	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// NewFlowRepository picks the pending flow table named by FLOW_BACKEND.
func NewFlowRepository(ctx context.Context, config *koanf.Koanf, log *zap.Logger) (repository.FlowRepository, func(), error) {
	FLOW_BACKEND := config.String("FLOW_BACKEND")

	switch FLOW_BACKEND {
	case "", "memory":
		return repository.NewMemoryFlowRepository(log), noopClose, nil
	case "redis":
		rdb, err := NewRedisClient(ctx, config, log)
		if err != nil {
			return nil, nil, err
		}

		log.Info("using redis flow table", zap.String("addr", config.String("REDIS_URL")))
		return repository.NewRedisFlowRepository(log, rdb), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown FLOW_BACKEND %q", FLOW_BACKEND)
	}
}

// FlowTimeout reads FLOW_TIMEOUT as a Go duration string.
func FlowTimeout(config *koanf.Koanf, log *zap.Logger) time.Duration {
	FLOW_TIMEOUT := config.String("FLOW_TIMEOUT")
	if FLOW_TIMEOUT == "" {
		return constant.DefaultFlowTimeout
	}

	timeout, err := time.ParseDuration(FLOW_TIMEOUT)
	if err != nil || timeout <= 0 {
		log.Warn("invalid FLOW_TIMEOUT, using default", zap.String("value", FLOW_TIMEOUT), zap.Error(err))
		return constant.DefaultFlowTimeout
	}

	return timeout
}
