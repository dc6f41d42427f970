package config

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestKoanf(t *testing.T, values map[string]interface{}) *koanf.Koanf {
	k := koanf.New(".")
	for key, value := range values {
		require.NoError(t, k.Set(key, value))
	}
	return k
}

func TestNewDocumentStoreBackends(t *testing.T) {
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	store, closeStore, err := NewDocumentStore(ctx, newTestKoanf(t, map[string]interface{}{
		"STORE_DIR": t.TempDir(),
	}), log)
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &repository.FileDocumentStore{}, store)

	store, closeStore, err = NewDocumentStore(ctx, newTestKoanf(t, map[string]interface{}{
		"STORE_BACKEND": "memory",
	}), log)
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &repository.MemoryDocumentStore{}, store)

	_, _, err = NewDocumentStore(ctx, newTestKoanf(t, map[string]interface{}{
		"STORE_BACKEND": "sqlite",
	}), log)
	assert.EqualError(t, err, `unknown STORE_BACKEND "sqlite"`)
}

func TestNewFlowRepositoryBackends(t *testing.T) {
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	flows, closeFlows, err := NewFlowRepository(ctx, newTestKoanf(t, nil), log)
	require.NoError(t, err)
	defer closeFlows()
	assert.IsType(t, &repository.MemoryFlowRepository{}, flows)

	_, _, err = NewFlowRepository(ctx, newTestKoanf(t, map[string]interface{}{
		"FLOW_BACKEND": "etcd",
	}), log)
	assert.Error(t, err)
}

func TestFlowTimeout(t *testing.T) {
	log := zaptest.NewLogger(t)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset", value: "", want: constant.DefaultFlowTimeout},
		{name: "duration", value: "45s", want: 45 * time.Second},
		{name: "garbage", value: "soon", want: constant.DefaultFlowTimeout},
		{name: "negative", value: "-1m", want: constant.DefaultFlowTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := newTestKoanf(t, map[string]interface{}{"FLOW_TIMEOUT": tt.value})
			assert.Equal(t, tt.want, FlowTimeout(k, log))
		})
	}
}

func TestLoadObservabilityConfigDefaults(t *testing.T) {
	cfg := LoadObservabilityConfig(newTestKoanf(t, nil))

	assert.Equal(t, "staffroster", cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.OtelEndpoint)
	assert.Empty(t, cfg.OtelHeaders)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestLoadObservabilityConfigParsesHeaders(t *testing.T) {
	cfg := LoadObservabilityConfig(newTestKoanf(t, map[string]interface{}{
		"OTEL_EXPORTER_OTLP_ENDPOINT": "otel:4318",
		"OTEL_EXPORTER_OTLP_HEADERS":  "authorization=Basic abc, x-scope = bots ,broken",
		"OTEL_TRACES_SAMPLE_RATIO":    "0.25",
	}))

	assert.Equal(t, "otel:4318", cfg.OtelEndpoint)
	assert.Equal(t, map[string]string{"authorization": "Basic abc", "x-scope": "bots"}, cfg.OtelHeaders)
	assert.Equal(t, 0.25, cfg.SampleRatio)
}

func TestNewDiscordSession(t *testing.T) {
	_, err := NewDiscordSession(newTestKoanf(t, nil))
	assert.EqualError(t, err, "DISCORD_TOKEN is not set")

	session, err := NewDiscordSession(newTestKoanf(t, map[string]interface{}{"DISCORD_TOKEN": "token"}))
	require.NoError(t, err)
	assert.Equal(t, "Bot token", session.Token)
	assert.NotZero(t, session.Identify.Intents&discordgo.IntentsGuildMembers)
	assert.True(t, session.StateEnabled)
}
