package config

import (
	"strings"

	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/knadh/koanf/v2"
)

// LoadObservabilityConfig reads the OTEL_* keys. OTEL_EXPORTER_OTLP_HEADERS
// uses the "key1=value1,key2=value2" form.
func LoadObservabilityConfig(config *koanf.Koanf) observability.Config {
	cfg := observability.Config{
		OtelEndpoint: config.String("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelHeaders:  parseHeaders(config.String("OTEL_EXPORTER_OTLP_HEADERS")),
		Insecure:     config.Bool("OTEL_EXPORTER_OTLP_INSECURE"),
		ServiceName:  config.String("OTEL_SERVICE_NAME"),
		Environment:  config.String("ENVIRONMENT"),
		SampleRatio:  1,
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "staffroster"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if config.Exists("OTEL_TRACES_SAMPLE_RATIO") {
		cfg.SampleRatio = config.Float64("OTEL_TRACES_SAMPLE_RATIO")
	}

	return cfg
}

func parseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}
