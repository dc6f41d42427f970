package usecase

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("github.com/ferdian3456/staffroster/internal/usecase")
