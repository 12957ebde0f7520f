package mocks

import (
	"context"
	"stayops/infras/otel"
)

type otelImpl struct{}

// NewScope returns ctx untouched with a no-op scope.
func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func NewOtel() otel.Otel {
	return &otelImpl{}
}
