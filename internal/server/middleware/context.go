package middleware

import (
	"context"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type contextKey string

const ContextKeyIdentity contextKey = "identity"

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	v, ok := ctx.Value(ContextKeyIdentity).(domain.Identity)
	return v, ok
}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}
