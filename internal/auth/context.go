package auth

import "context"

type identityKey struct{}

// WithIdentity injects verified claims into the request context so
// downstream handlers can read identity without re-decoding the token.
func WithIdentity(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

func IdentityFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(identityKey{}).(*Claims)
	return claims
}
