package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/logging"
)

// SchemeName is the OpenAPI security scheme guarding owner-scoped operations.
const SchemeName = "bearer"

// Security marks an operation as requiring a bearer token.
var Security = []map[string][]string{{SchemeName: {}}}

type ownerKey struct{}

// WithOwner stores the authenticated user id in ctx.
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the authenticated user id.
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return ownerID, ok && ownerID != uuid.Nil
}

type verifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Middleware resolves the bearer token of operations declaring Security and rejects the
// request with 401 when it is missing or invalid.
func Middleware(api huma.API, tokens verifier) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresAuth(ctx.Operation()) {
			next(ctx)
			return
		}

		header := ctx.Header("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		ownerID, err := tokens.Verify(tokenStr)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		if logData := logging.GetLogData(ctx.Context()); logData != nil {
			logData.AddData("ownerId", ownerID.String())
		}
		next(huma.WithValue(ctx, ownerKey{}, ownerID))
	}
}

func requiresAuth(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, scheme := range op.Security {
		if _, ok := scheme[SchemeName]; ok {
			return true
		}
	}
	return false
}

// RequireOwner returns the authenticated user id, or a 401 error for handlers reached without
// one.
func RequireOwner(ctx context.Context) (uuid.UUID, error) {
	ownerID, ok := OwnerFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("authentication required")
	}
	return ownerID, nil
}
