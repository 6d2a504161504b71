package auth

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := CheckPassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "x")
	assert.Error(t, err)
}

func TestHashPassword_TooLong(t *testing.T) {
	// 40 characters, 80 bytes.
	_, err := HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	userID := uuid.Must(uuid.NewV4())

	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	got, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokens_Rejects(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	tokens := NewTokens("secret", time.Hour)

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Issue(userID)
	require.NoError(t, err)

	otherKey, err := NewTokens("other", time.Hour).Issue(userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "nobody"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":     expiredToken,
		"other key":   otherKey,
		"alg none":    noneToken,
		"bad subject": badSubject,
		"garbage":     "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

type whoamiOutput struct {
	Body struct {
		OwnerID string `json:"ownerId"`
	}
}

func newTestAPI(t *testing.T, tokens *Tokens) humatest.TestAPI {
	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(api, tokens))

	handler := func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		out := &whoamiOutput{}
		if ownerID, ok := OwnerFromContext(ctx); ok {
			out.Body.OwnerID = ownerID.String()
		}
		return out, nil
	}
	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/whoami",
		Security:    Security,
	}, handler)
	huma.Register(api, huma.Operation{
		OperationID: "public",
		Method:      http.MethodGet,
		Path:        "/public",
	}, handler)
	return api
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	api := newTestAPI(t, tokens)
	userID := uuid.Must(uuid.NewV4())
	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		resp := api.Get("/whoami", "Authorization: Bearer "+token)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), userID.String())
	})

	t.Run("missing token", func(t *testing.T) {
		resp := api.Get("/whoami")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		resp := api.Get("/whoami", "Authorization: Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		resp := api.Get("/whoami", "Authorization: Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("public operation", func(t *testing.T) {
		resp := api.Get("/public")
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestOwnerFromContext(t *testing.T) {
	_, ok := OwnerFromContext(context.Background())
	assert.False(t, ok)

	_, ok = OwnerFromContext(WithOwner(context.Background(), uuid.Nil))
	assert.False(t, ok)

	userID := uuid.Must(uuid.NewV4())
	got, ok := OwnerFromContext(WithOwner(context.Background(), userID))
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}
