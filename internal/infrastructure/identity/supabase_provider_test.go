package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sasa_billing/internal/config"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseIdentityProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = w.Write([]byte(`{"id":"user-1","email":"a@example.com","aud":"authenticated"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	p, err := NewSupabaseIdentityProvider(srv.URL+"/", "anon", time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := p.ResolveUser(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "a@example.com", id.Email)

	_, err = p.ResolveUser(ctx, "expired")
	assert.ErrorIs(t, err, interfaces.ErrInvalidToken)

	_, err = p.ResolveUser(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrInvalidToken)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.Config{Auth: config.Auth{Mode: config.AuthModeJWT, JWTSecret: "s"}})
	require.NoError(t, err)
	assert.IsType(t, &JWTIdentityProvider{}, p)

	p, err = NewProvider(config.Config{Auth: config.Auth{Mode: config.AuthModeSupabase}, Supabase: config.Supabase{URL: "https://x.supabase.co", AnonKey: "anon"}})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseIdentityProvider{}, p)

	_, err = NewProvider(config.Config{Auth: config.Auth{Mode: config.AuthModeSupabase}})
	assert.ErrorIs(t, err, ErrMissingSupabaseConfig)

	_, err = NewProvider(config.Config{Auth: config.Auth{Mode: "basic"}})
	assert.Error(t, err)
}
