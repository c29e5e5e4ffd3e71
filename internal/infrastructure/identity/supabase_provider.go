package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"
)

var ErrMissingSupabaseConfig = errors.New("missing supabase url or anon key")

// SupabaseIdentityProvider asks the auth server who owns the token
// (GET /auth/v1/user). Use it when tokens are not HS256 or must be checked
// for revocation.
type SupabaseIdentityProvider struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

var _ interfaces.IIdentityProvider = (*SupabaseIdentityProvider)(nil)

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewSupabaseIdentityProvider(baseURL, anonKey string, timeout time.Duration) (*SupabaseIdentityProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || anonKey == "" {
		return nil, ErrMissingSupabaseConfig
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SupabaseIdentityProvider{
		baseURL:    baseURL,
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (p *SupabaseIdentityProvider) ResolveUser(ctx context.Context, bearerToken string) (entities.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return entities.Identity{}, fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(bearerToken))
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return entities.Identity{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return entities.Identity{}, interfaces.ErrInvalidToken
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return entities.Identity{}, fmt.Errorf("auth server: status=%d body=%s", resp.StatusCode, string(body))
	}

	var u supabaseUser
	if err := json.Unmarshal(body, &u); err != nil {
		return entities.Identity{}, fmt.Errorf("decode auth user: %w", err)
	}
	if u.ID == "" {
		return entities.Identity{}, interfaces.ErrInvalidToken
	}
	return entities.Identity{UserID: u.ID, Email: u.Email}, nil
}
