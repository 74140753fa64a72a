package identityrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"campuscloset/util/httpx"
)

// httpRepo talks to a Supabase GoTrue endpoint (<project>/auth/v1).
type httpRepo struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTP(projectURL, apiKey string) Repo {
	return &httpRepo{baseURL: projectURL + "/auth/v1", apiKey: apiKey, client: httpx.Client()}
}

type goTrueUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *string        `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

// goTrueResponse covers both shapes GoTrue answers with: a bare user, or a
// session wrapping one.
type goTrueResponse struct {
	goTrueUser
	AccessToken string      `json:"access_token"`
	User        *goTrueUser `json:"user"`
}

func (r goTrueResponse) user() (*User, error) {
	u := r.goTrueUser
	if r.User != nil {
		u = *r.User
	}
	if u.ID == "" {
		return nil, errors.New("gotrue: response without user id")
	}
	name, _ := u.UserMetadata["name"].(string)
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         name,
		EmailConfirm: u.EmailConfirmedAt != nil,
	}, nil
}

func (r *httpRepo) SignUp(ctx context.Context, email, password, name string) (*User, error) {
	return r.post(ctx, "/signup", map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"name": name},
	})
}

func (r *httpRepo) SignIn(ctx context.Context, email, password string) (*User, error) {
	return r.post(ctx, "/token?grant_type=password", map[string]any{
		"email":    email,
		"password": password,
	})
}

func (r *httpRepo) VerifySignupOTP(ctx context.Context, email, code string) (*User, error) {
	return r.post(ctx, "/verify", map[string]any{
		"type":  "signup",
		"email": email,
		"token": code,
	})
}

func (r *httpRepo) post(ctx context.Context, path string, body map[string]any) (*User, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		return nil, &httpx.StatusError{Service: "gotrue", Status: resp.StatusCode, Body: string(raw)}
	}
	var out goTrueResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("gotrue: decode %s: %w", path, err)
	}
	return out.user()
}
