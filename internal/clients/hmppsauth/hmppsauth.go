// Package hmppsauth obtains client-credentials bearer tokens for the
// outbound collaborator calls.
package hmppsauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// TokenSource caches a token until shortly before it expires.
type TokenSource struct {
	Config     Config
	HTTPClient *http.Client
	Now        func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func New(cfg Config) *TokenSource {
	return &TokenSource{
		Config:     cfg,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Now:        time.Now,
	}
}

// refreshMargin renews the token before the auth server would reject it.
const refreshMargin = 30 * time.Second

func (ts *TokenSource) now() time.Time {
	if ts.Now != nil {
		return ts.Now()
	}
	return time.Now()
}

// Token returns a cached token, fetching a new one when missing or near
// expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && ts.now().Add(refreshMargin).Before(ts.expiresAt) {
		return ts.token, nil
	}
	token, expiresAt, err := ts.fetch(ctx)
	if err != nil {
		return "", err
	}
	ts.token = token
	ts.expiresAt = expiresAt
	return token, nil
}

func (ts *TokenSource) fetch(ctx context.Context) (string, time.Time, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.Config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.SetBasicAuth(ts.Config.ClientID, ts.Config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.HTTPClient.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, string(b))
	}
	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", time.Time{}, err
	}
	if body.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("token endpoint returned no access_token")
	}
	return body.AccessToken, ts.expiry(body.AccessToken, body.ExpiresIn), nil
}

// expiry prefers the token's own exp claim over the advertised expires_in.
// The claim is read without signature verification; the token is never
// trusted locally, only forwarded.
func (ts *TokenSource) expiry(token string, expiresIn int) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if expiresIn <= 0 {
		expiresIn = 60
	}
	return ts.now().Add(time.Duration(expiresIn) * time.Second)
}
