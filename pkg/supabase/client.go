// Package supabase implements the hosted-backend protocol the dashboard
// depends on: password sign-in against the identity endpoint and select-all
// reads against the generated table API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-bizboard/components/panel"
)

// Config configures the hosted-backend client.
type Config struct {
	// BaseURL is the project URL, e.g. https://xyz.supabase.co.
	BaseURL string
	// APIKey is the project's anon key, sent on every request.
	APIKey     string
	HTTPClient *http.Client
}

// Client talks to the hosted identity and table endpoints via REST.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New builds a client for the hosted backend.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("supabase: base url is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: api key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var (
	_ panel.IdentityProvider = (*Client)(nil)
	_ panel.TableSource      = (*Client)(nil)
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type authError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e authError) text() string {
	for _, candidate := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// SignInWithPassword exchanges email/password for an access token via the
// identity endpoint's password grant. Provider error text is passed through
// verbatim so the login form can show it inline.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (panel.Credentials, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return panel.Credentials{}, fmt.Errorf("supabase: encode sign-in payload: %w", err)
	}
	endpoint := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return panel.Credentials{}, fmt.Errorf("supabase: build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return panel.Credentials{}, fmt.Errorf("supabase: sign-in request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr authError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			if text := apiErr.text(); text != "" {
				return panel.Credentials{}, fmt.Errorf("%s", text)
			}
		}
		return panel.Credentials{}, fmt.Errorf("supabase: sign-in failed with status %d", resp.StatusCode)
	}

	var payload signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return panel.Credentials{}, fmt.Errorf("supabase: decode sign-in response: %w", err)
	}
	if payload.AccessToken == "" {
		return panel.Credentials{}, fmt.Errorf("login failed")
	}

	creds := panel.Credentials{
		UserID:      payload.User.ID,
		Email:       payload.User.Email,
		AccessToken: payload.AccessToken,
	}
	if payload.ExpiresIn > 0 {
		creds.TokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	if creds.UserID == "" {
		fillFromToken(&creds, payload.AccessToken)
	}
	if creds.UserID == "" {
		return panel.Credentials{}, fmt.Errorf("login failed")
	}
	if creds.Email == "" {
		creds.Email = email
	}
	return creds, nil
}

// fillFromToken recovers the user handle from the access token's claims when
// the response omits the user object. The token was just issued over TLS by
// the provider, so claims are read without signature verification.
func fillFromToken(creds *panel.Credentials, accessToken string) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return
	}
	if sub, err := claims.GetSubject(); err == nil {
		creds.UserID = sub
	}
	if email, ok := claims["email"].(string); ok && creds.Email == "" {
		creds.Email = email
	}
	if creds.TokenExpiry.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			creds.TokenExpiry = exp.Time
		}
	}
}

// SelectAll fetches every row of a table through the generated table API.
func (c *Client) SelectAll(ctx context.Context, table string) ([]map[string]any, error) {
	if table == "" {
		return nil, fmt.Errorf("supabase: table name is required")
	}
	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table) + "?select=*"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: build select request: %w", err)
	}
	c.authorize(req, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: select %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("supabase: select %s failed with status %d: %s", table, resp.StatusCode, strings.TrimSpace(buf.String()))
	}

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("supabase: decode %s rows: %w", table, err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}

func (c *Client) authorize(req *http.Request, userToken string) {
	req.Header.Set("apikey", c.apiKey)
	token := userToken
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
