package panel

import (
	"context"
	"errors"
	"strings"
)

// ErrMissingCredentials is returned when the login form is submitted with an
// empty email or password. The identity provider is never contacted.
var ErrMissingCredentials = errors.New("panel: email and password are required")

// AuthGateway fronts the hosted identity service for the single login flow.
type AuthGateway struct {
	provider  IdentityProvider
	telemetry Telemetry
}

// NewAuthGateway builds a gateway over the given provider.
func NewAuthGateway(provider IdentityProvider, telemetry Telemetry) *AuthGateway {
	return &AuthGateway{
		provider:  provider,
		telemetry: normalizeTelemetry(telemetry),
	}
}

// SignIn validates the form fields and exchanges them for credentials.
// Provider failures come back as plain errors whose text is shown inline on
// the login form; they never terminate the process.
func (g *AuthGateway) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Credentials{}, ErrMissingCredentials
	}
	creds, err := g.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		g.telemetry.Record(ctx, "panel.auth.denied", map[string]any{"email": email})
		return Credentials{}, err
	}
	g.telemetry.Record(ctx, "panel.auth.granted", map[string]any{
		"email":   creds.Email,
		"user_id": creds.UserID,
	})
	return creds, nil
}
