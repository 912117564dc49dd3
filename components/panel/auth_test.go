package panel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	creds Credentials
	err   error
	calls int
}

func (s *stubIdentity) SignInWithPassword(_ context.Context, email, password string) (Credentials, error) {
	s.calls++
	if s.err != nil {
		return Credentials{}, s.err
	}
	return s.creds, nil
}

func TestSignInEmptyFieldsSkipsProvider(t *testing.T) {
	provider := &stubIdentity{}
	gateway := NewAuthGateway(provider, nil)

	_, err := gateway.SignIn(context.Background(), "user@example.com", "")
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = gateway.SignIn(context.Background(), "", "secret")
	require.ErrorIs(t, err, ErrMissingCredentials)

	assert.Equal(t, 0, provider.calls)
}

func TestSignInPassesProviderErrorThrough(t *testing.T) {
	provider := &stubIdentity{err: errors.New("Invalid login credentials")}
	gateway := NewAuthGateway(provider, nil)

	_, err := gateway.SignIn(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestSignInReturnsCredentials(t *testing.T) {
	provider := &stubIdentity{creds: Credentials{
		UserID:      "user-1",
		Email:       "user@example.com",
		AccessToken: "token",
		TokenExpiry: time.Now().Add(time.Hour),
	}}
	gateway := NewAuthGateway(provider, nil)

	creds, err := gateway.SignIn(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", creds.UserID)
	assert.Equal(t, "user@example.com", creds.Email)
}
