package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// SignInInput carries the login form submission.
type SignInInput struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type signInService interface {
	SignIn(ctx context.Context, sessionID, email, password string) error
}

// SignInCommand authenticates a session against the identity provider.
type SignInCommand struct {
	service   signInService
	telemetry Telemetry
}

// NewSignInCommand creates the command.
func NewSignInCommand(service signInService, telemetry Telemetry) *SignInCommand {
	return &SignInCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SignInInput] = (*SignInCommand)(nil)

// Execute performs the sign-in. Auth failures come back as plain errors whose
// text is rendered inline on the login form.
func (c *SignInCommand) Execute(ctx context.Context, msg SignInInput) error {
	if c.service == nil {
		return errors.New("sign-in command requires service")
	}
	if msg.SessionID == "" {
		return errors.New("sign-in command requires session id")
	}
	if err := c.service.SignIn(ctx, msg.SessionID, msg.Email, msg.Password); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "panel.command.signin", map[string]any{
		"session_id": msg.SessionID,
	})
	return nil
}
