package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// SignOutInput identifies the session to clear.
type SignOutInput struct {
	SessionID string `json:"session_id"`
}

type signOutService interface {
	SignOut(ctx context.Context, sessionID string)
}

// SignOutCommand clears a session entirely.
type SignOutCommand struct {
	service   signOutService
	telemetry Telemetry
}

// NewSignOutCommand creates the command.
func NewSignOutCommand(service signOutService, telemetry Telemetry) *SignOutCommand {
	return &SignOutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SignOutInput] = (*SignOutCommand)(nil)

// Execute resets the session state.
func (c *SignOutCommand) Execute(ctx context.Context, msg SignOutInput) error {
	if c.service == nil {
		return errors.New("sign-out command requires service")
	}
	if msg.SessionID == "" {
		return errors.New("sign-out command requires session id")
	}
	c.service.SignOut(ctx, msg.SessionID)
	c.telemetry.Record(ctx, "panel.command.signout", map[string]any{
		"session_id": msg.SessionID,
	})
	return nil
}
