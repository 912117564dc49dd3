package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-bizboard/components/panel"
)

// SavePreferencesInput carries a raw preferences payload for one session.
type SavePreferencesInput struct {
	Session *panel.Session `json:"-"`
	Payload map[string]any `json:"payload"`
}

type preferenceService interface {
	SavePreferences(ctx context.Context, sess *panel.Session, payload map[string]any) error
}

// SavePreferencesCommand validates and persists per-user preferences.
type SavePreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(service preferenceService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute stores the provided preferences for the session's user.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if msg.Session == nil {
		return errors.New("preferences command requires session")
	}
	if err := c.service.SavePreferences(ctx, msg.Session, msg.Payload); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "panel.preferences.save", map[string]any{
		"user_id": msg.Session.UserID,
	})
	return nil
}
