package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-bizboard/components/panel"
)

// RefreshInput requests a cache flush for the next render.
type RefreshInput struct {
	Section panel.Section `json:"section"`
}

type refreshService interface {
	Refresh(ctx context.Context, section panel.Section) error
}

// RefreshCommand invalidates the table and chart caches and notifies
// transports. Auth state is untouched.
type RefreshCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshCommand creates the command.
func NewRefreshCommand(service refreshService, telemetry Telemetry) *RefreshCommand {
	return &RefreshCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshInput] = (*RefreshCommand)(nil)

// Execute flushes the caches.
func (c *RefreshCommand) Execute(ctx context.Context, msg RefreshInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if err := c.service.Refresh(ctx, msg.Section); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "panel.command.refresh", map[string]any{
		"section": string(msg.Section),
	})
	return nil
}
