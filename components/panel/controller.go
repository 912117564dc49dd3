package panel

import (
	"context"
	"fmt"
	"io"
)

// Controller renders the login and dashboard pages on top of the Service.
type Controller struct {
	service  *Service
	renderer Renderer
	basePath string
}

// NewController wires the service and renderer into a controller.
func NewController(service *Service, renderer Renderer, basePath string) *Controller {
	if basePath == "" {
		basePath = "/panel"
	}
	return &Controller{
		service:  service,
		renderer: renderer,
		basePath: basePath,
	}
}

// BasePath returns the mount point the controller builds links against.
func (c *Controller) BasePath() string { return c.basePath }

type navItem struct {
	Slug   string
	Title  string
	Active bool
}

// RenderLogin writes the login page. errMsg, when non-empty, is shown inline
// above the form; email refills the field after a failed attempt.
func (c *Controller) RenderLogin(_ context.Context, errMsg, email string, out io.Writer) error {
	_, err := c.renderer.Render("login", map[string]any{
		"error":      errMsg,
		"email":      email,
		"login_path": c.basePath + "/login",
	}, out)
	if err != nil {
		return fmt.Errorf("panel: render login: %w", err)
	}
	return nil
}

// RenderPanel builds the requested section's view model and writes the full
// dashboard page. The intro splash shows on the session's first render only.
func (c *Controller) RenderPanel(ctx context.Context, sess *Session, req ViewRequest, out io.Writer) error {
	view, err := c.service.RenderSection(ctx, sess, req)
	if err != nil {
		return err
	}

	showIntro := sess.ShowIntro
	sess.ShowIntro = false

	nav := make([]navItem, 0, len(Sections()))
	for _, s := range Sections() {
		nav = append(nav, navItem{
			Slug:   string(s),
			Title:  s.Title(),
			Active: s == view.Section,
		})
	}

	_, err = c.renderer.Render("panel", map[string]any{
		"view":         view,
		"nav":          nav,
		"show_intro":   showIntro,
		"base_path":    c.basePath,
		"refresh_path": c.basePath + "/refresh",
		"logout_path":  c.basePath + "/logout",
	}, out)
	if err != nil {
		return fmt.Errorf("panel: render section %s: %w", view.Section, err)
	}
	return nil
}
