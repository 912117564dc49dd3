package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-bizboard/components/panel"
	"github.com/goliatone/go-bizboard/components/panel/commands"
)

// SessionCookie is the cookie carrying the session identifier.
const SessionCookie = "panel_session"

// Config wires go-router with the panel controller, commands, and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *panel.Controller
	Service    *panel.Service
	SignIn     gocommand.Commander[commands.SignInInput]
	SignOut    gocommand.Commander[commands.SignOutInput]
	Refresh    gocommand.Commander[commands.RefreshInput]
	SavePrefs  gocommand.Commander[commands.SavePreferencesInput]
	Broadcast  *panel.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for panel endpoints.
type RouteConfig struct {
	HTML        string
	Login       string
	Logout      string
	Refresh     string
	Data        string
	Preferences string
	WebSocket   string
	Events      string
}

// Register mounts panel routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	if cfg.Service == nil {
		return errors.New("gorouter: service is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/panel"
	}
	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		sess, ok := sessionFromContext(ctx, cfg.Service.Sessions())
		if !ok || !sess.LoggedIn() {
			return renderLogin(ctx, cfg.Controller, "", "")
		}
		req, err := viewRequest(ctx, cfg.Service, sess)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderPanel(ctx.Context(), sess, req, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Post(routes.Login, router.WrapHandler(func(ctx router.Context) error {
		form, err := url.ParseQuery(string(ctx.Body()))
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		email := form.Get("email")
		password := form.Get("password")

		sess, ok := sessionFromContext(ctx, cfg.Service.Sessions())
		if !ok {
			sess = cfg.Service.Sessions().Create()
		}
		input := commands.SignInInput{
			SessionID: sess.ID,
			Email:     email,
			Password:  password,
		}
		if err := cfg.SignIn.Execute(ctx.Context(), input); err != nil {
			setSessionCookie(ctx, sess.ID)
			return renderLogin(ctx, cfg.Controller, loginErrorText(err), email)
		}
		setSessionCookie(ctx, sess.ID)
		return redirect(ctx, base+routes.HTML)
	}))

	group.Post(routes.Logout, router.WrapHandler(func(ctx router.Context) error {
		if sess, ok := sessionFromContext(ctx, cfg.Service.Sessions()); ok {
			if err := cfg.SignOut.Execute(ctx.Context(), commands.SignOutInput{SessionID: sess.ID}); err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
		}
		clearSessionCookie(ctx)
		return redirect(ctx, base+routes.HTML)
	}))

	group.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		sess, ok := sessionFromContext(ctx, cfg.Service.Sessions())
		if !ok || !sess.LoggedIn() {
			return redirect(ctx, base+routes.HTML)
		}
		section := panel.ParseSection(ctx.Query("section"))
		if err := cfg.Refresh.Execute(ctx.Context(), commands.RefreshInput{Section: section}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return redirect(ctx, base+routes.HTML+"?section="+string(section))
	}))

	group.Get(routes.Data, router.WrapHandler(func(ctx router.Context) error {
		sess, ok := sessionFromContext(ctx, cfg.Service.Sessions())
		if !ok || !sess.LoggedIn() {
			return respondError(ctx, http.StatusUnauthorized, panel.ErrNotLoggedIn)
		}
		snapshot, err := cfg.Service.Snapshot(ctx.Context(), sess)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, snapshot)
	}))

	group.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		sess, ok := sessionFromContext(ctx, cfg.Service.Sessions())
		if !ok || !sess.LoggedIn() {
			return respondError(ctx, http.StatusUnauthorized, panel.ErrNotLoggedIn)
		}
		var payload map[string]any
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.SavePreferencesInput{Session: sess, Payload: payload}
		if err := cfg.SavePrefs.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
		registerSSE(group, cfg.Broadcast, routes.Events)
	}

	return nil
}

func viewRequest(ctx router.Context, svc *panel.Service, sess *panel.Session) (panel.ViewRequest, error) {
	prefs, err := svc.Preferences(ctx.Context(), sess)
	if err != nil {
		return panel.ViewRequest{}, err
	}
	section := prefs.DefaultSection
	if raw := ctx.Query("section"); raw != "" {
		section = panel.ParseSection(raw)
	}
	threshold := prefs.StockThreshold
	if raw := ctx.Query("threshold"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			threshold = n
		}
	}
	return panel.ViewRequest{
		Section:   section,
		Query:     ctx.Query("q"),
		Threshold: threshold,
	}, nil
}

func renderLogin(ctx router.Context, controller *panel.Controller, errMsg, email string) error {
	var buf bytes.Buffer
	if err := controller.RenderLogin(ctx.Context(), errMsg, email, &buf); err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send(buf.Bytes())
}

func loginErrorText(err error) string {
	if errors.Is(err, panel.ErrMissingCredentials) {
		return "Please fill all fields."
	}
	return err.Error()
}

func registerWebSocket[T any](r router.Router[T], hook *panel.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func registerSSE[T any](r router.Router[T], hook *panel.BroadcastHook, path string) {
	r.Get(path, router.WrapHandler(func(ctx router.Context) error {
		ctx.SetHeader("Content-Type", "text/event-stream")
		ctx.SetHeader("Cache-Control", "no-cache")
		ctx.SetHeader("Connection", "keep-alive")
		ctx.SetHeader("X-Accel-Buffering", "no")
		return ctx.SendStream(hook.SSEStream(ctx.Context()))
	}))
}

func sessionFromContext(ctx router.Context, store *panel.SessionStore) (*panel.Session, bool) {
	id := cookieValue(ctx.Header("Cookie"), SessionCookie)
	if id == "" {
		return nil, false
	}
	return store.Get(id)
}

func cookieValue(header, name string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, name+"="); ok {
			return value
		}
	}
	return ""
}

func setSessionCookie(ctx router.Context, id string) {
	ctx.SetHeader("Set-Cookie", SessionCookie+"="+id+"; Path=/; HttpOnly; SameSite=Lax")
}

func clearSessionCookie(ctx router.Context) {
	ctx.SetHeader("Set-Cookie", SessionCookie+"=; Path=/; HttpOnly; Max-Age=0")
}

func redirect(ctx router.Context, location string) error {
	ctx.SetHeader("Location", location)
	return ctx.JSON(http.StatusSeeOther, map[string]string{"location": location})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.Login == "" {
		routes.Login = "/login"
	}
	if routes.Logout == "" {
		routes.Logout = "/logout"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/refresh"
	}
	if routes.Data == "" {
		routes.Data = "/_data"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/preferences"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	if routes.Events == "" {
		routes.Events = "/events"
	}
	return routes
}
