package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-bizboard/components/panel"
	"github.com/goliatone/go-bizboard/components/panel/commands"
	panelrouter "github.com/goliatone/go-bizboard/components/panel/gorouter"
	"github.com/goliatone/go-bizboard/pkg/config"
	"github.com/goliatone/go-bizboard/pkg/logger"
	"github.com/goliatone/go-bizboard/pkg/supabase"
)

type cli struct {
	Serve    serveCmd    `cmd:"" default:"1" help:"Start the dashboard HTTP server."`
	Manifest manifestCmd `cmd:"" help:"Validate a services manifest file."`
}

type serveCmd struct {
	Addr string `help:"Listen address override (host:port)."`
}

type manifestCmd struct {
	Path string `arg:"" type:"path" help:"Path to the services manifest YAML file."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Business metrics dashboard server."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	zl := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	backend, err := supabase.New(supabase.Config{
		BaseURL: cfg.Supabase.URL,
		APIKey:  cfg.Supabase.APIKey,
	})
	if err != nil {
		return err
	}

	var health panel.HealthSource
	if cfg.Panel.ManifestPath != "" {
		doc, err := panel.ReadServiceManifest(cfg.Panel.ManifestPath)
		if err != nil {
			return err
		}
		health = doc.HealthSource()
		zl.Info().Str("path", doc.Source).Int("services", len(doc.Services)).Msg("loaded services manifest")
	}

	broadcast := panel.NewBroadcastHook()
	service, err := panel.NewService(panel.Options{
		Identity:    backend,
		Tables:      backend,
		Health:      health,
		RefreshHook: broadcast,
		Telemetry:   panel.ZerologTelemetry{Logger: zl},
		CacheTTL:    cfg.Panel.CacheTTL,
	})
	if err != nil {
		return err
	}

	renderer, err := panel.NewTemplateRenderer()
	if err != nil {
		return err
	}
	controller := panel.NewController(service, renderer, cfg.Panel.BasePath)

	telemetry := panel.ZerologTelemetry{Logger: zl}
	adapter := router.NewFiberAdapter()
	if err := panelrouter.Register(panelrouter.Config[*fiber.App]{
		Router:     adapter.Router(),
		Controller: controller,
		Service:    service,
		SignIn:     commands.NewSignInCommand(service, telemetry),
		SignOut:    commands.NewSignOutCommand(service, telemetry),
		Refresh:    commands.NewRefreshCommand(service, telemetry),
		SavePrefs:  commands.NewSavePreferencesCommand(service, telemetry),
		Broadcast:  broadcast,
		BasePath:   cfg.Panel.BasePath,
	}); err != nil {
		return err
	}

	addr := cmd.Addr
	if addr == "" {
		addr = cfg.HTTP.Addr()
	}
	zl.Info().Str("addr", addr).Str("base_path", cfg.Panel.BasePath).Msg("dashboard listening")
	return adapter.Serve(addr)
}

func (cmd *manifestCmd) Run(_ context.Context) error {
	doc, err := panel.ReadServiceManifest(cmd.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s: %d services (version %s)\n", cmd.Path, len(doc.Services), doc.Version)
	for _, svc := range doc.Services {
		state := "down"
		if svc.Healthy {
			state = "up"
		}
		fmt.Fprintf(os.Stdout, "  - %s: %s\n", svc.Name, state)
	}
	return nil
}
