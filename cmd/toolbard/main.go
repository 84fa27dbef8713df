package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"

	"github.com/mchmarny/toolbar/pkg/config"
	"github.com/mchmarny/toolbar/pkg/i18n"
	"github.com/mchmarny/toolbar/pkg/logger"
	"github.com/mchmarny/toolbar/pkg/mailbox"
	"github.com/mchmarny/toolbar/pkg/metric"
	"github.com/mchmarny/toolbar/pkg/server"
	"github.com/mchmarny/toolbar/pkg/toolbar"
	"github.com/mchmarny/toolbar/pkg/web"
)

const name = "toolbard"

var (
	version = "v0.0.0" // Set at build time via -ldflags "-X main.version=version"

	configPath = flag.String("config", "", "Path to the YAML configuration file")
	port       = flag.Int("port", 0, "Port to run the server on, overrides the configuration")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

type store interface {
	mailbox.Store
	mailbox.Writer
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store, func(), error) {
	if cfg.Driver != "sqlite" {
		return mailbox.NewMemoryStore(), func() {}, nil
	}

	s, err := mailbox.OpenSQL(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	return s, func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}, nil
}

func loadCatalog(cfg config.I18nConfig) (*i18n.Catalog, error) {
	locale := cfg.DefaultLocale
	if locale == "" {
		locale = "en"
	}

	fallback, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", cfg.DefaultLocale, err)
	}

	if cfg.Dir == "" {
		return i18n.Builtin(fallback)
	}

	return i18n.LoadDir(cfg.Dir, fallback)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger.SetDefaultLogger(name, version, cfg.Logging.Level)

	s, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Store.Seed {
		if err := mailbox.Seed(ctx, s); err != nil {
			return err
		}
	}

	catalog, err := loadCatalog(cfg.I18n)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()

	builder := toolbar.NewMenuBuilder(s)
	builder.Icons = toolbar.Icons{BasePath: cfg.Assets.ImagePath}
	builder.Routes = toolbar.Routes{Base: cfg.Assets.BasePath}

	renderer := toolbar.NewRenderer(
		toolbar.DefaultPartials{Menu: builder},
		toolbar.WithCounter(metric.NewRendersCounter(reg)),
	)

	shutdown, err := cfg.ShutdownTimeout()
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithPort(cfg.Server.Port),
		server.WithShutdownTimeout(shutdown),
		server.WithRegistry(reg),
		server.WithPrometheusMetrics(),
		server.WithSimpleHealth(),
		server.WithReadinessCheck(server.ReadinessFunc(s.Ping)),
		server.WithErrorLog(logger.NewLogLogger(slog.Default(), slog.LevelError)),
	}

	if cfg.Server.CertFile != "" {
		opts = append(opts, server.WithTLS(server.TLSConfig{
			CertFile: cfg.Server.CertFile,
			KeyFile:  cfg.Server.KeyFile,
		}))
	}

	for pattern, h := range web.New(s, catalog, renderer, builder).Routes() {
		opts = append(opts, server.WithHandler(pattern, h))
	}

	slog.Info("starting",
		"version", version,
		"store", cfg.Store.Driver,
		"locales", len(catalog.Tags()),
	)

	return server.New(opts...).Serve(ctx)
}
