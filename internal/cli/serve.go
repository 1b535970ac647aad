package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kroneus/kroneus-site/internal/alert"
	"github.com/kroneus/kroneus-site/internal/audit"
	"github.com/kroneus/kroneus-site/internal/chat"
	"github.com/kroneus/kroneus-site/internal/config"
	"github.com/kroneus/kroneus-site/internal/contact"
	"github.com/kroneus/kroneus-site/internal/mailer"
	"github.com/kroneus/kroneus-site/internal/ratelimit"
	"github.com/kroneus/kroneus-site/internal/scenario"
	"github.com/kroneus/kroneus-site/internal/sequencer"
	"github.com/kroneus/kroneus-site/internal/server"
	"github.com/kroneus/kroneus-site/internal/site"
	"github.com/kroneus/kroneus-site/internal/telemetry"
)

var (
	serveAddr      string
	serveStaticDir string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides http.addr)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static", "", "Directory of static site files (overrides http.static_dir)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the site HTTP server",
	Long:  "Serves the contact, chat and demo APIs plus the static site.\nOptionally exposes gRPC health, exports OTLP metrics and hot-reloads the scenario catalog.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}
	if serveStaticDir != "" {
		cfg.HTTP.StaticDir = serveStaticDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

func newSender(cfg config.Mailer, logger *zap.Logger) (mailer.Sender, error) {
	switch cfg.Provider {
	case config.ProviderResend:
		return mailer.NewResend(mailer.ResendConfig{
			Endpoint:  cfg.Endpoint,
			APIKey:    cfg.APIKey,
			Timeout:   cfg.Timeout,
			Retries:   cfg.Retries,
			RetryWait: cfg.RetryWait,
		})
	case config.ProviderLog:
		return mailer.NewLogSender(logger.Named("mailer")), nil
	default:
		return nil, fmt.Errorf("unknown mailer provider %q", cfg.Provider)
	}
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := scenario.NewStore(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	chatRouter, err := chat.Load(cfg.Chat.RulesPath)
	if err != nil {
		return fmt.Errorf("load chat rules: %w", err)
	}
	sender, err := newSender(cfg.Mailer, logger)
	if err != nil {
		return err
	}

	metrics, err := telemetry.New(ctx, telemetry.Config{
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown", zap.Error(err))
		}
	}()

	intakeOpts := []contact.Option{
		contact.WithLogger(logger.Named("contact")),
		contact.WithMetrics(metrics),
	}
	if cfg.Audit.Path != "" {
		auditLog, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			return err
		}
		defer auditLog.Close()
		intakeOpts = append(intakeOpts, contact.WithRecorder(auditLog))
	}
	if dispatcher := alert.NewDispatcher(cfg.Alerts, logger.Named("alert")); dispatcher != nil {
		defer dispatcher.Wait()
		intakeOpts = append(intakeOpts, contact.WithNotifier(dispatcher))
	}
	intake := contact.NewIntake(contact.Config{From: cfg.Contact.From, To: cfg.Contact.To}, sender, intakeOpts...)

	sessions := sequencer.NewRegistry(sequencer.RegistryConfig{
		Interval:    cfg.Demo.TickInterval,
		TTL:         cfg.Demo.SessionTTL,
		MaxSessions: cfg.Demo.MaxSessions,
	}, logger.Named("demo"))
	defer sessions.Close()

	contactLimiter := ratelimit.New(ratelimit.Config{RPS: cfg.Contact.RateLimit.RPS, Burst: cfg.Contact.RateLimit.Burst})
	chatLimiter := ratelimit.New(ratelimit.Config{RPS: cfg.Chat.RateLimit.RPS, Burst: cfg.Chat.RateLimit.Burst})

	web := site.New(site.Config{
		Addr:            cfg.HTTP.Addr,
		StaticDir:       cfg.HTTP.StaticDir,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, site.Deps{
		Store:          store,
		Sessions:       sessions,
		Intake:         intake,
		Chat:           chatRouter,
		ContactLimiter: contactLimiter,
		ChatLimiter:    chatLimiter,
		Metrics:        metrics,
		Logger:         logger.Named("http"),
	})

	var healthSrv *server.Server
	if cfg.Health.GRPCAddr != "" {
		healthSrv = server.New(server.Config{Addr: cfg.Health.GRPCAddr}, logger.Named("health"))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { sessions.Run(ctx); return nil })
	g.Go(func() error { contactLimiter.Run(ctx); return nil })
	g.Go(func() error { chatLimiter.Run(ctx); return nil })

	if cfg.Catalog.Watch && store.Path() != "" {
		reloader, err := server.NewReloader(store, logger.Named("catalog"), func(err error) {
			if healthSrv != nil {
				healthSrv.SetServing(server.ServiceCatalog, err == nil)
			}
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return reloader.Run(ctx) })
	}

	if healthSrv != nil {
		healthSrv.SetServing(server.ServiceCatalog, true)
		healthSrv.SetServing(server.ServiceSite, true)
		healthSrv.SetServing("", true)
		g.Go(func() error { return healthSrv.Start(ctx) })
	}

	g.Go(func() error {
		err := web.Start(ctx)
		if healthSrv != nil {
			healthSrv.SetServing("", false)
			healthSrv.SetServing(server.ServiceSite, false)
		}
		return err
	})

	logger.Info("kroneus site starting",
		zap.String("version", version),
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("mailer", cfg.Mailer.Provider),
		zap.Int("scenarios", store.Catalog().Len()),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("kroneus site stopped")
	return nil
}
