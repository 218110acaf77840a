package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/auth"
	"github.com/spec-kit/service-desk/internal/backup"
	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/console"
	"github.com/spec-kit/service-desk/internal/events"
	"github.com/spec-kit/service-desk/internal/export"
	"github.com/spec-kit/service-desk/internal/observability"
	"github.com/spec-kit/service-desk/internal/persistence"
	"github.com/spec-kit/service-desk/internal/report"
	"github.com/spec-kit/service-desk/internal/seed"
	"github.com/spec-kit/service-desk/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "servicedesk",
		Short: "Service request management system",
		Long:  `Service desk tracks user-submitted service requests through an interactive console, with flat-file persistence, timestamped backups, reports and exports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.logger.Sync() //nolint:errcheck

			console.New(console.Dependencies{
				Store:    app.store,
				Gateway:  app.gateway,
				Backups:  app.backups,
				Reports:  app.reports,
				Exporter: app.exporter,
				Gate:     app.gate,
				Logger:   app.logger,
				In:       os.Stdin,
				Out:      os.Stdout,
			}).Run()
			return nil
		},
	}

	rootCmd.AddCommand(
		newExportCommand(),
		newBackupCommand(),
		newReportCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired collaborators behind every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	gateway  *persistence.Gateway
	backups  *backup.Manager
	reports  *report.Generator
	exporter *export.Exporter
	gate     *auth.Gate
}

// bootstrap wires the application and performs the initial catalog load,
// seeding sample data on a first run with an empty catalog.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	dispatcher := events.NewInMemoryDispatcher()
	registerAuditListener(dispatcher, logger)

	st := store.New(store.WithDispatcher(dispatcher))
	gateway := persistence.NewGateway(st, cfg.Data, logger)

	if err := gateway.LoadData(); err != nil {
		logger.Warn("failed to load data", zap.Error(err))
	}
	if cfg.Data.SeedOnFirstRun && len(st.Users()) == 0 {
		logger.Info("seeding sample data")
		seed.SampleData(st)
		if err := gateway.SaveData(); err != nil {
			logger.Warn("failed to save seeded data", zap.Error(err))
		}
	}

	gate, err := auth.NewGate(cfg.Admin)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		gateway:  gateway,
		backups:  backup.NewManager(gateway, logger),
		reports:  report.NewGenerator(st),
		exporter: export.NewExporter(st, cfg.Data),
		gate:     gate,
	}, nil
}

func registerAuditListener(dispatcher events.Dispatcher, logger *zap.Logger) {
	audit := func(event events.Event) error {
		logger.Info("catalog event",
			zap.String("type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.String("actor", event.Actor),
			zap.Any("payload", event.Payload))
		return nil
	}
	for _, t := range []events.EventType{
		events.EventRequestCreated,
		events.EventStatusChanged,
		events.EventRequestAssigned,
		events.EventCommentAdded,
		events.EventRequestDeleted,
	} {
		dispatcher.Subscribe(t, audit)
	}
}
