// Command agenda drives the scheduling data-access layer from the shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/agenda/internal/config"
	"github.com/and161185/agenda/internal/metrics"
	"github.com/and161185/agenda/internal/migrate"
	"github.com/and161185/agenda/internal/repository/postgres"
	"github.com/and161185/agenda/internal/result"
	"github.com/and161185/agenda/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app carries state shared by all subcommands.
type app struct {
	cfgPath string
	dsn     string
	out     io.Writer

	cfg *config.Config
	log *zap.Logger
	reg *prometheus.Registry
	db  *postgres.DB
	svc *service.Services
}

// setup loads configuration and builds the logger and metrics registry.
func (a *app) setup() error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.dsn != "" {
		cfg.Storage.DSN = a.dsn
	}
	log, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.cfg, a.log, a.reg = cfg, log, prometheus.NewRegistry()
	return nil
}

// services connects to storage on first use, applying migrations when configured.
func (a *app) services(ctx context.Context) (*service.Services, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if a.cfg.Storage.Migrate {
		if err := migrate.Up(ctx, a.cfg.Storage.DSN, a.log); err != nil {
			return nil, err
		}
	}
	db, err := postgres.New(ctx, a.cfg.Storage.DSN, a.log)
	if err != nil {
		return nil, err
	}
	col, err := metrics.New(a.reg)
	if err != nil {
		db.Close()
		return nil, err
	}
	rep := &result.Reporter{Production: a.cfg.Production(), Log: a.log, Metrics: col}
	a.db = db
	a.svc = service.New(db.Stores(), db, rep)
	return a.svc, nil
}

// close releases storage and flushes metrics and logs.
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.reg); err != nil {
			a.log.Warn("write metrics textfile", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "agenda",
		Short:         "Manage users, categories and events of the agenda store",
		Version:       fmt.Sprintf("%s (%s)", version, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", os.Getenv("AGENDA_CONFIG"), "YAML config file (env AGENDA_CONFIG)")
	root.PersistentFlags().StringVar(&a.dsn, "dsn", "", "PostgreSQL DSN, overrides config")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newUserCmd(a),
		newCategoryCmd(a),
		newEventCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}
