// Package cli implements fieldctl, the operator and device-side command line
// for the field time service.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-fieldtime/internal/app"
	"go-fieldtime/internal/config"
	"go-fieldtime/internal/offlinequeue"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/connection"
	applog "go-fieldtime/internal/shared/logger"
	"go-fieldtime/internal/sweeper"
)

var version = "dev"

// Options carries what the commands need. Zero values fall back to the
// production wiring.
type Options struct {
	Config config.Config
	Logger *zap.Logger
	Out    io.Writer
	Clock  clock.Clock
	// Transport replaces the HTTP transport built from Config.
	Transport offlinequeue.Transport
	// Sweep replaces a database-backed sweep run.
	Sweep func(ctx context.Context, opts sweeper.Options) (sweeper.Report, error)
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Transport == nil {
		o.Transport = offlinequeue.NewHTTPTransport(o.Config.APIBaseURL, o.Config.APIToken, nil)
	}
	if o.Sweep == nil {
		cfg, logger := o.Config, o.Logger
		o.Sweep = func(ctx context.Context, opts sweeper.Options) (sweeper.Report, error) {
			return app.RunSweep(ctx, cfg, logger, opts)
		}
	}
}

func NewRootCommand(o Options) *cobra.Command {
	o.defaults()

	root := &cobra.Command{
		Use:           "fieldctl",
		Short:         "Operate the field time service and the offline clock queue",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSweepCommand(&o))
	root.AddCommand(newQueueCommand(&o))
	return root
}

// Execute runs fieldctl against the process environment.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := applog.New(applog.Options{Development: true, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	return NewRootCommand(Options{Config: cfg, Logger: logger}).Execute()
}

// openJournal opens the on-device queue and creates its table on first use.
func openJournal(o *Options) (*offlinequeue.Journal, func(), error) {
	db, err := connection.OpenSQLite(o.Config.QueuePath)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := offlinequeue.Migrate(db); err != nil {
		closeFn()
		return nil, nil, err
	}
	return offlinequeue.NewJournal(db, o.Clock, o.Logger), closeFn, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
