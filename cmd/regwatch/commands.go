package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"f0oster/regwatch/database"
	"f0oster/regwatch/logging"
	"f0oster/regwatch/monitor"
	"f0oster/regwatch/snapshot"
	"f0oster/regwatch/web"
)

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the periodic monitor and the reporting API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			mon := monitor.New(a.service, a.log, monitor.Config{
				Sources:  a.cfg.Sources,
				Interval: a.cfg.SyncInterval,
				Timeout:  a.cfg.SyncTimeout,
			})
			if err := mon.Start(ctx); err != nil {
				return err
			}
			defer mon.Stop()

			server := web.NewServer(a.service, mon, a.log, addr)
			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to REGWATCH_HTTP_ADDR)")
	return cmd
}

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [source...]",
		Short: "Run a single change-detection cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sources := a.cfg.Sources
			if len(args) > 0 {
				sources = args
			}
			ctx := cmd.Context()
			if a.cfg.SyncTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.SyncTimeout)
				defer cancel()
			}

			result, err := a.service.Sync(ctx, sources)
			if err != nil {
				return err
			}
			return printJSON(result.Appended)
		},
	}
}

func newReportCommand() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a cycle and print the change report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sources := a.cfg.Sources
			if source != "" {
				sources = []string{source}
			}
			if _, err := a.service.Sync(cmd.Context(), sources); err != nil {
				a.log.Warn("report built from partial data", "error", err)
			}
			return printJSON(a.service.GenerateReport(cmd.Context(), source))
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "limit the report to one source")
	return cmd
}

func newIngestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Append captured document versions from a YAML/JSON file to the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			if a.client == nil {
				return errors.New("ingest requires REGWATCH_DSN")
			}

			captures, err := readCaptures(args[0])
			if err != nil {
				return err
			}
			res, err := snapshot.NewService(a.log).Ingest(cmd.Context(), a.client, captures)
			if err != nil {
				return err
			}
			a.log.Info("ingest complete",
				"file", args[0],
				"inserted", res.Inserted,
				"duplicates", res.Duplicates,
				"invalid", res.Invalid,
			)
			return printJSON(res)
		},
	}
}

func newResetDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-db",
		Short: "Drop and recreate the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgApp, err := loadConfigOnly()
			if err != nil {
				return err
			}
			if cfgApp.cfg.Dsn == "" || cfgApp.cfg.ManagementDsn == "" {
				return errors.New("reset-db requires REGWATCH_DSN and REGWATCH_MANAGEMENT_DSN")
			}
			defer cfgApp.log.Sync()
			return database.ResetDatabase(cmd.Context(), cfgApp.log, cfgApp.cfg.ManagementDsn, cfgApp.cfg.Dsn, cfgApp.cfg.DatabaseName)
		},
	}
}

// loadConfigOnly builds configuration and logging without opening the store.
func loadConfigOnly() (*app, error) {
	a := &app{}
	var err error
	if a.cfg, err = loadConfig(); err != nil {
		return nil, err
	}
	if a.log, err = logging.New(a.cfg.LogMode); err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return a, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
