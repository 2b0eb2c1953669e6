package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/linemk/pricedesk/internal/app"
	"github.com/linemk/pricedesk/internal/config"
	"github.com/linemk/pricedesk/internal/lib/logger"
	"github.com/spf13/cobra"
)

var errNoConfig = errors.New("config path is not set: use --config or CONFIG_PATH")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loader загружает конфиг и логгер по флагу --config
type loader func() (*config.Config, *slog.Logger, error)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "migrator",
		Short:         "Schema migrations and seed data for pricedesk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default $CONFIG_PATH)")

	load := func() (*config.Config, *slog.Logger, error) {
		path := config.ResolvePath(configPath)
		if path == "" {
			return nil, nil, errNoConfig
		}
		cfg := config.MustLoadByPath(path)
		return cfg, logger.SetupLogger(cfg.Env), nil
	}

	root.AddCommand(
		newUpCmd(load),
		newDownCmd(load),
		newVersionCmd(load),
		newSeedCmd(load),
	)
	return root
}

func newUpCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations and list tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			application, err := app.NewApp(log, cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.Migrator().Up(cmd.Context()); err != nil {
				return err
			}
			return printTables(cmd.Context(), cmd.OutOrStdout(), application)
		},
	}
}

func newDownCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			application := app.New(log, cfg, nil)
			return application.Migrator().Down(cmd.Context())
		},
	}
}

func newVersionCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			application := app.New(log, cfg, nil)
			version, dirty, err := application.Migrator().Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %t\n", version, dirty)
			return nil
		},
	}
}

func newSeedCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations and insert default admin, stores, categories, costs and marketplaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			application, err := app.NewApp(log, cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Bootstrapper().Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"admin created: %t, stores: %d, categories: %d, costs: %d, marketplaces: %d\n",
				report.AdminCreated, report.Stores, report.Categories, report.Costs, report.Marketplaces,
			)
			return nil
		},
	}
}

// printTables выводит таблицы схемы public после миграции
func printTables(ctx context.Context, out io.Writer, application *app.App) error {
	var tables []string
	err := application.DB.SelectContext(ctx, &tables, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`)
	if err != nil {
		return fmt.Errorf("failed to query tables: %w", err)
	}

	fmt.Fprintln(out, "Current tables in the database:")
	for _, name := range tables {
		fmt.Fprintln(out, " -", name)
	}
	return nil
}
