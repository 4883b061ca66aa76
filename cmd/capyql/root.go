package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/nasdf/capyql"
	"github.com/spf13/cobra"
)

// env is the state shared by the subcommands after the config is loaded.
type env struct {
	config *Config
	logger *slog.Logger
}

func (e *env) open(ctx context.Context) (*capyql.DB, error) {
	return e.config.Open(ctx, e.logger)
}

func newRootCommand() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "capyql",
		Short:         "Query a schema typed in-memory record store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger(cmd)
			if err != nil {
				return err
			}
			e.config = cfg
			e.logger = logger
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.String("config", "", "path of a YAML config file")
	flags.String("schema", "", "path of the GraphQL SDL schema")
	flags.String("data", "", "path of a YAML file with records to create")
	flags.String("snapshot", "", "path of a CAR snapshot to load instead of schema and data")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newQueryCommand(e),
		newFindCommand(e),
		newShellCommand(e),
		newExportCommand(e),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
