package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write a CAR snapshot of every collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := db.Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			e.logger.Info("exported snapshot", "path", args[0], "collections", len(db.Collections()))
			return f.Close()
		},
	}
}
