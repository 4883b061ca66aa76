package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nasdf/capyql/graphql"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/query"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newQueryCommand(e *env) *cobra.Command {
	var (
		operationName string
		variables     string
	)
	cmd := &cobra.Command{
		Use:   "query <graphql>",
		Short: "Run a GraphQL operation and print the JSON response",
		Long:  "Run a GraphQL operation and print the JSON response. Use - to read the operation from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if source == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				source = string(data)
			}
			params := graphql.QueryParams{
				Query:         source,
				OperationName: operationName,
			}
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &params.Variables); err != nil {
					return fmt.Errorf("invalid variables: %w", err)
				}
			}
			db, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			exe, err := graphql.NewExecutor(db, e.logger)
			if err != nil {
				return err
			}
			res := exe.Execute(cmd.Context(), params)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("operation failed with %d errors", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&operationName, "operation", "", "name of the operation to run")
	cmd.Flags().StringVar(&variables, "variables", "", "operation variables as a JSON object")
	return cmd
}

func newFindCommand(e *env) *cobra.Command {
	var descriptor string
	cmd := &cobra.Command{
		Use:   "find <collection>",
		Short: "Find records with a query descriptor and print them as JSON",
		Example: strings.Join([]string{
			`  capyql find User --descriptor '{where: {role: lead}, order: name DESC, fields: [name]}'`,
			`  capyql find User --descriptor '{"limit": 2, "skip": 1}'`,
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var d query.Descriptor
			if err := yaml.Unmarshal([]byte(descriptor), &d); err != nil {
				return fmt.Errorf("invalid descriptor: %w", err)
			}
			db, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			col, err := db.Collection(args[0])
			if err != nil {
				return err
			}
			records, err := col.Find(d)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), recordMaps(records))
		},
	}
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "query descriptor as YAML or JSON")
	return cmd
}

func recordMaps(records []object.Record) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = rec.Map()
	}
	return out
}
