package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nasdf/capyql/graphql"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/ast"
)

const (
	shellPrompt             = "capyql> "
	shellContinuationPrompt = "   ...> "
)

func newShellCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run GraphQL operations interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			exe, err := graphql.NewExecutor(db, e.logger)
			if err != nil {
				return err
			}
			return runShell(cmd.Context(), exe, cmd.OutOrStdout())
		},
	}
}

func historyPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "capyql", "history")
}

func runShell(ctx context.Context, exe *graphql.Executor, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completer(exe))

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), 0o755); err != nil {
			return
		}
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")

	var buffer strings.Builder
	for {
		prompt := shellPrompt
		if buffer.Len() > 0 {
			prompt = shellContinuationPrompt
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buffer.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(input)
		if buffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			return nil
		}
		if buffer.Len() == 0 && trimmed == "" {
			continue
		}
		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)

		source := buffer.String()
		if needsMoreInput(source) {
			continue
		}
		buffer.Reset()
		line.AppendHistory(source)

		if err := writeJSON(out, exe.Execute(ctx, graphql.QueryParams{Query: source})); err != nil {
			return err
		}
	}
}

// needsMoreInput returns true while the source has unclosed braces or parentheses.
func needsMoreInput(source string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(source); i++ {
		switch c := source[i]; {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == '#':
			for i < len(source) && source[i] != '\n' {
				i++
			}
		case c == '{' || c == '(' || c == '[':
			depth++
		case c == '}' || c == ')' || c == ']':
			depth--
		}
	}
	return depth > 0 || inString
}

// completer completes the root field names of the schema.
func completer(exe *graphql.Executor) liner.Completer {
	var names []string
	s := exe.Schema()
	for _, def := range []*ast.Definition{s.Query, s.Mutation} {
		if def == nil {
			continue
		}
		for _, f := range def.Fields {
			if !strings.HasPrefix(f.Name, "__") {
				names = append(names, f.Name)
			}
		}
	}
	return func(line string) []string {
		start := strings.LastIndexAny(line, " \t\n{(") + 1
		prefix := line[start:]
		if prefix == "" {
			return nil
		}
		var out []string
		for _, n := range names {
			if strings.HasPrefix(n, prefix) {
				out = append(out, line[:start]+n)
			}
		}
		return out
	}
}
