// Package cli implements the mnemo command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/card"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Config   string // Path to the YAML deck configuration.
	Database string // Overrides the configured database path when set.
}

// NewRootCommand creates the root command for the mnemo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mnemo",
		Short: "mnemo - spaced repetition study queue",
		Long:  "A spaced-repetition study tool: builds review queues, grades items, and tracks daily quotas.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to deck configuration (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite collection (overrides config)")

	cmd.AddCommand(NewStudyCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewQueueCommand(opts))

	return cmd
}

// parseScope maps a --scope flag value to a card.Scope.
//
// Accepted forms: "collection" (or empty), "folder:<path>",
// "document:<path>", "group:<name>".
func parseScope(s string) (card.Scope, error) {
	if s == "" || s == "collection" {
		return card.WholeCollection(), nil
	}
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return card.Scope{}, fmt.Errorf("invalid scope %q: want collection, folder:<path>, document:<path> or group:<name>", s)
	}
	var sc card.Scope
	switch kind {
	case "folder":
		sc = card.FolderScope(rest)
	case "document":
		sc = card.DocumentScope(rest)
	case "group":
		sc = card.GroupScope(rest)
	default:
		return card.Scope{}, fmt.Errorf("invalid scope kind %q", kind)
	}
	return sc, sc.Validate()
}
