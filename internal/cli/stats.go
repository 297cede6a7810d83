package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/engine"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Scope string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Show due, new and done-today counts for a scope",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "review scope (collection, folder:<path>, document:<path>, group:<name>)")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	cfg, st, _, err := openDeck(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	scope, err := sessionScope(opts.Scope, cfg)
	if err != nil {
		return err
	}

	now := engine.SystemClock{}.Now()
	inScope := engine.ResolveScope(st.Items(), scope, st)
	ids := make(map[string]bool, len(inScope))

	var due, fresh int
	for _, it := range inScope {
		ids[it.ID] = true
		state, ok := st.State(it.ID)
		if !ok || !engine.AvailableNow(&state, now) {
			continue
		}
		if state.Stage == card.StageNew {
			fresh++
		} else {
			due++
		}
	}

	done, err := st.DailyDoneCounts(ids, engine.StartOfDay(now))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scope:       %s\n", scope)
	fmt.Fprintf(out, "Due now:     %d\n", due)
	fmt.Fprintf(out, "New:         %d\n", fresh)
	fmt.Fprintf(out, "Done today:  %d new, %d review\n", done.New, done.Review)
	return nil
}
