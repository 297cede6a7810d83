package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/engine"
)

// QueueOptions holds flags for the queue command.
type QueueOptions struct {
	*RootOptions
	Scope  string
	Policy string
	Seed   int64
}

// NewQueueCommand creates the queue command, which prints the built
// queue for a scope without starting a session. Useful for checking
// what a study session would contain and for debugging policy effects.
func NewQueueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "queue",
		Short:         "Print the built study queue for a scope",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueue(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "review scope (collection, folder:<path>, document:<path>, group:<name>)")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "sibling policy (standard, disperse, bury)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "fixed shuffle seed (0 = random)")

	return cmd
}

func runQueue(opts *QueueOptions, cmd *cobra.Command) error {
	cfg, st, _, err := openDeck(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	scope, err := sessionScope(opts.Scope, cfg)
	if err != nil {
		return err
	}
	policy, err := sessionPolicy(opts.Policy, cfg)
	if err != nil {
		return err
	}

	var bopts []engine.BuilderOption
	if opts.Seed != 0 {
		bopts = append(bopts, engine.WithSeed(opts.Seed))
	}
	builder := engine.NewBuilder(st, st, bopts...)

	sess, err := builder.Build(cmd.Context(), engine.BuildConfig{
		Scope:  scope,
		Policy: policy,
		Limits: cfg.Limits(),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d item(s) in %s (%s policy)\n", sess.Total, scope, policy)
	for i, id := range sess.Queue {
		fmt.Fprintf(out, "%3d  %s\n", i+1, id)
	}
	return nil
}
