package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/config"
	"github.com/mnemo-app/mnemo/internal/engine"
)

// StudyOptions holds flags for the study command.
type StudyOptions struct {
	*RootOptions
	Scope    string
	Policy   string
	Practice bool
}

// NewStudyCommand creates the study command.
func NewStudyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StudyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Start an interactive study session",
		Long: `Start an interactive study session for a scope.

Keys: enter reveals the answer; 1=again 2=hard 3=good 4=easy grades;
s skips; b buries; x suspends; u undoes the last grade; q quits.

Example:
  mnemo study --db deck.db --scope folder:biology --policy disperse`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudy(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "review scope (collection, folder:<path>, document:<path>, group:<name>)")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "sibling policy (standard, disperse, bury)")
	cmd.Flags().BoolVar(&opts.Practice, "practice", false, "practice session: grades never change scheduling")

	return cmd
}

func runStudy(opts *StudyOptions, cmd *cobra.Command) error {
	cfg, st, ctl, err := openDeck(opts.RootOptions)
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

	ctx := cmd.Context()
	sess, err := ctl.StartSession(ctx, engine.BuildConfig{
		Scope:    scope,
		Policy:   policy,
		Limits:   cfg.Limits(),
		Practice: opts.Practice,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sess.Queue) == 0 {
		fmt.Fprintln(out, "Nothing to study in this scope today.")
		return nil
	}
	fmt.Fprintf(out, "Session: %d item(s) in %s\n", sess.Total, sess.Scope)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		id, ok := sess.CurrentID()
		if !ok {
			fmt.Fprintf(out, "Done: %d/%d graded.\n", sess.Done, sess.Total)
			return nil
		}
		item, _ := ctl.Item(id)
		fmt.Fprintf(out, "\n[%d/%d] %s (%s)\n", sess.Cursor+1, sess.Total, id, item.Path)
		if !ctl.Revealed() {
			fmt.Fprint(out, "enter=reveal q=quit> ")
		} else {
			fmt.Fprint(out, "1=again 2=hard 3=good 4=easy s=skip b=bury x=suspend u=undo q=quit> ")
		}

		if !in.Scan() {
			if err := in.Err(); err != nil && err != io.EOF {
				return err
			}
			return nil
		}
		line := strings.TrimSpace(in.Text())

		switch line {
		case "q":
			fmt.Fprintf(out, "Stopped: %d/%d graded.\n", sess.Done, sess.Total)
			return nil
		case "":
			ctl.Reveal()
		case "1", "2", "3", "4":
			rating := card.Rating(line[0] - '0')
			outc, err := ctl.GradeCurrent(ctx, rating, "")
			if err != nil {
				return err
			}
			reportNoop(out, outc.Reason)
		case "s":
			sk := ctl.SkipCurrent()
			switch {
			case sk.Prompt:
				if promptBury(in, out) {
					if _, err := ctl.BuryCurrent(ctx); err != nil {
						return err
					}
					fmt.Fprintln(out, "Buried until tomorrow.")
				}
			case sk.Skipped:
				fmt.Fprintf(out, "Pushed back %d position(s).\n", sk.Delay)
			default:
				reportNoop(out, sk.Reason)
			}
		case "b":
			if _, err := ctl.BuryCurrent(ctx); err != nil {
				return err
			}
		case "x":
			if _, err := ctl.SuspendCurrent(ctx); err != nil {
				return err
			}
		case "u":
			undone, err := ctl.UndoLastGrade(ctx)
			if err != nil {
				return err
			}
			if !undone {
				fmt.Fprintln(out, "Nothing to undo.")
			}
		default:
			fmt.Fprintf(out, "Unknown input %q.\n", line)
		}
	}
}

func promptBury(in *bufio.Scanner, out io.Writer) bool {
	fmt.Fprint(out, "Skipped three times. b=bury until tomorrow, anything else=keep> ")
	if !in.Scan() {
		return false
	}
	return strings.TrimSpace(in.Text()) == "b"
}

func reportNoop(out io.Writer, reason engine.NoopReason) {
	switch reason {
	case engine.NoopAlreadyGraded:
		fmt.Fprintln(out, "Already graded this session.")
	case engine.NoopMissingState:
		fmt.Fprintln(out, "Item has no scheduling state; check the collection.")
	case engine.NoopNotSkippable:
		fmt.Fprintln(out, "This item kind cannot be skipped.")
	}
}

func sessionScope(flag string, cfg config.Config) (card.Scope, error) {
	if flag != "" {
		return parseScope(flag)
	}
	return cfg.EngineScope()
}

func sessionPolicy(flag string, cfg config.Config) (engine.SiblingPolicy, error) {
	if flag != "" {
		return engine.ParsePolicy(flag)
	}
	return cfg.Policy()
}
