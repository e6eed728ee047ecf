package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/config"
	"github.com/Iron-Ham/remedy/internal/report"
	"github.com/Iron-Ham/remedy/internal/tui"
	"github.com/Iron-Ham/remedy/internal/tui/styles"
	"github.com/Iron-Ham/remedy/internal/watch"
)

func newViewCmd() *cobra.Command {
	var (
		watchInput    bool
		sequentialIDs bool
	)
	cmd := &cobra.Command{
		Use:   "view <input>",
		Short: "Browse a cleanup plan interactively",
		Long: `Plan an analysis document and open it in an interactive browser.

Use tab / shift+tab to switch phases, j / k to move between tasks and
? for all key bindings. With --watch the plan reloads whenever the
input changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f, ok := cmd.OutOrStdout().(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
				return fmt.Errorf("view needs an interactive terminal; use 'remedy plan' instead")
			}

			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			if sequentialIDs {
				env.cfg.Planner.IDStrategy = config.IDStrategySequential
				env.planner = newPlanner(env.cfg)
			}

			path := args[0]
			_, plan, err := env.loadAndPlan(path)
			if err != nil {
				return err
			}

			model := tui.New(plan, path)
			if !report.ColorEnabled(env.cfg.Output.Color, cmd.OutOrStdout()) {
				model = model.WithStyles(styles.Plain())
			}

			if !watchInput {
				return tui.Run(model, nil)
			}
			return viewWithWatch(cmd.Context(), env, path, model)
		},
	}
	cmd.Flags().BoolVarP(&watchInput, "watch", "w", false, "reload the plan whenever the input changes")
	cmd.Flags().BoolVar(&sequentialIDs, "sequential-ids", false, "use reproducible task ids (task-1, task-2, ...)")
	return cmd
}

// viewWithWatch runs the viewer while a watcher feeds it re-generated plans.
// The watcher stops when the viewer exits.
func viewWithWatch(parent context.Context, env *commandEnv, path string, model tui.Model) error {
	w, err := watch.New(env.cfg.Watch.Debounce(), env.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	updates := make(chan tui.PlanMsg)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(updates)
		build := func(p string) (*cleanup.CleanupPlan, error) {
			_, plan, err := env.loadAndPlan(p)
			return plan, err
		}
		emit := func(_ string, plan *cleanup.CleanupPlan, err error) {
			select {
			case updates <- tui.PlanMsg{Plan: plan, Err: err}:
			case <-ctx.Done():
			}
		}
		if err := watch.Replan(ctx, w, build, emit); err != nil {
			env.logger.Warn("watcher stopped", "error", err)
		}
	}()

	err = tui.Run(model, updates)
	cancel()
	<-done
	return err
}
