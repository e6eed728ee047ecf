package watch

import (
	"context"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

// BuildFunc loads the document at path and plans it.
type BuildFunc func(path string) (*cleanup.CleanupPlan, error)

// EmitFunc receives each regenerated plan, or the error that prevented it.
type EmitFunc func(path string, plan *cleanup.CleanupPlan, err error)

// Replan rebuilds and emits a plan for every watched file that changes,
// until ctx is cancelled.
func Replan(ctx context.Context, w *Watcher, build BuildFunc, emit EmitFunc) error {
	return w.Run(ctx, func(changed []string) {
		for _, path := range changed {
			if ctx.Err() != nil {
				return
			}
			w.logger.Info("re-planning", "path", path)
			plan, err := build(path)
			if err != nil {
				w.logger.Warn("re-plan failed", "path", path, "error", err)
			}
			emit(path, plan, err)
		}
	})
}
