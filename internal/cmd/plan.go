package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/remedy/internal/batch"
	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/config"
	"github.com/Iron-Ham/remedy/internal/metrics"
	"github.com/Iron-Ham/remedy/internal/report"
	"github.com/Iron-Ham/remedy/internal/watch"
)

type planOptions struct {
	format          string
	output          string
	watch           bool
	metricsTextfile string
	sequentialIDs   bool
	exclude         []string
	minSeverity     string
	maxParallel     int
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan <input>...",
		Short: "Generate a cleanup plan from analysis documents",
		Long: `Generate a cleanup plan from one or more analysis documents.

With a single input the plan is written to stdout, or to --output. With
several inputs they are planned concurrently; --output then names a
directory that receives one <name>.plan.<ext> file per input.

--watch re-plans a single input every time it changes, until interrupted.`,
		Example: `  remedy plan analysis.json
  remedy plan analysis.yaml --format markdown --output CLEANUP.md
  remedy plan services/*.json --output plans/ --format json
  remedy plan analysis.json --watch --sequential-ids`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "", "output format: text, markdown, json or yaml (default from config)")
	f.StringVarP(&opts.output, "output", "o", "", "output file, or directory when planning several inputs")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-plan whenever the input changes")
	f.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "also write plan metrics to this Prometheus textfile")
	f.BoolVar(&opts.sequentialIDs, "sequential-ids", false, "use reproducible task ids (task-1, task-2, ...)")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "skip issues in files matching these globs")
	f.StringVar(&opts.minSeverity, "min-severity", "", "skip issues below this severity")
	f.IntVar(&opts.maxParallel, "max-parallel", 0, "inputs planned at once (default from config)")
	return cmd
}

func runPlan(cmd *cobra.Command, args []string, opts *planOptions) error {
	if len(args) > 1 && (opts.watch || opts.metricsTextfile != "") {
		return fmt.Errorf("--watch and --metrics-textfile take a single input, got %d", len(args))
	}

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	opts.applyTo(env)
	if errs := env.cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid flags: %w", config.ValidationErrors(errs))
	}

	format, err := opts.resolveFormat(env.cfg.Output.Format, len(args))
	if err != nil {
		return err
	}

	if len(args) > 1 {
		return planMany(cmd, env, args, opts, format)
	}
	return planOne(cmd, env, args[0], opts, format)
}

// applyTo overrides configuration with the flags that were set.
func (o *planOptions) applyTo(env *commandEnv) {
	if o.sequentialIDs {
		env.cfg.Planner.IDStrategy = config.IDStrategySequential
	}
	if len(o.exclude) > 0 {
		env.cfg.Ingest.Exclude = append(env.cfg.Ingest.Exclude, o.exclude...)
	}
	if o.minSeverity != "" {
		env.cfg.Ingest.MinSeverity = o.minSeverity
	}
	if o.maxParallel > 0 {
		env.cfg.Batch.MaxParallel = o.maxParallel
	}
	env.planner = newPlanner(env.cfg)
}

func (o *planOptions) resolveFormat(configured string, inputs int) (report.Format, error) {
	if o.format != "" {
		return report.ParseFormat(o.format)
	}
	def, err := report.ParseFormat(configured)
	if err != nil {
		return "", err
	}
	if inputs == 1 && o.output != "" {
		return report.FormatForPath(o.output, def), nil
	}
	return def, nil
}

func planOne(cmd *cobra.Command, env *commandEnv, path string, opts *planOptions, format report.Format) error {
	start := time.Now()
	in, plan, err := env.loadAndPlan(path)
	if err != nil {
		return err
	}
	env.logger.Info("plan generated",
		"input", path,
		"tasks", len(plan.Tasks),
		"dropped", in.Dropped,
		"duration_ms", time.Since(start).Milliseconds())

	if err := emitPlan(cmd, env, path, plan, opts, format); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndReplan(ctx, cmd, env, path, opts, format)
}

func watchAndReplan(ctx context.Context, cmd *cobra.Command, env *commandEnv, path string, opts *planOptions, format report.Format) error {
	w, err := watch.New(env.cfg.Watch.Debounce(), env.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", path)

	build := func(p string) (*cleanup.CleanupPlan, error) {
		_, plan, err := env.loadAndPlan(p)
		return plan, err
	}
	emit := func(p string, plan *cleanup.CleanupPlan, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "re-plan failed: %v\n", err)
			return
		}
		if opts.output == "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n==> %s re-planned at %s <==\n", p, time.Now().Format(time.TimeOnly))
		}
		if err := emitPlan(cmd, env, p, plan, opts, format); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to write plan: %v\n", err)
		}
	}
	return watch.Replan(ctx, w, build, emit)
}

// emitPlan writes one plan to --output or stdout, and to the metrics
// textfile when requested.
func emitPlan(cmd *cobra.Command, env *commandEnv, source string, plan *cleanup.CleanupPlan, opts *planOptions, format report.Format) error {
	if opts.metricsTextfile != "" {
		if err := metrics.WriteTextfile(opts.metricsTextfile, plan); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
	}
	if opts.output == "" {
		return renderTo(cmd.OutOrStdout(), env, source, plan, format)
	}
	return writePlanFile(opts.output, env, source, plan, format)
}

func planMany(cmd *cobra.Command, env *commandEnv, paths []string, opts *planOptions, format report.Format) error {
	if opts.output != "" {
		if err := os.MkdirAll(opts.output, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	runner := batch.New(batch.Options{
		MaxParallel: env.cfg.Batch.MaxParallel,
		Ingest:      ingestOptions(env.cfg),
		Planner:     env.planner,
		Logger:      env.logger,
	})
	results := runner.Run(cmd.Context(), paths)

	out := cmd.OutOrStdout()
	for i, res := range results {
		if res.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Path, res.Err)
			continue
		}
		if opts.output != "" {
			target := filepath.Join(opts.output, planFileName(res.Path, format))
			if err := writePlanFile(target, env, res.Path, res.Plan, format); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s -> %s (%s)\n", res.Path, target, pluralTasks(len(res.Plan.Tasks)))
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "==> %s <==\n", res.Path)
		if err := renderTo(out, env, res.Path, res.Plan, format); err != nil {
			return err
		}
	}

	if failed := batch.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d inputs failed", len(failed), len(results))
	}
	return nil
}

func renderTo(w io.Writer, env *commandEnv, source string, plan *cleanup.CleanupPlan, format report.Format) error {
	return report.Render(w, plan, format, report.Options{
		Color:  report.ColorEnabled(env.cfg.Output.Color, w),
		Source: source,
	})
}

// writePlanFile renders into memory first so a failed render never
// truncates an existing plan.
func writePlanFile(path string, env *commandEnv, source string, plan *cleanup.CleanupPlan, format report.Format) error {
	var buf bytes.Buffer
	if err := report.Render(&buf, plan, format, report.Options{Source: source}); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	env.logger.Debug("plan written", "path", path, "bytes", buf.Len())
	return nil
}

// planFileName maps an input path to <name>.plan.<ext>.
func planFileName(input string, format report.Format) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".plan." + formatExt(format)
}

func formatExt(format report.Format) string {
	switch format {
	case report.FormatMarkdown:
		return "md"
	case report.FormatJSON:
		return "json"
	case report.FormatYAML:
		return "yaml"
	default:
		return "txt"
	}
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
