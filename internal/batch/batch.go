// Package batch plans many analysis documents concurrently.
package batch

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/ingest"
	"github.com/Iron-Ham/remedy/internal/logging"
)

// DefaultMaxParallel is used when Options.MaxParallel is not positive.
const DefaultMaxParallel = 4

// Options configures a Runner.
type Options struct {
	MaxParallel int
	Ingest      ingest.Options
	Planner     *cleanup.Planner
	Logger      *logging.Logger
}

// Result is the outcome for one input. Exactly one of Plan and Err is set.
type Result struct {
	Path     string
	Input    *ingest.Input
	Plan     *cleanup.CleanupPlan
	Err      error
	Duration time.Duration
}

// Runner loads and plans documents on a bounded pool of goroutines.
type Runner struct {
	maxParallel int
	ingestOpts  ingest.Options
	planner     *cleanup.Planner
	logger      *logging.Logger
}

// New returns a Runner. A nil Planner uses random UUID task ids.
func New(opts Options) *Runner {
	r := &Runner{
		maxParallel: opts.MaxParallel,
		ingestOpts:  opts.Ingest,
		planner:     opts.Planner,
		logger:      opts.Logger,
	}
	if r.maxParallel <= 0 {
		r.maxParallel = DefaultMaxParallel
	}
	if r.planner == nil {
		r.planner = cleanup.NewPlanner()
	}
	if r.logger == nil {
		r.logger = logging.NopLogger()
	}
	return r
}

// Run plans every path and returns one Result per path, in input order.
// A failing document does not stop the others. Documents not yet started
// when ctx is cancelled get ctx.Err() as their error.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	p := pool.New().WithMaxGoroutines(r.maxParallel).WithContext(ctx)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			results[i] = r.planOne(ctx, path)
			return nil
		})
	}
	_ = p.Wait()

	return results
}

func (r *Runner) planOne(ctx context.Context, path string) Result {
	res := Result{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	logger := r.logger.WithInput(path)

	in, err := ingest.Load(path, r.ingestOpts)
	if err != nil {
		logger.Warn("failed to load input", "error", err)
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	res.Input = in
	res.Plan = r.planner.GeneratePlan(in.Classified, in.Patterns)
	res.Duration = time.Since(start)

	logger.Debug("planned input",
		"issues", in.Classified.Len(),
		"patterns", len(in.Patterns),
		"dropped", in.Dropped,
		"tasks", len(res.Plan.Tasks),
		"duration_ms", res.Duration.Milliseconds())
	for _, d := range res.Plan.Diagnostics {
		logger.Warn("plan diagnostic", "code", d.Code, "message", d.Message)
	}
	return res
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, res := range results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
