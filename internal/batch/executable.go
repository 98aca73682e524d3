package batch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/karupanerura/expression-solver/internal/expression"
	"github.com/karupanerura/expression-solver/internal/solver"
	"github.com/karupanerura/expression-solver/internal/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Kind string

const (
	EvalKind     Kind = "eval"
	RootKind     Kind = "root"
	IntegralKind Kind = "integral"
)

func (k Kind) Valid() bool {
	return lo.Contains([]Kind{EvalKind, RootKind, IntegralKind}, k)
}

// Job is a compiled unit of work. X1 and X2 are only meaningful for root and
// integral jobs.
type Job struct {
	Name          string
	Kind          Kind
	Expr          *expression.Expr
	X             *float64
	X1            float64
	X2            float64
	Eps           float64
	MaxIterations int
}

type Result struct {
	Name    string   `json:"name,omitempty"`
	Kind    Kind     `json:"kind"`
	Value   *float64 `json:"value,omitempty"`
	Display string   `json:"display,omitempty"`
	Found   *bool    `json:"found,omitempty"`
	Error   any      `json:"error,omitempty"`
}

func (r *Result) setValue(v float64) {
	r.Display = fmt.Sprint(v)
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		r.Value = &v
	}
}

// Execute runs the job. ctx is checked before each evaluation of the
// expression, so a long root or integral search stops once ctx is done.
func (j *Job) Execute(ctx context.Context) (*Result, error) {
	res := &Result{Name: j.Name, Kind: j.Kind}
	f := func(x float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return j.Expr.EvalX(x)
	}

	switch j.Kind {
	case EvalKind:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := j.Expr.Eval(j.X)
		if err != nil {
			return nil, err
		}
		res.setValue(v)

	case RootKind:
		root, found, err := solver.Root(f, j.X1, j.X2, j.Eps, j.MaxIterations)
		if err != nil {
			return nil, err
		}
		res.Found = &found
		if found {
			res.setValue(root)
		}

	case IntegralKind:
		v, err := solver.Integral(f, j.X1, j.X2, j.Eps, j.MaxIterations)
		if err != nil {
			return nil, err
		}
		res.setValue(v)

	default:
		return nil, fmt.Errorf("unknown kind: %s", j.Kind)
	}
	return res, nil
}

type Batch struct {
	Jobs []*Job
}

// Run executes every job, at most parallelism at a time (unbounded when
// parallelism <= 0). A failing job records its error in its Result and does not
// stop the others. The returned error is non-nil only if ctx is done.
func (b *Batch) Run(ctx context.Context, parallelism int) ([]*Result, error) {
	results := make([]*Result, len(b.Jobs))
	eg, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		eg.SetLimit(parallelism)
	}
	for i, job := range b.Jobs {
		i := i
		job := job
		eg.Go(func() error {
			res, err := job.Execute(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("job[%d] %s: %w", i, job.Name, err)
			}
			if err != nil {
				res = &Result{Name: job.Name, Kind: job.Kind, Error: ErrorObject(err)}
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ErrorObject converts err into a JSON friendly value.
func ErrorObject(err error) any {
	var exception types.Exception
	if errors.As(err, &exception) {
		return exception.Exception()
	}
	return map[string]any{"message": err.Error()}
}
