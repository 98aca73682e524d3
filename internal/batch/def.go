package batch

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/karupanerura/expression-solver/internal/expression"
	"github.com/karupanerura/expression-solver/internal/solver"
	"github.com/mitchellh/mapstructure"
)

type batchDef struct {
	Jobs []map[string]any `json:"jobs" toml:"jobs"`
}

func (d *batchDef) compile() (*Batch, error) {
	if len(d.Jobs) == 0 {
		return nil, fmt.Errorf("empty jobs")
	}

	b := &Batch{Jobs: make([]*Job, len(d.Jobs))}
	seen := make(map[string]bool, len(d.Jobs))
	for i, raw := range d.Jobs {
		job, err := NewJob(raw, "")
		if err != nil {
			if name, ok := raw["name"].(string); ok {
				return nil, fmt.Errorf("job[%d] %s: %w", i, name, err)
			}
			return nil, fmt.Errorf("job[%d]: %w", i, err)
		}
		if job.Name == "" {
			return nil, fmt.Errorf("job[%d]: name: required", i)
		}
		if seen[job.Name] {
			return nil, fmt.Errorf("job[%d] %s: duplicated job name", i, job.Name)
		}
		seen[job.Name] = true
		b.Jobs[i] = job
	}
	return b, nil
}

type jobDef struct {
	Name          string `mapstructure:"name"`
	Kind          Kind   `mapstructure:"kind"`
	Expr          string `mapstructure:"expr"`
	X             any    `mapstructure:"x"`
	X1            any    `mapstructure:"x1"`
	X2            any    `mapstructure:"x2"`
	Eps           any    `mapstructure:"eps"`
	MaxIterations int    `mapstructure:"max_iterations"`
}

// NewJob compiles a single job from its decoded map form. A non-empty kind
// overrides the kind field of raw.
func NewJob(raw map[string]any, kind Kind) (*Job, error) {
	var def jobDef
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  decodeJSONNumberHook,
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	if err = decoder.Decode(raw); err != nil {
		return nil, err
	}
	if kind != "" {
		def.Kind = kind
	}
	return def.compile()
}

func (d *jobDef) compile() (*Job, error) {
	if !d.Kind.Valid() {
		return nil, fmt.Errorf("kind: unknown kind %q", d.Kind)
	}
	if d.Expr == "" {
		return nil, fmt.Errorf("expr: required")
	}
	if d.MaxIterations < 0 {
		return nil, fmt.Errorf("max_iterations: must not be negative")
	}

	expr, err := expression.Compile(d.Expr)
	if err != nil {
		return nil, fmt.Errorf("expr: %w", err)
	}

	job := &Job{
		Name:          d.Name,
		Kind:          d.Kind,
		Expr:          expr,
		Eps:           solver.DefaultEps,
		MaxIterations: d.MaxIterations,
	}
	if job.X, err = evalNumber("x", d.X); err != nil {
		return nil, err
	}
	if eps, err := evalNumber("eps", d.Eps); err != nil {
		return nil, err
	} else if eps != nil {
		job.Eps = *eps
	}

	if d.Kind == EvalKind {
		return job, nil
	}
	x1, err := evalNumber("x1", d.X1)
	if err != nil {
		return nil, err
	}
	x2, err := evalNumber("x2", d.X2)
	if err != nil {
		return nil, err
	}
	if x1 == nil || x2 == nil {
		return nil, fmt.Errorf("x1 and x2 are required for %s", d.Kind)
	}
	job.X1, job.X2 = *x1, *x2
	return job, nil
}

// evalNumber resolves a numeric field, which is either a plain number or an
// expression without x.
func evalNumber(field string, v any) (*float64, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case int64:
		f := float64(v)
		return &f, nil
	case string:
		// YAMLToJSON quotes exponent literals such as 1e-9
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return &f, nil
		}
		f, err := expression.EvalString(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("%s: must be a number or an expression but got %T", field, v)
	}
}

func decodeJSONNumberHook(_, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int64:
		return n.Int64()
	default:
		return n.Float64()
	}
}
