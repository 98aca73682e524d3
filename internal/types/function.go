package types

import (
	"fmt"
	"strings"

	reflect "github.com/goccy/go-reflect"
	"github.com/samber/lo"
)

// Function is a built-in with a fixed arity. Call receives exactly Arity()
// arguments in the order they were written.
type Function interface {
	Name() string
	Args() []string
	Arity() int
	Call([]float64) float64
}

type Argument struct {
	Name string
}

type reflectFunc struct {
	name  string
	args  []Argument
	call  func([]float64) float64
	value reflect.Value
}

// NewFunction wraps f, which must be a func taking len(args) float64 values and
// returning a single float64. Named float types are accepted and converted.
func NewFunction(name string, args []Argument, f any) (Function, error) {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("must be function but got %T: %+v", f, f)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("function %s must take at least one argument", name)
	}

	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("function %s must not be variadic", name)
	}
	if t.NumIn() != len(args) {
		return nil, fmt.Errorf("mis-match arguments count with args %+v: %s", args, t.String())
	}
	for i := 0; i < t.NumIn(); i++ {
		if in := t.In(i); in.Kind() != reflect.Float64 {
			return nil, fmt.Errorf("argument[%d] %s must be float64 but got %s", i, args[i].Name, in.String())
		}
	}
	if t.NumOut() != 1 || t.Out(0).Kind() != reflect.Float64 {
		return nil, fmt.Errorf("builtin function must return a single float64: %s", t.String())
	}

	fn := &reflectFunc{
		name:  name,
		args:  args,
		value: v,
	}
	switch f := f.(type) {
	case func(float64) float64:
		fn.call = func(args []float64) float64 { return f(args[0]) }
	case func(float64, float64) float64:
		fn.call = func(args []float64) float64 { return f(args[0], args[1]) }
	case func(float64, float64, float64) float64:
		fn.call = func(args []float64) float64 { return f(args[0], args[1], args[2]) }
	default:
		fn.call = fn.callReflect
	}
	return fn, nil
}

func MustNewFunction(name string, args []Argument, f any) Function {
	fun, err := NewFunction(name, args, f)
	if err != nil {
		panic(err)
	}
	return fun
}

func (f *reflectFunc) Name() string {
	return f.name
}

func (f *reflectFunc) Args() []string {
	return lo.Map(f.args, func(arg Argument, _ int) string {
		return arg.Name
	})
}

func (f *reflectFunc) Arity() int {
	return len(f.args)
}

func (f *reflectFunc) Call(args []float64) float64 {
	if len(args) != len(f.args) {
		panic(fmt.Sprintf("%s: %d arguments are required but got %d arguments, usage: %s", f.name, len(f.args), len(args), Usage(f)))
	}
	return f.call(args)
}

func (f *reflectFunc) callReflect(args []float64) float64 {
	t := f.value.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg).Convert(t.In(i))
	}
	return f.value.Call(in)[0].Float()
}

// NewRawFunction builds a Function from a closure over the argument slice.
func NewRawFunction(name string, args []Argument, f func([]float64) float64) Function {
	return &rawFunction{
		name: name,
		args: args,
		f:    f,
	}
}

type rawFunction struct {
	name string
	args []Argument
	f    func([]float64) float64
}

func (f *rawFunction) Name() string {
	return f.name
}

func (f *rawFunction) Args() []string {
	return lo.Map(f.args, func(arg Argument, _ int) string {
		return arg.Name
	})
}

func (f *rawFunction) Arity() int {
	return len(f.args)
}

func (f *rawFunction) Call(args []float64) float64 {
	if len(args) != len(f.args) {
		panic(fmt.Sprintf("invalid function usage: %s", Usage(f)))
	}
	return f.f(args)
}

// Usage renders f as a call signature, e.g. "clamp(x, min, max)".
func Usage(f Function) string {
	var s strings.Builder
	s.WriteString(f.Name())
	s.WriteByte('(')
	s.WriteString(strings.Join(f.Args(), ", "))
	s.WriteByte(')')
	return s.String()
}
