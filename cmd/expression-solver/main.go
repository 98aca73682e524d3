package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/expression-solver/internal/batch"
	"github.com/karupanerura/expression-solver/internal/defaults"
	"github.com/karupanerura/expression-solver/internal/expression"
	"github.com/karupanerura/expression-solver/internal/server"
	"github.com/karupanerura/expression-solver/internal/solver"
	"github.com/karupanerura/expression-solver/internal/types"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
)

type Option struct {
	Debug bool `long:"debug" env:"EXPRESSION_SOLVER_DEBUG" description:"[OPTIONAL] Dump the parser trace to stderr"`

	Eval      EvalCommand      `command:"eval" description:"Evaluate an expression"`
	Root      RangeCommand     `command:"root" description:"Find a root of an expression of x between X1 and X2"`
	Integral  RangeCommand     `command:"integral" description:"Integrate an expression of x from X1 to X2"`
	Batch     BatchCommand     `command:"batch" description:"Run the jobs in a YAML or JSON file"`
	Serve     ServeCommand     `command:"serve" description:"Serve the JSON API over HTTP"`
	Functions FunctionsCommand `command:"functions" description:"List the built-in symbols"`
	Tokens    TokensCommand    `command:"tokens" description:"Print the tokens and the postfix form of an expression"`
}

type EvalCommand struct {
	X    string `short:"x" description:"[OPTIONAL] Value of x (expression)"`
	Args struct {
		Expr string `positional-arg-name:"EXPR"`
	} `positional-args:"true" required:"true"`
}

// RangeCommand is shared by root and integral. Bounds are expressions, so a
// negative bound is written after "--" or in parentheses.
type RangeCommand struct {
	Eps           string `long:"eps" description:"[OPTIONAL] Tolerance (expression)" default:"eps"`
	MaxIterations int    `long:"max-iterations" description:"[OPTIONAL] Iteration cap" default:"100000"`
	Args          struct {
		Expr string `positional-arg-name:"EXPR"`
		X1   string `positional-arg-name:"X1"`
		X2   string `positional-arg-name:"X2"`
	} `positional-args:"true" required:"true"`
}

type BatchCommand struct {
	File        string `short:"f" long:"file" description:"[REQUIRED] Batch file (.yaml, .yml, .json or .toml)" required:"true"`
	Parallelism int    `short:"p" long:"parallelism" description:"[OPTIONAL] Jobs run at once (defaults to the number of CPUs)"`
}

type ServeCommand struct {
	Listen string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port" default:"127.0.0.1:8080"`
}

type FunctionsCommand struct{}

type TokensCommand struct {
	Args struct {
		Expr string `positional-arg-name:"EXPR"`
	} `positional-args:"true" required:"true"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cli struct {
	opt    Option
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	parser := flags.NewParser(&c.opt, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return 0
		}
		fmt.Fprintln(stderr, err)
		parser.WriteHelp(stderr)
		return 1
	}

	switch parser.Active.Name {
	case "eval":
		return c.eval()
	case "root":
		return c.root()
	case "integral":
		return c.integral()
	case "batch":
		return c.batch()
	case "serve":
		return c.serve()
	case "functions":
		return c.functions()
	case "tokens":
		return c.tokens()
	default:
		parser.WriteHelp(stderr)
		return 1
	}
}

func (c *cli) compile(source string) (*expression.Expr, error) {
	if c.opt.Debug {
		return expression.CompileWithDebugOutput(source)
	}
	return expression.Compile(source)
}

func (c *cli) eval() int {
	expr, err := c.compile(c.opt.Eval.Args.Expr)
	if err != nil {
		return c.fail(err)
	}

	var x *float64
	if c.opt.Eval.X != "" {
		v, err := expression.EvalString(c.opt.Eval.X)
		if err != nil {
			return c.fail(err)
		}
		x = &v
	}

	v, err := expr.Eval(x)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.stdout, v)
	return 0
}

type rangeArgs struct {
	expr          *expression.Expr
	x1, x2, eps   float64
	maxIterations int
}

func (c *cli) rangeArgs(cmd *RangeCommand) (*rangeArgs, error) {
	expr, err := c.compile(cmd.Args.Expr)
	if err != nil {
		return nil, err
	}

	nums := make([]float64, 3)
	for i, source := range []string{cmd.Args.X1, cmd.Args.X2, cmd.Eps} {
		if nums[i], err = expression.EvalString(source); err != nil {
			return nil, err
		}
	}
	return &rangeArgs{
		expr:          expr,
		x1:            nums[0],
		x2:            nums[1],
		eps:           nums[2],
		maxIterations: cmd.MaxIterations,
	}, nil
}

func (c *cli) root() int {
	ra, err := c.rangeArgs(&c.opt.Root)
	if err != nil {
		return c.fail(err)
	}

	root, found, err := solver.Root(ra.expr.Func(), ra.x1, ra.x2, ra.eps, ra.maxIterations)
	if err != nil {
		return c.fail(err)
	}
	if !found {
		fmt.Fprintln(c.stdout, "could not find root")
		return 0
	}
	fmt.Fprintln(c.stdout, root)
	return 0
}

func (c *cli) integral() int {
	ra, err := c.rangeArgs(&c.opt.Integral)
	if err != nil {
		return c.fail(err)
	}

	v, err := solver.Integral(ra.expr.Func(), ra.x1, ra.x2, ra.eps, ra.maxIterations)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.stdout, v)
	return 0
}

func (c *cli) batch() int {
	b, err := loadBatch(c.opt.Batch.File)
	if err != nil {
		log.Printf("failed to load batch: %v", err)
		return 1
	}

	parallelism := c.opt.Batch.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := b.Run(ctx, parallelism)
	if err != nil {
		log.Printf("failed to run batch: %v", err)
		return 1
	}
	if err = dumpJSON(c.stdout, map[string][]*batch.Result{"results": results}); err != nil {
		log.Printf("failed to dump batch results: %v", err)
		return 1
	}

	failed := lo.Filter(results, func(res *batch.Result, _ int) bool {
		return res.Error != nil
	})
	if len(failed) != 0 {
		return 1
	}
	return 0
}

func (c *cli) serve() int {
	if err := serve(c.opt.Serve.Listen, server.NewHTTPHandler(defaults.SymbolTable)); err != nil {
		log.Printf("failed to serve: %v", err)
		return 1
	}
	return 0
}

func (c *cli) functions() int {
	if err := dumpJSON(c.stdout, defaults.SymbolTable.Listing()); err != nil {
		log.Printf("failed to dump symbols: %v", err)
		return 1
	}
	return 0
}

func (c *cli) tokens() int {
	source := c.opt.Tokens.Args.Expr
	tokens, err := expression.Tokenize(source, defaults.SymbolTable)
	if err != nil {
		return c.fail(err)
	}
	postfix, err := expression.Parse(tokens)
	if err != nil {
		var e *types.Error
		if errors.As(err, &e) {
			err = e.WithSource(source)
		}
		return c.fail(err)
	}
	fmt.Fprintln(c.stdout, "tokens: ", joinTokens(tokens))
	fmt.Fprintln(c.stdout, "postfix:", joinTokens(postfix))
	return 0
}

func joinTokens(tokens []expression.Token) string {
	return strings.Join(lo.Map(tokens, func(tok expression.Token, _ int) string {
		return tok.String()
	}), " ")
}

func (c *cli) fail(err error) int {
	var e *types.Error
	if errors.As(err, &e) {
		fmt.Fprintln(c.stderr, e.Diagnostic(isTerminal(c.stderr)))
		return 1
	}
	log.Printf("failed: %v", err)
	return 1
}

func loadBatch(filePath string) (*batch.Batch, error) {
	var parseBatch func(io.Reader) (*batch.Batch, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseBatch = batch.ParseBatchJSON
	case ".yaml", ".yml":
		parseBatch = batch.ParseBatchYAML
	case ".toml":
		parseBatch = batch.ParseBatchTOML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	b, err := parseBatch(f)
	if err != nil {
		return nil, fmt.Errorf("batch.ParseBatch: %w", err)
	}
	return b, nil
}

func serve(listen string, handler http.Handler) error {
	srv := http.Server{
		Handler: handler,
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if isTerminal(w) {
		opts = append(opts, json.Colorize(json.DefaultColorScheme))
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
