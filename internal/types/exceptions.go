package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
)

type ErrorTag string

const (
	// lexer
	WrongNumberTag   ErrorTag = "WrongNumber"
	UnknownIdentTag  ErrorTag = "UnknownIdent"
	UnknownSymbolTag ErrorTag = "UnknownSymbol"

	// parser
	UnmatchedParenthesisTag ErrorTag = "UnmatchedParenthesis"
	ExpectedParenthesisTag  ErrorTag = "ExpectedParenthesis"
	EmptyExpressionTag      ErrorTag = "EmptyExpression"

	// evaluator
	MissingArgumentValueTag ErrorTag = "MissingArgumentValue"
	UnmatchedOperatorTag    ErrorTag = "UnmatchedOperator"
	MissingOperatorTag      ErrorTag = "MissingOperator"
	WrongArgsTag            ErrorTag = "WrongArgs"
)

type Stage string

const (
	LexStage     Stage = "lex"
	ParseStage   Stage = "parse"
	EvalStage    Stage = "eval"
	UnknownStage Stage = "unknown"
)

func (t ErrorTag) Stage() Stage {
	switch t {
	case WrongNumberTag, UnknownIdentTag, UnknownSymbolTag:
		return LexStage
	case UnmatchedParenthesisTag, ExpectedParenthesisTag, EmptyExpressionTag:
		return ParseStage
	case MissingArgumentValueTag, UnmatchedOperatorTag, MissingOperatorTag, WrongArgsTag:
		return EvalStage
	default:
		return UnknownStage
	}
}

func (t ErrorTag) message() string {
	switch t {
	case WrongNumberTag:
		return "could not parse number"
	case UnknownIdentTag:
		return "unknown identifier"
	case UnknownSymbolTag:
		return "unknown symbol"
	case UnmatchedParenthesisTag:
		return "unmatched parenthesis"
	case ExpectedParenthesisTag:
		return "expected `(` after function"
	case EmptyExpressionTag:
		return "empty expression"
	case MissingArgumentValueTag:
		return "argument value is required for"
	case UnmatchedOperatorTag:
		return "unmatched operator"
	case MissingOperatorTag:
		return "missing operator before"
	case WrongArgsTag:
		return "wrong arguments for"
	default:
		return string(t)
	}
}

type Exception interface {
	error
	Exception() any
}

// Error is a failure of one of the expression stages. Text and Pos locate the
// offending span in Source.
type Error struct {
	Tag    ErrorTag
	Text   string
	Pos    int
	Source string
	Err    error
	Extra  map[string]any
}

var _ Exception = (*Error)(nil)

// Brief returns the single-line message, e.g. "unmatched operator `-` at 5".
func (e *Error) Brief() string {
	var b strings.Builder
	b.WriteString(e.Tag.message())
	b.WriteString(" `")
	b.WriteString(e.Text)
	b.WriteString("` at ")
	b.WriteString(strconv.Itoa(e.Pos))
	return b.String()
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Brief()
	}
	return e.Brief() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same tag, so that
// errors.Is(err, &types.Error{Tag: types.WrongArgsTag}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Tag == e.Tag
}

func (e *Error) Exception() any {
	o := map[string]any{
		"tag":     e.Tag,
		"stage":   e.Tag.Stage(),
		"text":    e.Text,
		"pos":     e.Pos,
		"message": e.Error(),
	}
	if e.Source != "" {
		o["source"] = e.Source
		o["diagnostic"] = e.Diagnostic(false)
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

// WithSource returns a copy of e bound to source. e is left untouched.
func (e *Error) WithSource(source string) *Error {
	cp := *e
	cp.Source = source
	return &cp
}

var (
	errorLabelColor = color.New(color.FgRed, color.Bold)
	cursorColor     = color.New(color.FgYellow, color.Bold)
)

// Render draws the diagnostic for e against source: the brief message, the
// source line holding Pos and a caret line under the offending span.
func (e *Error) Render(source string, colorize bool) string {
	line, col := lineAt(source, e.Pos)
	label := "error"
	cursor := Cursor(col, len(e.Text))
	if colorize {
		label = sprintColor(errorLabelColor, label)
		cursor = sprintColor(cursorColor, cursor)
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(e.Brief())
	b.WriteByte('\n')
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(cursor)
	return b.String()
}

// lineAt returns the line of source containing the byte offset pos and the
// offset of pos within that line.
func lineAt(source string, pos int) (string, int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(source) {
		pos = len(source)
	}
	begin := strings.LastIndexByte(source[:pos], '\n') + 1
	end := len(source)
	if i := strings.IndexByte(source[pos:], '\n'); i != -1 {
		end = pos + i
	}
	return source[begin:end], pos - begin
}

// Diagnostic renders e against its own Source.
func (e *Error) Diagnostic(colorize bool) string {
	return e.Render(e.Source, colorize)
}

// Cursor returns spaces up to pos followed by width carets (at least one).
func Cursor(pos, width int) string {
	if pos < 0 {
		pos = 0
	}
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", pos) + strings.Repeat("^", width)
}

func sprintColor(c *color.Color, s string) string {
	cc := *c
	cc.EnableColor()
	return cc.Sprint(s)
}

// HasTag reports whether err wraps an *Error tagged with tag.
func HasTag(err error, tag ErrorTag) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Tag == tag
}

func NewError(tag ErrorTag, text string, pos int) *Error {
	return &Error{Tag: tag, Text: text, Pos: pos}
}

func WrapError(tag ErrorTag, text string, pos int, err error) *Error {
	return &Error{Tag: tag, Text: text, Pos: pos, Err: err}
}

// Errorf builds an Error whose cause is formatted from format and args.
func Errorf(tag ErrorTag, text string, pos int, format string, args ...any) *Error {
	return WrapError(tag, text, pos, fmt.Errorf(format, args...))
}
