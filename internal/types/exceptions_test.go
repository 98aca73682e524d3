package types_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/expression-solver/internal/types"
)

func TestErrorRender(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name     string
		err      *types.Error
		source   string
		expected string
	}{
		{
			name:   "operator",
			err:    types.NewError(types.UnmatchedOperatorTag, "-", 5),
			source: "1 + 2-",
			expected: "error: unmatched operator `-` at 5\n" +
				"1 + 2-\n" +
				"     ^",
		},
		{
			name:   "identifier",
			err:    types.NewError(types.UnknownIdentTag, "foo", 4),
			source: "2 * foo(1)",
			expected: "error: unknown identifier `foo` at 4\n" +
				"2 * foo(1)\n" +
				"    ^^^",
		},
		{
			name:   "second line",
			err:    types.NewError(types.UnknownIdentTag, "y", 5),
			source: "1 +\n y",
			expected: "error: unknown identifier `y` at 5\n" +
				" y\n" +
				" ^",
		},
		{
			name:   "first of many lines",
			err:    types.NewError(types.UnmatchedOperatorTag, "+", 2),
			source: "1 +\n\n2",
			expected: "error: unmatched operator `+` at 2\n" +
				"1 +\n" +
				"  ^",
		},
		{
			name:   "empty",
			err:    types.NewError(types.EmptyExpressionTag, "", 0),
			source: "",
			expected: "error: empty expression `` at 0\n" +
				"\n" +
				"^",
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.expected, tt.err.Render(tt.source, false)); diff != "" {
				t.Errorf("diagnostic mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.expected, tt.err.WithSource(tt.source).Diagnostic(false)); diff != "" {
				t.Errorf("diagnostic mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestErrorRenderColorized(t *testing.T) {
	t.Parallel()

	e := types.NewError(types.WrongArgsTag, "sin", 0)
	s := e.Render("sin(1, 2)", true)
	if !strings.Contains(s, "\x1b[") {
		t.Errorf("expect ANSI escapes in %q", s)
	}
	if !strings.Contains(s, "wrong arguments for `sin` at 0") {
		t.Errorf("unexpected message: %q", s)
	}
}

func TestErrorTagging(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	err := fmt.Errorf("job[0] f: %w", types.WrapError(types.WrongNumberTag, "1..2", 3, cause))

	if !types.HasTag(err, types.WrongNumberTag) {
		t.Error("must have WrongNumber tag")
	}
	if types.HasTag(err, types.UnknownIdentTag) {
		t.Error("must not have UnknownIdent tag")
	}
	if !errors.Is(err, cause) {
		t.Error("must unwrap to the cause")
	}
	if !errors.Is(err, &types.Error{Tag: types.WrongNumberTag}) {
		t.Error("must match by tag")
	}
	if types.HasTag(cause, types.WrongNumberTag) {
		t.Error("plain errors have no tag")
	}
}

func TestErrorException(t *testing.T) {
	t.Parallel()

	e := types.NewError(types.MissingArgumentValueTag, "x", 0).WithSource("x + 1")
	e.Extra = map[string]any{"job": "f"}

	expected := map[string]any{
		"tag":        types.MissingArgumentValueTag,
		"stage":      types.EvalStage,
		"text":       "x",
		"pos":        0,
		"message":    "argument value is required for `x` at 0",
		"source":     "x + 1",
		"diagnostic": "error: argument value is required for `x` at 0\nx + 1\n^",
		"job":        "f",
	}
	if diff := cmp.Diff(expected, e.Exception()); diff != "" {
		t.Errorf("exception mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorTagStage(t *testing.T) {
	t.Parallel()

	for tag, stage := range map[types.ErrorTag]types.Stage{
		types.WrongNumberTag:          types.LexStage,
		types.UnknownIdentTag:         types.LexStage,
		types.UnknownSymbolTag:        types.LexStage,
		types.UnmatchedParenthesisTag: types.ParseStage,
		types.ExpectedParenthesisTag:  types.ParseStage,
		types.EmptyExpressionTag:      types.ParseStage,
		types.MissingArgumentValueTag: types.EvalStage,
		types.UnmatchedOperatorTag:    types.EvalStage,
		types.MissingOperatorTag:      types.EvalStage,
		types.WrongArgsTag:            types.EvalStage,
		types.ErrorTag("Other"):       types.UnknownStage,
	} {
		if got := tag.Stage(); got != stage {
			t.Errorf("%s: expect %s but got %s", tag, stage, got)
		}
	}
}
