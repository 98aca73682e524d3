package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestRun(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name   string
		args   []string
		status int
		stdout string
		stderr string
	}{
		{
			name:   "eval",
			args:   []string{"eval", "1 + 2 * 3"},
			stdout: "7\n",
		},
		{
			name:   "eval with x",
			args:   []string{"eval", "-x", "1 + 1", "x^2"},
			stdout: "4\n",
		},
		{
			name:   "eval leading minus",
			args:   []string{"eval", "--", "-2^2"},
			stdout: "4\n",
		},
		{
			name:   "root",
			args:   []string{"root", "x - 1", "0", "2"},
			stdout: "1\n",
		},
		{
			name:   "root not found",
			args:   []string{"root", "--", "x^2 + 1", "-1", "1"},
			stdout: "could not find root\n",
		},
		{
			name:   "integral",
			args:   []string{"integral", "1", "0", "5"},
			stdout: "5\n",
		},
		{
			name:   "integral with expression bounds",
			args:   []string{"integral", "--eps", "eps / 10", "2*x", "0", "sqrt(16)"},
			stdout: "16\n",
		},
		{
			name:   "tokens",
			args:   []string{"tokens", "1 - -2"},
			stdout: "tokens:  Number:1@0 UnaryMinus:-@2 UnaryMinus:-@4 Number:2@5\npostfix: Number:1@0 Number:2@5 UnaryMinus:-@4 Sub:-@2\n",
		},
		{
			name:   "eval error",
			args:   []string{"eval", "1 +"},
			status: 1,
			stderr: "error: unmatched operator `+` at 2\n1 +\n  ^\n",
		},
		{
			name:   "compile error",
			args:   []string{"eval", "2 * foo"},
			status: 1,
			stderr: "error: unknown identifier `foo` at 4\n2 * foo\n    ^^^\n",
		},
		{
			name:   "bound error",
			args:   []string{"root", "x", "0", "(1"},
			status: 1,
			stderr: "error: unmatched parenthesis `(` at 0\n(1\n^\n",
		},
		{
			name:   "tokens parse error",
			args:   []string{"tokens", "sin 1"},
			status: 1,
			stderr: "error: expected `(` after function `sin` at 0\nsin 1\n^^^\n",
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			if status := run(tt.args, &stdout, &stderr); status != tt.status {
				t.Errorf("expect status %d but got %d: %s", tt.status, status, stderr.String())
			}
			if diff := cmp.Diff(tt.stdout, stdout.String()); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.stderr, stderr.String()); diff != "" {
				t.Errorf("stderr mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if status := run([]string{"--help"}, &stdout, &stderr); status != 0 {
		t.Errorf("help must succeed but got %d", status)
	}
	if !strings.Contains(stdout.String(), "integral") {
		t.Errorf("help must list the commands: %s", stdout.String())
	}

	stdout.Reset()
	stderr.Reset()
	if status := run([]string{"derive", "x"}, &stdout, &stderr); status != 1 {
		t.Errorf("unknown command must fail but got %d", status)
	}
}

func TestRunFunctions(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if status := run([]string{"functions"}, &stdout, &stderr); status != 0 {
		t.Fatalf("unexpected status %d: %s", status, stderr.String())
	}

	var symbols []map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &symbols); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, s := range symbols {
		if s["name"] == "mul_add" {
			found = s["description"] == "function mul_add(x, a, b)"
		}
	}
	if !found {
		t.Errorf("mul_add is not listed: %s", stdout.String())
	}
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "jobs.yml")
	source := "jobs:\n  - {name: a, kind: eval, expr: '2^10'}\n  - {name: b, kind: integral, expr: '1', x1: 0, x2: 3}\n"
	if err := os.WriteFile(file, []byte(source), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if status := run([]string{"batch", "-f", file, "-p", "1"}, &stdout, &stderr); status != 0 {
		t.Fatalf("unexpected status %d: %s", status, stderr.String())
	}

	var got struct {
		Results []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		} `json:"results"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Results) != 2 || got.Results[0].Value != 1024 || got.Results[1].Value != 3 {
		t.Errorf("unexpected results: %+v", got.Results)
	}
}
