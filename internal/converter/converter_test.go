package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
	tu "github.com/desertthunder/gameretriever/internal/testing"
)

func ptr(s string) *string { return &s }

// setup creates a converters dir and an input file inside a temp dir.
func setup(t *testing.T, input string) (dir, in, out string) {
	t.Helper()
	root := t.TempDir()
	dir = filepath.Join(root, "converters")
	in = filepath.Join(root, "input.txt")
	out = filepath.Join(root, "out", "result.txt")
	tu.MustWriteFile(t, in, input)
	return dir, in, out
}

func writeDefinition(t *testing.T, dir, name string, handlers string, in, out string) {
	t.Helper()
	tu.MustWriteFile(t, filepath.Join(dir, name+".json"), fmt.Sprintf(
		`{"inputFile": %q, "outputFile": %q, "handlers": [%s]}`, in, out, handlers))
}

func TestRule(t *testing.T) {
	tt := []struct {
		name    string
		handler Handler
		line    string
		want    string
		wantOK  bool
	}{
		{
			name:    "full match with groups",
			handler: Handler{Pattern: ptr(`(\w+)=(\d+)`), Substitution: ptr(`$2:$1`)},
			line:    "a=1",
			want:    "1:a",
			wantOK:  true,
		},
		{
			name:    "partial match is dropped",
			handler: Handler{Pattern: ptr(`(\w+)=(\d+)`), Substitution: ptr(`$2:$1`)},
			line:    "a=1 extra",
		},
		{
			name:    "filter is a search",
			handler: Handler{Filter: ptr(`=1`), Pattern: ptr(`(.*)`), Substitution: ptr(`<$1>`)},
			line:    "a=1 extra",
			want:    "<a=1 extra>",
			wantOK:  true,
		},
		{
			name:    "filter rejects",
			handler: Handler{Filter: ptr(`^b`), Pattern: ptr(`(.*)`), Substitution: ptr(`$1`)},
			line:    "a=1",
		},
		{
			name:    "named groups and braces",
			handler: Handler{Pattern: ptr(`(?P<id>\d+),(\w+)`), Substitution: ptr(`${2}_${id}`)},
			line:    "42,doom",
			want:    "doom_42",
			wantOK:  true,
		},
		{
			name:    "group reference followed by a word character",
			handler: Handler{Pattern: ptr(`ERROR: (\w+) full`), Substitution: ptr(`$1_x`)},
			line:    "ERROR: disk full",
			want:    "disk_x",
			wantOK:  true,
		},
		{
			name:    "digits past the group count are literal",
			handler: Handler{Pattern: ptr(`(\w+)`), Substitution: ptr(`$10`)},
			line:    "v",
			want:    "v0",
			wantOK:  true,
		},
		{
			name:    "two digit group reference",
			handler: Handler{Pattern: ptr(`(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)(k)`), Substitution: ptr(`$11$1`)},
			line:    "abcdefghijk",
			want:    "ka",
			wantOK:  true,
		},
		{
			name:    "escaped dollar and backslash",
			handler: Handler{Pattern: ptr(`(\d+)`), Substitution: ptr(`\$$1\\`)},
			line:    "5",
			want:    `$5\`,
			wantOK:  true,
		},
		{
			name:    "double dollar is literal",
			handler: Handler{Pattern: ptr(`(\d+)`), Substitution: ptr(`$$$1`)},
			line:    "7",
			want:    "$7",
			wantOK:  true,
		},
		{
			name:    "alternation is anchored as a whole",
			handler: Handler{Pattern: ptr(`a|ab`), Substitution: ptr(`x`)},
			line:    "ab",
			want:    "x",
			wantOK:  true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r, err := compile(tc.handler)
			if err != nil {
				t.Fatalf("failed to compile: %v", err)
			}

			got, ok := r.apply(tc.line)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("expected (%q, %v), got (%q, %v)", tc.want, tc.wantOK, got, ok)
			}
		})
	}

	t.Run("invalid substitution", func(t *testing.T) {
		for _, sub := range []string{`$2`, `${missing}`, `${}`, `$x`, `$`, `trailing\`, `${1`} {
			_, err := compile(Handler{Name: "refs", Pattern: ptr(`(\w+)`), Substitution: ptr(sub)})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("%q: expected ErrInvalidConfig, got %v", sub, err)
				continue
			}
			if !strings.Contains(err.Error(), "refs") {
				t.Errorf("%q: expected handler name in error, got %v", sub, err)
			}
		}
	})

	t.Run("invalid regex", func(t *testing.T) {
		_, err := compile(Handler{Name: "broken", Pattern: ptr(`(`), Substitution: ptr(``)})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
		if !strings.Contains(err.Error(), "broken") {
			t.Errorf("expected handler name in error, got %v", err)
		}
	})
}

func TestLoader(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "converters")

		defs, err := NewLoader(dir).List()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(defs) != 0 {
			t.Errorf("expected no definitions, got %d", len(defs))
		}
		tu.AssertDirExists(t, dir)
	})

	t.Run("JSON and YAML load identically", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustWriteFile(t, filepath.Join(dir, "a.json"), `{
  "inputFile": "in.sql",
  "outputFile": "out.csv",
  "handlers": [{"name": "games", "filter": "game", "pattern": "(.*)", "substitution": "$1"}, {"name": "noop"}]
}`)
		tu.MustWriteFile(t, filepath.Join(dir, "b.yaml"), `inputFile: in.sql
outputFile: out.csv
handlers:
  - name: games
    filter: game
    pattern: "(.*)"
    substitution: "$1"
  - name: noop
`)
		tu.MustWriteFile(t, filepath.Join(dir, "notes.txt"), "ignored")

		defs, err := NewLoader(dir).List()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(defs) != 2 || defs[0].Name != "a" || defs[1].Name != "b" {
			t.Fatalf("expected definitions a and b, got %+v", defs)
		}

		for _, def := range defs {
			if def.InputFile != "in.sql" || def.OutputFile != "out.csv" || len(def.Handlers) != 2 {
				t.Errorf("%s: unexpected definition %+v", def.Name, def)
				continue
			}
			if *def.Handlers[0].Substitution != "$1" || def.Handlers[0].NoOp() {
				t.Errorf("%s: unexpected first handler %+v", def.Name, def.Handlers[0])
			}
			if !def.Handlers[1].NoOp() || def.Handlers[1].Filter != nil {
				t.Errorf("%s: second handler should be a no-op", def.Name)
			}
		}
	})

	t.Run("Get unknown converter", func(t *testing.T) {
		_, err := NewLoader(t.TempDir()).Get("missing")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("malformed definition", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustWriteFile(t, filepath.Join(dir, "bad.json"), `{"handlers": [}`)

		_, err := NewLoader(dir).Get("bad")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("duplicate names", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustWriteFile(t, filepath.Join(dir, "x.json"), `{}`)
		tu.MustWriteFile(t, filepath.Join(dir, "x.yml"), `{}`)

		_, err := NewLoader(dir).List()
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("handlers run in order over the original input", func(t *testing.T) {
		dir, in, out := setup(t, "a=1\nb=2\nc\n")
		writeDefinition(t, dir, "conv", `
			{"name": "swap", "pattern": "(\\w)=(\\d)", "substitution": "$2:$1"},
			{"name": "skip"},
			{"name": "only b", "filter": "b", "pattern": "(.*)", "substitution": "[$1]"}`, in, out)

		progress := make(chan tasks.ProgressUpdate, 10)
		if err := NewPipeline(dir, nil).Convert(ctx, "conv", progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "1:a\n2:b\n\n[b=2]\n\n"
		if got := tu.MustReadFile(t, out); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}

		close(progress)
		var messages []string
		for u := range progress {
			messages = append(messages, u.Message)
		}
		wantMessages := "[(handler 1/3) swap (handler 2/3) skip (handler 3/3) only b]"
		if fmt.Sprint(messages) != wantMessages {
			t.Errorf("expected %s, got %v", wantMessages, messages)
		}
	})

	t.Run("no matches yields only separators", func(t *testing.T) {
		dir, in, out := setup(t, "x\ny\n")
		writeDefinition(t, dir, "conv", `{"name": "digits", "pattern": "\\d+", "substitution": "$0"}`, in, out)

		if err := NewPipeline(dir, nil).Convert(ctx, "conv", nil); err != nil {
			t.Fatal(err)
		}
		if got := tu.MustReadFile(t, out); got != "\n" {
			t.Errorf("expected a single blank line, got %q", got)
		}
	})

	t.Run("output is truncated", func(t *testing.T) {
		dir, in, out := setup(t, "keep\n")
		tu.MustWriteFile(t, out, "stale content that is longer\n")
		writeDefinition(t, dir, "conv", `{"name": "all", "pattern": "(.*)", "substitution": "$1"}`, in, out)

		if err := NewPipeline(dir, nil).Convert(ctx, "conv", nil); err != nil {
			t.Fatal(err)
		}
		if got := tu.MustReadFile(t, out); got != "keep\n\n" {
			t.Errorf("expected %q, got %q", "keep\n\n", got)
		}
	})

	t.Run("unknown converter creates no output", func(t *testing.T) {
		dir, _, _ := setup(t, "")

		err := NewPipeline(dir, nil).Convert(ctx, "missing", nil)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("empty handlers creates no output", func(t *testing.T) {
		dir, in, out := setup(t, "a\n")
		writeDefinition(t, dir, "empty", ``, in, out)

		err := NewPipeline(dir, nil).Convert(ctx, "empty", nil)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
		if !strings.Contains(err.Error(), "does not contain handlers") {
			t.Errorf("unexpected message %v", err)
		}
		tu.AssertNoFile(t, out)
	})

	t.Run("missing input names both paths", func(t *testing.T) {
		dir, in, out := setup(t, "")
		os.Remove(in)
		writeDefinition(t, dir, "conv", `{"name": "all", "pattern": "(.*)", "substitution": "$1"}`, in, out)

		err := NewPipeline(dir, nil).Convert(ctx, "conv", nil)
		if !errors.Is(err, shared.ErrIO) {
			t.Fatalf("expected ErrIO, got %v", err)
		}
		if !strings.Contains(err.Error(), in) || !strings.Contains(err.Error(), out) {
			t.Errorf("expected both paths in %v", err)
		}
	})

	t.Run("no-op handlers never read the input", func(t *testing.T) {
		dir, in, out := setup(t, "")
		os.Remove(in)
		writeDefinition(t, dir, "conv", `{"name": "a"}, {"name": "b", "pattern": "x"}`, in, out)

		if err := NewPipeline(dir, nil).Convert(ctx, "conv", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := tu.MustReadFile(t, out); got != "" {
			t.Errorf("expected empty output, got %q", got)
		}
	})

	t.Run("leading no-op handler adds no separator", func(t *testing.T) {
		dir, in, out := setup(t, "ERROR: disk full\nINFO: ok\nERROR: timeout\n")
		writeDefinition(t, dir, "conv", `
			{"name": "placeholder"},
			{"name": "errors", "filter": "^ERROR", "pattern": "ERROR: (.*)", "substitution": "$1"}`, in, out)

		if err := NewPipeline(dir, nil).Convert(ctx, "conv", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "disk full\ntimeout\n\n"
		if got := tu.MustReadFile(t, out); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("invalid regex aborts at that handler", func(t *testing.T) {
		dir, in, out := setup(t, "a\n")
		writeDefinition(t, dir, "conv", `
			{"name": "first", "pattern": "(.*)", "substitution": "$1"},
			{"name": "broken", "pattern": "(", "substitution": "$1"},
			{"name": "never", "pattern": "(.*)", "substitution": "never"}`, in, out)

		err := NewPipeline(dir, nil).Convert(ctx, "conv", nil)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
		if got := tu.MustReadFile(t, out); got != "a\n\n" {
			t.Errorf("expected only the first handler's output, got %q", got)
		}
	})

	t.Run("input and output must differ", func(t *testing.T) {
		dir, in, _ := setup(t, "a\n")
		writeDefinition(t, dir, "conv", `{"name": "all", "pattern": "(.*)", "substitution": "$1"}`, in, in)

		err := NewPipeline(dir, nil).Convert(ctx, "conv", nil)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
		if got := tu.MustReadFile(t, in); got != "a\n" {
			t.Errorf("input should be untouched, got %q", got)
		}
	})

	t.Run("definitions are reloaded on every call", func(t *testing.T) {
		dir, in, out := setup(t, "a\n")
		pipeline := NewPipeline(dir, nil)

		writeDefinition(t, dir, "conv", `{"name": "v1", "pattern": "(.*)", "substitution": "one $1"}`, in, out)
		if err := pipeline.Convert(ctx, "conv", nil); err != nil {
			t.Fatal(err)
		}

		writeDefinition(t, dir, "conv", `{"name": "v2", "pattern": "(.*)", "substitution": "two $1"}`, in, out)
		if err := pipeline.Convert(ctx, "conv", nil); err != nil {
			t.Fatal(err)
		}

		if got := tu.MustReadFile(t, out); got != "two a\n\n" {
			t.Errorf("expected the edited definition to apply, got %q", got)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		dir, in, out := setup(t, "a\nb\n")
		writeDefinition(t, dir, "conv", `{"name": "all", "pattern": "(.*)", "substitution": "$1"}`, in, out)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := NewPipeline(dir, nil).Convert(cctx, "conv", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
