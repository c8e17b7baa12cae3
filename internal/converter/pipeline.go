package converter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
)

// maxLineSize bounds a single input line; changelog INSERT lines stay far below it.
const maxLineSize = 16 * 1024 * 1024

// Pipeline runs converter definitions found in a directory.
type Pipeline struct {
	loader *Loader
	logger *log.Logger
}

// NewPipeline creates a Pipeline reading definitions from dir. A nil logger discards output.
func NewPipeline(dir string, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Pipeline{loader: NewLoader(dir), logger: logger}
}

// Dir returns the converters directory.
func (p *Pipeline) Dir() string {
	return p.loader.Dir()
}

// Definitions lists the available converters sorted by name.
func (p *Pipeline) Definitions() ([]Definition, error) {
	return p.loader.List()
}

// Definition loads the converter called name.
func (p *Pipeline) Definition(name string) (*Definition, error) {
	return p.loader.Get(name)
}

// Convert runs the converter called name, truncating and rewriting its output file.
//
// An unknown converter or one without handlers fails before the output file is touched.
// A handler whose regex does not compile aborts the conversion after the earlier handlers' output.
func (p *Pipeline) Convert(ctx context.Context, name string, progress chan<- tasks.ProgressUpdate) error {
	def, err := p.loader.Get(name)
	if err != nil {
		return err
	}
	if len(def.Handlers) == 0 {
		return fmt.Errorf("%w: converter '%s' does not contain handlers", shared.ErrInvalidConfig, name)
	}
	if def.InputFile == "" || def.OutputFile == "" {
		return fmt.Errorf("%w: converter '%s' needs inputFile and outputFile", shared.ErrInvalidConfig, name)
	}
	if filepath.Clean(def.InputFile) == filepath.Clean(def.OutputFile) {
		return fmt.Errorf("%w: converter '%s' would overwrite its input %s", shared.ErrInvalidConfig, name, def.InputFile)
	}

	logger := shared.WithLogger(p.logger, "converter", name)
	logger.Debug("conversion started", "input", def.InputFile, "output", def.OutputFile, "handlers", len(def.Handlers))

	if err := p.run(ctx, def, logger, progress); err != nil {
		return err
	}

	logger.Info("conversion finished", "output", def.OutputFile)
	return nil
}

func (p *Pipeline) run(ctx context.Context, def *Definition, logger *log.Logger, progress chan<- tasks.ProgressUpdate) (err error) {
	ioErr := func(cause error) error {
		return fmt.Errorf("%w: error while converting '%s' -> '%s': %v", shared.ErrIO, def.InputFile, def.OutputFile, cause)
	}

	if dir := filepath.Dir(def.OutputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ioErr(err)
		}
	}

	out, err := os.Create(def.OutputFile)
	if err != nil {
		return ioErr(err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = ioErr(cerr)
		}
	}()

	w := bufio.NewWriter(out)
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ioErr(ferr)
		}
	}()

	total := len(def.Handlers)
	for i, h := range def.Handlers {
		tasks.SendProgress(progress, tasks.HandlerUpdate(i+1, total, h.Name))

		if h.NoOp() {
			logger.Debug("handler skipped", "handler", h.Name)
			continue
		}

		r, err := compile(h)
		if err != nil {
			return err
		}

		written, err := r.applyFile(ctx, def.InputFile, w)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return ioErr(err)
		}
		logger.Debug("handler applied", "handler", h.Name, "lines", written)

		if _, err := w.WriteString("\n"); err != nil {
			return ioErr(err)
		}
	}
	return nil
}

// rule is a compiled, applicable handler.
type rule struct {
	filter   *regexp.Regexp
	pattern  *regexp.Regexp
	template string
}

func compile(h Handler) (*rule, error) {
	r := &rule{}

	if h.Filter != nil {
		filter, err := regexp.Compile(*h.Filter)
		if err != nil {
			return nil, fmt.Errorf("%w: handler '%s' has an invalid filter: %v", shared.ErrInvalidConfig, h.Name, err)
		}
		r.filter = filter
	}

	pattern, err := regexp.Compile(`^(?:` + *h.Pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: handler '%s' has an invalid pattern: %v", shared.ErrInvalidConfig, h.Name, err)
	}
	r.pattern = pattern

	template, err := expandTemplate(*h.Substitution, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: handler '%s' has an invalid substitution: %v", shared.ErrInvalidConfig, h.Name, err)
	}
	r.template = template
	return r, nil
}

// expandTemplate rewrites a substitution into [regexp.Regexp.Expand] syntax.
//
// "$n" takes the longest run of digits that still names a group of re, so "$1_x" is group 1 followed by "_x".
// "${name}" must name a group of re. "\c" and "$$" are literal.
func expandTemplate(sub string, re *regexp.Regexp) (string, error) {
	groups := re.NumSubexp()

	var b strings.Builder
	for i := 0; i < len(sub); i++ {
		c := sub[i]
		switch {
		case c == '\\':
			i++
			if i == len(sub) {
				return "", errors.New("character to be escaped is missing")
			}
			if sub[i] == '$' {
				b.WriteString("$$")
			} else {
				b.WriteByte(sub[i])
			}
		case c != '$':
			b.WriteByte(c)
		case i+1 == len(sub):
			return "", errors.New("illegal group reference at end of substitution")
		case sub[i+1] == '$':
			b.WriteString("$$")
			i++
		case sub[i+1] == '{':
			end := strings.IndexByte(sub[i+2:], '}')
			if end < 0 {
				return "", errors.New("named group reference is missing a closing brace")
			}
			name := sub[i+2 : i+2+end]
			if !hasGroup(re, name) {
				return "", fmt.Errorf("no group named {%s}", name)
			}
			b.WriteString("${" + name + "}")
			i += 2 + end
		case isDigit(sub[i+1]):
			j := i + 1
			n := int(sub[j] - '0')
			if n > groups {
				return "", fmt.Errorf("no group %d", n)
			}
			for j++; j < len(sub) && isDigit(sub[j]); j++ {
				next := n*10 + int(sub[j]-'0')
				if next > groups {
					break
				}
				n = next
			}
			b.WriteString("${" + strconv.Itoa(n) + "}")
			i = j - 1
		default:
			return "", fmt.Errorf("illegal group reference at offset %d", i)
		}
	}
	return b.String(), nil
}

func hasGroup(re *regexp.Regexp, name string) bool {
	if name == "" {
		return false
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n >= 0 && n <= re.NumSubexp()
	}
	return re.SubexpIndex(name) >= 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// apply rewrites line, reporting false when the line is dropped.
func (r *rule) apply(line string) (string, bool) {
	if r.filter != nil && !r.filter.MatchString(line) {
		return "", false
	}

	match := r.pattern.FindStringSubmatchIndex(line)
	if match == nil {
		return "", false
	}
	return string(r.pattern.ExpandString(nil, r.template, line, match)), true
}

// applyFile streams path through the rule into w and returns the number of lines written.
func (r *rule) applyFile(ctx context.Context, path string, w *bufio.Writer) (int, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	written := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		line, ok := r.apply(scanner.Text())
		if !ok {
			continue
		}
		if _, err := w.WriteString(line); err != nil {
			return written, err
		}
		if err := w.WriteByte('\n'); err != nil {
			return written, err
		}
		written++
	}

	if err := scanner.Err(); err != nil {
		return written, err
	}
	return written, nil
}
