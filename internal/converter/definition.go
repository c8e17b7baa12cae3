package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/gameretriever/internal/shared"
)

// extensions lists the recognized definition formats in lookup order.
var extensions = []string{".json", ".yaml", ".yml"}

// Handler is one rewrite step of a converter. Nil fields are not configured.
type Handler struct {
	Name         string  `json:"name" yaml:"name"`
	Filter       *string `json:"filter,omitempty" yaml:"filter,omitempty"`
	Pattern      *string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Substitution *string `json:"substitution,omitempty" yaml:"substitution,omitempty"`
}

// NoOp reports whether the handler lacks a pattern or a substitution.
func (h Handler) NoOp() bool {
	return h.Pattern == nil || h.Substitution == nil
}

// Definition is a named converter loaded from a file.
type Definition struct {
	Name       string    `json:"-" yaml:"-"`
	Path       string    `json:"-" yaml:"-"`
	InputFile  string    `json:"inputFile" yaml:"inputFile"`
	OutputFile string    `json:"outputFile" yaml:"outputFile"`
	Handlers   []Handler `json:"handlers" yaml:"handlers"`
}

// Loader reads converter definitions from a directory.
type Loader struct {
	dir string
}

// NewLoader creates a Loader over dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the converters directory.
func (l *Loader) Dir() string {
	return l.dir
}

func (l *Loader) ensureDir() error {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create converters directory %s: %v", shared.ErrIO, l.dir, err)
	}
	return nil
}

// List loads every definition in the directory, sorted by name.
func (l *Loader) List() ([]Definition, error) {
	if err := l.ensureDir(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read converters directory %s: %v", shared.ErrIO, l.dir, err)
	}

	seen := make(map[string]string)
	definitions := []Definition{}
	for _, entry := range entries {
		name, ok := definitionName(entry)
		if !ok {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: converter '%s' is defined twice (%s, %s)", shared.ErrInvalidConfig, name, prev, path)
		}
		seen[name] = path

		def, err := readDefinition(name, path)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, *def)
	}

	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})
	return definitions, nil
}

// Get loads the definition called name.
func (l *Loader) Get(name string) (*Definition, error) {
	if err := l.ensureDir(); err != nil {
		return nil, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: unknown converter '%s'", shared.ErrInvalidConfig, name)
	}

	for _, ext := range extensions {
		path := filepath.Join(l.dir, name+ext)
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to stat %s: %v", shared.ErrIO, path, err)
		}
		return readDefinition(name, path)
	}

	return nil, fmt.Errorf("%w: unknown converter '%s'", shared.ErrInvalidConfig, name)
}

func definitionName(entry os.DirEntry) (string, bool) {
	if entry.IsDir() {
		return "", false
	}
	ext := filepath.Ext(entry.Name())
	for _, known := range extensions {
		if strings.EqualFold(ext, known) {
			return strings.TrimSuffix(entry.Name(), ext), true
		}
	}
	return "", false
}

func readDefinition(name, path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read converter %s: %v", shared.ErrIO, path, err)
	}

	var def Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &def)
	default:
		err = yaml.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: malformed converter %s: %v", shared.ErrInvalidConfig, path, err)
	}

	def.Name = name
	def.Path = path
	return &def, nil
}
