package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/desertthunder/gameretriever/internal/changelog"
	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
	"github.com/desertthunder/gameretriever/internal/ui"
	"github.com/urfave/cli/v3"
)

// OutputChangelog writes the Liquibase changelog of the saved catalog.
func (r *Runner) OutputChangelog(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = r.config.Output.ChangelogFile
	}

	res, err := r.writeChangelog(ctx, path)
	if err != nil {
		return err
	}

	r.writePlain("✓ Changelog written to %s\n", res.Path)
	tables := make([]string, 0, len(res.Rows))
	for table := range res.Rows {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		r.writePlain("  %s: %d rows\n", table, res.Rows[table])
	}
	return nil
}

func (r *Runner) writeChangelog(ctx context.Context, path string) (*changelog.Result, error) {
	var res *changelog.Result
	err := r.track(ctx, "Writing changelog", func(ctx context.Context, progress chan<- tasks.ProgressUpdate) error {
		var err error
		res, err = r.changelog.Generate(ctx, path, progress)
		return err
	})
	return res, err
}

// OutputConverters lists the converter definitions.
func (r *Runner) OutputConverters(ctx context.Context, cmd *cli.Command) error {
	definitions, err := r.pipeline.Definitions()
	if err != nil {
		return err
	}

	if len(definitions) == 0 {
		return r.writePlain("No converters in %s\n", r.pipeline.Dir())
	}

	r.writePlainHeader(fmt.Sprintf("Converters (%s)", r.pipeline.Dir()))
	for _, d := range definitions {
		r.writePlain("%s: %s → %s (%d handlers)\n", d.Name, d.InputFile, d.OutputFile, len(d.Handlers))
	}
	return nil
}

// OutputConvert runs the converter named by --name, or the one chosen interactively.
func (r *Runner) OutputConvert(ctx context.Context, cmd *cli.Command) error {
	name, err := r.converterName(ctx, cmd.String("name"))
	if err != nil {
		return err
	}
	return r.convert(ctx, name)
}

func (r *Runner) converterName(ctx context.Context, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if !r.interactive {
		return "", fmt.Errorf("%w: --name is required without a terminal", shared.ErrMissingArgument)
	}

	definitions, err := r.pipeline.Definitions()
	if err != nil {
		return "", err
	}
	return ui.ChooseConverter(ctx, definitions)
}

func (r *Runner) convert(ctx context.Context, name string) error {
	def, err := r.pipeline.Definition(name)
	if err != nil {
		return err
	}

	err = r.track(ctx, "Converting with "+name, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) error {
		return r.pipeline.Convert(ctx, name, progress)
	})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Converted %s → %s\n", def.InputFile, filepath.Clean(def.OutputFile))
}

// skippable reports errors that end an optional wizard step without failing the wizard.
func skippable(err error) bool {
	return errors.Is(err, shared.ErrCanceled) || errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrMissingArgument)
}
