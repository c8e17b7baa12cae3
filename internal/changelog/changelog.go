// Package changelog dumps the catalog tables as a Liquibase formatted SQL changelog.
//
// The output has one changeset per non-empty table and one INSERT statement per row:
//
//	-- liquibase formatted sql
//
//	-- changeset gameretriever:1700000000000-1
//	INSERT INTO platform (id, active, name, short_name) VALUES (6, TRUE, 'PC (Microsoft Windows)', 'PC');
//
// Converters consume this file line by line.
package changelog

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/desertthunder/gameretriever/internal/tasks"
)

// table describes how one catalog table is dumped.
type table struct {
	name    string
	columns []string
	query   string
}

var tables = []table{
	{
		name:    "platform",
		columns: []string{"id", "active", "name", "short_name"},
		query:   `SELECT id, active, name, short_name FROM platform ORDER BY id`,
	},
	{
		name:    "game",
		columns: []string{"id", "name", "info_link"},
		query:   `SELECT id, name, info_link FROM game ORDER BY id`,
	},
	{
		name:    "game_platform",
		columns: []string{"id", "game_id", "platform_id"},
		query:   `SELECT id, game_id, platform_id FROM game_platform ORDER BY game_id, platform_id`,
	},
}

// Result reports how many rows each table contributed.
type Result struct {
	Path string
	Rows map[string]int
}

// Generator writes changelogs from a catalog database.
type Generator struct {
	db     *sql.DB
	author string
	now    func() time.Time
	logger *log.Logger
}

// NewGenerator creates a Generator. author defaults to "gameretriever".
func NewGenerator(db *sql.DB, author string, logger *log.Logger) *Generator {
	if author == "" {
		author = "gameretriever"
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Generator{db: db, author: author, now: time.Now, logger: logger}
}

// Generate truncates path and writes the changelog to it.
func (g *Generator) Generate(ctx context.Context, path string, progress chan<- tasks.ProgressUpdate) (res *Result, err error) {
	ioErr := func(cause error) error {
		return fmt.Errorf("%w: failed to write changelog %s: %v", shared.ErrIO, path, cause)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, ioErr(err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, ioErr(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioErr(cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("-- liquibase formatted sql\n"); err != nil {
		return nil, ioErr(err)
	}

	res = &Result{Path: path, Rows: make(map[string]int, len(tables))}
	stamp := g.now().UnixMilli()
	changeset := 0

	for i, t := range tables {
		tasks.SendProgress(progress, tasks.ChangelogUpdate(i+1, len(tables), t.name))

		lines, err := g.dump(ctx, t)
		if err != nil {
			return nil, err
		}
		res.Rows[t.name] = len(lines)
		if len(lines) == 0 {
			continue
		}

		changeset++
		if _, err := fmt.Fprintf(w, "\n-- changeset %s:%d-%d\n", g.author, stamp, changeset); err != nil {
			return nil, ioErr(err)
		}
		for _, line := range lines {
			if _, err := w.WriteString(line + "\n"); err != nil {
				return nil, ioErr(err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return nil, ioErr(err)
	}

	g.logger.Info("changelog generated", "path", path, "platforms", res.Rows["platform"], "games", res.Rows["game"])
	return res, nil
}

// dump renders every row of t as an INSERT statement.
func (g *Generator) dump(ctx context.Context, t table) ([]string, error) {
	rows, err := g.db.QueryContext(ctx, t.query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %v", shared.ErrStorage, t.name, err)
	}
	defer rows.Close()

	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES (", t.name, strings.Join(t.columns, ", "))

	var lines []string
	values := make([]any, len(t.columns))
	ptrs := make([]any, len(t.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: failed to scan %s: %v", shared.ErrStorage, t.name, err)
		}

		literals := make([]string, len(values))
		for i, v := range values {
			literals[i] = literal(t.columns[i], v)
		}
		lines = append(lines, prefix+strings.Join(literals, ", ")+");")
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error in %s: %v", shared.ErrStorage, t.name, err)
	}
	return lines, nil
}

// literal renders v as an SQL literal. The active column is rendered as a boolean.
func literal(column string, v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		if column == "active" {
			if val != 0 {
				return "TRUE"
			}
			return "FALSE"
		}
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case []byte:
		return quote(string(val))
	case string:
		return quote(val)
	default:
		return quote(fmt.Sprint(val))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
