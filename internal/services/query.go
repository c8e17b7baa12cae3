package services

import (
	"fmt"
	"strings"
)

// Query is an Apicalypse query without its paging clauses.
type Query struct {
	Fields []string
	Where  string
	Sort   string
}

// String renders the query without limit or offset.
func (q Query) String() string {
	var b strings.Builder

	fields := "*"
	if len(q.Fields) > 0 {
		fields = strings.Join(q.Fields, ",")
	}
	fmt.Fprintf(&b, "fields %s;", fields)

	if q.Where != "" {
		fmt.Fprintf(&b, " where %s;", q.Where)
	}
	if q.Sort != "" {
		fmt.Fprintf(&b, " sort %s;", q.Sort)
	}
	return b.String()
}

// Page renders the query for one page.
func (q Query) Page(limit, offset int) string {
	return fmt.Sprintf("%s limit %d; offset %d;", q, limit, offset)
}
