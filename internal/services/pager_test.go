package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"testing"

	"github.com/desertthunder/gameretriever/internal/shared"
)

var pageClause = regexp.MustCompile(`limit (\d+); offset (\d+);`)

// fakePoster serves total items with ids 1..total, honoring limit and offset in the query.
type fakePoster struct {
	total    int
	failAt   int // request number (1-based) that fails, 0 for none
	failWith error
	queries  []string
}

func (f *fakePoster) Post(ctx context.Context, endpoint, query string, out any) error {
	f.queries = append(f.queries, query)
	if f.failAt == len(f.queries) {
		return f.failWith
	}

	m := pageClause.FindStringSubmatch(query)
	if m == nil {
		return fmt.Errorf("query without paging: %s", query)
	}
	limit, _ := strconv.Atoi(m[1])
	offset, _ := strconv.Atoi(m[2])

	page := []Game{}
	for id := offset + 1; id <= min(offset+limit, f.total); id++ {
		page = append(page, Game{ID: int64(id), Name: "game " + strconv.Itoa(id)})
	}

	data, _ := json.Marshal(page)
	return json.Unmarshal(data, out)
}

func TestPager(t *testing.T) {
	ctx := context.Background()

	tt := []struct {
		name         string
		total        int
		wantRequests int
		wantBatches  int
	}{
		{name: "empty collection", total: 0, wantRequests: 1, wantBatches: 0},
		{name: "single partial page", total: 3, wantRequests: 2, wantBatches: 1},
		{name: "exact pages", total: 1000, wantRequests: 3, wantBatches: 2},
		{name: "one past a page", total: 1001, wantRequests: 4, wantBatches: 3},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			poster := &fakePoster{total: tc.total}
			pager := NewPager[Game](poster, "games", nil)

			var batches, items int
			seen := map[int64]bool{}
			err := pager.Fetch(ctx, Query{Fields: []string{"name"}}, func(batch []Game) error {
				batches++
				items += len(batch)
				for _, g := range batch {
					seen[g.ID] = true
				}
				return nil
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(poster.queries) != tc.wantRequests {
				t.Errorf("expected %d requests, got %d", tc.wantRequests, len(poster.queries))
			}
			if batches != tc.wantBatches {
				t.Errorf("expected %d batches, got %d", tc.wantBatches, batches)
			}
			if items != tc.total || len(seen) != tc.total {
				t.Errorf("expected %d distinct items, got %d (%d distinct)", tc.total, items, len(seen))
			}

			for i, q := range poster.queries {
				want := fmt.Sprintf("limit %d; offset %d;", PageSize, i*PageSize)
				if !pageClause.MatchString(q) || pageClause.FindString(q) != want {
					t.Errorf("request %d: expected %q in %q", i, want, q)
				}
			}
		})
	}

	t.Run("auth failure mid-walk keeps delivered pages", func(t *testing.T) {
		poster := &fakePoster{
			total:    1200,
			failAt:   2,
			failWith: &APIError{StatusCode: http.StatusUnauthorized, Message: "Authorization Failure"},
		}

		var delivered int
		err := NewPager[Game](poster, "games", nil).Fetch(ctx, Query{}, func(batch []Game) error {
			delivered += len(batch)
			return nil
		})

		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if delivered != PageSize {
			t.Errorf("expected first page delivered, got %d items", delivered)
		}
		if len(poster.queries) != 2 {
			t.Errorf("expected no retry after failure, got %d requests", len(poster.queries))
		}
	})

	t.Run("callback error stops the walk", func(t *testing.T) {
		poster := &fakePoster{total: 1200}
		boom := errors.New("storage down")

		err := NewPager[Game](poster, "games", nil).Fetch(ctx, Query{}, func([]Game) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("expected callback error, got %v", err)
		}
		if len(poster.queries) != 1 {
			t.Errorf("expected 1 request, got %d", len(poster.queries))
		}
	})
}
