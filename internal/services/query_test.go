package services

import "testing"

func TestQuery(t *testing.T) {
	tt := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "fields only",
			query: Query{Fields: []string{"name", "abbreviation"}},
			want:  "fields name,abbreviation;",
		},
		{
			name:  "all fields",
			query: Query{},
			want:  "fields *;",
		},
		{
			name:  "where and sort",
			query: Query{Fields: []string{"name", "url"}, Where: "platforms = 6", Sort: "id asc"},
			want:  "fields name,url; where platforms = 6; sort id asc;",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.query.String(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}

	t.Run("Page", func(t *testing.T) {
		got := Query{Fields: []string{"name"}}.Page(500, 1000)
		want := "fields name; limit 500; offset 1000;"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}
