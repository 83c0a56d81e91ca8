package core

import (
	"testing"

	"github.com/riskgate/riskgate/schema"

	"github.com/stretchr/testify/assert"
)

func TestAreaForPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "nested file", path: "src/auth/login.go", want: "src/auth"},
		{name: "single level", path: "docs/readme.md", want: "docs"},
		{name: "root file", path: "Makefile", want: ""},
		{name: "backslash separators", path: `src\auth\login.go`, want: "src/auth"},
		{name: "trailing slash", path: "src/auth/", want: "src"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, areaForPath(tt.path))
		})
	}
}

func TestAggregateAreas(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		excludes []string
		want     []string
	}{
		{
			name:  "distinct leaves",
			paths: []string{"src/auth/login.go", "src/session/store.go"},
			want:  []string{"src/auth", "src/session"},
		},
		{
			name:  "ancestor discarded",
			paths: []string{"src/main.go", "src/auth/login.go"},
			want:  []string{"src/auth"},
		},
		{
			name:  "root files ignored",
			paths: []string{"Makefile", "go.mod"},
			want:  []string{},
		},
		{
			name:     "exclusion after reduction",
			paths:    []string{"vendor/dep/dep.go", "src/auth/login.go"},
			excludes: []string{"vendor/"},
			want:     []string{"src/auth"},
		},
		{
			name:     "exclusion prefix covers subtree",
			paths:    []string{"node_modules/a/b/c.js"},
			excludes: []string{"node_modules/"},
			want:     []string{},
		},
		{
			name:  "duplicate paths collapse",
			paths: []string{"src/auth/a.go", "src/auth/b.go", "src/auth/a.go"},
			want:  []string{"src/auth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateAreas(tt.paths, tt.excludes))
		})
	}
}

// Aggregation must not depend on the order files arrive in.
func TestAggregateAreasOrderIndependence(t *testing.T) {
	forward := []string{"src/main.go", "src/auth/login.go", "src/session/store.go", "docs/guide.md"}
	backward := []string{"docs/guide.md", "src/session/store.go", "src/auth/login.go", "src/main.go"}

	assert.Equal(t, AggregateAreas(forward, nil), AggregateAreas(backward, nil))
}

func TestAggregateActivity(t *testing.T) {
	delta := &schema.GitDelta{
		Changes: []schema.FileChange{
			{Path: "src/auth/login.go", LinesAdded: 10, LinesDeleted: 2},
			{Path: "src/auth/logout.go", LinesAdded: 5, LinesDeleted: 1},
			{Path: "src/main.go", LinesAdded: 100, LinesDeleted: 50}, // non-leaf parent, counts nowhere
			{Path: "docs/guide.md", LinesAdded: 3, LinesDeleted: 0},
		},
	}

	activity := AggregateActivity(delta, nil)

	assert.Len(t, activity, 2)
	assert.Equal(t, AreaActivity{LinesAdded: 15, LinesDeleted: 3, FilesChanged: 2}, activity["src/auth"])
	assert.Equal(t, AreaActivity{LinesAdded: 3, LinesDeleted: 0, FilesChanged: 1}, activity["docs"])
	assert.NotContains(t, activity, "src")
}
