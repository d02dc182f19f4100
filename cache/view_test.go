package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/typegarden-backend/models"
)

func projectNames(projects []models.Project) []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}

func fontNames(fonts []models.Font) []string {
	names := make([]string, len(fonts))
	for i, f := range fonts {
		names[i] = f.Name
	}
	return names
}

func TestVisibleProjectsSorting(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	projects := []models.Project{
		{Name: "Alpha", CreatedAt: t1, Type: models.TypePersonal},
		{Name: "Beta", CreatedAt: t2, Type: models.TypeReference},
	}

	tests := []struct {
		name     string
		view     ProjectView
		expected []string
	}{
		{
			name:     "newest first",
			view:     ProjectView{Sort: SortNewest},
			expected: []string{"Beta", "Alpha"},
		},
		{
			name:     "oldest first",
			view:     ProjectView{Sort: SortOldest},
			expected: []string{"Alpha", "Beta"},
		},
		{
			name:     "name ascending",
			view:     ProjectView{Sort: SortNameAsc},
			expected: []string{"Alpha", "Beta"},
		},
		{
			name:     "name descending",
			view:     ProjectView{Sort: SortNameDesc},
			expected: []string{"Beta", "Alpha"},
		},
		{
			name:     "empty sort defaults to newest",
			view:     ProjectView{},
			expected: []string{"Beta", "Alpha"},
		},
		{
			name:     "type filter personal",
			view:     ProjectView{Type: models.TypePersonal},
			expected: []string{"Alpha"},
		},
		{
			name:     "type filter all",
			view:     ProjectView{Type: models.TypeAll},
			expected: []string{"Beta", "Alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleProjects(projects, tt.view)
			assert.Equal(t, tt.expected, projectNames(got))
		})
	}
}

func TestVisibleProjectsQueryMatchesNameOrDescription(t *testing.T) {
	projects := []models.Project{
		{Name: "Alpha"},
		{Name: "Gamma", Description: "an ALPine trip"},
		{Name: "Delta", Description: "unrelated"},
	}

	got := VisibleProjects(projects, ProjectView{Query: "alp", Sort: SortNameAsc})
	assert.Equal(t, []string{"Alpha", "Gamma"}, projectNames(got))
}

func TestVisibleProjectsDoesNotMutateInput(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{Name: "B", CreatedAt: t1},
		{Name: "A", CreatedAt: t1.Add(time.Minute)},
	}

	_ = VisibleProjects(projects, ProjectView{Sort: SortNameAsc})
	require.Equal(t, "B", projects[0].Name)
}

func TestVisibleFonts(t *testing.T) {
	fonts := []models.Font{
		{Name: "Inter", Category: models.CategorySansSerif},
		{Name: "Lora", Category: models.CategorySerif},
		{Name: "Interstate", Category: models.CategoryDisplay},
	}

	tests := []struct {
		name     string
		view     FontView
		expected []string
	}{
		{
			name:     "no restriction",
			view:     FontView{},
			expected: []string{"Inter", "Lora", "Interstate"},
		},
		{
			name:     "query is case-insensitive substring",
			view:     FontView{Query: "inter"},
			expected: []string{"Inter", "Interstate"},
		},
		{
			name:     "category exact match",
			view:     FontView{Category: models.CategorySerif},
			expected: []string{"Lora"},
		},
		{
			name:     "category all",
			view:     FontView{Category: models.CategoryAll},
			expected: []string{"Inter", "Lora", "Interstate"},
		},
		{
			name:     "query and category combine",
			view:     FontView{Query: "inter", Category: models.CategoryDisplay},
			expected: []string{"Interstate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleFonts(fonts, tt.view)
			assert.Equal(t, tt.expected, fontNames(got))
		})
	}
}

func TestGardenOrder(t *testing.T) {
	fonts := []models.Font{
		{Name: "Zeta", ProjectCount: 0},
		{Name: "Alpha", ProjectCount: 0},
		{Name: "Mid", ProjectCount: 3},
	}

	got := GardenOrder(fonts)
	assert.Equal(t, []string{"Mid", "Alpha", "Zeta"}, fontNames(got))

	// Input order must be preserved
	require.Equal(t, "Zeta", fonts[0].Name)
}
