package cache

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rpupo63/typegarden-backend/models"
)

// The filter/sort engine: pure derivations of the visible list from a cached
// collection plus user-controlled parameters. Inputs are never mutated.

// ProjectSort names the supported project orderings.
type ProjectSort string

const (
	SortNewest   ProjectSort = "newest"
	SortOldest   ProjectSort = "oldest"
	SortNameAsc  ProjectSort = "name-asc"
	SortNameDesc ProjectSort = "name-desc"
)

// FontView holds the user-controlled font list parameters. An empty Category
// or CategoryAll means no restriction.
type FontView struct {
	Query    string
	Category models.FontCategory
}

// ProjectView holds the user-controlled project list parameters. An empty
// Type or TypeAll means no restriction; an empty Sort means newest.
type ProjectView struct {
	Query string
	Type  models.ProjectType
	Sort  ProjectSort
}

// VisibleFonts filters fonts by case-insensitive name substring and exact
// category. Ordering is whatever the input carries.
func VisibleFonts(fonts []models.Font, view FontView) []models.Font {
	query := strings.ToLower(strings.TrimSpace(view.Query))
	out := make([]models.Font, 0, len(fonts))
	for _, f := range fonts {
		if view.Category != "" && view.Category != models.CategoryAll && f.Category != view.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(f.Name), query) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// VisibleProjects filters projects by case-insensitive substring against name
// or description and by exact type, then applies the requested sort. The sort
// is stable, so ties keep the store's fetch order.
func VisibleProjects(projects []models.Project, view ProjectView) []models.Project {
	query := strings.ToLower(strings.TrimSpace(view.Query))
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if view.Type != "" && view.Type != models.TypeAll && p.Type != view.Type {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}

	switch view.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortNameAsc:
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortNameDesc:
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) > 0
		})
	default: // SortNewest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// GardenOrder sorts fonts for the home-page catalog: usage count descending,
// with ties (notably the zero-usage tail) ordered alphabetically by name.
func GardenOrder(fonts []models.Font) []models.Font {
	out := make([]models.Font, len(fonts))
	copy(out, fonts)

	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProjectCount != out[j].ProjectCount {
			return out[i].ProjectCount > out[j].ProjectCount
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// Collators are not safe for concurrent use, so each sort builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}
