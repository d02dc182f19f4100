// Package cache holds the denormalized, display-ready font and project
// collections. It is the single owner of the in-memory state: every read and
// write goes through it, and each refresh replaces a whole collection
// atomically so readers never observe a partial update.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/typegarden-backend/models"
)

// FontStore is the slice of the remote store the cache needs for fonts.
type FontStore interface {
	FindAllWithCounts() ([]*models.Font, error)
	Add(font *models.Font) error
	Delete(id uuid.UUID) error
}

// ProjectStore is the slice of the remote store the cache needs for projects.
type ProjectStore interface {
	FindAllWithCounts() ([]*models.Project, error)
	Add(project *models.Project) error
	Delete(id uuid.UUID) error
	SetPreviewImageIfEmpty(id uuid.UUID, url string) error
}

// AssociationStore manages the font<->project join rows.
type AssociationStore interface {
	Add(association *models.FontProject) error
	Remove(fontID, projectID uuid.UUID) error
	FontIDsForProject(projectID uuid.UUID) ([]uuid.UUID, error)
	ProjectIDsForFont(fontID uuid.UUID) ([]uuid.UUID, error)
}

// PreviewResolver produces a best-effort representative image for a project.
// ok is false when no image could be determined; that is never an error.
type PreviewResolver interface {
	Resolve(ctx context.Context, images []string, existing, description string) (url string, ok bool)
}

// previewResolveLimit bounds how many preview fetches run at once during a
// project refresh.
const previewResolveLimit = 4

type DataCache struct {
	fonts        FontStore
	projects     ProjectStore
	associations AssociationStore
	previews     PreviewResolver
	logger       zerolog.Logger

	mu                  sync.RWMutex
	fontList            []models.Font
	projectList         []models.Project
	fontsStale          bool
	projectsStale       bool
	fontsRefreshedAt    time.Time
	projectsRefreshedAt time.Time
}

// New constructs the cache. It starts empty; callers refresh explicitly once
// the stores are reachable. previews may be nil, in which case projects simply
// never gain a resolved preview image.
func New(fonts FontStore, projects ProjectStore, associations AssociationStore, previews PreviewResolver) *DataCache {
	return &DataCache{
		fonts:        fonts,
		projects:     projects,
		associations: associations,
		previews:     previews,
		logger:       log.With().Str("component", "dataCache").Logger(),
	}
}

// RefreshFonts refetches every font row with its association count and swaps
// the in-memory collection. On a store failure the previous collection stays
// visible and the fonts side is flagged stale.
func (c *DataCache) RefreshFonts(ctx context.Context) error {
	rows, err := c.fonts.FindAllWithCounts()
	if err != nil {
		c.logger.Error().Err(err).Msg("refreshing fonts failed, keeping previous state")
		c.mu.Lock()
		c.fontsStale = true
		c.mu.Unlock()
		return err
	}

	fonts := make([]models.Font, 0, len(rows))
	for _, row := range rows {
		fonts = append(fonts, *row)
	}

	c.mu.Lock()
	c.fontList = fonts
	c.fontsStale = false
	c.fontsRefreshedAt = time.Now()
	c.mu.Unlock()
	return nil
}

// RefreshProjects refetches every project row (newest first) with its
// association count, resolves missing preview images concurrently, and swaps
// the collection. Resolved previews are persisted back to the store in the
// background; that write is conditional on the stored value still being unset.
func (c *DataCache) RefreshProjects(ctx context.Context) error {
	rows, err := c.projects.FindAllWithCounts()
	if err != nil {
		c.logger.Error().Err(err).Msg("refreshing projects failed, keeping previous state")
		c.mu.Lock()
		c.projectsStale = true
		c.mu.Unlock()
		return err
	}

	projects := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, *row)
	}

	if c.previews != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(previewResolveLimit)
		for i := range projects {
			if projects[i].Preview() != "" && len(projects[i].Images) == 0 {
				continue
			}
			i := i
			g.Go(func() error {
				p := &projects[i]
				url, ok := c.previews.Resolve(gctx, p.Images, p.Preview(), p.Description)
				if !ok || url == "" || url == p.Preview() {
					return nil
				}
				p.PreviewImageURL = &url
				c.persistPreview(p.ID, url)
				return nil
			})
		}
		// Resolution is best-effort; the group only limits concurrency.
		_ = g.Wait()
	}

	c.mu.Lock()
	c.projectList = projects
	c.projectsStale = false
	c.projectsRefreshedAt = time.Now()
	c.mu.Unlock()
	return nil
}

// persistPreview writes a resolved preview URL back to the store without
// blocking the refresh. Failures are logged only.
func (c *DataCache) persistPreview(id uuid.UUID, url string) {
	go func() {
		if err := c.projects.SetPreviewImageIfEmpty(id, url); err != nil {
			c.logger.Warn().Err(err).Str("projectID", id.String()).Msg("persisting resolved preview image failed")
		}
	}()
}

// Fonts returns a copy of the current font collection.
func (c *DataCache) Fonts() []models.Font {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fonts := make([]models.Font, len(c.fontList))
	copy(fonts, c.fontList)
	return fonts
}

// Projects returns a copy of the current project collection.
func (c *DataCache) Projects() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	projects := make([]models.Project, len(c.projectList))
	copy(projects, c.projectList)
	return projects
}

// GetFontByID looks up a font in the current collection. The second return
// value reports whether it was found; absence is not an error.
func (c *DataCache) GetFontByID(id uuid.UUID) (models.Font, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.fontList {
		if f.ID == id {
			return f, true
		}
	}
	return models.Font{}, false
}

// GetProjectByID looks up a project in the current collection.
func (c *DataCache) GetProjectByID(id uuid.UUID) (models.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.projectList {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// FontsInProject resolves project membership through the association table
// and maps the rows onto the cached font entities.
func (c *DataCache) FontsInProject(projectID uuid.UUID) ([]models.Font, error) {
	ids, err := c.associations.FontIDsForProject(projectID)
	if err != nil {
		c.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("listing project fonts failed")
		return nil, err
	}

	fonts := make([]models.Font, 0, len(ids))
	for _, id := range ids {
		if f, ok := c.GetFontByID(id); ok {
			fonts = append(fonts, f)
		}
	}
	return fonts, nil
}

// ProjectsForFont resolves font usage through the association table and maps
// the rows onto the cached project entities.
func (c *DataCache) ProjectsForFont(fontID uuid.UUID) ([]models.Project, error) {
	ids, err := c.associations.ProjectIDsForFont(fontID)
	if err != nil {
		c.logger.Error().Err(err).Str("fontID", fontID.String()).Msg("listing font projects failed")
		return nil, err
	}

	projects := make([]models.Project, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.GetProjectByID(id); ok {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

// Stats describes the cache for the health endpoint.
type Stats struct {
	FontCount           int       `json:"font_count"`
	ProjectCount        int       `json:"project_count"`
	FontsStale          bool      `json:"fonts_stale"`
	ProjectsStale       bool      `json:"projects_stale"`
	FontsRefreshedAt    time.Time `json:"fonts_refreshed_at"`
	ProjectsRefreshedAt time.Time `json:"projects_refreshed_at"`
}

func (c *DataCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		FontCount:           len(c.fontList),
		ProjectCount:        len(c.projectList),
		FontsStale:          c.fontsStale,
		ProjectsStale:       c.projectsStale,
		FontsRefreshedAt:    c.fontsRefreshedAt,
		ProjectsRefreshedAt: c.projectsRefreshedAt,
	}
}
