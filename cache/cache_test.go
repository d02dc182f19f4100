package cache

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/typegarden-backend/errs"
	"github.com/rpupo63/typegarden-backend/models"
)

// storeState is a shared in-memory stand-in for the remote store. Association
// rows cascade on font/project deletion the way the real store does.
type storeState struct {
	mu           sync.Mutex
	fonts        map[uuid.UUID]models.Font
	projects     map[uuid.UUID]models.Project
	associations []models.FontProject

	fontAdds     int
	failFonts    bool
	failProjects bool

	previewWrites []string
	clock         time.Time
}

func newStoreState() *storeState {
	return &storeState{
		fonts:    make(map[uuid.UUID]models.Font),
		projects: make(map[uuid.UUID]models.Project),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *storeState) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type fakeFontStore struct{ s *storeState }

func (f fakeFontStore) FindAllWithCounts() ([]*models.Font, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failFonts {
		return nil, errors.New("store unavailable")
	}
	out := make([]*models.Font, 0, len(f.s.fonts))
	for id := range f.s.fonts {
		font := f.s.fonts[id]
		font.ProjectCount = 0
		for _, a := range f.s.associations {
			if a.FontID == id {
				font.ProjectCount++
			}
		}
		out = append(out, &font)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeFontStore) Add(font *models.Font) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.fontAdds++
	font.ID = uuid.New()
	font.CreatedAt = f.s.tick()
	f.s.fonts[font.ID] = *font
	return nil
}

func (f fakeFontStore) Delete(id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.fonts, id)
	kept := f.s.associations[:0]
	for _, a := range f.s.associations {
		if a.FontID != id {
			kept = append(kept, a)
		}
	}
	f.s.associations = kept
	return nil
}

type fakeProjectStore struct{ s *storeState }

func (p fakeProjectStore) FindAllWithCounts() ([]*models.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.failProjects {
		return nil, errors.New("store unavailable")
	}
	out := make([]*models.Project, 0, len(p.s.projects))
	for id := range p.s.projects {
		project := p.s.projects[id]
		project.FontCount = 0
		for _, a := range p.s.associations {
			if a.ProjectID == id {
				project.FontCount++
			}
		}
		out = append(out, &project)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (p fakeProjectStore) Add(project *models.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	project.ID = uuid.New()
	project.CreatedAt = p.s.tick()
	p.s.projects[project.ID] = *project
	return nil
}

func (p fakeProjectStore) Delete(id uuid.UUID) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	delete(p.s.projects, id)
	kept := p.s.associations[:0]
	for _, a := range p.s.associations {
		if a.ProjectID != id {
			kept = append(kept, a)
		}
	}
	p.s.associations = kept
	return nil
}

func (p fakeProjectStore) SetPreviewImageIfEmpty(id uuid.UUID, url string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	project, ok := p.s.projects[id]
	if !ok {
		return nil
	}
	if project.PreviewImageURL == nil || *project.PreviewImageURL == "" {
		project.PreviewImageURL = &url
		p.s.projects[id] = project
	}
	p.s.previewWrites = append(p.s.previewWrites, url)
	return nil
}

type fakeAssociationStore struct{ s *storeState }

func (a fakeAssociationStore) Add(association *models.FontProject) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	association.ID = uuid.New()
	association.CreatedAt = a.s.tick()
	a.s.associations = append(a.s.associations, *association)
	return nil
}

func (a fakeAssociationStore) Remove(fontID, projectID uuid.UUID) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	kept := a.s.associations[:0]
	for _, row := range a.s.associations {
		if row.FontID != fontID || row.ProjectID != projectID {
			kept = append(kept, row)
		}
	}
	a.s.associations = kept
	return nil
}

func (a fakeAssociationStore) FontIDsForProject(projectID uuid.UUID) ([]uuid.UUID, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var ids []uuid.UUID
	for _, row := range a.s.associations {
		if row.ProjectID == projectID {
			ids = append(ids, row.FontID)
		}
	}
	return ids, nil
}

func (a fakeAssociationStore) ProjectIDsForFont(fontID uuid.UUID) ([]uuid.UUID, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var ids []uuid.UUID
	for _, row := range a.s.associations {
		if row.FontID == fontID {
			ids = append(ids, row.ProjectID)
		}
	}
	return ids, nil
}

// fakeResolver resolves any description containing a URL to a fixed image.
type fakeResolver struct {
	url string
}

func (r fakeResolver) Resolve(_ context.Context, images []string, existing, description string) (string, bool) {
	if len(images) > 0 {
		return images[0], true
	}
	if existing != "" {
		return existing, true
	}
	if strings.Contains(description, "http") {
		return r.url, true
	}
	return "", false
}

func newTestCache(s *storeState) *DataCache {
	return New(fakeFontStore{s}, fakeProjectStore{s}, fakeAssociationStore{s}, fakeResolver{url: "https://example.com/og.png"})
}

func hostedDraft(name, family string) models.FontDraft {
	return models.FontDraft{Name: name, FontFamily: family, Category: models.CategorySerif}
}

func customDraft(name string) models.FontDraft {
	return models.FontDraft{Name: name, IsCustom: true, FontFilePath: "https://cdn.example.com/" + name + ".woff2", FontFormat: models.FormatWoff2}
}

func TestAddFontValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft models.FontDraft
		field string
	}{
		{
			name:  "missing name",
			draft: models.FontDraft{FontFamily: "Lora"},
			field: "name",
		},
		{
			name:  "hosted font without family",
			draft: models.FontDraft{Name: "Lora"},
			field: "font_family",
		},
		{
			name:  "custom font without file path",
			draft: models.FontDraft{Name: "MyFont", IsCustom: true},
			field: "font_file_path",
		},
		{
			name:  "unknown category",
			draft: models.FontDraft{Name: "Lora", FontFamily: "Lora", Category: "gothic"},
			field: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStoreState()
			c := newTestCache(s)

			_, err := c.AddFont(context.Background(), tt.draft, "user-1")
			require.Error(t, err)

			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.field, apiErr.Field)
			assert.Zero(t, s.fontAdds, "store must not be called for an invalid draft")
		})
	}
}

func TestAddFontRequiresSignIn(t *testing.T) {
	s := newStoreState()
	c := newTestCache(s)

	_, err := c.AddFont(context.Background(), hostedDraft("Lora", "Lora"), "")
	require.True(t, errs.IsSignInRequired(err))
	assert.Zero(t, s.fontAdds)
}

func TestAddFontDuplicateRules(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	_, err := c.AddFont(ctx, hostedDraft("Lora", "Lora"), "user-1")
	require.NoError(t, err)
	_, err = c.AddFont(ctx, customDraft("Brush Stroke"), "user-1")
	require.NoError(t, err)
	addsBefore := s.fontAdds

	t.Run("hosted duplicate by family", func(t *testing.T) {
		_, err := c.AddFont(ctx, hostedDraft("Lora Again", "lora"), "user-1")
		require.True(t, errs.IsDuplicateFont(err))
		assert.Equal(t, addsBefore, s.fontAdds, "duplicate must be rejected without a store call")
		assert.Len(t, c.Fonts(), 2)
	})

	t.Run("custom duplicate by name", func(t *testing.T) {
		_, err := c.AddFont(ctx, customDraft("Brush Stroke"), "user-1")
		require.True(t, errs.IsDuplicateFont(err))
		assert.Equal(t, addsBefore, s.fontAdds)
	})

	t.Run("custom and hosted may share a name", func(t *testing.T) {
		_, err := c.AddFont(ctx, customDraft("Lora"), "user-1")
		require.NoError(t, err)
	})
}

func TestProjectCountTracksAssociations(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	fontID, err := c.AddFont(ctx, hostedDraft("Inter", "Inter"), "user-1")
	require.NoError(t, err)
	projectP, err := c.AddProject(ctx, models.ProjectDraft{Name: "P"}, "user-1")
	require.NoError(t, err)
	projectQ, err := c.AddProject(ctx, models.ProjectDraft{Name: "Q"}, "user-1")
	require.NoError(t, err)

	font, ok := c.GetFontByID(fontID)
	require.True(t, ok)
	assert.Equal(t, 0, font.ProjectCount)

	require.NoError(t, c.AddFontToProject(ctx, fontID, projectP, "", "user-1"))
	font, _ = c.GetFontByID(fontID)
	assert.Equal(t, 1, font.ProjectCount)

	require.NoError(t, c.AddFontToProject(ctx, fontID, projectQ, "heading use", "user-1"))
	font, _ = c.GetFontByID(fontID)
	assert.Equal(t, 2, font.ProjectCount)

	require.NoError(t, c.RemoveFontFromProject(ctx, fontID, projectP, "user-1"))
	font, _ = c.GetFontByID(fontID)
	assert.Equal(t, 1, font.ProjectCount)

	project, ok := c.GetProjectByID(projectQ)
	require.True(t, ok)
	assert.Equal(t, 1, project.FontCount)
}

func TestMembershipUsesAssociationTable(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	fontID, _ := c.AddFont(ctx, hostedDraft("Inter", "Inter"), "user-1")
	otherID, _ := c.AddFont(ctx, hostedDraft("Lora", "Lora"), "user-1")
	projectID, _ := c.AddProject(ctx, models.ProjectDraft{Name: "P"}, "user-1")
	require.NoError(t, c.AddFontToProject(ctx, fontID, projectID, "", "user-1"))

	fonts, err := c.FontsInProject(projectID)
	require.NoError(t, err)
	require.Len(t, fonts, 1)
	assert.Equal(t, fontID, fonts[0].ID)

	projects, err := c.ProjectsForFont(otherID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestRefreshFontsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	_, err := c.AddFont(ctx, hostedDraft("Inter", "Inter"), "user-1")
	require.NoError(t, err)

	require.NoError(t, c.RefreshFonts(ctx))
	first := c.Fonts()
	require.NoError(t, c.RefreshFonts(ctx))
	second := c.Fonts()

	assert.Equal(t, first, second)
}

func TestRefreshFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	_, err := c.AddFont(ctx, hostedDraft("Inter", "Inter"), "user-1")
	require.NoError(t, err)
	require.Len(t, c.Fonts(), 1)

	s.failFonts = true
	require.Error(t, c.RefreshFonts(ctx))

	assert.Len(t, c.Fonts(), 1, "failed refresh must not clear existing data")
	assert.True(t, c.Stats().FontsStale)

	s.failFonts = false
	require.NoError(t, c.RefreshFonts(ctx))
	assert.False(t, c.Stats().FontsStale)
}

func TestDeleteFontRemovesLookupAndCounts(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	fontID, _ := c.AddFont(ctx, hostedDraft("Inter", "Inter"), "user-1")
	projectID, _ := c.AddProject(ctx, models.ProjectDraft{Name: "P"}, "user-1")
	require.NoError(t, c.AddFontToProject(ctx, fontID, projectID, "", "user-1"))

	project, _ := c.GetProjectByID(projectID)
	require.Equal(t, 1, project.FontCount)

	require.NoError(t, c.DeleteFont(ctx, fontID, "user-1"))

	_, ok := c.GetFontByID(fontID)
	assert.False(t, ok)

	project, _ = c.GetProjectByID(projectID)
	assert.Equal(t, 0, project.FontCount, "cascaded associations no longer count")
}

func TestAddProjectResolvesPreviewFromDescription(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	projectID, err := c.AddProject(ctx, models.ProjectDraft{
		Name:        "Site refresh",
		Description: "see https://example.com for details",
	}, "user-1")
	require.NoError(t, err)

	project, ok := c.GetProjectByID(projectID)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/og.png", project.Preview())
}

func TestRefreshProjectsResolvesAndPersistsPreview(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	// Seed a project directly in the store, bypassing the up-front resolution.
	id := uuid.New()
	s.projects[id] = models.Project{
		ID:          id,
		Name:        "Seeded",
		Description: "read https://example.com first",
		CreatedAt:   s.tick(),
	}

	require.NoError(t, c.RefreshProjects(ctx))

	project, ok := c.GetProjectByID(id)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/og.png", project.Preview())

	// The write-back is fire-and-forget
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.previewWrites) > 0
	}, time.Second, 10*time.Millisecond)
}

func TestUploadedImageWinsOverDescription(t *testing.T) {
	ctx := context.Background()
	s := newStoreState()
	c := newTestCache(s)

	id := uuid.New()
	s.projects[id] = models.Project{
		ID:          id,
		Name:        "With images",
		Description: "also see https://example.com",
		Images:      []string{"img1.png", "img2.png"},
		CreatedAt:   s.tick(),
	}

	require.NoError(t, c.RefreshProjects(ctx))

	project, _ := c.GetProjectByID(id)
	assert.Equal(t, "img1.png", project.Preview())
}

func TestGetByIDNotFoundIsNotAnError(t *testing.T) {
	c := newTestCache(newStoreState())

	_, ok := c.GetFontByID(uuid.New())
	assert.False(t, ok)
	_, ok = c.GetProjectByID(uuid.New())
	assert.False(t, ok)
}
