package cache

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/typegarden-backend/errs"
	"github.com/rpupo63/typegarden-backend/models"
)

// validateFontDraft enforces the required-field rules before any store call:
// hosted fonts need a family, custom fonts need an uploaded file path.
func validateFontDraft(draft models.FontDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if draft.Category != "" && !draft.Category.Valid() {
		return errs.NewInvalidFieldError("category", "unknown category")
	}
	if draft.IsCustom {
		if strings.TrimSpace(draft.FontFilePath) == "" {
			return errs.NewMissingRequiredFieldError("font_file_path")
		}
		if draft.FontFormat != "" && !draft.FontFormat.Valid() {
			return errs.NewInvalidFieldError("font_format", "unknown font format")
		}
	} else if strings.TrimSpace(draft.FontFamily) == "" {
		return errs.NewMissingRequiredFieldError("font_family")
	}
	return nil
}

// findDuplicate applies the duplicate rule against the current collection:
// hosted fonts collide on family, custom fonts collide on name. A custom and
// a hosted font may share a name without conflict.
func (c *DataCache) findDuplicate(draft models.FontDraft) (models.Font, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.fontList {
		if draft.IsCustom {
			if f.IsCustom && strings.EqualFold(f.Name, strings.TrimSpace(draft.Name)) {
				return f, true
			}
		} else if !f.IsCustom && strings.EqualFold(f.Family(), strings.TrimSpace(draft.FontFamily)) {
			return f, true
		}
	}
	return models.Font{}, false
}

// AddFont validates the draft, applies the duplicate rule without touching the
// store, then inserts the row tagged with the acting user and refreshes the
// font collection. Returns the new font's ID.
func (c *DataCache) AddFont(ctx context.Context, draft models.FontDraft, userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, errs.NewSignInRequiredError()
	}
	if err := validateFontDraft(draft); err != nil {
		return uuid.Nil, err
	}
	if existing, ok := c.findDuplicate(draft); ok {
		return uuid.Nil, errs.NewDuplicateFontError("already registered as " + existing.Name)
	}

	font := draft.ToFont(userID)
	if err := c.fonts.Add(&font); err != nil {
		c.logger.Error().Err(err).Str("name", font.Name).Msg("adding font failed")
		return uuid.Nil, errs.NewDatabaseError("create", "font", err)
	}

	if err := c.RefreshFonts(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("refresh after font insert failed")
	}
	return font.ID, nil
}

// AddProject inserts a project tagged with the acting user and returns the new
// project's ID so callers can attach follow-up data. If the draft carries no
// preview and no images but the description embeds a URL, resolution is
// attempted up front so the first fetch already has a usable preview.
func (c *DataCache) AddProject(ctx context.Context, draft models.ProjectDraft, userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, errs.NewSignInRequiredError()
	}
	if strings.TrimSpace(draft.Name) == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError("name")
	}
	if draft.Type != "" && !draft.Type.Valid() {
		return uuid.Nil, errs.NewInvalidFieldError("type", "unknown project type")
	}

	if draft.PreviewImageURL == "" && len(draft.Images) == 0 && c.previews != nil {
		if url, ok := c.previews.Resolve(ctx, nil, "", draft.Description); ok {
			draft.PreviewImageURL = url
		}
	}

	project := draft.ToProject(userID)
	if err := c.projects.Add(&project); err != nil {
		c.logger.Error().Err(err).Str("name", project.Name).Msg("adding project failed")
		return uuid.Nil, errs.NewDatabaseError("create", "project", err)
	}

	if err := c.RefreshProjects(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("refresh after project insert failed")
	}
	return project.ID, nil
}

// AddFontToProject inserts the association row and refreshes both sides, since
// both computed counts change.
func (c *DataCache) AddFontToProject(ctx context.Context, fontID, projectID uuid.UUID, note string, userID string) error {
	if userID == "" {
		return errs.NewSignInRequiredError()
	}

	association := models.FontProject{FontID: fontID, ProjectID: projectID, Note: note}
	if err := c.associations.Add(&association); err != nil {
		c.logger.Error().Err(err).
			Str("fontID", fontID.String()).
			Str("projectID", projectID.String()).
			Msg("adding association failed")
		return errs.NewDatabaseError("create", "association", err)
	}

	c.refreshBoth(ctx)
	return nil
}

// RemoveFontFromProject deletes the association row and refreshes both sides.
func (c *DataCache) RemoveFontFromProject(ctx context.Context, fontID, projectID uuid.UUID, userID string) error {
	if userID == "" {
		return errs.NewSignInRequiredError()
	}

	if err := c.associations.Remove(fontID, projectID); err != nil {
		c.logger.Error().Err(err).
			Str("fontID", fontID.String()).
			Str("projectID", projectID.String()).
			Msg("removing association failed")
		return errs.NewDatabaseError("delete", "association", err)
	}

	c.refreshBoth(ctx)
	return nil
}

// DeleteFont deletes the row; the store cascades the font's associations.
func (c *DataCache) DeleteFont(ctx context.Context, id uuid.UUID, userID string) error {
	if userID == "" {
		return errs.NewSignInRequiredError()
	}

	if err := c.fonts.Delete(id); err != nil {
		c.logger.Error().Err(err).Str("fontID", id.String()).Msg("deleting font failed")
		return errs.NewDatabaseError("delete", "font", err)
	}

	// Associations cascade at the store layer, so project counts change too.
	c.refreshBoth(ctx)
	return nil
}

// DeleteProject deletes the row; the store cascades the project's associations.
func (c *DataCache) DeleteProject(ctx context.Context, id uuid.UUID, userID string) error {
	if userID == "" {
		return errs.NewSignInRequiredError()
	}

	if err := c.projects.Delete(id); err != nil {
		c.logger.Error().Err(err).Str("projectID", id.String()).Msg("deleting project failed")
		return errs.NewDatabaseError("delete", "project", err)
	}

	c.refreshBoth(ctx)
	return nil
}

func (c *DataCache) refreshBoth(ctx context.Context) {
	if err := c.RefreshFonts(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("font refresh after mutation failed")
	}
	if err := c.RefreshProjects(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("project refresh after mutation failed")
	}
}
