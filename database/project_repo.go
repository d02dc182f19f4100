package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/typegarden-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAllWithCounts returns all projects joined with their association counts,
// newest-created first.
func (r *ProjectRepo) FindAllWithCounts() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Model(&models.Project{}).
		Select("projects.*, COUNT(font_projects.id) AS font_count").
		Joins("LEFT JOIN font_projects ON font_projects.project_id = projects.id").
		Group("projects.id").
		Order("projects.created_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// SetPreviewImageIfEmpty persists a resolved preview URL only while the stored
// value is still unset, so a background resolution can't clobber a newer
// user-supplied preview.
func (r *ProjectRepo) SetPreviewImageIfEmpty(id uuid.UUID, url string) error {
	return r.db.Model(&models.Project{}).
		Where("id = ? AND (preview_image_url IS NULL OR preview_image_url = '')", id).
		Update("preview_image_url", url).Error
}

// Delete removes a project from the database by id; associations cascade.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, id).Error
}
