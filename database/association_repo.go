package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/typegarden-backend/models"
	"gorm.io/gorm"
)

type AssociationRepo struct {
	db *gorm.DB
}

func NewAssociationRepo(db *gorm.DB) *AssociationRepo {
	return &AssociationRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *AssociationRepo) GetDB() *gorm.DB {
	return r.db
}

// Add inserts a new association row linking a font to a project
func (r *AssociationRepo) Add(association *models.FontProject) error {
	return r.db.Create(association).Error
}

// Remove deletes the association row for (fontID, projectID)
func (r *AssociationRepo) Remove(fontID, projectID uuid.UUID) error {
	return r.db.
		Where("font_id = ? AND project_id = ?", fontID, projectID).
		Delete(&models.FontProject{}).Error
}

// FontIDsForProject returns the IDs of all fonts associated with a project
func (r *AssociationRepo) FontIDsForProject(projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.FontProject{}).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Pluck("font_id", &ids).Error
	return ids, err
}

// ProjectIDsForFont returns the IDs of all projects associated with a font
func (r *AssociationRepo) ProjectIDsForFont(fontID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.FontProject{}).
		Where("font_id = ?", fontID).
		Order("created_at ASC").
		Pluck("project_id", &ids).Error
	return ids, err
}
