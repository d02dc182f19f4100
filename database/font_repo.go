package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/typegarden-backend/models"
	"gorm.io/gorm"
)

type FontRepo struct {
	db *gorm.DB
}

func NewFontRepo(db *gorm.DB) *FontRepo {
	return &FontRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *FontRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAllWithCounts returns all fonts joined with their association counts.
func (r *FontRepo) FindAllWithCounts() ([]*models.Font, error) {
	var fonts []*models.Font
	err := r.db.Model(&models.Font{}).
		Select("fonts.*, COUNT(font_projects.id) AS project_count").
		Joins("LEFT JOIN font_projects ON font_projects.font_id = fonts.id").
		Group("fonts.id").
		Order("fonts.created_at DESC").
		Find(&fonts).Error
	return fonts, err
}

// FindByID returns a font by its ID
func (r *FontRepo) FindByID(id uuid.UUID) (*models.Font, error) {
	var font models.Font
	err := r.db.First(&font, id).Error
	if err != nil {
		return nil, err
	}
	return &font, nil
}

// Add inserts a new font into the database
func (r *FontRepo) Add(font *models.Font) error {
	return r.db.Create(font).Error
}

// Update updates an existing font in the database
func (r *FontRepo) Update(font *models.Font) error {
	return r.db.Save(font).Error
}

// Delete removes a font from the database by id; associations cascade.
func (r *FontRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Font{}, id).Error
}
