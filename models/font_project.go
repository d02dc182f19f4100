package models

import (
	"time"

	"github.com/google/uuid"
)

// FontProject links one font to one project. Existence of the row is the sole
// evidence of membership; Note is an optional free-text annotation.
type FontProject struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	FontID    uuid.UUID `json:"font_id" db:"font_id" gorm:"type:uuid;not null;index:idx_font_project_font_id;uniqueIndex:idx_font_project_unique"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_font_project_project_id;uniqueIndex:idx_font_project_unique"`
	Note      string    `json:"note" db:"note" gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}
