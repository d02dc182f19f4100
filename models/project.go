package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectType distinguishes the user's own work from reference collections.
type ProjectType string

const (
	TypePersonal  ProjectType = "personal"
	TypeReference ProjectType = "reference"
)

// TypeAll is the "no restriction" filter value, never stored.
const TypeAll ProjectType = "all"

func (t ProjectType) Valid() bool {
	return t == TypePersonal || t == TypeReference
}

// Project groups fonts for a piece of work. Images holds uploaded image URLs
// in upload order; PreviewImageURL is the lazily resolved representative image.
type Project struct {
	ID              uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name            string                      `json:"name" db:"name" gorm:"type:text;not null"`
	Description     string                      `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	Type            ProjectType                 `json:"type" db:"type" gorm:"type:text;not null;default:personal"`
	Images          datatypes.JSONSlice[string] `json:"images" db:"images"`
	PreviewImageURL *string                     `json:"preview_image_url,omitempty" db:"preview_image_url" gorm:"type:text"`
	CreatedBy       string                      `json:"created_by" db:"created_by" gorm:"type:text;not null"`
	CreatedAt       time.Time                   `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time                   `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// FontCount is computed from the association table, never stored.
	FontCount int `json:"font_count" gorm:"->;-:migration"`

	Associations []FontProject `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// Preview returns the resolved preview image URL or the empty string.
func (p Project) Preview() string {
	if p.PreviewImageURL == nil {
		return ""
	}
	return *p.PreviewImageURL
}
