package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FontCategory classifies a font for filtering and pairing suggestions.
type FontCategory string

const (
	CategorySerif       FontCategory = "serif"
	CategorySansSerif   FontCategory = "sans-serif"
	CategoryDisplay     FontCategory = "display"
	CategoryHandwriting FontCategory = "handwriting"
	CategoryMonospace   FontCategory = "monospace"
	CategoryOther       FontCategory = "other"
)

// CategoryAll is not a stored category; it is the "no restriction" filter value.
const CategoryAll FontCategory = "all"

func (c FontCategory) Valid() bool {
	switch c {
	case CategorySerif, CategorySansSerif, CategoryDisplay, CategoryHandwriting, CategoryMonospace, CategoryOther:
		return true
	}
	return false
}

// FontFormat is the file format of an uploaded custom font.
type FontFormat string

const (
	FormatWoff             FontFormat = "woff"
	FormatWoff2            FontFormat = "woff2"
	FormatTrueType         FontFormat = "truetype"
	FormatOpenType         FontFormat = "opentype"
	FormatSVG              FontFormat = "svg"
	FormatEmbeddedOpenType FontFormat = "embedded-opentype"
)

func (f FontFormat) Valid() bool {
	switch f {
	case FormatWoff, FormatWoff2, FormatTrueType, FormatOpenType, FormatSVG, FormatEmbeddedOpenType:
		return true
	}
	return false
}

// Font represents one catalogued typeface, either a hosted family or an
// uploaded custom file. FontFamily is set for hosted fonts, FontFilePath and
// FontFormat only for custom ones.
type Font struct {
	ID           uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name         string         `json:"name" db:"name" gorm:"type:text;not null"`
	FontFamily   *string        `json:"font_family,omitempty" db:"font_family" gorm:"type:text"`
	Category     FontCategory   `json:"category" db:"category" gorm:"type:text;not null;default:other"`
	Notes        string         `json:"notes" db:"notes" gorm:"type:text;not null;default:''"`
	Tags         pq.StringArray `json:"tags" db:"tags" gorm:"type:text[];not null;default:'{}'"`
	IsCustom     bool           `json:"is_custom" db:"is_custom" gorm:"not null;default:false"`
	FontFilePath *string        `json:"font_file_path,omitempty" db:"font_file_path" gorm:"type:text"`
	FontFormat   *FontFormat    `json:"font_format,omitempty" db:"font_format" gorm:"type:text"`
	CreatedBy    string         `json:"created_by" db:"created_by" gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// ProjectCount is computed from the association table, never stored.
	ProjectCount int `json:"project_count" gorm:"->;-:migration"`

	Associations []FontProject `json:"-" gorm:"foreignKey:FontID;references:ID;constraint:OnDelete:CASCADE"`
}

// Family returns the hosted family name or the empty string for custom fonts.
func (f Font) Family() string {
	if f.FontFamily == nil {
		return ""
	}
	return *f.FontFamily
}
