package models

import "strings"

// FontDraft is the caller-supplied payload for creating a font. System-assigned
// fields (id, timestamps, counts) are absent by construction. Tags may arrive
// either as a proper list or, from legacy clients, as a comma-separated string
// in TagsRaw; NormalizedTags merges the two.
type FontDraft struct {
	Name         string       `json:"name"`
	FontFamily   string       `json:"font_family"`
	Category     FontCategory `json:"category"`
	Notes        string       `json:"notes"`
	Tags         []string     `json:"tags"`
	TagsRaw      string       `json:"tags_raw,omitempty"`
	IsCustom     bool         `json:"is_custom"`
	FontFilePath string       `json:"font_file_path"`
	FontFormat   FontFormat   `json:"font_format"`
}

// NormalizedTags returns the draft's tags as a trimmed list with empties
// dropped. A comma-separated TagsRaw is only consulted when Tags is empty.
func (d FontDraft) NormalizedTags() []string {
	raw := d.Tags
	if len(raw) == 0 && d.TagsRaw != "" {
		raw = strings.Split(d.TagsRaw, ",")
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ToFont builds a storable Font from the draft, tagged with the acting user.
// Callers are expected to have validated the draft first.
func (d FontDraft) ToFont(userID string) Font {
	font := Font{
		Name:      strings.TrimSpace(d.Name),
		Category:  d.Category,
		Notes:     d.Notes,
		Tags:      d.NormalizedTags(),
		IsCustom:  d.IsCustom,
		CreatedBy: userID,
	}
	if font.Category == "" {
		font.Category = CategoryOther
	}
	if d.IsCustom {
		path := d.FontFilePath
		font.FontFilePath = &path
		if d.FontFormat != "" {
			format := d.FontFormat
			font.FontFormat = &format
		}
	} else {
		family := strings.TrimSpace(d.FontFamily)
		font.FontFamily = &family
	}
	return font
}

// ProjectDraft is the caller-supplied payload for creating a project.
type ProjectDraft struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Type            ProjectType `json:"type"`
	Images          []string    `json:"images"`
	PreviewImageURL string      `json:"preview_image_url"`
}

// ToProject builds a storable Project from the draft, tagged with the acting
// user. An unset type defaults to personal.
func (d ProjectDraft) ToProject(userID string) Project {
	project := Project{
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Type:        d.Type,
		Images:      d.Images,
		CreatedBy:   userID,
	}
	if project.Type == "" {
		project.Type = TypePersonal
	}
	if d.PreviewImageURL != "" {
		url := d.PreviewImageURL
		project.PreviewImageURL = &url
	}
	return project
}
