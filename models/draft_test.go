package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedTags(t *testing.T) {
	tests := []struct {
		name     string
		draft    FontDraft
		expected []string
	}{
		{
			name:     "list passes through trimmed",
			draft:    FontDraft{Tags: []string{" display ", "retro"}},
			expected: []string{"display", "retro"},
		},
		{
			name:     "empties dropped",
			draft:    FontDraft{Tags: []string{"", "  ", "keep"}},
			expected: []string{"keep"},
		},
		{
			name:     "legacy comma string",
			draft:    FontDraft{TagsRaw: "display, retro ,,grunge"},
			expected: []string{"display", "retro", "grunge"},
		},
		{
			name:     "list wins over legacy string",
			draft:    FontDraft{Tags: []string{"display"}, TagsRaw: "ignored,also"},
			expected: []string{"display"},
		},
		{
			name:     "nothing supplied",
			draft:    FontDraft{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.draft.NormalizedTags())
		})
	}
}

func TestToFontHosted(t *testing.T) {
	draft := FontDraft{
		Name:       "  Inter  ",
		FontFamily: " Inter ",
		Category:   CategorySansSerif,
		Notes:      "workhorse",
		Tags:       []string{"ui"},
	}

	font := draft.ToFont("user-1")

	assert.Equal(t, "Inter", font.Name)
	require.NotNil(t, font.FontFamily)
	assert.Equal(t, "Inter", *font.FontFamily)
	assert.Nil(t, font.FontFilePath)
	assert.Nil(t, font.FontFormat)
	assert.False(t, font.IsCustom)
	assert.Equal(t, CategorySansSerif, font.Category)
	assert.Equal(t, "user-1", font.CreatedBy)
	assert.Equal(t, []string{"ui"}, []string(font.Tags))
}

func TestToFontCustom(t *testing.T) {
	draft := FontDraft{
		Name:         "Handcut",
		IsCustom:     true,
		FontFilePath: "fonts/handcut.woff2",
		FontFormat:   FormatWoff2,
	}

	font := draft.ToFont("user-1")

	require.NotNil(t, font.FontFilePath)
	assert.Equal(t, "fonts/handcut.woff2", *font.FontFilePath)
	require.NotNil(t, font.FontFormat)
	assert.Equal(t, FormatWoff2, *font.FontFormat)
	assert.Nil(t, font.FontFamily)
	assert.True(t, font.IsCustom)
}

func TestToFontDefaultsCategory(t *testing.T) {
	font := FontDraft{Name: "Mystery", FontFamily: "Mystery"}.ToFont("user-1")
	assert.Equal(t, CategoryOther, font.Category)
}

func TestToFontCustomWithoutFormat(t *testing.T) {
	font := FontDraft{Name: "Raw", IsCustom: true, FontFilePath: "fonts/raw.ttf"}.ToFont("user-1")
	assert.Nil(t, font.FontFormat)
}

func TestToProject(t *testing.T) {
	t.Run("defaults type to personal", func(t *testing.T) {
		project := ProjectDraft{Name: " Site "}.ToProject("user-1")
		assert.Equal(t, "Site", project.Name)
		assert.Equal(t, TypePersonal, project.Type)
		assert.Nil(t, project.PreviewImageURL)
		assert.Equal(t, "user-1", project.CreatedBy)
	})

	t.Run("keeps explicit type and preview", func(t *testing.T) {
		project := ProjectDraft{
			Name:            "Inspo",
			Type:            TypeReference,
			Images:          []string{"a.png"},
			PreviewImageURL: "p.png",
		}.ToProject("user-1")

		assert.Equal(t, TypeReference, project.Type)
		require.NotNil(t, project.PreviewImageURL)
		assert.Equal(t, "p.png", *project.PreviewImageURL)
		assert.Equal(t, []string{"a.png"}, []string(project.Images))
	})
}
