package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstURL(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "plain url",
			text:     "see https://example.com for details",
			expected: "https://example.com",
		},
		{
			name:     "first of several",
			text:     "http://a.example.com then https://b.example.com",
			expected: "http://a.example.com",
		},
		{
			name:     "url with path and query",
			text:     "ref: https://example.com/p/1?x=2 end",
			expected: "https://example.com/p/1?x=2",
		},
		{
			name:     "no url",
			text:     "nothing to see here",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FirstURL(tt.text))
		})
	}
}

func TestExtractMetaImage(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{
			name:     "og image",
			markup:   `<head><meta property="og:image" content="https://example.com/x.png"></head>`,
			expected: "https://example.com/x.png",
		},
		{
			name:     "og image with reversed attributes",
			markup:   `<meta content="https://example.com/y.png" property="og:image">`,
			expected: "https://example.com/y.png",
		},
		{
			name:     "twitter fallback",
			markup:   `<meta name="twitter:image" content="https://example.com/t.png">`,
			expected: "https://example.com/t.png",
		},
		{
			name:     "og wins over twitter",
			markup:   `<meta name="twitter:image" content="https://example.com/t.png"><meta property="og:image" content="https://example.com/o.png">`,
			expected: "https://example.com/o.png",
		},
		{
			name:     "single quotes",
			markup:   `<meta property='og:image' content='https://example.com/s.png'>`,
			expected: "https://example.com/s.png",
		},
		{
			name:     "no image tags",
			markup:   `<meta property="og:title" content="hello">`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMetaImage(tt.markup))
		})
	}
}

func TestResolveShortCircuits(t *testing.T) {
	r := NewPreviewResolver("")

	t.Run("first uploaded image wins regardless of description", func(t *testing.T) {
		url, ok := r.Resolve(context.Background(), []string{"img1.png", "img2.png"}, "", "see https://example.com")
		require.True(t, ok)
		assert.Equal(t, "img1.png", url)
	})

	t.Run("existing preview is a no-op", func(t *testing.T) {
		url, ok := r.Resolve(context.Background(), nil, "existing.png", "see https://example.com")
		require.True(t, ok)
		assert.Equal(t, "existing.png", url)
	})

	t.Run("no url in description resolves to nothing", func(t *testing.T) {
		_, ok := r.Resolve(context.Background(), nil, "", "no links here")
		assert.False(t, ok)
	})
}

func TestResolveScrapesOpenGraphImage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`<html><head><meta property="og:image" content="https://example.com/x.png"></head></html>`))
	}))
	defer server.Close()

	r := NewPreviewResolver("")
	url, ok := r.Resolve(context.Background(), nil, "", "see "+server.URL+" for details")

	require.True(t, ok)
	assert.Equal(t, "https://example.com/x.png", url)
	assert.Equal(t, 1, requests)
}

func TestResolveNonSuccessStatusDegradesToNone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	r := NewPreviewResolver("")
	url, ok := r.Resolve(context.Background(), nil, "", "see "+server.URL)

	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestResolveFetchErrorDegradesToNone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	r := NewPreviewResolver("")
	_, ok := r.Resolve(context.Background(), nil, "", "see "+server.URL)

	assert.False(t, ok)
}

func TestResolveUsesProxyPrefix(t *testing.T) {
	var fetched string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = r.URL.Path
		w.Write([]byte(`<meta property="og:image" content="https://example.com/p.png">`))
	}))
	defer proxy.Close()

	r := NewPreviewResolver(proxy.URL)
	url, ok := r.Resolve(context.Background(), nil, "", "see https://example.com/page")

	require.True(t, ok)
	assert.Equal(t, "https://example.com/p.png", url)
	assert.Contains(t, fetched, "example.com")
}
