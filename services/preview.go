package services

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxPreviewBodyBytes caps how much of a fetched page is scanned for meta tags.
const maxPreviewBodyBytes = 1 << 20

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')]+`)

// Meta tags may carry their attributes in either order.
var (
	ogImagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<meta[^>]*property=["']og:image["'][^>]*content=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)<meta[^>]*content=["']([^"']+)["'][^>]*property=["']og:image["']`),
	}
	twitterImagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<meta[^>]*name=["']twitter:image["'][^>]*content=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)<meta[^>]*content=["']([^"']+)["'][^>]*name=["']twitter:image["']`),
	}
)

// PreviewResolver produces a single best-effort representative image for a
// project. Remote pages are fetched through a CORS-capable proxy when one is
// configured and scanned for Open-Graph, then Twitter-card, image tags.
type PreviewResolver struct {
	client   *http.Client
	proxyURL string
	logger   zerolog.Logger
}

// NewPreviewResolver builds a resolver. proxyURL is prepended to fetched URLs
// and may be empty for direct fetches.
func NewPreviewResolver(proxyURL string) *PreviewResolver {
	return &PreviewResolver{
		client:   &http.Client{Timeout: 10 * time.Second},
		proxyURL: proxyURL,
		logger:   log.With().Str("component", "previewResolver").Logger(),
	}
}

// Resolve short-circuits at the first success: the first uploaded image, the
// already-resolved URL, then an Open-Graph scrape of the first URL embedded in
// the description. ok is false when no image could be determined; failures
// degrade to that, never to an error.
func (r *PreviewResolver) Resolve(ctx context.Context, images []string, existing, description string) (string, bool) {
	if len(images) > 0 {
		return images[0], true
	}
	if existing != "" {
		return existing, true
	}

	pageURL := FirstURL(description)
	if pageURL == "" {
		return "", false
	}

	imageURL, err := r.scrapeImage(ctx, pageURL)
	if err != nil {
		r.logger.Debug().Err(err).Str("url", pageURL).Msg("preview scrape failed")
		return "", false
	}
	return imageURL, imageURL != ""
}

// FirstURL extracts the first URL-shaped substring from free text.
func FirstURL(text string) string {
	return urlPattern.FindString(text)
}

func (r *PreviewResolver) scrapeImage(ctx context.Context, pageURL string) (string, error) {
	fetchURL := pageURL
	if r.proxyURL != "" {
		fetchURL = strings.TrimSuffix(r.proxyURL, "/") + "/" + pageURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Debug().Int("status", resp.StatusCode).Str("url", pageURL).Msg("preview fetch returned non-success status")
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPreviewBodyBytes))
	if err != nil {
		return "", err
	}

	return ExtractMetaImage(string(body)), nil
}

// ExtractMetaImage scans markup for an og:image meta tag, falling back to a
// twitter:image tag. Returns the first matched content value or "".
func ExtractMetaImage(markup string) string {
	for _, pattern := range ogImagePatterns {
		if m := pattern.FindStringSubmatch(markup); m != nil {
			return m[1]
		}
	}
	for _, pattern := range twitterImagePatterns {
		if m := pattern.FindStringSubmatch(markup); m != nil {
			return m[1]
		}
	}
	return ""
}
