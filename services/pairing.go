package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rpupo63/typegarden-backend/models"
)

// pairingTimeout aborts an in-flight suggestion request.
const pairingTimeout = 15 * time.Second

const pairingPromptTemplate = `You are a typography expert. Suggest exactly three fonts that pair well with "%s" (category: %s).
Respond with only a JSON array of objects shaped like {"name": "...", "category": "...", "reason": "..."}.`

// PairingSuggestion is one complementary font recommendation.
type PairingSuggestion struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// fallbackPairings is served whenever the model call fails or returns
// something unusable, keyed by the source font's category.
var fallbackPairings = map[models.FontCategory][]PairingSuggestion{
	models.CategorySerif: {
		{Name: "Open Sans", Category: "sans-serif", Reason: "A neutral sans counterweight for serif body or display use."},
		{Name: "Lato", Category: "sans-serif", Reason: "Warm, humanist letterforms that soften a formal serif."},
		{Name: "Source Code Pro", Category: "monospace", Reason: "A quiet monospace for captions and code."},
	},
	models.CategorySansSerif: {
		{Name: "Lora", Category: "serif", Reason: "A contemporary serif that adds contrast at text sizes."},
		{Name: "Playfair Display", Category: "serif", Reason: "High-contrast headlines over a clean sans body."},
		{Name: "IBM Plex Mono", Category: "monospace", Reason: "A matching-temperature monospace for technical accents."},
	},
	models.CategoryDisplay: {
		{Name: "Inter", Category: "sans-serif", Reason: "Disappears behind a loud display face."},
		{Name: "Merriweather", Category: "serif", Reason: "Sturdy reading serif to ground the layout."},
		{Name: "Roboto", Category: "sans-serif", Reason: "Safe, legible UI companion."},
	},
	models.CategoryHandwriting: {
		{Name: "Nunito", Category: "sans-serif", Reason: "Rounded terminals echo the script's softness."},
		{Name: "Georgia", Category: "serif", Reason: "A familiar serif keeps long text readable."},
		{Name: "Quicksand", Category: "sans-serif", Reason: "Geometric warmth without competing flourish."},
	},
	models.CategoryMonospace: {
		{Name: "Inter", Category: "sans-serif", Reason: "Clean UI sans alongside code."},
		{Name: "Source Serif Pro", Category: "serif", Reason: "Documentation serif from the same superfamily tradition."},
		{Name: "Work Sans", Category: "sans-serif", Reason: "Low-contrast headings over monospaced content."},
	},
	models.CategoryOther: {
		{Name: "Inter", Category: "sans-serif", Reason: "A versatile default for unknown pairings."},
		{Name: "Lora", Category: "serif", Reason: "Balanced serif that pairs broadly."},
		{Name: "JetBrains Mono", Category: "monospace", Reason: "Distinct monospace accent."},
	},
}

// PairingClient requests complementary font suggestions from a
// chat-completion model.
type PairingClient struct {
	llm    llms.Model
	logger zerolog.Logger
}

// NewPairingClient builds a client against the configured OpenAI-compatible
// endpoint. Credentials come from the environment (OPENAI_API_KEY).
func NewPairingClient(model string) (*PairingClient, error) {
	opts := []openai.Option{}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing pairing model: %w", err)
	}
	return &PairingClient{
		llm:    llm,
		logger: log.With().Str("component", "pairingClient").Logger(),
	}, nil
}

// Suggest returns three complementary fonts for the given font. Any failure
// (network, timeout, malformed JSON, empty result) degrades to the static
// category-keyed fallback set; the caller always gets suggestions.
func (c *PairingClient) Suggest(ctx context.Context, fontName string, category models.FontCategory) []PairingSuggestion {
	ctx, cancel := context.WithTimeout(ctx, pairingTimeout)
	defer cancel()

	prompt := fmt.Sprintf(pairingPromptTemplate, fontName, category)
	completion, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		c.logger.Warn().Err(err).Str("font", fontName).Msg("pairing request failed, using fallback")
		return FallbackPairings(category)
	}

	suggestions, err := ParsePairingResponse(completion)
	if err != nil || len(suggestions) == 0 {
		c.logger.Warn().Err(err).Str("font", fontName).Msg("unusable pairing response, using fallback")
		return FallbackPairings(category)
	}
	return suggestions
}

// FallbackPairings returns the static suggestion set for a category.
func FallbackPairings(category models.FontCategory) []PairingSuggestion {
	if suggestions, ok := fallbackPairings[category]; ok {
		return suggestions
	}
	return fallbackPairings[models.CategoryOther]
}

// ParsePairingResponse parses the model's text into suggestions. The payload
// may be a bare JSON array or an array wrapped in explanatory prose, in which
// case the first balanced [...] substring is extracted.
func ParsePairingResponse(text string) ([]PairingSuggestion, error) {
	payload := strings.TrimSpace(text)
	if !strings.HasPrefix(payload, "[") {
		extracted, ok := extractBracketedArray(payload)
		if !ok {
			return nil, fmt.Errorf("no JSON array in response")
		}
		payload = extracted
	}

	var suggestions []PairingSuggestion
	if err := json.Unmarshal([]byte(payload), &suggestions); err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}
	return suggestions, nil
}

// extractBracketedArray returns the first balanced [...] substring. Brackets
// inside JSON strings are ignored.
func extractBracketedArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
