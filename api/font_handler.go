package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/typegarden-backend/cache"
	"github.com/rpupo63/typegarden-backend/errs"
	"github.com/rpupo63/typegarden-backend/models"
	"github.com/rpupo63/typegarden-backend/services"
)

type fontHandler struct {
	responder Responder
	logger    zerolog.Logger
	dataCache *cache.DataCache
	pairings  *services.PairingClient
}

func newFontHandler(dataCache *cache.DataCache, pairings *services.PairingClient) fontHandler {
	logger := log.With().Str("handlerName", "fontHandler").Logger()

	return fontHandler{
		responder: NewResponder(logger),
		logger:    logger,
		dataCache: dataCache,
		pairings:  pairings,
	}
}

// FontCollection represents the visible font list
type FontCollection struct {
	Fonts []models.Font `json:"fonts"`
	Total int           `json:"total,omitempty"`
}

// getAllFonts retrieves the visible font list
// @Summary Get all fonts
// @Description Retrieves the cached fonts filtered by query and category
// @Tags Fonts
// @Produce json
// @Param q query string false "Case-insensitive name substring"
// @Param category query string false "Category filter, or 'all'"
// @Success 200 {object} FontCollection "List of fonts"
// @Router /fonts [get]
func (h fontHandler) getAllFonts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := cache.FontView{
			Query:    r.URL.Query().Get("q"),
			Category: models.FontCategory(r.URL.Query().Get("category")),
		}

		fonts := cache.VisibleFonts(h.dataCache.Fonts(), view)

		h.responder.WriteJSON(w, FontCollection{Fonts: fonts, Total: len(fonts)})
	}
}

// getGarden retrieves the home-page catalog ordering
// @Summary Get garden view
// @Description Retrieves all fonts ordered by usage count, then name
// @Tags Fonts
// @Produce json
// @Success 200 {object} FontCollection "Fonts in garden order"
// @Router /fonts/garden [get]
func (h fontHandler) getGarden() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fonts := cache.GardenOrder(h.dataCache.Fonts())

		h.responder.WriteJSON(w, FontCollection{Fonts: fonts, Total: len(fonts)})
	}
}

// getFont retrieves a specific font by ID
// @Summary Get font
// @Tags Fonts
// @Produce json
// @Param fontID path string true "Font ID" format(uuid)
// @Success 200 {object} models.Font "Font details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid fontID"
// @Failure 404 {object} ErrorResponse "Not Found - Font not found"
// @Router /font/{fontID} [get]
func (h fontHandler) getFont() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fontID, err := parseIDParam(r, "fontID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		font, ok := h.dataCache.GetFontByID(fontID)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("font not found"))
			return
		}

		h.responder.WriteJSON(w, font)
	}
}

// getFontProjects retrieves the projects a font belongs to via the association table
// @Summary Get font projects
// @Tags Fonts
// @Produce json
// @Param fontID path string true "Font ID" format(uuid)
// @Success 200 {object} ProjectCollection "Projects using this font"
// @Router /font/{fontID}/projects [get]
func (h fontHandler) getFontProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fontID, err := parseIDParam(r, "fontID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, ok := h.dataCache.GetFontByID(fontID); !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("font not found"))
			return
		}

		projects, lookupErr := h.dataCache.ProjectsForFont(fontID)
		if lookupErr != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find projects for", "font", lookupErr))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// PairingResponse wraps the suggestions for one font
type PairingResponse struct {
	Font        string                       `json:"font"`
	Suggestions []services.PairingSuggestion `json:"suggestions"`
}

// getPairings retrieves AI pairing suggestions for a font
// @Summary Get pairing suggestions
// @Description Requests three complementary fonts; falls back to a static set on any model failure
// @Tags Fonts
// @Produce json
// @Param fontID path string true "Font ID" format(uuid)
// @Success 200 {object} PairingResponse "Suggestions"
// @Router /font/{fontID}/pairings [get]
func (h fontHandler) getPairings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fontID, err := parseIDParam(r, "fontID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		font, ok := h.dataCache.GetFontByID(fontID)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("font not found"))
			return
		}

		var suggestions []services.PairingSuggestion
		if h.pairings != nil {
			suggestions = h.pairings.Suggest(r.Context(), font.Name, font.Category)
		} else {
			suggestions = services.FallbackPairings(font.Category)
		}

		h.responder.WriteJSON(w, PairingResponse{Font: font.Name, Suggestions: suggestions})
	}
}

// createFont creates a new font from a draft
// @Summary Create font
// @Description Validates the draft, applies the duplicate rule, and inserts the font
// @Tags Fonts
// @Accept json
// @Produce json
// @Param font body models.FontDraft true "Font draft"
// @Success 201 {object} models.Font "Created font"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid draft"
// @Failure 409 {object} ErrorResponse "Conflict - Duplicate font"
// @Router /font [post]
func (h fontHandler) createFont() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError())
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var draft models.FontDraft
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&draft); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode font draft")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		fontID, addErr := h.dataCache.AddFont(r.Context(), draft, userID)
		if addErr != nil {
			h.responder.WriteError(w, addErr)
			return
		}

		font, ok := h.dataCache.GetFontByID(fontID)
		if !ok {
			// Insert succeeded but the follow-up refresh didn't land yet.
			h.responder.WriteError(w, errs.NewDatabaseError("find created", "font", nil))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, font)
	}
}

// deleteFont deletes a font by ID
// @Summary Delete font
// @Description Deletes a font; its project associations cascade at the store layer
// @Tags Fonts
// @Produce json
// @Param fontID path string true "Font ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Font not found"
// @Router /font/{fontID} [delete]
func (h fontHandler) deleteFont() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError())
			return
		}

		fontID, err := parseIDParam(r, "fontID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, ok := h.dataCache.GetFontByID(fontID); !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("font not found"))
			return
		}

		if err := h.dataCache.DeleteFont(r.Context(), fontID, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "font deleted successfully",
		})
	}
}

// parseIDParam reads and parses a UUID path parameter.
func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}
