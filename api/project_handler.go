package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/typegarden-backend/cache"
	"github.com/rpupo63/typegarden-backend/errs"
	"github.com/rpupo63/typegarden-backend/models"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	dataCache *cache.DataCache
}

func newProjectHandler(dataCache *cache.DataCache) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		dataCache: dataCache,
	}
}

// ProjectCollection represents the visible project list
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total,omitempty"`
}

// getAllProjects retrieves the visible project list
// @Summary Get all projects
// @Description Retrieves the cached projects filtered by query and type, in the requested order
// @Tags Projects
// @Produce json
// @Param q query string false "Case-insensitive substring against name or description"
// @Param type query string false "Type filter: personal, reference, or all"
// @Param sort query string false "Sort order: newest, oldest, name-asc, name-desc"
// @Success 200 {object} ProjectCollection "List of projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := cache.ProjectView{
			Query: r.URL.Query().Get("q"),
			Type:  models.ProjectType(r.URL.Query().Get("type")),
			Sort:  cache.ProjectSort(r.URL.Query().Get("sort")),
		}

		projects := cache.VisibleProjects(h.dataCache.Projects(), view)

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, ok := h.dataCache.GetProjectByID(projectID)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getProjectFonts retrieves a project's fonts via the association table
// @Summary Get project fonts
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} FontCollection "Fonts in this project"
// @Router /project/{projectID}/fonts [get]
func (h projectHandler) getProjectFonts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, ok := h.dataCache.GetProjectByID(projectID); !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		fonts, lookupErr := h.dataCache.FontsInProject(projectID)
		if lookupErr != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find fonts for", "project", lookupErr))
			return
		}

		h.responder.WriteJSON(w, FontCollection{Fonts: fonts, Total: len(fonts)})
	}
}

// createProject creates a new project from a draft
// @Summary Create project
// @Description Inserts a project; when only the description carries a URL, a preview image is resolved up front
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.ProjectDraft true "Project draft"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid draft"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
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

		var draft models.ProjectDraft
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&draft); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode project draft")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		projectID, addErr := h.dataCache.AddProject(r.Context(), draft, userID)
		if addErr != nil {
			h.responder.WriteError(w, addErr)
			return
		}

		project, ok := h.dataCache.GetProjectByID(projectID)
		if !ok {
			h.responder.WriteError(w, errs.NewDatabaseError("find created", "project", nil))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Description Deletes a project; its font associations cascade at the store layer
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError())
			return
		}

		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, ok := h.dataCache.GetProjectByID(projectID); !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if err := h.dataCache.DeleteProject(r.Context(), projectID, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

type associationRequest struct {
	Note string `json:"note"`
}

// addFontToProject links a font to a project
// @Summary Add font to project
// @Description Inserts the association row; both computed counts refresh
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param fontID path string true "Font ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 409 {object} ErrorResponse "Conflict - Already associated"
// @Router /project/{projectID}/font/{fontID} [post]
func (h projectHandler) addFontToProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError())
			return
		}

		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fontID, err := parseIDParam(r, "fontID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// The note body is optional
		var req associationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if err := h.dataCache.AddFontToProject(r.Context(), fontID, projectID, req.Note, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "font added to project",
		})
	}
}

// removeFontFromProject unlinks a font from a project
// @Summary Remove font from project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param fontID path string true "Font ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Router /project/{projectID}/font/{fontID} [delete]
func (h projectHandler) removeFontFromProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError())
			return
		}

		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fontID, err := parseIDParam(r, "fontID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.dataCache.RemoveFontFromProject(r.Context(), fontID, projectID, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "font removed from project",
		})
	}
}
