package api

import (
	"github.com/go-chi/chi/v5"
)

// setupFrontendRoutes sets up all routes; mutations require a signed-in user.
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Read-only routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.health())

		// Font Handler endpoints
		r.Get("/fonts", handlers.fontHandler.getAllFonts())
		r.Get("/fonts/garden", handlers.fontHandler.getGarden())
		r.Get("/font/{fontID}", handlers.fontHandler.getFont())
		r.Get("/font/{fontID}/projects", handlers.fontHandler.getFontProjects())
		r.Get("/font/{fontID}/pairings", handlers.fontHandler.getPairings())

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Get("/project/{projectID}/fonts", handlers.projectHandler.getProjectFonts())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/font", handlers.fontHandler.createFont())
		r.Delete("/font/{fontID}", handlers.fontHandler.deleteFont())

		r.Post("/project", handlers.projectHandler.createProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		r.Post("/project/{projectID}/font/{fontID}", handlers.projectHandler.addFontToProject())
		r.Delete("/project/{projectID}/font/{fontID}", handlers.projectHandler.removeFontFromProject())

		r.Post("/upload/{kind}", handlers.uploadHandler.upload())
	})
}
