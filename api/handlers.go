package api

import (
	"time"

	"github.com/rpupo63/typegarden-backend/cache"
	"github.com/rpupo63/typegarden-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(dataCache *cache.DataCache, pairings *services.PairingClient, uploader *services.Uploader, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		fontHandler:    newFontHandler(dataCache, pairings),
		projectHandler: newProjectHandler(dataCache),
		uploadHandler:  newUploadHandler(uploader),
		healthHandler:  newHealthHandler(dataCache, startupTime),
	}
}
