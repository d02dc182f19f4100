package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/typegarden-backend/cache"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	dataCache   *cache.DataCache
	startupTime time.Time
}

func newHealthHandler(dataCache *cache.DataCache, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		dataCache:   dataCache,
		startupTime: startupTime,
	}
}

// HealthResponse reports server uptime and cache state
type HealthResponse struct {
	Status        string      `json:"status"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Cache         cache.Stats `json:"cache"`
}

// health reports liveness plus cache freshness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Server and cache state"
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
			Cache:         h.dataCache.Stats(),
		})
	}
}
