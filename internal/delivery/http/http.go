package http

import (
	"net/http"

	"crypto-meanrev/internal/dto"
	"crypto-meanrev/pkg/cache"
	"crypto-meanrev/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SnapshotCacheKey holds the most recent completed run.
const SnapshotCacheKey = "signals:latest"

type HttpAPIHandler struct {
	echo  *echo.Echo
	cache cache.Cache
	log   *logger.Logger
}

func NewHttpAPIHandler(e *echo.Echo, c cache.Cache, log *logger.Logger) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:  e,
		cache: c,
		log:   log,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/health", h.Health)
	base := h.echo.Group("/api")
	base.GET("/signals/latest", h.LatestSignals)
}

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// LatestSignals serves the last completed snapshot, 404 before the first
// run finishes.
func (h *HttpAPIHandler) LatestSignals(c echo.Context) error {
	snap, ok := cache.GetTyped[*dto.SignalSnapshot](h.cache, SnapshotCacheKey)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "no completed run yet"})
	}
	return c.JSON(http.StatusOK, snap)
}
