package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/findata/internal/logger"
)

// HealthHandler exposes the liveness and readiness probes.
//
// Liveness (/healthz) only confirms the process is serving; readiness
// (/readyz) additionally requires the database to answer a ping, so a
// degraded instance is pulled from rotation without being restarted.
type HealthHandler struct {
	dbPing func() error
}

// NewHealthHandler builds a HealthHandler around a connectivity check,
// typically db.Ping from an open *sql.DB. A nil check makes readiness
// unconditional.
func NewHealthHandler(dbPing func() error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing}
}

// Register mounts GET /healthz and GET /readyz on the router.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.liveness)
	r.GET("/readyz", h.readiness)
}

func (h *HealthHandler) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) readiness(c *gin.Context) {
	if h.dbPing != nil {
		if err := h.dbPing(); err != nil {
			logger.L().Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
