package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/logger"
)

type HealthHandler struct {
	mode   string
	logger *logger.Logger
}

func NewHealthHandler(cfg *config.Configuration, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mode:   string(cfg.Deployment.Mode),
		logger: logger,
	}
}

// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": h.mode})
}
