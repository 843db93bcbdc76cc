package handlers

import (
	"net/http"

	"propchain/internal/status"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ownerDashboard(c *gin.Context) {
	d, err := h.dashboards.Owner(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) verifierDashboard(c *gin.Context) {
	d, err := h.dashboards.Verifier(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// listNetworks по умолчанию только сети фронтенда; ?deployment=true отдаёт сети деплоя
func (h *Handler) listNetworks(c *gin.Context) {
	networks := h.networks.Frontend()
	if c.Query("deployment") == "true" {
		networks = h.networks.Deployment()
	}
	c.JSON(http.StatusOK, gin.H{"data": networks})
}

func (h *Handler) listStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, status.All())
}
