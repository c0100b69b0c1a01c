package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/analytics/rewards-distribution", h.getRewardsDistribution)
}

func (h *Handler) getRewardsDistribution(c *gin.Context) {
	report, err := h.svc.GetRewardsDistribution(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}
