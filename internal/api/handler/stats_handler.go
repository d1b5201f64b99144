package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

// StatsHandler serves dashboard aggregates.
type StatsHandler struct {
	service ports.GrievanceService
}

func NewStatsHandler(service ports.GrievanceService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Portal handles GET /v1/stats — headline counts for the admin dashboard.
//
// @Summary      Portal statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.PortalStats
// @Router       /v1/stats [get]
func (h *StatsHandler) Portal(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// SLA handles GET /v1/stats/sla — aggregate SLA compliance metrics.
//
// @Summary      SLA compliance metrics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SLAMetrics
// @Router       /v1/stats/sla [get]
func (h *StatsHandler) SLA(c echo.Context) error {
	m, err := h.service.SLAMetrics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}
