package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/repository"
)

// DashboardHandler serves the read-only aggregates for management.
type DashboardHandler struct {
	Dashboard *repository.DashboardRepo
}

func NewDashboardHandler(d *repository.DashboardRepo) *DashboardHandler {
	if d == nil {
		panic("nil repository passed to NewDashboardHandler")
	}
	return &DashboardHandler{Dashboard: d}
}

func (h *DashboardHandler) Overview(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	o, err := h.Dashboard.GetOverview(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load overview failed"})
	}
	return c.JSON(http.StatusOK, o)
}

func (h *DashboardHandler) Programs(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Dashboard.ListProgramSummaries(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load program summaries failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"programs": items})
}

func (h *DashboardHandler) QuotaStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid program id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Dashboard.ListQuotaStatus(ctx, id)
	if err != nil {
		return repoError(c, err, "load quota status failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"quotas": items})
}
