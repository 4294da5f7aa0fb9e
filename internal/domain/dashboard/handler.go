package dashboard

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/caseflow/caseflow/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/dashboard", auth.RequireLevel(auth.AdminLevel))
	g.GET("/summary", h.Summary)
	g.GET("/cases/by-status", h.CasesByStatus)
	g.GET("/cases/by-surgeon", h.CasesBySurgeon)
	g.GET("/cases/by-facility", h.CasesByFacility)
	g.GET("/cases/monthly-volume", h.MonthlyVolume)
	g.GET("/bugs/by-severity", h.BugsBySeverity)
}

func (h *Handler) Summary(c echo.Context) error {
	s, err := h.svc.Summary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) CasesByStatus(c echo.Context) error {
	result, err := h.svc.CasesByStatus(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CasesBySurgeon(c echo.Context) error {
	result, err := h.svc.CasesBySurgeon(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CasesByFacility(c echo.Context) error {
	result, err := h.svc.CasesByFacility(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) MonthlyVolume(c echo.Context) error {
	months, _ := strconv.Atoi(c.QueryParam("months"))
	result, err := h.svc.MonthlyCaseVolume(c.Request().Context(), months)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) BugsBySeverity(c echo.Context) error {
	result, err := h.svc.BugsBySeverity(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
