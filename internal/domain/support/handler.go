package support

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caseflow/caseflow/internal/platform/auth"
	"github.com/caseflow/caseflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Published FAQs are readable by any authenticated user.
	api.GET("/faqs", h.ListFAQs)
	api.GET("/faqs/:id", h.GetFAQ)

	faqAdmin := api.Group("", auth.RequireLevel(auth.LevelAdmin))
	faqAdmin.POST("/faqs", h.CreateFAQ)
	faqAdmin.PUT("/faqs/:id", h.UpdateFAQ)
	faqAdmin.DELETE("/faqs/:id", h.DeleteFAQ)

	// Any authenticated user can file a bug report.
	api.POST("/bug-reports", h.CreateBugReport)

	bugAdmin := api.Group("", auth.RequireLevel(auth.LevelCaseManager))
	bugAdmin.GET("/bug-reports", h.ListBugReports)
	bugAdmin.GET("/bug-reports/:id", h.GetBugReport)
	bugAdmin.POST("/bug-reports/:id/status", h.UpdateBugStatus)
}

// -- FAQs --

func (h *Handler) CreateFAQ(c echo.Context) error {
	var f FAQ
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateFAQ(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFAQ(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.GetFAQ(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "faq not found")
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListFAQs(c echo.Context) error {
	pg := pagination.FromContext(c)
	// Only admins see unpublished entries.
	publishedOnly := auth.RoleLevel(auth.RoleFromContext(c.Request().Context())) < auth.LevelAdmin
	list, total, err := h.svc.ListFAQs(c.Request().Context(), publishedOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateFAQ(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var f FAQ
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.ID = id
	if err := h.svc.UpdateFAQ(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) DeleteFAQ(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteFAQ(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Bug reports --

func (h *Handler) CreateBugReport(c echo.Context) error {
	var b BugReport
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if b.ReporterID == uuid.Nil {
		b.ReporterID = auth.UserIDFromContext(c.Request().Context())
	}
	if err := h.svc.CreateBugReport(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBugReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.GetBugReport(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "bug report not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBugReports(c echo.Context) error {
	pg := pagination.FromContext(c)
	list, total, err := h.svc.ListBugReports(c.Request().Context(), c.QueryParam("severity"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateBugStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.UpdateBugStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}
