package cases

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caseflow/caseflow/internal/platform/auth"
	"github.com/caseflow/caseflow/internal/platform/objectstore"
	"github.com/caseflow/caseflow/pkg/pagination"
)

type Handler struct {
	svc   *Service
	store objectstore.Store
}

func NewHandler(svc *Service, store objectstore.Store) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireLevel(auth.LevelStaff))
	readGroup.GET("/cases", h.List)
	readGroup.GET("/cases/:id", h.Get)

	writeGroup := api.Group("", auth.RequireLevel(auth.LevelCaseManager))
	writeGroup.POST("/cases", h.Create)
	writeGroup.PUT("/cases/:id", h.Update)
	writeGroup.POST("/cases/:id/status", h.Transition)
	writeGroup.POST("/cases/:id/files", h.AttachFiles)
	writeGroup.POST("/cases/:id/files/:kind", h.UploadFile)
	writeGroup.DELETE("/cases/:id/files/:kind", h.DeleteFile)
	writeGroup.DELETE("/cases/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var cs Case
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if cs.OwnerID == uuid.Nil {
		cs.OwnerID = auth.UserIDFromContext(c.Request().Context())
	}
	if err := h.svc.Create(c.Request().Context(), &cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cs)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cs, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		list  []*Case
		total int
		err   error
	)
	switch {
	case c.QueryParam("owner_id") != "":
		ownerID, perr := uuid.Parse(c.QueryParam("owner_id"))
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid owner_id")
		}
		list, total, err = h.svc.ListByOwner(ctx, ownerID, pg.Limit, pg.Offset)
	case c.QueryParam("surgeon_id") != "":
		surgeonID, perr := uuid.Parse(c.QueryParam("surgeon_id"))
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid surgeon_id")
		}
		list, total, err = h.svc.ListBySurgeon(ctx, surgeonID, pg.Limit, pg.Offset)
	case c.QueryParam("facility_id") != "":
		facilityID, perr := uuid.Parse(c.QueryParam("facility_id"))
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid facility_id")
		}
		list, total, err = h.svc.ListByFacility(ctx, facilityID, pg.Limit, pg.Offset)
	default:
		list, total, err = h.svc.List(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cs Case
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cs.ID = id
	if err := h.svc.Update(c.Request().Context(), &cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *Handler) Transition(c echo.Context) error {
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
	cs, err := h.svc.Transition(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *Handler) AttachFiles(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		DemoFile *string `json:"demo_file"`
		NoteFile *string `json:"note_file"`
		MiscFile *string `json:"misc_file"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AttachFiles(c.Request().Context(), id, body.DemoFile, body.NoteFile, body.MiscFile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cs, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	}
	return c.JSON(http.StatusOK, cs)
}

// slotForKind returns pointers for the requested slot so only that column
// is touched by the update.
func slotForKind(kind string, name *string) (demo, note, misc *string, ok bool) {
	switch kind {
	case FileKindDemo:
		return name, nil, nil, true
	case FileKindNote:
		return nil, name, nil, true
	case FileKindMisc:
		return nil, nil, name, true
	default:
		return nil, nil, nil, false
	}
}

// UploadFile stores one attachment in the object store under the case
// owner's prefix and records its name on the case.
func (h *Handler) UploadFile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	cs, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	if err := h.store.Upload(ctx, cs.OwnerID.String(), fileHeader.Filename, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	name := fileHeader.Filename
	demo, note, misc, ok := slotForKind(c.Param("kind"), &name)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file kind")
	}
	if err := h.svc.AttachFiles(ctx, id, demo, note, misc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cs, err = h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	}
	return c.JSON(http.StatusOK, cs)
}

// DeleteFile removes one attachment from the object store and clears its
// slot on the case.
func (h *Handler) DeleteFile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	cs, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	}

	kind := c.Param("kind")
	var current *string
	switch kind {
	case FileKindDemo:
		current = cs.DemoFile
	case FileKindNote:
		current = cs.NoteFile
	case FileKindMisc:
		current = cs.MiscFile
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file kind")
	}
	if current == nil || *current == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no file attached")
	}

	if err := h.store.Delete(ctx, cs.OwnerID.String(), *current); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}

	empty := ""
	demo, note, misc, _ := slotForKind(kind, &empty)
	if err := h.svc.AttachFiles(ctx, id, demo, note, misc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
