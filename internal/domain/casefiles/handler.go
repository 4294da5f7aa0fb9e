package casefiles

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/platform/auth"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/cases/files/bundle", h.Bundle)
}

type bundleRequest struct {
	CaseIDs []string `json:"case_ids"`
}

// detail is the error body shape of the bundle endpoint.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func (h *Handler) Bundle(c echo.Context) error {
	ctx := c.Request().Context()

	var req bundleRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	ids := make([]uuid.UUID, 0, len(req.CaseIDs))
	for _, raw := range req.CaseIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return detail(c, http.StatusBadRequest, "invalid case id: "+raw)
		}
		ids = append(ids, id)
	}

	out, err := h.svc.Bundle(ctx, auth.UserIDFromContext(ctx), ids)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyInput):
			return detail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrForbidden):
			return detail(c, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrNoCases), errors.Is(err, ErrNoFiles):
			return detail(c, http.StatusNotFound, err.Error())
		default:
			h.log.Error().Err(err).Msg("case file bundle failed")
			return detail(c, http.StatusInternalServerError, "internal error while bundling case files")
		}
	}

	// The archive is a one-shot artifact; remove it once streamed.
	defer func() {
		if err := os.Remove(out.ArchivePath); err != nil {
			h.log.Warn().Err(err).Str("path", out.ArchivePath).Msg("archive cleanup failed")
		}
	}()

	header := c.Response().Header()
	header.Set("X-Downloaded-Files", strconv.Itoa(out.DownloadedFiles))
	header.Set("X-Download-Errors", strconv.Itoa(out.DownloadErrors))
	header.Set("X-Cases-Processed", strconv.Itoa(out.CasesProcessed))
	header.Set("X-Images-Compressed", strconv.Itoa(out.ImagesCompressed))
	header.Set("X-PDFs-Compressed", strconv.Itoa(out.PDFsCompressed))
	header.Set("X-Compression-Errors", strconv.Itoa(out.CompressionErrors))

	return c.Attachment(out.ArchivePath, "case_files.zip")
}
