package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/api/rest/middleware"
	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/service"
)

// Entry handles the lifecycle endpoints shared by directories and documents.
type Entry struct {
	dirs   *service.Directory
	docs   *service.Document
	logger *logger.Logger
}

// NewEntry creates a new Entry handler instance.
func NewEntry(dirs *service.Directory, docs *service.Document, logger *logger.Logger) *Entry {
	return &Entry{dirs: dirs, docs: docs, logger: logger}
}

type changeVisibilityRequest struct {
	UUIDs      []string `json:"uuids"`
	Value      bool     `json:"value"`
	IsDocument bool     `json:"is_document"`
}

// ChangeVisibility hides or unhides directories or documents.
func (h *Entry) ChangeVisibility(c echo.Context) error {
	var req changeVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if len(req.UUIDs) == 0 {
		return apperr.Validation("no entries selected")
	}

	principal := middleware.Principal(c)

	var err error
	if req.IsDocument {
		err = h.docs.SetVisibility(c.Request().Context(), principal, req.UUIDs, req.Value)
	} else {
		err = h.dirs.SetVisibility(c.Request().Context(), principal, req.UUIDs, req.Value)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Msg: "ok"})
}

type deleteEntryRequest struct {
	UUID       string `json:"uuid"`
	IsDocument bool   `json:"is_document"`
}

// Delete soft-deletes a directory or document. Admin-only.
func (h *Entry) Delete(c echo.Context) error {
	var req deleteEntryRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.UUID == "" {
		return apperr.Validation("uuid is required")
	}

	principal := middleware.Principal(c)

	var err error
	if req.IsDocument {
		err = h.docs.Delete(c.Request().Context(), principal, req.UUID, false)
	} else {
		err = h.dirs.Delete(c.Request().Context(), principal, req.UUID, false)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Msg: "ok"})
}
