package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/api/rest/middleware"
	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/service"
)

// Directory handles directory endpoints.
type Directory struct {
	dirs   *service.Directory
	logger *logger.Logger
}

// NewDirectory creates a new Directory handler instance.
func NewDirectory(dirs *service.Directory, logger *logger.Logger) *Directory {
	return &Directory{dirs: dirs, logger: logger}
}

type createDirectoryRequest struct {
	OwnerUserUUID string `json:"owner_user_uuid"`
	DirType       string `json:"dir_type"`
	ParentUUID    string `json:"parent_uuid"`
	UUID          string `json:"uuid"`
}

type createDirectoryResponse struct {
	ID         int64   `json:"id"`
	UUID       string  `json:"uuid"`
	ParentUUID *string `json:"parent_uuid"`
}

// Create makes a directory under a parent, or a new root when no parent is
// given.
func (h *Directory) Create(c echo.Context) error {
	var req createDirectoryRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	dir, err := h.dirs.Create(c.Request().Context(), middleware.Principal(c), service.CreateDirectoryParams{
		OwnerUUID:    req.OwnerUserUUID,
		Type:         req.DirType,
		ParentUUID:   req.ParentUUID,
		AssignedUUID: req.UUID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createDirectoryResponse{
		ID:         dir.ID,
		UUID:       dir.UUID,
		ParentUUID: dir.ParentUUID,
	})
}

type directoryInfo struct {
	ID              int64   `json:"id"`
	UUID            string  `json:"uuid"`
	ParentUUID      *string `json:"parent_uuid"`
	Path            string  `json:"path"`
	DirType         string  `json:"dir_type"`
	OwnerUserUUID   *string `json:"owner_user_uuid"`
	UploaderUUID    string  `json:"uploader_uuid"`
	Visible         bool    `json:"visible"`
	VisibilityOffAt *string `json:"visibility_off_at"`
	VisibilityOffBy *string `json:"visibility_off_by"`
	Deleted         bool    `json:"deleted"`
	DeletedAt       *string `json:"deleted_at"`
	DeletedBy       *string `json:"deleted_by"`
	CreatedAt       string  `json:"created_at"`
}

// GetInfo lists directories through the shared query engine.
func (h *Directory) GetInfo(c echo.Context) error {
	query := parseListQuery(c)

	dirs, total, err := h.dirs.List(c.Request().Context(), middleware.Principal(c), query)
	if err != nil {
		return err
	}

	loc := callerLocation(c)
	infos := make([]directoryInfo, 0, len(dirs))
	for _, d := range dirs {
		infos = append(infos, directoryInfo{
			ID:              d.ID,
			UUID:            d.UUID,
			ParentUUID:      d.ParentUUID,
			Path:            d.Path,
			DirType:         d.Type,
			OwnerUserUUID:   d.OwnerUUID,
			UploaderUUID:    d.UploaderUUID,
			Visible:         d.Visible,
			VisibilityOffAt: formatTimePtr(d.VisibilityOffAt, loc),
			VisibilityOffBy: d.VisibilityOffBy,
			Deleted:         d.Deleted,
			DeletedAt:       formatTimePtr(d.DeletedAt, loc),
			DeletedBy:       d.DeletedBy,
			CreatedAt:       formatTime(d.CreatedAt, loc),
		})
	}

	return c.JSON(http.StatusOK, paged(infos, total, query.Page.Size))
}
