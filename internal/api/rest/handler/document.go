package handler

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/api/rest/middleware"
	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/service"
)

// Document handles document endpoints.
type Document struct {
	docs   *service.Document
	logger *logger.Logger
}

// NewDocument creates a new Document handler instance.
func NewDocument(docs *service.Document, logger *logger.Logger) *Document {
	return &Document{docs: docs, logger: logger}
}

type uploadResponse struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Upload stores a multipart file inside a directory under a collision-free
// name.
func (h *Document) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	doc, err := h.docs.Upload(c.Request().Context(), middleware.Principal(c), service.UploadParams{
		DirectoryUUID: c.FormValue("directory_uuid"),
		FileName:      fileHeader.Filename,
		Size:          fileHeader.Size,
		ContentType:   fileHeader.Header.Get(echo.HeaderContentType),
		Data:          file,
		OwnerUUID:     c.FormValue("owner_user_uuid"),
		AssignedUUID:  c.FormValue("new_file_uuid"),
		FileType:      c.FormValue("file_type"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, uploadResponse{UUID: doc.UUID, Name: doc.Name})
}

// Download streams the bytes of a document.
func (h *Document) Download(c echo.Context) error {
	stream, doc, err := h.docs.Download(c.Request().Context(), middleware.Principal(c), c.Param("uuid"))
	if err != nil {
		return err
	}
	defer stream.Close()

	contentType := mime.TypeByExtension("." + doc.Extension)
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", doc.Name))

	return c.Stream(http.StatusOK, contentType, stream)
}

type fsInfo struct {
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified"`
	ETag         string  `json:"etag"`
	ContentType  string  `json:"content_type"`
}

type documentInfo struct {
	ID              int64   `json:"id"`
	UUID            string  `json:"uuid"`
	Name            string  `json:"name"`
	Extension       string  `json:"extension"`
	Size            int64   `json:"size"`
	FileType        *string `json:"file_type"`
	DirectoryUUID   string  `json:"directory_uuid"`
	Path            string  `json:"path"`
	OwnerUserUUID   *string `json:"owner_user_uuid"`
	UploaderUUID    string  `json:"uploader_uuid"`
	Visible         bool    `json:"visible"`
	VisibilityOffAt *string `json:"visibility_off_at"`
	VisibilityOffBy *string `json:"visibility_off_by"`
	Deleted         bool    `json:"deleted"`
	DeletedAt       *string `json:"deleted_at"`
	DeletedBy       *string `json:"deleted_by"`
	CreatedAt       string  `json:"created_at"`
	DataFromFS      *fsInfo `json:"data_from_fs,omitempty"`
}

// GetInfo lists documents through the shared query engine. Admins may request
// data_from_fs to enrich each row with an object-store stat.
func (h *Document) GetInfo(c echo.Context) error {
	query := parseListQuery(c)
	principal := middleware.Principal(c)

	docs, total, err := h.docs.List(c.Request().Context(), principal, query)
	if err != nil {
		return err
	}

	withFS := c.QueryParam("data_from_fs") == "true"

	loc := callerLocation(c)
	infos := make([]documentInfo, 0, len(docs))
	for _, d := range docs {
		info := documentInfo{
			ID:              d.ID,
			UUID:            d.UUID,
			Name:            d.Name,
			Extension:       d.Extension,
			Size:            d.Size,
			FileType:        d.Type,
			DirectoryUUID:   d.DirectoryUUID,
			Path:            d.Path,
			OwnerUserUUID:   d.OwnerUUID,
			UploaderUUID:    d.UploaderUUID,
			Visible:         d.Visible,
			VisibilityOffAt: formatTimePtr(d.VisibilityOffAt, loc),
			VisibilityOffBy: d.VisibilityOffBy,
			Deleted:         d.Deleted,
			DeletedAt:       formatTimePtr(d.DeletedAt, loc),
			DeletedBy:       d.DeletedBy,
			CreatedAt:       formatTime(d.CreatedAt, loc),
		}

		if withFS {
			stat, err := h.docs.FSInfo(c.Request().Context(), principal, d)
			if err != nil {
				return err
			}
			enriched := &fsInfo{
				Size:        stat.Size,
				ETag:        stat.ETag,
				ContentType: stat.ContentType,
			}
			if !stat.LastModified.IsZero() {
				enriched.LastModified = formatTimePtr(&stat.LastModified, loc)
			}
			info.DataFromFS = enriched
		}

		infos = append(infos, info)
	}

	return c.JSON(http.StatusOK, paged(infos, total, query.Page.Size))
}
