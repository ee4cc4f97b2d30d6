package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/model"
)

const (
	// MaxUploadSize is the upload hard limit. Payloads at or above it are
	// rejected before any store is touched.
	MaxUploadSize = 20 << 20

	// maxRenameAttempts bounds the collision-free rename probe loop.
	maxRenameAttempts = 1000

	// maxInsertRetries bounds retries when the metadata uniqueness index
	// catches a rename race.
	maxInsertRetries = 3
)

// Document coordinates the metadata store and the object store for document
// lifecycle.
type Document struct {
	docs    model.DocumentStore
	dirs    model.DirectoryStore
	ids     model.IdentifierService
	storage model.Storage
	logger  *logger.Logger
}

func NewDocument(
	docs model.DocumentStore,
	dirs model.DirectoryStore,
	ids model.IdentifierService,
	storage model.Storage,
	logger *logger.Logger,
) *Document {
	return &Document{
		docs:    docs,
		dirs:    dirs,
		ids:     ids,
		storage: storage,
		logger:  logger,
	}
}

func (s *Document) ops() lifecycleOps[model.Document] {
	return lifecycleOps[model.Document]{
		entity:        "document",
		getByUUID:     s.docs.GetByUUID,
		getByUUIDs:    s.docs.GetByUUIDs,
		setVisibility: s.docs.SetVisibility,
		softDelete:    s.docs.SoftDelete,
		uuidOf:        func(d model.Document) string { return d.UUID },
		ownerOf:       func(d model.Document) *string { return d.OwnerUUID },
		visibleOf:     func(d model.Document) bool { return d.Visible },
		deletedOf:     func(d model.Document) bool { return d.Deleted },
		pathOf:        func(d model.Document) string { return d.Path },
	}
}

func (s *Document) dirOps() lifecycleOps[model.Directory] {
	return lifecycleOps[model.Directory]{
		entity:    "directory",
		getByUUID: s.dirs.GetByUUID,
		deletedOf: func(d model.Directory) bool { return d.Deleted },
	}
}

// UploadParams carries an incoming file and its placement.
type UploadParams struct {
	DirectoryUUID string
	FileName      string
	Size          int64
	ContentType   string
	Data          io.ReadSeeker
	OwnerUUID     string
	AssignedUUID  string
	FileType      string
}

// Upload stores the bytes under a collision-free name inside the directory's
// prefix and inserts the document row.
func (s *Document) Upload(ctx context.Context, p model.Principal, params UploadParams) (model.Document, error) {
	if params.Size >= MaxUploadSize {
		return model.Document{}, apperr.PayloadTooLarge("file exceeds the %d byte limit", MaxUploadSize)
	}
	if params.DirectoryUUID == "" {
		return model.Document{}, apperr.Validation("directory uuid is required")
	}

	owner, err := resolveOwner(p, params.OwnerUUID)
	if err != nil {
		return model.Document{}, err
	}

	dir, err := getSingle(ctx, s.dirOps(), params.DirectoryUUID)
	if err != nil {
		return model.Document{}, err
	}
	if dir.Deleted {
		return model.Document{}, apperr.NotFound("directory %s not found", params.DirectoryUUID)
	}

	uuid, err := s.assignUUID(ctx, params.AssignedUUID)
	if err != nil {
		return model.Document{}, err
	}

	stem, ext, err := splitFilename(params.FileName)
	if err != nil {
		return model.Document{}, apperr.Validation("invalid filename: %v", err)
	}

	for retry := 0; retry < maxInsertRetries; retry++ {
		name, err := s.probeFreeName(ctx, dir.Path, stem, ext)
		if err != nil {
			return model.Document{}, err
		}

		if _, err := params.Data.Seek(0, io.SeekStart); err != nil {
			return model.Document{}, fmt.Errorf("failed to rewind upload data: %w", err)
		}
		if err := s.storage.Put(ctx, dir.Path, name, params.Data, params.Size, params.ContentType); err != nil {
			return model.Document{}, fmt.Errorf("failed to upload object: %w", err)
		}

		doc := model.Document{
			UUID:          uuid,
			Name:          name,
			Extension:     ext,
			Size:          params.Size,
			DirectoryUUID: dir.UUID,
			Path:          joinPath(dir.Path, name),
			UploaderUUID:  p.UserUUID,
		}
		if owner != "" {
			doc.OwnerUUID = &owner
		}
		if params.FileType != "" {
			doc.Type = &params.FileType
		}

		saved, err := s.docs.Create(ctx, doc)
		if err == nil {
			return saved, nil
		}
		if errors.Is(err, model.ErrConflict) {
			// A concurrent upload won the name; re-probe with a fresh suffix.
			s.logger.Info("document name race, retrying",
				"directory", dir.UUID, "name", name)
			continue
		}
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return model.Document{}, apperr.Conflict("could not find a free name for %s", params.FileName)
}

// probeFreeName walks "stem.ext", "stem (1).ext", ... until the object store
// reports no object at the composed path.
func (s *Document) probeFreeName(ctx context.Context, dirPath, stem, ext string) (string, error) {
	for attempt := 0; attempt < maxRenameAttempts; attempt++ {
		name := composeName(stem, ext, attempt)
		info, err := s.storage.Stat(ctx, joinPath(dirPath, name))
		if err != nil {
			return "", fmt.Errorf("failed to probe object: %w", err)
		}
		if !info.Exists {
			return name, nil
		}
	}
	return "", apperr.Conflict("too many name collisions for %s", composeName(stem, ext, 0))
}

func (s *Document) assignUUID(ctx context.Context, assigned string) (string, error) {
	if assigned == "" {
		ids, err := s.ids.Mint(ctx, model.KindDocument, 1)
		if err != nil {
			return "", fmt.Errorf("failed to mint document uuid: %w", err)
		}
		return ids[0], nil
	}

	taken, err := s.ids.Exists(ctx, model.KindDocument, assigned)
	if err != nil {
		return "", fmt.Errorf("failed to check document uuid: %w", err)
	}
	if taken {
		return "", apperr.Conflict("document uuid %s already exists", assigned)
	}
	return assigned, nil
}

// Download opens the byte stream of a document. Non-admins may only download
// their own visible documents; deleted documents are gone for everyone.
func (s *Document) Download(ctx context.Context, p model.Principal, uuid string) (io.ReadCloser, model.Document, error) {
	doc, err := getSingle(ctx, s.ops(), uuid)
	if err != nil {
		return nil, model.Document{}, err
	}
	if doc.Deleted {
		return nil, model.Document{}, apperr.NotFound("document %s not found", uuid)
	}
	if !p.IsAdmin() {
		if !ownsRecord(p, doc.OwnerUUID) {
			return nil, model.Document{}, apperr.Forbidden("document belongs to another user")
		}
		if !doc.Visible {
			return nil, model.Document{}, apperr.Forbidden("document is hidden")
		}
	}

	stream, _, err := s.storage.Get(ctx, doc.Path)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.Document{}, apperr.NotFound("document %s has no stored object", uuid)
		}
		return nil, model.Document{}, fmt.Errorf("failed to open object stream: %w", err)
	}

	return stream, doc, nil
}

// List returns documents through the shared query engine, with the
// non-admin read scope applied.
func (s *Document) List(ctx context.Context, p model.Principal, q model.ListQuery) ([]model.Document, int64, error) {
	q, err := scopeListQuery(p, q)
	if err != nil {
		return nil, 0, err
	}

	docs, total, err := s.docs.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, total, nil
}

// FSInfo stats a document's object for the admin-only listing enrichment.
func (s *Document) FSInfo(ctx context.Context, p model.Principal, doc model.Document) (model.ObjectInfo, error) {
	if err := ensureAdmin(p); err != nil {
		return model.ObjectInfo{}, err
	}
	info, err := s.storage.Stat(ctx, doc.Path)
	if err != nil {
		return model.ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}
	return info, nil
}

// SetVisibility hides or unhides documents.
func (s *Document) SetVisibility(ctx context.Context, p model.Principal, uuids []string, visible bool) error {
	return changeVisibility(ctx, s.ops(), p, uuids, visible)
}

// Delete soft-deletes a document and removes its object best-effort.
func (s *Document) Delete(ctx context.Context, p model.Principal, uuid string, forUser bool) error {
	return softDeleteEntity(ctx, s.ops(), p, uuid, forUser, s.storage.Delete, s.logger)
}
