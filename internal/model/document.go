package model

import (
	"context"
	"time"
)

// DocumentStore defines persistence operations for documents.
type DocumentStore interface {
	Create(ctx context.Context, doc Document) (Document, error)
	// GetByUUID returns ErrNotFound for zero rows and ErrIntegrity when the
	// uuid resolves to more than one row.
	GetByUUID(ctx context.Context, uuid string) (Document, error)
	GetByUUIDs(ctx context.Context, uuids []string) ([]Document, error)
	ExistsUUID(ctx context.Context, uuid string) (bool, error)
	// ExistsName reports whether a non-deleted sibling with the given name
	// already exists in the directory.
	ExistsName(ctx context.Context, directoryUUID, name string) (bool, error)
	SetVisibility(ctx context.Context, uuid string, visible bool, byUUID *string, at *time.Time) error
	SoftDelete(ctx context.Context, uuid string, byUUID string, at time.Time) error
	List(ctx context.Context, query ListQuery) ([]Document, int64, error)
}

// Document is a leaf of the directory tree. Bytes live in the object store
// under Path; everything else lives here.
type Document struct {
	ID              int64
	UUID            string
	Name            string
	Extension       string
	Size            int64
	Type            *string
	DirectoryUUID   string
	Path            string
	OwnerUUID       *string
	UploaderUUID    string
	Visible         bool
	VisibilityOffAt *time.Time
	VisibilityOffBy *string
	Deleted         bool
	DeletedAt       *time.Time
	DeletedBy       *string
	CreatedAt       time.Time
}
