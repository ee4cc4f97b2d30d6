package model

import (
	"context"
	"time"
)

// DirectoryTypeUserRoot is the type assigned to per-account root directories.
const DirectoryTypeUserRoot = "user root"

// DirectoryStore defines persistence operations for directories.
type DirectoryStore interface {
	Create(ctx context.Context, dir Directory) (Directory, error)
	// GetByUUID returns ErrNotFound for zero rows and ErrIntegrity when the
	// uuid resolves to more than one row.
	GetByUUID(ctx context.Context, uuid string) (Directory, error)
	GetByUUIDs(ctx context.Context, uuids []string) ([]Directory, error)
	GetRootByOwner(ctx context.Context, ownerUUID string) (Directory, error)
	GetRootsByOwners(ctx context.Context, ownerUUIDs []string) ([]Directory, error)
	ExistsUUID(ctx context.Context, uuid string) (bool, error)
	SetVisibility(ctx context.Context, uuid string, visible bool, byUUID *string, at *time.Time) error
	SoftDelete(ctx context.Context, uuid string, byUUID string, at time.Time) error
	List(ctx context.Context, query ListQuery) ([]Directory, int64, error)
}

// Directory is a node of the per-owner file tree. The root of the tree has a
// nil ParentUUID and its path equals the owner's object-store login prefix.
type Directory struct {
	ID              int64
	UUID            string
	ParentUUID      *string
	Path            string
	Type            string
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
