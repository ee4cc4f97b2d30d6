package model

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes an object in the external store. Absence of an object
// is reported with Exists=false rather than an error.
type ObjectInfo struct {
	Path         string
	Exists       bool
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is the narrow interface over the external S3-compatible store.
// Metadata stays authoritative: callers treat mutation failures here as
// best-effort and never roll metadata back because of them.
type Storage interface {
	Put(ctx context.Context, prefix, name string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, ObjectInfo, error)
	Stat(ctx context.Context, path string) (ObjectInfo, error)
	Delete(ctx context.Context, path string) error
	DeletePrefix(ctx context.Context, prefix string) error
	CreateUser(ctx context.Context, login, password string) error
	RemoveUser(ctx context.Context, login string) error
}
