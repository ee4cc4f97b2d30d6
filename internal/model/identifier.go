package model

import "context"

// EntityKind scopes identifiers minted by the identifier service.
type EntityKind string

const (
	KindUser      EntityKind = "User"
	KindDirectory EntityKind = "Directory"
	KindDocument  EntityKind = "Document"
)

// IdentifierService mints and validates globally unique identifiers scoped by
// entity kind. Exists returns false when the identifier is free.
type IdentifierService interface {
	Mint(ctx context.Context, kind EntityKind, n int) ([]string, error)
	Exists(ctx context.Context, kind EntityKind, id string) (bool, error)
}
