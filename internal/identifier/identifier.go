// Package identifier provides the local implementation of the identifier
// service: it mints kind-scoped uuids and answers collision checks against
// the table owning each entity kind.
package identifier

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.IdentifierService = (*Service)(nil)

// existsFunc answers whether an identifier is already taken for one kind.
type existsFunc func(ctx context.Context, id string) (bool, error)

type Service struct {
	registry map[model.EntityKind]existsFunc
}

// New wires the per-kind collision checks to the stores owning each entity.
func New(users model.UserStore, dirs model.DirectoryStore, docs model.DocumentStore) *Service {
	return &Service{
		registry: map[model.EntityKind]existsFunc{
			model.KindUser:      users.ExistsUUID,
			model.KindDirectory: dirs.ExistsUUID,
			model.KindDocument:  docs.ExistsUUID,
		},
	}
}

// Mint returns n fresh identifiers for the kind.
func (s *Service) Mint(ctx context.Context, kind model.EntityKind, n int) ([]string, error) {
	if _, ok := s.registry[kind]; !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, uuid.NewString())
	}
	return ids, nil
}

// Exists reports whether an identifier is already in use for the kind.
// Returns false when the identifier is free.
func (s *Service) Exists(ctx context.Context, kind model.EntityKind, id string) (bool, error) {
	check, ok := s.registry[kind]
	if !ok {
		return false, fmt.Errorf("unknown entity kind %q", kind)
	}
	return check(ctx, id)
}
