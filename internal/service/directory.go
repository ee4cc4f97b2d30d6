package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/model"
)

// maxTreeDepth bounds the parent walk that guards directory creation against
// cycles and runaway trees.
const maxTreeDepth = 1024

// Directory owns directory lifecycle and the path composition rules.
type Directory struct {
	dirs    model.DirectoryStore
	users   model.UserStore
	ids     model.IdentifierService
	storage model.Storage
	logger  *logger.Logger
}

func NewDirectory(
	dirs model.DirectoryStore,
	users model.UserStore,
	ids model.IdentifierService,
	storage model.Storage,
	logger *logger.Logger,
) *Directory {
	return &Directory{
		dirs:    dirs,
		users:   users,
		ids:     ids,
		storage: storage,
		logger:  logger,
	}
}

func (s *Directory) ops() lifecycleOps[model.Directory] {
	return lifecycleOps[model.Directory]{
		entity:        "directory",
		getByUUID:     s.dirs.GetByUUID,
		getByUUIDs:    s.dirs.GetByUUIDs,
		setVisibility: s.dirs.SetVisibility,
		softDelete:    s.dirs.SoftDelete,
		uuidOf:        func(d model.Directory) string { return d.UUID },
		ownerOf:       func(d model.Directory) *string { return d.OwnerUUID },
		visibleOf:     func(d model.Directory) bool { return d.Visible },
		deletedOf:     func(d model.Directory) bool { return d.Deleted },
		pathOf:        func(d model.Directory) string { return d.Path },
	}
}

// CreateDirectoryParams carries the caller's wishes for a new directory.
type CreateDirectoryParams struct {
	OwnerUUID    string
	Type         string
	ParentUUID   string
	AssignedUUID string
}

// Create makes a directory under a parent, or a new root when no parent is
// given.
func (s *Directory) Create(ctx context.Context, p model.Principal, params CreateDirectoryParams) (model.Directory, error) {
	if !p.IsAdmin() && params.Type == "" {
		return model.Directory{}, apperr.Validation("directory type is required")
	}

	owner, err := resolveOwner(p, params.OwnerUUID)
	if err != nil {
		return model.Directory{}, err
	}

	uuid, err := s.assignUUID(ctx, params.AssignedUUID)
	if err != nil {
		return model.Directory{}, err
	}

	dir := model.Directory{
		UUID:         uuid,
		Type:         params.Type,
		UploaderUUID: p.UserUUID,
	}
	if owner != "" {
		dir.OwnerUUID = &owner
	}

	if params.ParentUUID != "" {
		parent, err := getSingle(ctx, s.ops(), params.ParentUUID)
		if err != nil {
			return model.Directory{}, err
		}
		if parent.Deleted {
			return model.Directory{}, apperr.NotFound("directory %s not found", params.ParentUUID)
		}
		if err := s.checkDepth(ctx, parent); err != nil {
			return model.Directory{}, err
		}
		dir.ParentUUID = &parent.UUID
		dir.Path = joinPath(parent.Path, uuid)
	} else {
		if owner == "" {
			return model.Directory{}, apperr.Validation("root directory requires an owner")
		}
		account, err := s.users.GetByUUID(ctx, owner)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.Directory{}, apperr.NotFound("user %s not found", owner)
			}
			return model.Directory{}, fmt.Errorf("failed to get owner account: %w", err)
		}
		if _, err := s.dirs.GetRootByOwner(ctx, owner); err == nil {
			return model.Directory{}, apperr.Conflict("user %s already has a root directory", owner)
		} else if !errors.Is(err, model.ErrNotFound) {
			return model.Directory{}, fmt.Errorf("failed to check existing root: %w", err)
		}
		dir.Path = joinPath(account.S3Login, uuid)
	}

	saved, err := s.dirs.Create(ctx, dir)
	if err != nil {
		return model.Directory{}, fmt.Errorf("failed to create directory: %w", err)
	}

	return saved, nil
}

// checkDepth walks the parent chain. The new node hangs below parent, so the
// chain must stay shorter than the bound; a broken or cyclic chain surfaces
// before it can grow.
func (s *Directory) checkDepth(ctx context.Context, parent model.Directory) error {
	current := parent
	for depth := 1; depth < maxTreeDepth; depth++ {
		if current.ParentUUID == nil {
			return nil
		}
		next, err := s.dirs.GetByUUID(ctx, *current.ParentUUID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return apperr.Validation("directory %s has a dangling parent", current.UUID)
			}
			return fmt.Errorf("failed to walk directory tree: %w", err)
		}
		if next.Deleted {
			return apperr.Validation("directory %s has a deleted ancestor", current.UUID)
		}
		current = next
	}
	return apperr.Validation("directory tree is too deep")
}

func (s *Directory) assignUUID(ctx context.Context, assigned string) (string, error) {
	if assigned == "" {
		ids, err := s.ids.Mint(ctx, model.KindDirectory, 1)
		if err != nil {
			return "", fmt.Errorf("failed to mint directory uuid: %w", err)
		}
		return ids[0], nil
	}

	taken, err := s.ids.Exists(ctx, model.KindDirectory, assigned)
	if err != nil {
		return "", fmt.Errorf("failed to check directory uuid: %w", err)
	}
	if taken {
		return "", apperr.Conflict("directory uuid %s already exists", assigned)
	}
	return assigned, nil
}

// List returns directories through the shared query engine, with the
// non-admin read scope applied.
func (s *Directory) List(ctx context.Context, p model.Principal, q model.ListQuery) ([]model.Directory, int64, error) {
	q, err := scopeListQuery(p, q)
	if err != nil {
		return nil, 0, err
	}

	dirs, total, err := s.dirs.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list directories: %w", err)
	}
	return dirs, total, nil
}

// SetVisibility hides or unhides directories.
func (s *Directory) SetVisibility(ctx context.Context, p model.Principal, uuids []string, visible bool) error {
	return changeVisibility(ctx, s.ops(), p, uuids, visible)
}

// Delete soft-deletes a directory and clears its object-store prefix
// best-effort.
func (s *Directory) Delete(ctx context.Context, p model.Principal, uuid string, forUser bool) error {
	return softDeleteEntity(ctx, s.ops(), p, uuid, forUser, s.storage.DeletePrefix, s.logger)
}
