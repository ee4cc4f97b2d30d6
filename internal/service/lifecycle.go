package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/model"
)

// lifecycleOps parameterizes the lifecycle operations shared by directories
// and documents: both follow identical hide/unhide and soft-delete rules,
// differing only in store calls and field accessors.
type lifecycleOps[T any] struct {
	entity        string
	getByUUID     func(ctx context.Context, uuid string) (T, error)
	getByUUIDs    func(ctx context.Context, uuids []string) ([]T, error)
	setVisibility func(ctx context.Context, uuid string, visible bool, byUUID *string, at *time.Time) error
	softDelete    func(ctx context.Context, uuid string, byUUID string, at time.Time) error
	uuidOf        func(T) string
	ownerOf       func(T) *string
	visibleOf     func(T) bool
	deletedOf     func(T) bool
	pathOf        func(T) string
}

// getSingle resolves a uuid through the single-row rule: zero rows is 404,
// more than one is an integrity fault surfaced as 500.
func getSingle[T any](ctx context.Context, ops lifecycleOps[T], uuid string) (T, error) {
	record, err := ops.getByUUID(ctx, uuid)
	if err != nil {
		var zero T
		if errors.Is(err, model.ErrNotFound) {
			return zero, apperr.NotFound("%s %s not found", ops.entity, uuid)
		}
		if errors.Is(err, model.ErrIntegrity) {
			return zero, apperr.Integrity("%s uuid %s is not unique", ops.entity, uuid)
		}
		return zero, fmt.Errorf("failed to get %s by uuid: %w", ops.entity, err)
	}
	return record, nil
}

// changeVisibility hides or unhides a batch of records. Unhide is
// admin-only. A value equal to the stored one is a conflict; deleted records
// report not found.
func changeVisibility[T any](ctx context.Context, ops lifecycleOps[T], p model.Principal, uuids []string, visible bool) error {
	if len(uuids) == 0 {
		return apperr.Validation("no uuids given")
	}
	if visible && !p.IsAdmin() {
		return apperr.Forbidden("only admin may restore visibility")
	}

	records, err := ops.getByUUIDs(ctx, uuids)
	if err != nil {
		return fmt.Errorf("failed to get %ss by uuids: %w", ops.entity, err)
	}

	byUUID := make(map[string]T, len(records))
	for _, r := range records {
		byUUID[ops.uuidOf(r)] = r
	}

	for _, uuid := range uuids {
		record, ok := byUUID[uuid]
		if !ok {
			return apperr.NotFound("%s %s not found", ops.entity, uuid)
		}
		if ops.deletedOf(record) {
			return apperr.NotFound("%s %s not found", ops.entity, uuid)
		}
		if ops.visibleOf(record) == visible {
			return apperr.Conflict("%s %s visibility is already %t", ops.entity, uuid, visible)
		}
		if err := mayMutate(p, ops.ownerOf(record)); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	for _, uuid := range uuids {
		var at *time.Time
		var by *string
		if !visible {
			at = &now
			by = &p.UserUUID
		}
		if err := ops.setVisibility(ctx, uuid, visible, by, at); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return apperr.NotFound("%s %s not found", ops.entity, uuid)
			}
			return fmt.Errorf("failed to set %s visibility: %w", ops.entity, err)
		}
	}

	return nil
}

// softDeleteEntity soft-deletes one record and attempts the matching
// object-store cleanup. Metadata is authoritative: a store failure is logged
// and the delete still succeeds.
func softDeleteEntity[T any](
	ctx context.Context,
	ops lifecycleOps[T],
	p model.Principal,
	uuid string,
	forUser bool,
	removeObjects func(ctx context.Context, path string) error,
	log *logger.Logger,
) error {
	if !forUser && !p.IsAdmin() {
		return apperr.Forbidden("only admin may delete a %s", ops.entity)
	}

	record, err := getSingle(ctx, ops, uuid)
	if err != nil {
		return err
	}
	if ops.deletedOf(record) {
		return apperr.NotFound("%s %s not found", ops.entity, uuid)
	}
	if forUser {
		if err := mayMutate(p, ops.ownerOf(record)); err != nil {
			return err
		}
	}

	if err := ops.softDelete(ctx, uuid, p.UserUUID, time.Now().UTC()); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apperr.NotFound("%s %s not found", ops.entity, uuid)
		}
		return fmt.Errorf("failed to soft delete %s: %w", ops.entity, err)
	}

	if err := removeObjects(ctx, ops.pathOf(record)); err != nil {
		log.Warn("object store cleanup failed, path is stale",
			"entity", ops.entity,
			"uuid", uuid,
			"path", ops.pathOf(record),
			"error", err.Error())
	}

	return nil
}
