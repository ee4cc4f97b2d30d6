package service

import (
	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/model"
)

// The authorization kernel: stateless predicates applied uniformly by every
// service method. Admins pass everything; non-admins are scoped to records
// they own.

// ensureAdmin rejects non-admin principals.
func ensureAdmin(p model.Principal) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("operation requires admin privilege")
	}
	return nil
}

// resolveOwner applies the cross-cutting owner rule: a non-admin passing an
// explicit foreign owner gets 403; passing none gets their own uuid
// substituted. Admins keep whatever they asked for.
func resolveOwner(p model.Principal, requested string) (string, error) {
	if p.IsAdmin() {
		return requested, nil
	}
	if requested == "" {
		return p.UserUUID, nil
	}
	if requested != p.UserUUID {
		return "", apperr.Forbidden("owner must be the requesting user")
	}
	return requested, nil
}

// ownsRecord reports whether the principal owns a record with the given
// owner reference.
func ownsRecord(p model.Principal, ownerUUID *string) bool {
	return ownerUUID != nil && *ownerUUID == p.UserUUID
}

// mayMutate checks the mutation rule for a record: admins always, non-admins
// only on records they own.
func mayMutate(p model.Principal, ownerUUID *string) error {
	if p.IsAdmin() {
		return nil
	}
	if !ownsRecord(p, ownerUUID) {
		return apperr.Forbidden("record belongs to another user")
	}
	return nil
}

// scopeListQuery applies the non-admin read scope to a listing query: rows
// must be owned by the principal, visible and not deleted. An explicit
// request for hidden rows by a non-admin is rejected with 406 rather than
// silently narrowed. Admin queries pass through untouched.
func scopeListQuery(p model.Principal, q model.ListQuery) (model.ListQuery, error) {
	owner, err := resolveOwner(p, q.OwnerUUID)
	if err != nil {
		return model.ListQuery{}, err
	}
	q.OwnerUUID = owner

	if !p.IsAdmin() {
		if q.Visibility == model.VisibilityInvisible || q.Visibility == model.VisibilityAll {
			return model.ListQuery{}, apperr.NotAcceptable("hidden records are not available")
		}
		q.Visibility = model.VisibilityVisible
		q.IncludeDeleted = false
	}
	return q, nil
}
