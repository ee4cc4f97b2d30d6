package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/model"
)

// Resolver turns a bearer token into a Principal. It is pure I/O: every
// protected operation calls it exactly once before authorization.
type Resolver struct {
	tokens model.TokenStore
	users  model.UserStore
	dirs   model.DirectoryStore
	logger *logger.Logger
}

func NewResolver(
	tokens model.TokenStore,
	users model.UserStore,
	dirs model.DirectoryStore,
	logger *logger.Logger,
) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
		dirs:   dirs,
		logger: logger,
	}
}

// Resolve joins token, account, privilege and root directory into a
// Principal. Admins resolve without a root directory.
func (r *Resolver) Resolve(ctx context.Context, tokenValue string) (model.Principal, error) {
	if tokenValue == "" {
		return model.Principal{}, apperr.Unauthenticated("unknown token")
	}

	token, err := r.tokens.GetByValue(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Principal{}, apperr.Unauthenticated("unknown token")
		}
		return model.Principal{}, fmt.Errorf("failed to get token: %w", err)
	}
	if !token.Active {
		return model.Principal{}, apperr.Unauthenticated("token is inactive")
	}

	account, err := r.users.GetByTokenID(ctx, token.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Principal{}, apperr.Unauthenticated("unknown token")
		}
		return model.Principal{}, fmt.Errorf("failed to get account by token: %w", err)
	}
	if !account.Active {
		return model.Principal{}, apperr.Forbidden("account is inactive")
	}
	if !account.Privilege.Valid() {
		return model.Principal{}, apperr.Forbidden("account has no privilege")
	}

	principal := model.Principal{
		UserID:    account.ID,
		UserUUID:  account.UUID,
		Privilege: account.Privilege,
	}

	if !principal.IsAdmin() {
		root, err := r.dirs.GetRootByOwner(ctx, account.UUID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.Principal{}, apperr.Forbidden("account has no root directory")
			}
			if errors.Is(err, model.ErrIntegrity) {
				return model.Principal{}, apperr.Integrity("account %s has more than one root directory", account.UUID)
			}
			return model.Principal{}, fmt.Errorf("failed to get root directory: %w", err)
		}
		principal.RootDirUUID = root.UUID
	}

	return principal, nil
}
