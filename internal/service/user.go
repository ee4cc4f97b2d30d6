package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/model"
)

const (
	minLoginLength    = 3
	minPasswordLength = 8

	// The object store caps secret keys; passwords are truncated silently,
	// which also caps their entropy.
	maxStoragePasswordLength = 64

	maxTokenMintAttempts = 10

	clientStateKeyPrefix = "client_state:"
)

// User owns the account lifecycle: creation with its storage root, token and
// contact, credential updates, authentication, the cascading delete and the
// per-client state blobs.
type User struct {
	users     model.UserStore
	tokens    model.TokenStore
	provision model.ProvisionStore
	dirs      model.DirectoryStore
	dirSvc    *Directory
	cascade   model.CascadeStore
	storage   model.Storage
	cache     model.StateCache
	ids       model.IdentifierService
	legal     model.LegalEntityRemover
	logger    *logger.Logger
}

func NewUser(
	users model.UserStore,
	tokens model.TokenStore,
	provision model.ProvisionStore,
	dirs model.DirectoryStore,
	dirSvc *Directory,
	cascade model.CascadeStore,
	storage model.Storage,
	cache model.StateCache,
	ids model.IdentifierService,
	legal model.LegalEntityRemover,
	logger *logger.Logger,
) *User {
	return &User{
		users:     users,
		tokens:    tokens,
		provision: provision,
		dirs:      dirs,
		dirSvc:    dirSvc,
		cascade:   cascade,
		storage:   storage,
		cache:     cache,
		ids:       ids,
		legal:     legal,
		logger:    logger,
	}
}

// CreateUserParams carries the fields of a new account.
type CreateUserParams struct {
	Login        string
	Password     string
	Privilege    model.Privilege
	AssignedUUID string
}

// Create registers a new tenant account. All relational rows (token, contact,
// account, root directory) are written in one transaction; only the
// object-store user is created outside it.
func (s *User) Create(ctx context.Context, p model.Principal, params CreateUserParams) (model.UserDescriptor, error) {
	if err := ensureAdmin(p); err != nil {
		return model.UserDescriptor{}, err
	}
	if params.Privilege != model.PrivilegeClient && params.Privilege != model.PrivilegeCounterparty {
		return model.UserDescriptor{}, apperr.Validation("privilege must be client or counterparty")
	}
	if len(params.Login) < minLoginLength {
		return model.UserDescriptor{}, apperr.Validation("login must be at least %d characters", minLoginLength)
	}
	if len(params.Password) < minPasswordLength {
		return model.UserDescriptor{}, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	userUUID, err := s.assignUserUUID(ctx, params.AssignedUUID)
	if err != nil {
		return model.UserDescriptor{}, err
	}

	taken, err := s.users.ExistsLogin(ctx, params.Login)
	if err != nil {
		return model.UserDescriptor{}, fmt.Errorf("failed to check login: %w", err)
	}
	if taken {
		return model.UserDescriptor{}, apperr.Conflict("login %s is already taken", params.Login)
	}

	s3Login := sanitizeStorageLogin(params.Login + userUUID)
	if s3Login == "" {
		return model.UserDescriptor{}, apperr.Validation("login cannot be mapped to a storage name")
	}
	s3Password := params.Password
	if len(s3Password) > maxStoragePasswordLength {
		s3Password = s3Password[:maxStoragePasswordLength]
	}

	if err := s.storage.CreateUser(ctx, s3Login, s3Password); err != nil {
		return model.UserDescriptor{}, fmt.Errorf("failed to create storage user: %w", err)
	}

	tokenValue, err := s.mintTokenValue(ctx)
	if err != nil {
		return model.UserDescriptor{}, err
	}

	rootUUIDs, err := s.ids.Mint(ctx, model.KindDirectory, 1)
	if err != nil {
		return model.UserDescriptor{}, fmt.Errorf("failed to mint root directory uuid: %w", err)
	}
	rootUUID := rootUUIDs[0]

	account, token, root, err := s.provision.CreateUserData(ctx, model.NewUserData{
		TokenValue: tokenValue,
		Account: model.Account{
			UUID:       userUUID,
			Login:      params.Login,
			Password:   params.Password,
			Privilege:  params.Privilege,
			Active:     true,
			S3Login:    s3Login,
			S3Password: s3Password,
		},
		RootDir: model.Directory{
			UUID:         rootUUID,
			Path:         joinPath(s3Login, rootUUID),
			Type:         model.DirectoryTypeUserRoot,
			OwnerUUID:    &userUUID,
			UploaderUUID: p.UserUUID,
			Visible:      true,
		},
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.UserDescriptor{}, apperr.Conflict("account %s already exists", params.Login)
		}
		return model.UserDescriptor{}, fmt.Errorf("failed to provision account: %w", err)
	}

	s.logger.Info("user created",
		"login", account.Login,
		"uuid", account.UUID,
		"privilege", string(account.Privilege))

	return model.UserDescriptor{
		UserID:      account.ID,
		UserUUID:    account.UUID,
		Login:       account.Login,
		Privilege:   account.Privilege,
		Token:       token.Value,
		RootDirUUID: root.UUID,
		S3Login:     account.S3Login,
	}, nil
}

func (s *User) assignUserUUID(ctx context.Context, assigned string) (string, error) {
	if assigned == "" {
		ids, err := s.ids.Mint(ctx, model.KindUser, 1)
		if err != nil {
			return "", fmt.Errorf("failed to mint user uuid: %w", err)
		}
		return ids[0], nil
	}

	taken, err := s.ids.Exists(ctx, model.KindUser, assigned)
	if err != nil {
		return "", fmt.Errorf("failed to check user uuid: %w", err)
	}
	if taken {
		return "", apperr.Conflict("user uuid %s already exists", assigned)
	}
	return assigned, nil
}

func (s *User) mintTokenValue(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxTokenMintAttempts; attempt++ {
		value := uuid.NewString()
		taken, err := s.tokens.ExistsValue(ctx, value)
		if err != nil {
			return "", fmt.Errorf("failed to check token value: %w", err)
		}
		if !taken {
			return value, nil
		}
	}
	return "", fmt.Errorf("failed to mint a unique token")
}

// AuthResult is the answer to a successful login.
type AuthResult struct {
	Token       string
	UserID      int64
	UserUUID    string
	RootDirUUID string
	Privilege   model.Privilege
}

// Authenticate checks login/password and returns the account's token and
// identity. Stamps last_auth.
func (s *User) Authenticate(ctx context.Context, login, password string) (AuthResult, error) {
	account, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return AuthResult{}, apperr.Unauthenticated("invalid login or password")
		}
		return AuthResult{}, fmt.Errorf("failed to get account by login: %w", err)
	}
	if account.Password != password {
		return AuthResult{}, apperr.Unauthenticated("invalid login or password")
	}
	if !account.Active {
		return AuthResult{}, apperr.Forbidden("account is inactive")
	}

	token, err := s.tokens.GetByID(ctx, account.TokenID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to get account token: %w", err)
	}
	if !token.Active {
		return AuthResult{}, apperr.Unauthenticated("token is inactive")
	}

	result := AuthResult{
		Token:     token.Value,
		UserID:    account.ID,
		UserUUID:  account.UUID,
		Privilege: account.Privilege,
	}

	if account.Privilege != model.PrivilegeAdmin {
		root, err := s.dirs.GetRootByOwner(ctx, account.UUID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return AuthResult{}, apperr.Forbidden("account has no root directory")
			}
			return AuthResult{}, fmt.Errorf("failed to get root directory: %w", err)
		}
		result.RootDirUUID = root.UUID
	}

	if err := s.users.UpdateLastAuth(ctx, account.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to stamp last auth", "login", login, "error", err.Error())
	}

	return result, nil
}

// UpdateUserParams selects a target account and the fields to change.
type UpdateUserParams struct {
	TargetUUID  string
	TargetLogin string
	NewLogin    *string
	NewPassword *string
	NewUUID     *string
}

// Update changes account credentials. Admin-only; at least one field must
// change.
func (s *User) Update(ctx context.Context, p model.Principal, params UpdateUserParams) (model.Account, error) {
	if err := ensureAdmin(p); err != nil {
		return model.Account{}, err
	}
	if params.NewLogin == nil && params.NewPassword == nil && params.NewUUID == nil {
		return model.Account{}, apperr.Validation("nothing to update")
	}
	if params.NewLogin != nil && len(*params.NewLogin) < minLoginLength {
		return model.Account{}, apperr.Validation("login must be at least %d characters", minLoginLength)
	}
	if params.NewPassword != nil && len(*params.NewPassword) < minPasswordLength {
		return model.Account{}, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	account, err := s.resolveTarget(ctx, params.TargetUUID, params.TargetLogin)
	if err != nil {
		return model.Account{}, err
	}

	if params.NewLogin != nil && *params.NewLogin != account.Login {
		taken, err := s.users.ExistsLogin(ctx, *params.NewLogin)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to check login: %w", err)
		}
		if taken {
			return model.Account{}, apperr.Conflict("login %s is already taken", *params.NewLogin)
		}
	}
	if params.NewUUID != nil && *params.NewUUID != account.UUID {
		taken, err := s.ids.Exists(ctx, model.KindUser, *params.NewUUID)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to check user uuid: %w", err)
		}
		if taken {
			return model.Account{}, apperr.Conflict("user uuid %s already exists", *params.NewUUID)
		}
	}

	updated, err := s.users.Update(ctx, model.UpdateAccountParams{
		ID:          account.ID,
		NewLogin:    params.NewLogin,
		NewPassword: params.NewPassword,
		NewUUID:     params.NewUUID,
	})
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to update account: %w", err)
	}

	return updated, nil
}

func (s *User) resolveTarget(ctx context.Context, targetUUID, targetLogin string) (model.Account, error) {
	switch {
	case targetUUID != "":
		account, err := s.users.GetByUUID(ctx, targetUUID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.Account{}, apperr.NotFound("user %s not found", targetUUID)
			}
			if errors.Is(err, model.ErrIntegrity) {
				return model.Account{}, apperr.Integrity("user uuid %s is not unique", targetUUID)
			}
			return model.Account{}, fmt.Errorf("failed to get account by uuid: %w", err)
		}
		return account, nil
	case targetLogin != "":
		account, err := s.users.GetByLogin(ctx, targetLogin)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.Account{}, apperr.NotFound("user %s not found", targetLogin)
			}
			return model.Account{}, fmt.Errorf("failed to get account by login: %w", err)
		}
		return account, nil
	default:
		return model.Account{}, apperr.Validation("target user is required")
	}
}

// List returns accounts. Non-admins only ever see their own row.
func (s *User) List(ctx context.Context, p model.Principal, q model.ListQuery) ([]model.Account, int64, error) {
	if !p.IsAdmin() {
		q.UUIDs = []string{p.UserUUID}
	}

	accounts, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, total, nil
}

// Delete tears down accounts identified by token values and uuids. All
// targets are resolved and validated before anything mutates, so a call
// naming an unknown or already-deleted account changes nothing.
func (s *User) Delete(ctx context.Context, p model.Principal, tokenValues, uuids []string, withDocuments bool) error {
	if err := ensureAdmin(p); err != nil {
		return err
	}
	if len(tokenValues) == 0 && len(uuids) == 0 {
		return apperr.Validation("no users selected")
	}

	seen := make(map[string]bool)
	var accounts []model.Account

	add := func(account model.Account) error {
		if account.Privilege == model.PrivilegeAdmin {
			return apperr.Forbidden("admin account %s cannot be deleted", account.Login)
		}
		if !seen[account.UUID] {
			seen[account.UUID] = true
			accounts = append(accounts, account)
		}
		return nil
	}

	for _, value := range tokenValues {
		account, err := s.users.GetByTokenValue(ctx, value)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return apperr.Validation("no user for token %s", value)
			}
			return fmt.Errorf("failed to resolve token: %w", err)
		}
		if err := add(account); err != nil {
			return err
		}
	}
	for _, u := range uuids {
		account, err := s.users.GetByUUID(ctx, u)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return apperr.Validation("no user with uuid %s", u)
			}
			if errors.Is(err, model.ErrIntegrity) {
				return apperr.Integrity("user uuid %s is not unique", u)
			}
			return fmt.Errorf("failed to resolve user: %w", err)
		}
		if err := add(account); err != nil {
			return err
		}
	}

	ownerUUIDs := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ownerUUIDs = append(ownerUUIDs, a.UUID)
	}

	roots, err := s.dirs.GetRootsByOwners(ctx, ownerUUIDs)
	if err != nil {
		return fmt.Errorf("failed to collect root directories: %w", err)
	}

	// External collaborators must never block the main delete; failures are
	// swallowed per item.
	for _, a := range accounts {
		if err := s.legal.RemoveByUser(ctx, a.UUID); err != nil {
			s.logger.Warn("legal-entity cascade failed", "user", a.UUID, "error", err.Error())
		}
	}

	if withDocuments {
		for _, root := range roots {
			if err := s.dirSvc.Delete(ctx, p, root.UUID, false); err != nil {
				s.logger.Warn("root directory delete failed", "directory", root.UUID, "error", err.Error())
			}
		}
	}

	if err := s.cascade.DeleteUserData(ctx, accounts); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}

	for _, a := range accounts {
		if err := s.storage.RemoveUser(ctx, a.S3Login); err != nil {
			s.logger.Warn("storage user removal failed", "login", a.S3Login, "error", err.Error())
		}
	}

	s.logger.Info("users deleted", "count", len(accounts), "with_documents", withDocuments)
	return nil
}

// GetClientState reads the per-client opaque blob. Non-admins may only read
// their own key.
func (s *User) GetClientState(ctx context.Context, p model.Principal, targetUUID string) ([]byte, int64, error) {
	target, err := resolveOwner(p, targetUUID)
	if err != nil {
		return nil, 0, err
	}
	if target == "" {
		target = p.UserUUID
	}

	value, ttl, err := s.cache.Get(ctx, clientStateKeyPrefix+target)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get client state: %w", err)
	}
	return value, ttl, nil
}

// RecordClientState writes the per-client opaque blob with an optional TTL.
// Non-admins may only write their own key.
func (s *User) RecordClientState(ctx context.Context, p model.Principal, targetUUID string, value []byte, ttlSeconds int64) error {
	target, err := resolveOwner(p, targetUUID)
	if err != nil {
		return err
	}
	if target == "" {
		target = p.UserUUID
	}

	key := clientStateKeyPrefix + target
	if ttlSeconds > 0 {
		if err := s.cache.SetEx(ctx, key, time.Duration(ttlSeconds)*time.Second, value); err != nil {
			return fmt.Errorf("failed to set client state: %w", err)
		}
		return nil
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set client state: %w", err)
	}
	return nil
}
