package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for accounts. Account rows are
// only ever created through ProvisionStore.
type UserStore interface {
	GetByLogin(ctx context.Context, login string) (Account, error)
	GetByUUID(ctx context.Context, uuid string) (Account, error)
	GetByTokenID(ctx context.Context, tokenID int64) (Account, error)
	GetByTokenValue(ctx context.Context, value string) (Account, error)
	ExistsUUID(ctx context.Context, uuid string) (bool, error)
	ExistsLogin(ctx context.Context, login string) (bool, error)
	Update(ctx context.Context, params UpdateAccountParams) (Account, error)
	UpdateLastAuth(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context, query ListQuery) ([]Account, int64, error)
}

// NewUserData carries every row of a new account: the token value, the
// account fields and its root directory. A blank contact row is created
// alongside the account.
type NewUserData struct {
	TokenValue string
	Account    Account
	RootDir    Directory
}

// ProvisionStore writes all relational rows of a new account in a single
// transaction: token, contact, account and root directory. A failure at any
// step leaves nothing behind.
type ProvisionStore interface {
	CreateUserData(ctx context.Context, data NewUserData) (Account, Token, Directory, error)
}

// CascadeStore tears down everything referencing a set of accounts in one
// transaction: messages, notifications, bank details, documents, directories,
// the account rows, their tokens and contacts.
type CascadeStore interface {
	DeleteUserData(ctx context.Context, accounts []Account) error
}

// Account represents a stored user account.
type Account struct {
	ID         int64
	UUID       string
	TokenID    int64
	Login      string
	Password   string
	Privilege  Privilege
	Active     bool
	ContactID  int64
	S3Login    string
	S3Password string
	LastAuth   *time.Time
	CreatedAt  time.Time
}

// UpdateAccountParams contains the mutable account fields. Nil means keep.
type UpdateAccountParams struct {
	ID          int64
	NewLogin    *string
	NewPassword *string
	NewUUID     *string
}

// UserDescriptor is the composite result of account creation.
type UserDescriptor struct {
	UserID      int64
	UserUUID    string
	Login       string
	Privilege   Privilege
	Token       string
	RootDirUUID string
	S3Login     string
}
