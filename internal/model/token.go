package model

import (
	"context"
	"time"
)

// TokenStore defines persistence operations for bearer tokens.
type TokenStore interface {
	Create(ctx context.Context, value string) (Token, error)
	GetByID(ctx context.Context, id int64) (Token, error)
	GetByValue(ctx context.Context, value string) (Token, error)
	ExistsValue(ctx context.Context, value string) (bool, error)
}

// Token is an opaque bearer token referenced by at most one account.
type Token struct {
	ID        int64
	Value     string
	Active    bool
	CreatedAt time.Time
}
