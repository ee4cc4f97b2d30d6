package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.TokenStore = (*TokenRepository)(nil)

type TokenRepository struct {
	db *Connection
}

func NewTokenRepository(db *Connection) *TokenRepository {
	return &TokenRepository{
		db: db,
	}
}

func (r *TokenRepository) Create(ctx context.Context, value string) (model.Token, error) {
	query := `INSERT INTO tokens (value, active)
			  VALUES ($1, TRUE)
			  RETURNING id, value, active, created_at`

	var token model.Token
	err := r.db.QueryRow(ctx, query, value).Scan(
		&token.ID, &token.Value, &token.Active, &token.CreatedAt,
	)
	if err != nil {
		return model.Token{}, fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

func (r *TokenRepository) GetByID(ctx context.Context, id int64) (model.Token, error) {
	query := `SELECT id, value, active, created_at FROM tokens WHERE id = $1`

	var token model.Token
	err := r.db.QueryRow(ctx, query, id).Scan(
		&token.ID, &token.Value, &token.Active, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, fmt.Errorf("failed to get token by id: %w", err)
	}

	return token, nil
}

func (r *TokenRepository) GetByValue(ctx context.Context, value string) (model.Token, error) {
	query := `SELECT id, value, active, created_at FROM tokens WHERE value = $1`

	var token model.Token
	err := r.db.QueryRow(ctx, query, value).Scan(
		&token.ID, &token.Value, &token.Active, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, fmt.Errorf("failed to get token by value: %w", err)
	}

	return token, nil
}

func (r *TokenRepository) ExistsValue(ctx context.Context, value string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tokens WHERE value = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check token value: %w", err)
	}

	return exists, nil
}
