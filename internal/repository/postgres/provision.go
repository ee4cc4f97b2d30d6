package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.ProvisionStore = (*ProvisionRepository)(nil)

// ProvisionRepository creates every relational row of a new account in a
// single transaction, the mirror image of CascadeRepository: the caller never
// observes a partially provisioned user.
type ProvisionRepository struct {
	db *Connection
}

func NewProvisionRepository(db *Connection) *ProvisionRepository {
	return &ProvisionRepository{
		db: db,
	}
}

// CreateUserData inserts the token, a blank contact, the account row and its
// root directory, committing once. A unique violation on any row surfaces as
// ErrConflict.
func (r *ProvisionRepository) CreateUserData(ctx context.Context, data model.NewUserData) (model.Account, model.Token, model.Directory, error) {
	fail := func(err error) (model.Account, model.Token, model.Directory, error) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Account{}, model.Token{}, model.Directory{}, model.ErrConflict
		}
		return model.Account{}, model.Token{}, model.Directory{}, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	var token model.Token
	err = tx.QueryRow(ctx,
		`INSERT INTO tokens (value) VALUES ($1) RETURNING id, value, active, created_at`,
		data.TokenValue,
	).Scan(&token.ID, &token.Value, &token.Active, &token.CreatedAt)
	if err != nil {
		return fail(fmt.Errorf("failed to create token: %w", err))
	}

	var contactID int64
	if err := tx.QueryRow(ctx, `INSERT INTO contacts DEFAULT VALUES RETURNING id`).Scan(&contactID); err != nil {
		return fail(fmt.Errorf("failed to create contact: %w", err))
	}

	a := data.Account
	account, err := scanAccount(tx.QueryRow(ctx,
		`INSERT INTO accounts (uuid, token_id, login, password, privilege, active, contact_id, s3_login, s3_password)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+accountFields,
		a.UUID, token.ID, a.Login, a.Password, string(a.Privilege),
		a.Active, contactID, a.S3Login, a.S3Password,
	))
	if err != nil {
		return fail(fmt.Errorf("failed to create account: %w", err))
	}

	d := data.RootDir
	root, err := scanDirectory(tx.QueryRow(ctx,
		`INSERT INTO directories (uuid, parent_uuid, path, dir_type, owner_uuid, uploader_uuid, visible, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE)
		 RETURNING `+directoryFields,
		d.UUID, d.ParentUUID, d.Path, d.Type, d.OwnerUUID, d.UploaderUUID,
	))
	if err != nil {
		return fail(fmt.Errorf("failed to create root directory: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fail(fmt.Errorf("failed to commit provisioning: %w", err))
	}

	return account, token, root, nil
}
