package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// accountColumns is the listing whitelist for accounts.
var accountColumns = map[string]column{
	"id":         {name: "id", kind: colInt},
	"uuid":       {name: "uuid"},
	"login":      {name: "login"},
	"privilege":  {name: "privilege"},
	"active":     {name: "active", kind: colBool},
	"last_auth":  {name: "last_auth", kind: colTime},
	"created_at": {name: "created_at", kind: colTime},
}

const accountFields = `id, uuid, token_id, login, password, privilege, active, contact_id, s3_login, s3_password, last_auth, created_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID, &a.UUID, &a.TokenID, &a.Login, &a.Password, &a.Privilege, &a.Active,
		&a.ContactID, &a.S3Login, &a.S3Password, &a.LastAuth, &a.CreatedAt,
	)
	return a, err
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (model.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE login = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by login: %w", err)
	}

	return account, nil
}

// GetByUUID returns the single account with the uuid. More than one row is a
// data-integrity fault and is reported, never collapsed.
func (r *UserRepository) GetByUUID(ctx context.Context, uuid string) (model.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE uuid = $1 LIMIT 2`

	rows, err := r.db.Query(ctx, query, uuid)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by uuid: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return model.Account{}, err
	}

	switch len(accounts) {
	case 0:
		return model.Account{}, model.ErrNotFound
	case 1:
		return accounts[0], nil
	default:
		return model.Account{}, model.ErrIntegrity
	}
}

func (r *UserRepository) GetByTokenID(ctx context.Context, tokenID int64) (model.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE token_id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, tokenID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by token id: %w", err)
	}

	return account, nil
}

func (r *UserRepository) GetByTokenValue(ctx context.Context, value string) (model.Account, error) {
	query := `SELECT a.id, a.uuid, a.token_id, a.login, a.password, a.privilege, a.active,
			         a.contact_id, a.s3_login, a.s3_password, a.last_auth, a.created_at
			  FROM accounts a JOIN tokens t ON t.id = a.token_id
			  WHERE t.value = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by token value: %w", err)
	}

	return account, nil
}

func (r *UserRepository) ExistsUUID(ctx context.Context, uuid string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE uuid = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, uuid).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account uuid: %w", err)
	}

	return exists, nil
}

func (r *UserRepository) ExistsLogin(ctx context.Context, login string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE login = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, login).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account login: %w", err)
	}

	return exists, nil
}

func (r *UserRepository) Update(ctx context.Context, params model.UpdateAccountParams) (model.Account, error) {
	var sets []string
	var args []any

	if params.NewLogin != nil {
		args = append(args, *params.NewLogin)
		sets = append(sets, fmt.Sprintf("login = $%d", len(args)))
	}
	if params.NewPassword != nil {
		args = append(args, *params.NewPassword)
		sets = append(sets, fmt.Sprintf("password = $%d", len(args)))
	}
	if params.NewUUID != nil {
		args = append(args, *params.NewUUID)
		sets = append(sets, fmt.Sprintf("uuid = $%d", len(args)))
	}
	if len(sets) == 0 {
		return model.Account{}, fmt.Errorf("no fields to update")
	}

	args = append(args, params.ID)
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountFields)

	account, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

func (r *UserRepository) UpdateLastAuth(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE accounts SET last_auth = $2 WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last auth: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context, q model.ListQuery) ([]model.Account, int64, error) {
	b := &whereBuilder{}
	if len(q.UUIDs) > 0 {
		b.add("uuid = ANY(%s)", q.UUIDs)
	}
	applyFilters(b, accountColumns, q.Filters)
	where := b.clause()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	query := `SELECT ` + accountFields + ` FROM accounts` + where +
		orderClause(accountColumns, q.Sorts) + pageClause(b, q.Page)

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}
