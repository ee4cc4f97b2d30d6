package postgres

import (
	"context"
	"fmt"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.CascadeStore = (*CascadeRepository)(nil)

// CascadeRepository tears down all relational data of a set of accounts in a
// single transaction, so the caller never observes a partially deleted user.
type CascadeRepository struct {
	db *Connection
}

func NewCascadeRepository(db *Connection) *CascadeRepository {
	return &CascadeRepository{
		db: db,
	}
}

// DeleteUserData removes messages, notifications and bank details referencing
// the accounts, then their documents, directories, account rows, tokens and
// contacts. Commits once; any failure rolls the whole teardown back.
func (r *CascadeRepository) DeleteUserData(ctx context.Context, accounts []model.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	uuids := make([]string, 0, len(accounts))
	tokenIDs := make([]int64, 0, len(accounts))
	contactIDs := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		uuids = append(uuids, a.UUID)
		tokenIDs = append(tokenIDs, a.TokenID)
		contactIDs = append(contactIDs, a.ContactID)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	statements := []struct {
		query string
		arg   any
	}{
		{`DELETE FROM messages WHERE sender_uuid = ANY($1) OR recipient_uuid = ANY($1)`, uuids},
		{`DELETE FROM notifications WHERE user_uuid = ANY($1)`, uuids},
		{`DELETE FROM bank_details WHERE user_uuid = ANY($1)`, uuids},
		{`DELETE FROM documents WHERE owner_uuid = ANY($1)
			OR directory_uuid IN (SELECT uuid FROM directories WHERE owner_uuid = ANY($1))`, uuids},
		{`DELETE FROM directories WHERE owner_uuid = ANY($1)`, uuids},
		{`DELETE FROM accounts WHERE uuid = ANY($1)`, uuids},
		{`DELETE FROM tokens WHERE id = ANY($1)`, tokenIDs},
		{`DELETE FROM contacts WHERE id = ANY($1)`, contactIDs},
	}

	for _, st := range statements {
		if _, err := tx.Exec(ctx, st.query, st.arg); err != nil {
			return fmt.Errorf("failed to execute cascade statement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cascade: %w", err)
	}

	return nil
}
