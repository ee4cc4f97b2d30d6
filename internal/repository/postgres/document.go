package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

// documentColumns is the listing whitelist for documents.
var documentColumns = map[string]column{
	"id":                 {name: "id", kind: colInt},
	"uuid":               {name: "uuid"},
	"name":               {name: "name"},
	"extension":          {name: "extension"},
	"size":               {name: "size", kind: colInt},
	"type":               {name: "doc_type"},
	"directory_uuid":     {name: "directory_uuid"},
	"path":               {name: "path"},
	"owner_user_uuid":    {name: "owner_uuid"},
	"uploader_user_uuid": {name: "uploader_uuid"},
	"visible":            {name: "visible", kind: colBool},
	"created_at":         {name: "created_at", kind: colTime},
}

const documentFields = `id, uuid, name, extension, size, doc_type, directory_uuid, path, owner_uuid,
		uploader_uuid, visible, visibility_off_at, visibility_off_by, deleted, deleted_at, deleted_by, created_at`

type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

func scanDocument(row pgx.Row) (model.Document, error) {
	var d model.Document
	err := row.Scan(
		&d.ID, &d.UUID, &d.Name, &d.Extension, &d.Size, &d.Type, &d.DirectoryUUID, &d.Path,
		&d.OwnerUUID, &d.UploaderUUID, &d.Visible, &d.VisibilityOffAt, &d.VisibilityOffBy,
		&d.Deleted, &d.DeletedAt, &d.DeletedBy, &d.CreatedAt,
	)
	return d, err
}

func (r *DocumentRepository) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	query := `INSERT INTO documents (uuid, name, extension, size, doc_type, directory_uuid, path, owner_uuid, uploader_uuid, visible, deleted)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, FALSE)
			  RETURNING ` + documentFields

	saved, err := scanDocument(r.db.QueryRow(ctx, query,
		doc.UUID, doc.Name, doc.Extension, doc.Size, doc.Type,
		doc.DirectoryUUID, doc.Path, doc.OwnerUUID, doc.UploaderUUID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: the (directory_uuid, name) partial unique index closed the
		// upload rename race; the loser retries with a fresh probe.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Document{}, model.ErrConflict
		}
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return saved, nil
}

// GetByUUID returns the single document with the uuid. Zero rows maps to
// ErrNotFound, more than one to ErrIntegrity.
func (r *DocumentRepository) GetByUUID(ctx context.Context, uuid string) (model.Document, error) {
	query := `SELECT ` + documentFields + ` FROM documents WHERE uuid = $1 LIMIT 2`

	rows, err := r.db.Query(ctx, query, uuid)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to get document by uuid: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return model.Document{}, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return model.Document{}, err
	}

	switch len(docs) {
	case 0:
		return model.Document{}, model.ErrNotFound
	case 1:
		return docs[0], nil
	default:
		return model.Document{}, model.ErrIntegrity
	}
}

func (r *DocumentRepository) GetByUUIDs(ctx context.Context, uuids []string) ([]model.Document, error) {
	query := `SELECT ` + documentFields + ` FROM documents WHERE uuid = ANY($1) ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, uuids)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents by uuids: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *DocumentRepository) ExistsUUID(ctx context.Context, uuid string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM documents WHERE uuid = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, uuid).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check document uuid: %w", err)
	}

	return exists, nil
}

func (r *DocumentRepository) ExistsName(ctx context.Context, directoryUUID, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM documents WHERE directory_uuid = $1 AND name = $2 AND NOT deleted)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, directoryUUID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check document name: %w", err)
	}

	return exists, nil
}

func (r *DocumentRepository) SetVisibility(ctx context.Context, uuid string, visible bool, byUUID *string, at *time.Time) error {
	const query = `UPDATE documents
				   SET visible = $2, visibility_off_at = $3, visibility_off_by = $4
				   WHERE uuid = $1 AND NOT deleted`

	cmd, err := r.db.Exec(ctx, query, uuid, visible, at, byUUID)
	if err != nil {
		return fmt.Errorf("failed to set document visibility: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *DocumentRepository) SoftDelete(ctx context.Context, uuid string, byUUID string, at time.Time) error {
	const query = `UPDATE documents
				   SET deleted = TRUE, deleted_at = $3, deleted_by = $2
				   WHERE uuid = $1 AND NOT deleted`

	cmd, err := r.db.Exec(ctx, query, uuid, byUUID, at)
	if err != nil {
		return fmt.Errorf("failed to soft delete document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *DocumentRepository) List(ctx context.Context, q model.ListQuery) ([]model.Document, int64, error) {
	b := &whereBuilder{}
	applyListQuery(b, q)
	applyFilters(b, documentColumns, q.Filters)
	where := b.clause()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query := `SELECT ` + documentFields + ` FROM documents` + where +
		orderClause(documentColumns, q.Sorts) + pageClause(b, q.Page)

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}
