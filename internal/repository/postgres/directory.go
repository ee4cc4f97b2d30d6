package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.DirectoryStore = (*DirectoryRepository)(nil)

// directoryColumns is the listing whitelist for directories.
var directoryColumns = map[string]column{
	"id":                 {name: "id", kind: colInt},
	"uuid":               {name: "uuid"},
	"parent_uuid":        {name: "parent_uuid"},
	"path":               {name: "path"},
	"type":               {name: "dir_type"},
	"owner_user_uuid":    {name: "owner_uuid"},
	"uploader_user_uuid": {name: "uploader_uuid"},
	"visible":            {name: "visible", kind: colBool},
	"created_at":         {name: "created_at", kind: colTime},
}

const directoryFields = `id, uuid, parent_uuid, path, dir_type, owner_uuid, uploader_uuid,
		visible, visibility_off_at, visibility_off_by, deleted, deleted_at, deleted_by, created_at`

type DirectoryRepository struct {
	db *Connection
}

func NewDirectoryRepository(db *Connection) *DirectoryRepository {
	return &DirectoryRepository{
		db: db,
	}
}

func scanDirectory(row pgx.Row) (model.Directory, error) {
	var d model.Directory
	err := row.Scan(
		&d.ID, &d.UUID, &d.ParentUUID, &d.Path, &d.Type, &d.OwnerUUID, &d.UploaderUUID,
		&d.Visible, &d.VisibilityOffAt, &d.VisibilityOffBy,
		&d.Deleted, &d.DeletedAt, &d.DeletedBy, &d.CreatedAt,
	)
	return d, err
}

func (r *DirectoryRepository) Create(ctx context.Context, dir model.Directory) (model.Directory, error) {
	query := `INSERT INTO directories (uuid, parent_uuid, path, dir_type, owner_uuid, uploader_uuid, visible, deleted)
			  VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE)
			  RETURNING ` + directoryFields

	saved, err := scanDirectory(r.db.QueryRow(ctx, query,
		dir.UUID, dir.ParentUUID, dir.Path, dir.Type, dir.OwnerUUID, dir.UploaderUUID,
	))
	if err != nil {
		return model.Directory{}, fmt.Errorf("failed to create directory: %w", err)
	}

	return saved, nil
}

// GetByUUID returns the single directory with the uuid. Zero rows maps to
// ErrNotFound, more than one to ErrIntegrity.
func (r *DirectoryRepository) GetByUUID(ctx context.Context, uuid string) (model.Directory, error) {
	query := `SELECT ` + directoryFields + ` FROM directories WHERE uuid = $1 LIMIT 2`

	rows, err := r.db.Query(ctx, query, uuid)
	if err != nil {
		return model.Directory{}, fmt.Errorf("failed to get directory by uuid: %w", err)
	}
	defer rows.Close()

	var dirs []model.Directory
	for rows.Next() {
		dir, err := scanDirectory(rows)
		if err != nil {
			return model.Directory{}, fmt.Errorf("failed to scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}
	if err := rows.Err(); err != nil {
		return model.Directory{}, err
	}

	switch len(dirs) {
	case 0:
		return model.Directory{}, model.ErrNotFound
	case 1:
		return dirs[0], nil
	default:
		return model.Directory{}, model.ErrIntegrity
	}
}

func (r *DirectoryRepository) GetByUUIDs(ctx context.Context, uuids []string) ([]model.Directory, error) {
	query := `SELECT ` + directoryFields + ` FROM directories WHERE uuid = ANY($1) ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, uuids)
	if err != nil {
		return nil, fmt.Errorf("failed to get directories by uuids: %w", err)
	}
	defer rows.Close()

	var dirs []model.Directory
	for rows.Next() {
		dir, err := scanDirectory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dirs, nil
}

func (r *DirectoryRepository) GetRootByOwner(ctx context.Context, ownerUUID string) (model.Directory, error) {
	query := `SELECT ` + directoryFields + `
			  FROM directories
			  WHERE owner_uuid = $1 AND parent_uuid IS NULL AND NOT deleted
			  LIMIT 2`

	rows, err := r.db.Query(ctx, query, ownerUUID)
	if err != nil {
		return model.Directory{}, fmt.Errorf("failed to get root directory: %w", err)
	}
	defer rows.Close()

	var dirs []model.Directory
	for rows.Next() {
		dir, err := scanDirectory(rows)
		if err != nil {
			return model.Directory{}, fmt.Errorf("failed to scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}
	if err := rows.Err(); err != nil {
		return model.Directory{}, err
	}

	switch len(dirs) {
	case 0:
		return model.Directory{}, model.ErrNotFound
	case 1:
		return dirs[0], nil
	default:
		return model.Directory{}, model.ErrIntegrity
	}
}

func (r *DirectoryRepository) GetRootsByOwners(ctx context.Context, ownerUUIDs []string) ([]model.Directory, error) {
	query := `SELECT ` + directoryFields + `
			  FROM directories
			  WHERE owner_uuid = ANY($1) AND parent_uuid IS NULL AND NOT deleted
			  ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, ownerUUIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get root directories: %w", err)
	}
	defer rows.Close()

	var dirs []model.Directory
	for rows.Next() {
		dir, err := scanDirectory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dirs, nil
}

func (r *DirectoryRepository) ExistsUUID(ctx context.Context, uuid string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM directories WHERE uuid = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, uuid).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check directory uuid: %w", err)
	}

	return exists, nil
}

func (r *DirectoryRepository) SetVisibility(ctx context.Context, uuid string, visible bool, byUUID *string, at *time.Time) error {
	const query = `UPDATE directories
				   SET visible = $2, visibility_off_at = $3, visibility_off_by = $4
				   WHERE uuid = $1 AND NOT deleted`

	cmd, err := r.db.Exec(ctx, query, uuid, visible, at, byUUID)
	if err != nil {
		return fmt.Errorf("failed to set directory visibility: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *DirectoryRepository) SoftDelete(ctx context.Context, uuid string, byUUID string, at time.Time) error {
	const query = `UPDATE directories
				   SET deleted = TRUE, deleted_at = $3, deleted_by = $2
				   WHERE uuid = $1 AND NOT deleted`

	cmd, err := r.db.Exec(ctx, query, uuid, byUUID, at)
	if err != nil {
		return fmt.Errorf("failed to soft delete directory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *DirectoryRepository) List(ctx context.Context, q model.ListQuery) ([]model.Directory, int64, error) {
	b := &whereBuilder{}
	applyListQuery(b, q)
	applyFilters(b, directoryColumns, q.Filters)
	where := b.clause()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM directories`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count directories: %w", err)
	}

	query := `SELECT ` + directoryFields + ` FROM directories` + where +
		orderClause(directoryColumns, q.Sorts) + pageClause(b, q.Page)

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list directories: %w", err)
	}
	defer rows.Close()

	var dirs []model.Directory
	for rows.Next() {
		dir, err := scanDirectory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return dirs, total, nil
}
