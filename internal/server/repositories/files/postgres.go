package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/dbx"
	"github.com/wayplan/wayplan/internal/server/models"
)

// PostgresRepository implements file-metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = "id, name, folder_id, storage_key, size_bytes, public_share_id, user_id, created_at"

func scanFile(row interface{ Scan(...any) error }) (*models.File, error) {
	var f models.File
	if err := row.Scan(&f.ID, &f.Name, &f.FolderID, &f.StorageKey, &f.SizeBytes, &f.PublicShareID, &f.UserID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO media_files (id, name, folder_id, storage_key, size_bytes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.Name, file.FolderID, file.StorageKey, file.SizeBytes, file.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM media_files WHERE id=$1`
	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM media_files WHERE user_id=$1 ORDER BY created_at`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListByShareToken(ctx context.Context, token string) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM media_files WHERE public_share_id=$1 ORDER BY created_at`
	return r.list(ctx, query, token)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.File, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByFolder(ctx context.Context, folderID string) (int, error) {
	query := `SELECT count(*) FROM media_files WHERE folder_id=$1`
	var n int
	if err := r.db.QueryRowContext(ctx, query, folderID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id, userID, newName, newStorageKey string) error {
	query := `UPDATE media_files SET name=$1, storage_key=$2 WHERE id=$3 AND user_id=$4`
	res, err := r.db.ExecContext(ctx, query, newName, newStorageKey, id, userID)
	if err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM media_files WHERE id=$1 AND user_id=$2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) TagShare(ctx context.Context, token, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := []any{token, userID}
	placeholders := make([]string, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`UPDATE media_files SET public_share_id=$1 WHERE user_id=$2 AND id IN (%s)`,
		strings.Join(placeholders, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to tag files: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return int(n), nil
}
