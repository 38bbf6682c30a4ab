package folders

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

// PostgresRepository implements folder storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const folderColumns = "id, name, parent_id, public_share_id, user_id, created_at"

func scanFolder(row interface{ Scan(...any) error }) (*models.Folder, error) {
	var f models.Folder
	if err := row.Scan(&f.ID, &f.Name, &f.ParentID, &f.PublicShareID, &f.UserID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO media_folders (id, name, parent_id, user_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, folder.ID, folder.Name, folder.ParentID, folder.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM media_folders WHERE id=$1`
	f, err := scanFolder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select folder: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM media_folders WHERE user_id=$1 ORDER BY created_at`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListByShareToken(ctx context.Context, token string) ([]*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM media_folders WHERE public_share_id=$1 ORDER BY created_at`
	return r.list(ctx, query, token)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.Folder, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	var result []*models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
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

func (r *PostgresRepository) CountChildren(ctx context.Context, parentID string) (int, error) {
	query := `SELECT count(*) FROM media_folders WHERE parent_id=$1`
	var n int
	if err := r.db.QueryRowContext(ctx, query, parentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count child folders: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM media_folders WHERE id=$1 AND user_id=$2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
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
		`UPDATE media_folders SET public_share_id=$1 WHERE user_id=$2 AND id IN (%s)`,
		strings.Join(placeholders, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to tag folders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return int(n), nil
}
