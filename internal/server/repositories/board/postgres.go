package board

import (
	"context"
	"fmt"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/dbx"
	"github.com/wayplan/wayplan/internal/server/models"
)

// PostgresRepository implements board storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListStatuses(ctx context.Context, userID string) ([]*models.BoardStatus, error) {
	query := `SELECT id, title, position, user_id FROM board_statuses WHERE user_id=$1 ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select statuses: %w", err)
	}
	defer rows.Close()

	var result []*models.BoardStatus
	for rows.Next() {
		var s models.BoardStatus
		if err := rows.Scan(&s.ID, &s.Title, &s.Position, &s.UserID); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateStatus(ctx context.Context, status *models.BoardStatus) error {
	query := `INSERT INTO board_statuses (id, title, position, user_id) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, status.ID, status.Title, status.Position, status.UserID); err != nil {
		return fmt.Errorf("failed to create status: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, userID string) ([]*models.BoardItem, error) {
	query := `
		SELECT id, title, description, status_id, due_date, user_id, created_at
		FROM board_items WHERE user_id=$1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []*models.BoardItem
	for rows.Next() {
		var it models.BoardItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.StatusID, &it.DueDate, &it.UserID, &it.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *models.BoardItem) error {
	query := `
		INSERT INTO board_items (id, title, description, status_id, due_date, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, item.StatusID, item.DueDate, item.UserID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateItemStatus(ctx context.Context, id, userID string, statusID *string) error {
	query := `UPDATE board_items SET status_id=$1 WHERE id=$2 AND user_id=$3`
	res, err := r.db.ExecContext(ctx, query, statusID, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
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

func (r *PostgresRepository) DeleteItem(ctx context.Context, id, userID string) error {
	query := `DELETE FROM board_items WHERE id=$1 AND user_id=$2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
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
