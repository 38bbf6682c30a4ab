package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	size := int64(10)
	folder := "f1"

	mock.ExpectExec(`^INSERT\s+INTO\s+media_files\b`).
		WithArgs("x1", "map.pdf", "f1", "u1/Trip Docs/1700000000000_map.pdf", size, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.File{
		ID:         "x1",
		Name:       "map.pdf",
		FolderID:   &folder,
		StorageKey: "u1/Trip Docs/1700000000000_map.pdf",
		SizeBytes:  &size,
		UserID:     "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRename_UpdatesNameAndKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE media_files SET name=\$1, storage_key=\$2 WHERE id=\$3 AND user_id=\$4$`).
		WithArgs("plan.pdf", "u1/1700000000999_plan.pdf", "x1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Rename(context.Background(), "x1", "u1", "plan.pdf", "u1/1700000000999_plan.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRename_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE media_files SET name=`).
		WithArgs("plan.pdf", "k", "x9", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Rename(context.Background(), "x9", "u1", "plan.pdf", "k")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListByShareToken_ScansRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "folder_id", "storage_key", "size_bytes", "public_share_id", "user_id", "created_at"}).
		AddRow("x1", "map.pdf", nil, "u1/1_map.pdf", int64(10), "tok", "u1", now)

	mock.ExpectQuery(`^SELECT .* FROM media_files WHERE public_share_id=\$1 ORDER BY created_at$`).
		WithArgs("tok").
		WillReturnRows(rows)

	got, err := repo.ListByShareToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "map.pdf" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestCountByFolder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT count\(\*\) FROM media_files WHERE folder_id=\$1$`).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountByFolder(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3, got %d", n)
	}
}

func TestTagShare_BuildsPlaceholders(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE media_files SET public_share_id=\$1 WHERE user_id=\$2 AND id IN \(\$3\)$`).
		WithArgs("tok", "u1", "x1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.TagShare(context.Background(), "tok", "u1", []string{"x1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 row tagged, got %d", n)
	}
}
