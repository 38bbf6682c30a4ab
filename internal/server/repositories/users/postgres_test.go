package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

func TestCreate_AssignsIDAndScansCreatedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`^INSERT\s+INTO\s+users\b.*RETURNING created_at$`).
		WithArgs(sqlmock.AnyArg(), "alice", []byte("hash")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	u, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: []byte("hash")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if !u.CreatedAt.Equal(now) {
		t.Fatalf("created_at not scanned")
	}
}

func TestCreate_DuplicateLogin(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^INSERT\s+INTO\s+users\b`).
		WithArgs(sqlmock.AnyArg(), "alice", []byte("hash")).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: []byte("hash")})
	if !errors.Is(err, common.ErrLoginAlreadyExists) {
		t.Fatalf("want ErrLoginAlreadyExists, got %v", err)
	}
}

func TestGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT .* FROM users WHERE username=\$1$`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
