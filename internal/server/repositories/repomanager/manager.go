package repomanager

import (
	"context"
	"database/sql"

	"github.com/wayplan/wayplan/internal/dbx"
	"github.com/wayplan/wayplan/internal/server/repositories/board"
	"github.com/wayplan/wayplan/internal/server/repositories/expenses"
	"github.com/wayplan/wayplan/internal/server/repositories/files"
	"github.com/wayplan/wayplan/internal/server/repositories/folders"
	"github.com/wayplan/wayplan/internal/server/repositories/refreshtokens"
	"github.com/wayplan/wayplan/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX,
// so services can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
	Board(db dbx.DBTX) board.Repository
	Expenses(db dbx.DBTX) expenses.Repository
}
