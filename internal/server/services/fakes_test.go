package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/dbx"
	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/server/models"
	boardrepo "github.com/wayplan/wayplan/internal/server/repositories/board"
	expensesrepo "github.com/wayplan/wayplan/internal/server/repositories/expenses"
	filesrepo "github.com/wayplan/wayplan/internal/server/repositories/files"
	foldersrepo "github.com/wayplan/wayplan/internal/server/repositories/folders"
	refreshtokensrepo "github.com/wayplan/wayplan/internal/server/repositories/refreshtokens"
	usersrepo "github.com/wayplan/wayplan/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []feed.Event
}

func (p *capturePublisher) Publish(e feed.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) all() []feed.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]feed.Event(nil), p.events...)
}

// --- in-memory repositories ---

type fakeFoldersRepo struct {
	rows      map[string]*models.Folder
	createErr error
	deleteErr error
	tagErr    error
}

func newFakeFoldersRepo() *fakeFoldersRepo {
	return &fakeFoldersRepo{rows: make(map[string]*models.Folder)}
}

func (f *fakeFoldersRepo) Create(ctx context.Context, folder *models.Folder) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *folder
	f.rows[folder.ID] = &cp
	return nil
}

func (f *fakeFoldersRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	folder, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *folder
	return &cp, nil
}

func (f *fakeFoldersRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Folder, error) {
	var out []*models.Folder
	for _, folder := range f.rows {
		if folder.UserID == userID {
			cp := *folder
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeFoldersRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	n := 0
	for _, folder := range f.rows {
		if folder.ParentID != nil && *folder.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFoldersRepo) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	folder, ok := f.rows[id]
	if !ok || folder.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeFoldersRepo) TagShare(ctx context.Context, token, userID string, ids []string) (int, error) {
	if f.tagErr != nil {
		return 0, f.tagErr
	}
	n := 0
	for _, id := range ids {
		if folder, ok := f.rows[id]; ok && folder.UserID == userID {
			folder.PublicShareID = &token
			n++
		}
	}
	return n, nil
}

func (f *fakeFoldersRepo) ListByShareToken(ctx context.Context, token string) ([]*models.Folder, error) {
	var out []*models.Folder
	for _, folder := range f.rows {
		if folder.PublicShareID != nil && *folder.PublicShareID == token {
			cp := *folder
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeFilesRepo struct {
	rows      map[string]*models.File
	createErr error
	renameErr error
	deleteErr error
	tagErr    error
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{rows: make(map[string]*models.File)}
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *file
	f.rows[file.ID] = &cp
	return nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	file, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFilesRepo) ListByOwner(ctx context.Context, userID string) ([]*models.File, error) {
	var out []*models.File
	for _, file := range f.rows {
		if file.UserID == userID {
			cp := *file
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeFilesRepo) CountByFolder(ctx context.Context, folderID string) (int, error) {
	n := 0
	for _, file := range f.rows {
		if file.FolderID != nil && *file.FolderID == folderID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFilesRepo) Rename(ctx context.Context, id, userID, newName, newStorageKey string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	file, ok := f.rows[id]
	if !ok || file.UserID != userID {
		return common.ErrNotFound
	}
	file.Name = newName
	file.StorageKey = newStorageKey
	return nil
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	file, ok := f.rows[id]
	if !ok || file.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeFilesRepo) TagShare(ctx context.Context, token, userID string, ids []string) (int, error) {
	if f.tagErr != nil {
		return 0, f.tagErr
	}
	n := 0
	for _, id := range ids {
		if file, ok := f.rows[id]; ok && file.UserID == userID {
			file.PublicShareID = &token
			n++
		}
	}
	return n, nil
}

func (f *fakeFilesRepo) ListByShareToken(ctx context.Context, token string) ([]*models.File, error) {
	var out []*models.File
	for _, file := range f.rows {
		if file.PublicShareID != nil && *file.PublicShareID == token {
			cp := *file
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeUsersRepo struct {
	byLogin   map[string]*models.User
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byLogin: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byLogin[user.UserName]; ok {
		return nil, common.ErrLoginAlreadyExists
	}
	cp := *user
	if cp.ID == "" {
		cp.ID = "user-" + user.UserName
	}
	f.byLogin[user.UserName] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByLogin(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.byLogin[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range f.byLogin {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeRefreshRepo struct {
	rows   map[string]*models.RefreshToken
	addErr error
	delErr error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{rows: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshRepo) Add(ctx context.Context, token *models.RefreshToken) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.rows[token.Token] = token
	return nil
}

func (f *fakeRefreshRepo) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.rows[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.rows, token)
	return nil
}

type fakeBoardRepo struct {
	statuses  []*models.BoardStatus
	items     map[string]*models.BoardItem
	createErr error
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{items: make(map[string]*models.BoardItem)}
}

func (f *fakeBoardRepo) ListStatuses(ctx context.Context, userID string) ([]*models.BoardStatus, error) {
	var out []*models.BoardStatus
	for _, s := range f.statuses {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBoardRepo) CreateStatus(ctx context.Context, status *models.BoardStatus) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeBoardRepo) ListItems(ctx context.Context, userID string) ([]*models.BoardItem, error) {
	var out []*models.BoardItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeBoardRepo) CreateItem(ctx context.Context, item *models.BoardItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeBoardRepo) UpdateItemStatus(ctx context.Context, id, userID string, statusID *string) error {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return common.ErrNotFound
	}
	item.StatusID = statusID
	return nil
}

func (f *fakeBoardRepo) DeleteItem(ctx context.Context, id, userID string) error {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeExpensesRepo struct {
	budgets   []*models.Budget
	expenses  map[string]*models.Expense
	createErr error
}

func newFakeExpensesRepo() *fakeExpensesRepo {
	return &fakeExpensesRepo{expenses: make(map[string]*models.Expense)}
}

func (f *fakeExpensesRepo) ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	var out []*models.Budget
	for _, b := range f.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeExpensesRepo) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.budgets = append(f.budgets, budget)
	return nil
}

func (f *fakeExpensesRepo) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	var out []*models.Expense
	for _, e := range f.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpensesRepo) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.expenses[expense.ID] = expense
	return nil
}

func (f *fakeExpensesRepo) DeleteExpense(ctx context.Context, id, userID string) error {
	e, ok := f.expenses[id]
	if !ok || e.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

// fakeRepoManager vends the same fakes regardless of the DBTX, which is
// enough for service-level tests.
type fakeRepoManager struct {
	folders  *fakeFoldersRepo
	files    *fakeFilesRepo
	users    *fakeUsersRepo
	refresh  *fakeRefreshRepo
	board    *fakeBoardRepo
	expenses *fakeExpensesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		folders:  newFakeFoldersRepo(),
		files:    newFakeFilesRepo(),
		users:    newFakeUsersRepo(),
		refresh:  newFakeRefreshRepo(),
		board:    newFakeBoardRepo(),
		expenses: newFakeExpensesRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error          { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository               { return m.users }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}
func (m *fakeRepoManager) Folders(db dbx.DBTX) foldersrepo.Repository   { return m.folders }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository       { return m.files }
func (m *fakeRepoManager) Board(db dbx.DBTX) boardrepo.Repository       { return m.board }
func (m *fakeRepoManager) Expenses(db dbx.DBTX) expensesrepo.Repository { return m.expenses }
