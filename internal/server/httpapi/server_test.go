package httpapi

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/wayplan/wayplan/internal/blob"
	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/dbx"
	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/logging"
	"github.com/wayplan/wayplan/internal/server/config"
	"github.com/wayplan/wayplan/internal/server/models"
	boardrepo "github.com/wayplan/wayplan/internal/server/repositories/board"
	expensesrepo "github.com/wayplan/wayplan/internal/server/repositories/expenses"
	filesrepo "github.com/wayplan/wayplan/internal/server/repositories/files"
	foldersrepo "github.com/wayplan/wayplan/internal/server/repositories/folders"
	refreshtokensrepo "github.com/wayplan/wayplan/internal/server/repositories/refreshtokens"
	"github.com/wayplan/wayplan/internal/server/repositories/repomanager"
	usersrepo "github.com/wayplan/wayplan/internal/server/repositories/users"
	"github.com/wayplan/wayplan/internal/server/services"
)

// memRepoManager is an in-memory repository set backing the handler
// tests end to end.
type memRepoManager struct {
	mu sync.Mutex

	folders map[string]*models.Folder
	files   map[string]*models.File
	users   map[string]*models.User
	refresh map[string]*models.RefreshToken

	statuses []*models.BoardStatus
	items    map[string]*models.BoardItem
	budgets  []*models.Budget
	expenses map[string]*models.Expense
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		folders:  make(map[string]*models.Folder),
		files:    make(map[string]*models.File),
		users:    make(map[string]*models.User),
		refresh:  make(map[string]*models.RefreshToken),
		items:    make(map[string]*models.BoardItem),
		expenses: make(map[string]*models.Expense),
	}
}

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error            { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository                     { return (*memUsers)(m) }
func (m *memRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository     { return (*memRefresh)(m) }
func (m *memRepoManager) Folders(dbx.DBTX) foldersrepo.Repository                 { return (*memFolders)(m) }
func (m *memRepoManager) Files(dbx.DBTX) filesrepo.Repository                     { return (*memFiles)(m) }
func (m *memRepoManager) Board(dbx.DBTX) boardrepo.Repository                     { return (*memBoard)(m) }
func (m *memRepoManager) Expenses(dbx.DBTX) expensesrepo.Repository               { return (*memExpenses)(m) }

type memUsers memRepoManager

func (m *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserName == user.UserName {
			return nil, common.ErrLoginAlreadyExists
		}
	}
	cp := *user
	if cp.ID == "" {
		cp.ID = "user-" + user.UserName
	}
	m.users[cp.ID] = &cp
	return &cp, nil
}

func (m *memUsers) GetByLogin(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserName == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

type memRefresh memRepoManager

func (m *memRefresh) Add(ctx context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[token.Token] = token
	return nil
}

func (m *memRefresh) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.refresh[token]; ok {
		return t, nil
	}
	return nil, common.ErrNotFound
}

func (m *memRefresh) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refresh, token)
	return nil
}

type memFolders memRepoManager

func (m *memFolders) Create(ctx context.Context, folder *models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *folder
	m.folders[folder.ID] = &cp
	return nil
}

func (m *memFolders) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.folders[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (m *memFolders) ListByOwner(ctx context.Context, userID string) ([]*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Folder
	for _, f := range m.folders {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFolders) CountChildren(ctx context.Context, parentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, f := range m.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func (m *memFolders) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[id]
	if !ok || f.UserID != userID {
		return common.ErrNotFound
	}
	delete(m.folders, id)
	return nil
}

func (m *memFolders) TagShare(ctx context.Context, token, userID string, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if f, ok := m.folders[id]; ok && f.UserID == userID {
			f.PublicShareID = &token
			n++
		}
	}
	return n, nil
}

func (m *memFolders) ListByShareToken(ctx context.Context, token string) ([]*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Folder
	for _, f := range m.folders {
		if f.PublicShareID != nil && *f.PublicShareID == token {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memFiles memRepoManager

func (m *memFiles) Create(ctx context.Context, file *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *file
	m.files[file.ID] = &cp
	return nil
}

func (m *memFiles) GetByID(ctx context.Context, id string) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (m *memFiles) ListByOwner(ctx context.Context, userID string) ([]*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.File
	for _, f := range m.files {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFiles) CountByFolder(ctx context.Context, folderID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, f := range m.files {
		if f.FolderID != nil && *f.FolderID == folderID {
			n++
		}
	}
	return n, nil
}

func (m *memFiles) Rename(ctx context.Context, id, userID, newName, newStorageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != userID {
		return common.ErrNotFound
	}
	f.Name = newName
	f.StorageKey = newStorageKey
	return nil
}

func (m *memFiles) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != userID {
		return common.ErrNotFound
	}
	delete(m.files, id)
	return nil
}

func (m *memFiles) TagShare(ctx context.Context, token, userID string, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if f, ok := m.files[id]; ok && f.UserID == userID {
			f.PublicShareID = &token
			n++
		}
	}
	return n, nil
}

func (m *memFiles) ListByShareToken(ctx context.Context, token string) ([]*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.File
	for _, f := range m.files {
		if f.PublicShareID != nil && *f.PublicShareID == token {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memBoard memRepoManager

func (m *memBoard) ListStatuses(ctx context.Context, userID string) ([]*models.BoardStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.BoardStatus
	for _, s := range m.statuses {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memBoard) CreateStatus(ctx context.Context, status *models.BoardStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *memBoard) ListItems(ctx context.Context, userID string) ([]*models.BoardItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.BoardItem
	for _, i := range m.items {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memBoard) CreateItem(ctx context.Context, item *models.BoardItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *memBoard) UpdateItemStatus(ctx context.Context, id, userID string, statusID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.items[id]
	if !ok || i.UserID != userID {
		return common.ErrNotFound
	}
	i.StatusID = statusID
	return nil
}

func (m *memBoard) DeleteItem(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.items[id]
	if !ok || i.UserID != userID {
		return common.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memExpenses memRepoManager

func (m *memExpenses) ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memExpenses) CreateBudget(ctx context.Context, budget *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets = append(m.budgets, budget)
	return nil
}

func (m *memExpenses) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Expense
	for _, e := range m.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExpenses) CreateExpense(ctx context.Context, expense *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *memExpenses) DeleteExpense(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return common.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

// testEnv bundles a fully wired Server over in-memory dependencies.
type testEnv struct {
	server *Server
	rm     *memRepoManager
	store  *blob.MemStore
	hub    *feed.Hub
	mock   sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Transactions started by the share and refresh flows always commit
	// against the in-memory repositories.
	mock.MatchExpectationsInOrder(false)

	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		PublicBaseURL:                "http://localhost:8080",
		CORSAllowedOrigin:            "http://localhost:5173",
	}

	rm := newMemRepoManager()
	store := blob.NewMemStore()
	logger := logging.Discard()

	hub := feed.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	users := services.NewUserService(db, rm, cfg)
	media := services.NewMediaService(db, rm, store, hub, logger)
	share := services.NewShareService(db, rm, store, cfg.PublicBaseURL)
	board := services.NewBoardService(db, rm, hub)
	expenses := services.NewExpenseService(db, rm, hub)

	return &testEnv{
		server: New(logger, users, media, share, board, expenses, hub, cfg.CORSAllowedOrigin),
		rm:     rm,
		store:  store,
		hub:    hub,
		mock:   mock,
	}
}
