package media

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/server/models"
)

// fakeBackend is an in-memory Backend with per-operation error
// injection.
type fakeBackend struct {
	mu      sync.Mutex
	folders map[string]*models.Folder
	files   map[string]*models.File
	nextID  int

	events chan feed.Event

	createFolderErr error
	deleteFolderErr error
	uploadErr       map[string]error
	renameErr       error
	deleteFileErr   map[string]error
	shareErr        error

	shares [][2][]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		folders:       make(map[string]*models.Folder),
		files:         make(map[string]*models.File),
		events:        make(chan feed.Event, 16),
		uploadErr:     make(map[string]error),
		deleteFileErr: make(map[string]error),
	}
}

func (b *fakeBackend) id(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s-%d", prefix, b.nextID)
}

func (b *fakeBackend) Snapshot(ctx context.Context) ([]*models.Folder, []*models.File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var folders []*models.Folder
	for _, f := range b.folders {
		cp := *f
		folders = append(folders, &cp)
	}
	var files []*models.File
	for _, f := range b.files {
		cp := *f
		files = append(files, &cp)
	}
	return folders, files, nil
}

func (b *fakeBackend) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.createFolderErr != nil {
		return nil, b.createFolderErr
	}
	folder := &models.Folder{
		ID: b.id("d"), Name: name, ParentID: parentID,
		UserID: "u1", CreatedAt: time.Now(),
	}
	b.folders[folder.ID] = folder
	cp := *folder
	return &cp, nil
}

func (b *fakeBackend) DeleteFolder(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteFolderErr != nil {
		return b.deleteFolderErr
	}
	delete(b.folders, id)
	return nil
}

func (b *fakeBackend) Upload(ctx context.Context, folderID *string, name string, size int64, r io.Reader) (*models.File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.uploadErr[name]; err != nil {
		return nil, err
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	file := &models.File{
		ID: b.id("f"), Name: name, FolderID: folderID,
		StorageKey: "u1/1_" + name, SizeBytes: &size,
		UserID: "u1", CreatedAt: time.Now(),
	}
	b.files[file.ID] = file
	cp := *file
	return &cp, nil
}

func (b *fakeBackend) RenameFile(ctx context.Context, id, newName string) (*models.File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renameErr != nil {
		return nil, b.renameErr
	}
	file, ok := b.files[id]
	if !ok {
		return nil, fmt.Errorf("no such file %s", id)
	}
	file.Name = newName
	file.StorageKey = "u1/2_" + newName
	cp := *file
	return &cp, nil
}

func (b *fakeBackend) DeleteFile(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.deleteFileErr[id]; err != nil {
		return err
	}
	delete(b.files, id)
	return nil
}

func (b *fakeBackend) CreateShare(ctx context.Context, folderIDs, fileIDs []string) (*ShareLink, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.shareErr != nil {
		return nil, b.shareErr
	}
	b.shares = append(b.shares, [2][]string{folderIDs, fileIDs})
	return &ShareLink{Token: "tok-1", ViewerURL: "http://localhost:8080/share/tok-1"}, nil
}

func (b *fakeBackend) SubscribeFeed(ctx context.Context) (<-chan feed.Event, error) {
	return b.events, nil
}
