package media

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/server/models"
)

// Origin records where an entry came from. Optimistic entries were
// applied locally from a write result and not yet observed on the
// change feed; confirmed entries came from a snapshot or a feed event.
type Origin int

const (
	OriginConfirmed Origin = iota
	OriginOptimistic
)

// FolderEntry is one folder in the model, tagged with its origin.
type FolderEntry struct {
	models.Folder
	Origin Origin
}

// FileEntry is one file in the model, tagged with its origin.
type FileEntry struct {
	models.File
	Origin Origin
}

// Upload describes one file handed to Directory.Upload.
type Upload struct {
	Name string
	Size int64
	Body func() (io.Reader, error)
}

// Directory is the client's view of the media tree. All state is
// guarded by one mutex; backend results and feed events are applied
// serially. After Close, late results are discarded instead of mutating
// a dead model.
type Directory struct {
	mu      sync.Mutex
	backend Backend

	folders map[string]*FolderEntry
	files   map[string]*FileEntry

	// current is the folder being viewed, nil at the root.
	current *string

	closed     bool
	onNavigate []func()
}

func NewDirectory(backend Backend) *Directory {
	return &Directory{
		backend: backend,
		folders: make(map[string]*FolderEntry),
		files:   make(map[string]*FileEntry),
	}
}

// Close marks the model unmounted. Subsequent mutations, including
// results of calls still in flight, are dropped.
func (d *Directory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// OnNavigate registers a callback fired after every navigation.
func (d *Directory) OnNavigate(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onNavigate = append(d.onNavigate, fn)
}

func (d *Directory) navigated() {
	for _, fn := range d.onNavigate {
		fn()
	}
}

// Load replaces the model with a fresh server snapshot.
func (d *Directory) Load(ctx context.Context) error {
	folders, files, err := d.backend.Snapshot(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}

	d.folders = make(map[string]*FolderEntry, len(folders))
	for _, f := range folders {
		d.folders[f.ID] = &FolderEntry{Folder: *f, Origin: OriginConfirmed}
	}
	d.files = make(map[string]*FileEntry, len(files))
	for _, f := range files {
		d.files[f.ID] = &FileEntry{File: *f, Origin: OriginConfirmed}
	}

	return nil
}

// CurrentFolder returns the folder being viewed, nil at the root.
func (d *Directory) CurrentFolder() *models.Folder {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return nil
	}
	if entry, ok := d.folders[*d.current]; ok {
		cp := entry.Folder
		return &cp
	}
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ChildFolders lists the folders inside the current folder, sorted by
// creation time then name.
func (d *Directory) ChildFolders() []*FolderEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*FolderEntry
	for _, entry := range d.folders {
		if sameParent(entry.ParentID, d.current) {
			cp := *entry
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ChildFiles lists the files inside the current folder, sorted by
// creation time then name.
func (d *Directory) ChildFiles() []*FileEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*FileEntry
	for _, entry := range d.files {
		if sameParent(entry.FolderID, d.current) {
			cp := *entry
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// EnterFolder navigates into a child of the current folder.
func (d *Directory) EnterFolder(id string) error {
	d.mu.Lock()
	entry, ok := d.folders[id]
	if !ok || !sameParent(entry.ParentID, d.current) {
		d.mu.Unlock()
		return common.ErrNotFound
	}
	d.current = &entry.ID
	d.mu.Unlock()

	d.navigated()
	return nil
}

// GoUp navigates to the parent folder. At the root it is a no-op.
func (d *Directory) GoUp() {
	d.mu.Lock()
	if d.current == nil {
		d.mu.Unlock()
		return
	}
	if entry, ok := d.folders[*d.current]; ok {
		d.current = entry.ParentID
	} else {
		d.current = nil
	}
	d.mu.Unlock()

	d.navigated()
}

// Breadcrumbs returns the path from the root to the current folder.
func (d *Directory) Breadcrumbs() []*models.Folder {
	d.mu.Lock()
	defer d.mu.Unlock()

	var path []*models.Folder
	cursor := d.current
	for cursor != nil {
		entry, ok := d.folders[*cursor]
		if !ok {
			break
		}
		cp := entry.Folder
		path = append([]*models.Folder{&cp}, path...)
		cursor = entry.ParentID
	}
	return path
}

// CreateFolder creates a folder inside the current folder. The entry is
// appended only after the server confirmed it.
func (d *Directory) CreateFolder(ctx context.Context, name string) (*FolderEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name cannot be empty", common.ErrValidation)
	}

	d.mu.Lock()
	parent := d.current
	d.mu.Unlock()

	folder, err := d.backend.CreateFolder(ctx, name, parent)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, nil
	}

	entry := &FolderEntry{Folder: *folder, Origin: OriginOptimistic}
	d.folders[folder.ID] = entry
	cp := *entry
	return &cp, nil
}

// UploadAll uploads into the current folder. One failed file does not
// abort the rest; the combined outcome is a PartialBatchError (nil when
// everything succeeded).
func (d *Directory) UploadAll(ctx context.Context, uploads []Upload) error {
	if len(uploads) == 0 {
		return fmt.Errorf("%w: nothing to upload", common.ErrValidation)
	}

	d.mu.Lock()
	folderID := d.current
	d.mu.Unlock()

	batch := &common.PartialBatchError{Total: len(uploads)}

	for _, up := range uploads {
		body, err := up.Body()
		if err != nil {
			batch.Failures = append(batch.Failures, common.BatchItemError{Name: up.Name, Err: err})
			continue
		}

		file, err := d.backend.Upload(ctx, folderID, up.Name, up.Size, body)
		if c, ok := body.(io.Closer); ok {
			c.Close()
		}
		if err != nil {
			batch.Failures = append(batch.Failures, common.BatchItemError{Name: up.Name, Err: err})
			continue
		}

		d.mu.Lock()
		if !d.closed {
			d.files[file.ID] = &FileEntry{File: *file, Origin: OriginOptimistic}
		}
		d.mu.Unlock()
	}

	return batch.ErrOrNil()
}

// RenameFile is a no-op when the new name is empty or unchanged.
func (d *Directory) RenameFile(ctx context.Context, id, newName string) error {
	newName = strings.TrimSpace(newName)

	d.mu.Lock()
	entry, ok := d.files[id]
	if !ok {
		d.mu.Unlock()
		return common.ErrNotFound
	}
	unchanged := newName == "" || newName == entry.Name
	d.mu.Unlock()

	if unchanged {
		return nil
	}

	file, err := d.backend.RenameFile(ctx, id, newName)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.files[id] = &FileEntry{File: *file, Origin: OriginOptimistic}
	return nil
}

func (d *Directory) DeleteFile(ctx context.Context, id string) error {
	if err := d.backend.DeleteFile(ctx, id); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	delete(d.files, id)
	return nil
}

// DeleteFolder pre-checks emptiness locally so the common case fails
// fast; the server enforces the same rule authoritatively.
func (d *Directory) DeleteFolder(ctx context.Context, id string) error {
	d.mu.Lock()
	for _, entry := range d.folders {
		if entry.ParentID != nil && *entry.ParentID == id {
			d.mu.Unlock()
			return common.ErrFolderNotEmpty
		}
	}
	for _, entry := range d.files {
		if entry.FolderID != nil && *entry.FolderID == id {
			d.mu.Unlock()
			return common.ErrFolderNotEmpty
		}
	}
	d.mu.Unlock()

	if err := d.backend.DeleteFolder(ctx, id); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	delete(d.folders, id)
	return nil
}

// FileByID returns a copy of the file entry.
func (d *Directory) FileByID(id string) (*FileEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.files[id]
	if !ok {
		return nil, false
	}
	cp := *entry
	return &cp, true
}

// FolderByID returns a copy of the folder entry.
func (d *Directory) FolderByID(id string) (*FolderEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.folders[id]
	if !ok {
		return nil, false
	}
	cp := *entry
	return &cp, true
}
