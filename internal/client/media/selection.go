package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wayplan/wayplan/internal/common"
)

// LongPressThreshold is how long a press must be held to enter
// selection mode.
const LongPressThreshold = 400 * time.Millisecond

// EntryKind discriminates what a selection id refers to.
type EntryKind int

const (
	KindFolder EntryKind = iota
	KindFile
)

// FileDetails is the per-file information shown by the details action.
type FileDetails struct {
	ID         string
	Name       string
	SizeBytes  *int64
	Owner      string
	StorageKey string
}

// Selection is the multi-select controller. It is a two-state machine:
// idle, where presses are ordinary activations, and selecting, entered
// by a long press or a secondary click. While selecting, presses toggle
// membership. Navigation and completed bulk actions clear the
// selection.
type Selection struct {
	mu  sync.Mutex
	dir *Directory

	active   bool
	selected map[string]EntryKind

	pressed   bool
	pressID   string
	pressKind EntryKind
	pressAt   time.Time

	// now is replaceable in tests.
	now func() time.Time
}

func NewSelection(dir *Directory) *Selection {
	s := &Selection{
		dir:      dir,
		selected: make(map[string]EntryKind),
		now:      time.Now,
	}
	dir.OnNavigate(s.Cancel)
	return s
}

// Active reports whether selection mode is on.
func (s *Selection) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Count returns the number of selected entries.
func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// IDs splits the selection into folder and file ids.
func (s *Selection) IDs() (folderIDs, fileIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, kind := range s.selected {
		if kind == KindFolder {
			folderIDs = append(folderIDs, id)
		} else {
			fileIDs = append(fileIDs, id)
		}
	}
	return folderIDs, fileIDs
}

// PressStart records the beginning of a press on an entry.
func (s *Selection) PressStart(id string, kind EntryKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = true
	s.pressID = id
	s.pressKind = kind
	s.pressAt = s.now()
}

// PressEnd completes a press. A hold of at least LongPressThreshold on
// the same entry enters selection mode with that entry selected and
// reports true. While already selecting, any press toggles the entry.
// A short press in idle mode is an ordinary activation and reports
// false.
func (s *Selection) PressEnd(id string, kind EntryKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasPressed := s.pressed && s.pressID == id
	held := s.now().Sub(s.pressAt)
	s.pressed = false

	if s.active {
		s.toggleLocked(id, kind)
		return true
	}

	if wasPressed && held >= LongPressThreshold {
		s.active = true
		s.selected[id] = kind
		return true
	}

	return false
}

// SecondaryClick enters selection mode directly (right click / context
// gesture) with the entry selected.
func (s *Selection) SecondaryClick(id string, kind EntryKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		s.toggleLocked(id, kind)
		return
	}
	s.active = true
	s.selected[id] = kind
}

// Toggle flips membership of an entry. Outside selection mode it is a
// no-op.
func (s *Selection) Toggle(id string, kind EntryKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.toggleLocked(id, kind)
}

func (s *Selection) toggleLocked(id string, kind EntryKind) {
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		// Deselecting the last entry leaves selection mode.
		if len(s.selected) == 0 {
			s.active = false
		}
		return
	}
	s.selected[id] = kind
}

// Cancel leaves selection mode and drops the selection.
func (s *Selection) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.selected = make(map[string]EntryKind)
}

// DeleteSelected deletes every selected entry, continuing past
// failures. The selection is cleared afterwards regardless of outcome;
// the combined result is a PartialBatchError (nil when all succeeded).
func (s *Selection) DeleteSelected(ctx context.Context) error {
	s.mu.Lock()
	targets := make(map[string]EntryKind, len(s.selected))
	for id, kind := range s.selected {
		targets[id] = kind
	}
	s.mu.Unlock()

	if len(targets) == 0 {
		return fmt.Errorf("%w: nothing selected", common.ErrValidation)
	}

	batch := &common.PartialBatchError{Total: len(targets)}

	for id, kind := range targets {
		var err error
		if kind == KindFolder {
			err = s.dir.DeleteFolder(ctx, id)
		} else {
			err = s.dir.DeleteFile(ctx, id)
		}
		if err != nil {
			batch.Failures = append(batch.Failures, common.BatchItemError{ID: id, Err: err})
		}
	}

	s.Cancel()
	return batch.ErrOrNil()
}

// RenameSelected renames the selection, which must be exactly one file.
func (s *Selection) RenameSelected(ctx context.Context, newName string) error {
	s.mu.Lock()
	var fileID string
	files := 0
	for id, kind := range s.selected {
		if kind == KindFile {
			fileID = id
			files++
		}
	}
	total := len(s.selected)
	s.mu.Unlock()

	if total != 1 || files != 1 {
		return fmt.Errorf("%w: rename needs exactly one selected file", common.ErrValidation)
	}

	if err := s.dir.RenameFile(ctx, fileID, newName); err != nil {
		return err
	}

	s.Cancel()
	return nil
}

// Details reports name, size, owner and storage key for each selected
// file. Selected folders have no details view and are skipped.
func (s *Selection) Details() []FileDetails {
	s.mu.Lock()
	ids := make([]string, 0, len(s.selected))
	for id, kind := range s.selected {
		if kind == KindFile {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()

	var out []FileDetails
	for _, id := range ids {
		entry, ok := s.dir.FileByID(id)
		if !ok {
			continue
		}
		out = append(out, FileDetails{
			ID:         entry.ID,
			Name:       entry.Name,
			SizeBytes:  entry.SizeBytes,
			Owner:      entry.UserID,
			StorageKey: entry.StorageKey,
		})
	}
	return out
}
