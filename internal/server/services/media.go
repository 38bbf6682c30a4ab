package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan/internal/blob"
	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/logging"
	"github.com/wayplan/wayplan/internal/server/models"
	"github.com/wayplan/wayplan/internal/server/repositories/repomanager"
)

// MediaService owns the folder and file semantics. Blob operations
// always come before the matching metadata write, so a failure leaves
// at worst an unreferenced blob and never a row pointing at nothing.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       blob.Store
	pub         feed.Publisher
	logger      logging.Logger

	// now is replaceable in tests to make storage keys deterministic.
	now func() time.Time
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, store blob.Store, pub feed.Publisher, logger logging.Logger) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: m,
		store:       store,
		pub:         pub,
		logger:      logger,
		now:         time.Now,
	}
}

// Directory is a full snapshot of the user's media tree.
type Directory struct {
	Folders []*models.Folder
	Files   []*models.File
}

func (s *MediaService) ListDirectory(ctx context.Context, owner string) (*Directory, error) {
	folders, err := s.repomanager.Folders(s.db).ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing folders: %v", err)
	}

	files, err := s.repomanager.Files(s.db).ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %v", err)
	}

	return &Directory{Folders: folders, Files: files}, nil
}

func (s *MediaService) CreateFolder(ctx context.Context, owner, name string, parentID *string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name cannot be empty", common.ErrValidation)
	}

	repo := s.repomanager.Folders(s.db)

	if parentID != nil {
		parent, err := repo.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent folder does not exist", common.ErrValidation)
			}
			return nil, fmt.Errorf("error checking parent folder: %v", err)
		}
		if parent.UserID != owner {
			return nil, common.ErrNotFound
		}
	}

	folder := &models.Folder{
		ID:       uuid.NewString(),
		Name:     name,
		ParentID: parentID,
		UserID:   owner,
	}

	if err := repo.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("error creating folder: %v", err)
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableFolders, Kind: feed.KindInserted,
		ID: folder.ID, Folder: folder, OwnerID: owner,
	})

	return folder, nil
}

// Upload writes the blob first and inserts the metadata row only after
// the blob write succeeded. A row insert failure triggers a best-effort
// blob delete; if that also fails the stray blob is reported as
// ErrOrphanedRow.
func (s *MediaService) Upload(ctx context.Context, owner string, folderID *string, name string, size int64, r io.Reader) (*models.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: file name cannot be empty", common.ErrValidation)
	}

	folderName := ""
	if folderID != nil {
		folder, err := s.repomanager.Folders(s.db).GetByID(ctx, *folderID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("%w: folder does not exist", common.ErrValidation)
			}
			return nil, fmt.Errorf("error checking folder: %v", err)
		}
		if folder.UserID != owner {
			return nil, common.ErrNotFound
		}
		folderName = folder.Name
	}

	key := blob.NewStorageKey(owner, folderName, name, s.now())

	if err := s.store.Put(ctx, key, r, size); err != nil {
		return nil, err
	}

	file := &models.File{
		ID:         uuid.NewString(),
		Name:       name,
		FolderID:   folderID,
		StorageKey: key,
		UserID:     owner,
	}
	if size >= 0 {
		file.SizeBytes = &size
	}

	if err := s.repomanager.Files(s.db).Create(ctx, file); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error(ctx, "stray blob after failed metadata insert", "key", key, "error", delErr)
			return nil, fmt.Errorf("%w: insert failed and blob %s not cleaned up: %v", common.ErrOrphanedRow, key, err)
		}
		return nil, fmt.Errorf("error creating file row: %v", err)
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableFiles, Kind: feed.KindInserted,
		ID: file.ID, File: file, OwnerID: owner,
	})

	return file, nil
}

// RenameFile is a no-op when the new name is empty or unchanged. The
// blob moves first; a metadata failure after a successful move is
// surfaced as ErrOrphanedRow instead of being retried.
func (s *MediaService) RenameFile(ctx context.Context, owner, fileID, newName string) (*models.File, error) {
	newName = strings.TrimSpace(newName)

	repo := s.repomanager.Files(s.db)

	file, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != owner {
		return nil, common.ErrNotFound
	}

	if newName == "" || newName == file.Name {
		return file, nil
	}

	newKey := blob.RenamedKey(file.StorageKey, newName, s.now())

	if err := s.store.Move(ctx, file.StorageKey, newKey); err != nil {
		return nil, err
	}

	if err := repo.Rename(ctx, fileID, owner, newName, newKey); err != nil {
		s.logger.Error(ctx, "row update failed after blob move", "file_id", fileID, "new_key", newKey, "error", err)
		return nil, fmt.Errorf("%w: blob moved to %s but row not updated: %v", common.ErrOrphanedRow, newKey, err)
	}

	file.Name = newName
	file.StorageKey = newKey

	s.pub.Publish(feed.Event{
		Table: feed.TableFiles, Kind: feed.KindUpdated,
		ID: file.ID, File: file, OwnerID: owner,
	})

	return file, nil
}

// DeleteFile removes the blob first, then the row.
func (s *MediaService) DeleteFile(ctx context.Context, owner, fileID string) error {
	repo := s.repomanager.Files(s.db)

	file, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.UserID != owner {
		return common.ErrNotFound
	}

	if err := s.store.Delete(ctx, file.StorageKey); err != nil {
		return err
	}

	if err := repo.Delete(ctx, fileID, owner); err != nil {
		s.logger.Error(ctx, "row delete failed after blob removal", "file_id", fileID, "error", err)
		return fmt.Errorf("%w: blob %s removed but row remains: %v", common.ErrOrphanedRow, file.StorageKey, err)
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableFiles, Kind: feed.KindDeleted,
		ID: fileID, OwnerID: owner,
	})

	return nil
}

// DeleteFolder refuses to delete a folder that still contains child
// folders or files.
func (s *MediaService) DeleteFolder(ctx context.Context, owner, folderID string) error {
	folderRepo := s.repomanager.Folders(s.db)

	folder, err := folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.UserID != owner {
		return common.ErrNotFound
	}

	childFolders, err := folderRepo.CountChildren(ctx, folderID)
	if err != nil {
		return fmt.Errorf("error counting child folders: %v", err)
	}
	childFiles, err := s.repomanager.Files(s.db).CountByFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("error counting folder files: %v", err)
	}
	if childFolders > 0 || childFiles > 0 {
		return common.ErrFolderNotEmpty
	}

	if err := folderRepo.Delete(ctx, folderID, owner); err != nil {
		return err
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableFolders, Kind: feed.KindDeleted,
		ID: folderID, OwnerID: owner,
	})

	return nil
}
