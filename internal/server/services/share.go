package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan/internal/blob"
	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/dbx"
	"github.com/wayplan/wayplan/internal/server/models"
	"github.com/wayplan/wayplan/internal/server/repositories/repomanager"
)

// ShareService mints public share tokens. Sharing tags exactly the
// selected rows; a shared folder does not implicitly share the files
// inside it.
type ShareService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	store         blob.Store
	publicBaseURL string
}

func NewShareService(db *sql.DB, m repomanager.RepositoryManager, store blob.Store, publicBaseURL string) *ShareService {
	return &ShareService{db: db, repomanager: m, store: store, publicBaseURL: publicBaseURL}
}

// Share is the result of minting a token.
type Share struct {
	Token     string
	ViewerURL string
	Tagged    int
}

// SharedFile is one file row visible through a share link.
type SharedFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SizeBytes *int64 `json:"size_bytes,omitempty"`
	URL       string `json:"url"`
}

// ShareView is everything a share token resolves to.
type ShareView struct {
	Token   string           `json:"token"`
	Folders []*models.Folder `json:"folders"`
	Files   []*SharedFile    `json:"files"`
}

// CreateShare tags every selected row with one fresh token inside a
// single transaction, so a link never points at a half-tagged
// selection.
func (s *ShareService) CreateShare(ctx context.Context, owner string, folderIDs, fileIDs []string) (*Share, error) {
	if len(folderIDs) == 0 && len(fileIDs) == 0 {
		return nil, fmt.Errorf("%w: nothing selected to share", common.ErrValidation)
	}

	token := uuid.NewString()
	tagged := 0

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if len(folderIDs) > 0 {
			n, err := s.repomanager.Folders(tx).TagShare(ctx, token, owner, folderIDs)
			if err != nil {
				return fmt.Errorf("error tagging folders: %v", err)
			}
			tagged += n
		}
		if len(fileIDs) > 0 {
			n, err := s.repomanager.Files(tx).TagShare(ctx, token, owner, fileIDs)
			if err != nil {
				return fmt.Errorf("error tagging files: %v", err)
			}
			tagged += n
		}
		if tagged == 0 {
			return common.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Share{
		Token:     token,
		ViewerURL: s.publicBaseURL + "/share/" + token,
		Tagged:    tagged,
	}, nil
}

// ResolveShare returns exactly the rows tagged with the token. No
// authentication; an unknown token is ErrNotFound.
func (s *ShareService) ResolveShare(ctx context.Context, token string) (*ShareView, error) {
	if token == "" {
		return nil, common.ErrNotFound
	}

	folders, err := s.repomanager.Folders(s.db).ListByShareToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error listing shared folders: %v", err)
	}

	files, err := s.repomanager.Files(s.db).ListByShareToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error listing shared files: %v", err)
	}

	if len(folders) == 0 && len(files) == 0 {
		return nil, common.ErrNotFound
	}

	view := &ShareView{Token: token, Folders: folders}
	for _, f := range files {
		view.Files = append(view.Files, &SharedFile{
			ID:        f.ID,
			Name:      f.Name,
			SizeBytes: f.SizeBytes,
			URL:       s.store.PublicURL(f.StorageKey),
		})
	}

	return view, nil
}
