package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/server/models"
	"github.com/wayplan/wayplan/internal/server/repositories/repomanager"
)

var defaultStatusTitles = []string{"Pending", "In Progress", "Completed"}

// BoardService manages the task board: status columns and cards.
type BoardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	pub         feed.Publisher
}

func NewBoardService(db *sql.DB, m repomanager.RepositoryManager, pub feed.Publisher) *BoardService {
	return &BoardService{db: db, repomanager: m, pub: pub}
}

// Board is a snapshot of the user's columns and cards.
type Board struct {
	Statuses []*models.BoardStatus
	Items    []*models.BoardItem
}

// EnsureDefaultStatuses seeds Pending / In Progress / Completed for a
// user who has no columns yet, and returns the columns either way.
func (s *BoardService) EnsureDefaultStatuses(ctx context.Context, owner string) ([]*models.BoardStatus, error) {
	repo := s.repomanager.Board(s.db)

	statuses, err := repo.ListStatuses(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing statuses: %v", err)
	}
	if len(statuses) > 0 {
		return statuses, nil
	}

	for i, title := range defaultStatusTitles {
		status := &models.BoardStatus{
			ID:       uuid.NewString(),
			Title:    title,
			Position: i,
			UserID:   owner,
		}
		if err := repo.CreateStatus(ctx, status); err != nil {
			return nil, fmt.Errorf("error seeding status %q: %v", title, err)
		}
		statuses = append(statuses, status)
		s.pub.Publish(feed.Event{
			Table: feed.TableBoardStatuses, Kind: feed.KindInserted,
			ID: status.ID, Payload: status, OwnerID: owner,
		})
	}

	return statuses, nil
}

func (s *BoardService) List(ctx context.Context, owner string) (*Board, error) {
	statuses, err := s.EnsureDefaultStatuses(ctx, owner)
	if err != nil {
		return nil, err
	}

	items, err := s.repomanager.Board(s.db).ListItems(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing board items: %v", err)
	}

	return &Board{Statuses: statuses, Items: items}, nil
}

// AddItem creates a card. With no explicit status the card lands in the
// first column.
func (s *BoardService) AddItem(ctx context.Context, owner, title string, description *string, statusID *string, dueDate *time.Time) (*models.BoardItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: item title cannot be empty", common.ErrValidation)
	}

	if statusID == nil {
		statuses, err := s.EnsureDefaultStatuses(ctx, owner)
		if err != nil {
			return nil, err
		}
		statusID = &statuses[0].ID
	}

	item := &models.BoardItem{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		StatusID:    statusID,
		DueDate:     dueDate,
		UserID:      owner,
	}

	if err := s.repomanager.Board(s.db).CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("error creating board item: %v", err)
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableBoardItems, Kind: feed.KindInserted,
		ID: item.ID, Payload: item, OwnerID: owner,
	})

	return item, nil
}

// MoveItem places a card in another column.
func (s *BoardService) MoveItem(ctx context.Context, owner, itemID string, statusID *string) error {
	if err := s.repomanager.Board(s.db).UpdateItemStatus(ctx, itemID, owner, statusID); err != nil {
		return err
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableBoardItems, Kind: feed.KindUpdated,
		ID: itemID, Payload: map[string]*string{"status_id": statusID}, OwnerID: owner,
	})

	return nil
}

func (s *BoardService) RemoveItem(ctx context.Context, owner, itemID string) error {
	if err := s.repomanager.Board(s.db).DeleteItem(ctx, itemID, owner); err != nil {
		return err
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableBoardItems, Kind: feed.KindDeleted,
		ID: itemID, OwnerID: owner,
	})

	return nil
}
