package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wayplan/wayplan/internal/server/models"
)

type boardResponse struct {
	Statuses []*models.BoardStatus `json:"statuses"`
	Items    []*models.BoardItem   `json:"items"`
}

func (s *Server) handleBoardList(w http.ResponseWriter, r *http.Request) {
	board, err := s.board.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, boardResponse{Statuses: board.Statuses, Items: board.Items})
}

func (s *Server) handleBoardAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string     `json:"title"`
		Description *string    `json:"description"`
		StatusID    *string    `json:"status_id"`
		DueDate     *time.Time `json:"due_date"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	item, err := s.board.AddItem(r.Context(), userID(r), req.Title, req.Description, req.StatusID, req.DueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleBoardMoveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StatusID *string `json:"status_id"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.board.MoveItem(r.Context(), userID(r), chi.URLParam(r, "id"), req.StatusID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBoardRemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := s.board.RemoveItem(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
