package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FolderIDs []string `json:"folder_ids"`
		FileIDs   []string `json:"file_ids"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	share, err := s.share.CreateShare(r.Context(), userID(r), req.FolderIDs, req.FileIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"token":      share.Token,
		"viewer_url": share.ViewerURL,
		"tagged":     share.Tagged,
	})
}

// handleResolveShare serves the public, unauthenticated share view.
func (s *Server) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	view, err := s.share.ResolveShare(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, view)
}
