package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayplan/wayplan/internal/server/models"
)

const maxUploadMemory = 32 << 20

type directoryResponse struct {
	Folders []*models.Folder `json:"folders"`
	Files   []*models.File   `json:"files"`
}

func (s *Server) handleListDirectory(w http.ResponseWriter, r *http.Request) {
	dir, err := s.media.ListDirectory(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, directoryResponse{Folders: dir.Folders, Files: dir.Files})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		ParentID *string `json:"parent_id"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	folder, err := s.media.CreateFolder(r.Context(), userID(r), req.Name, req.ParentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, folder)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.media.DeleteFolder(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadItemResult struct {
	Name  string       `json:"name"`
	File  *models.File `json:"file,omitempty"`
	Error string       `json:"error,omitempty"`
}

// handleUpload accepts a multipart form with one or more "files" parts
// and an optional "folder_id" field. Each file is processed
// independently; one failure does not abort the rest. A mixed outcome
// is reported as 207 with per-item results.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed multipart form"})
		return
	}

	var folderID *string
	if v := r.FormValue("folder_id"); v != "" {
		folderID = &v
	}

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no files in request"})
		return
	}

	results := make([]uploadItemResult, 0, len(parts))
	failures := 0

	for _, part := range parts {
		result := uploadItemResult{Name: part.Filename}

		f, err := part.Open()
		if err != nil {
			result.Error = "unreadable file part"
			failures++
			results = append(results, result)
			continue
		}

		file, err := s.media.Upload(r.Context(), userID(r), folderID, part.Filename, part.Size, f)
		f.Close()
		if err != nil {
			result.Error = err.Error()
			failures++
		} else {
			result.File = file
		}
		results = append(results, result)
	}

	status := http.StatusCreated
	if failures > 0 {
		status = http.StatusMultiStatus
	}
	s.writeJSON(w, status, map[string]any{"results": results})
}

func (s *Server) handleRenameFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	file, err := s.media.RenameFile(r.Context(), userID(r), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, file)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.media.DeleteFile(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
