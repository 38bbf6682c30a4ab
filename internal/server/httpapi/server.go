// Package httpapi exposes the application services over REST and a
// WebSocket change feed.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/logging"
	"github.com/wayplan/wayplan/internal/server/services"
)

// Server wires the handlers to the services. It holds no global state;
// everything arrives through New.
type Server struct {
	logger   logging.Logger
	users    *services.UserService
	media    *services.MediaService
	share    *services.ShareService
	board    *services.BoardService
	expenses *services.ExpenseService
	hub      *feed.Hub

	corsAllowedOrigin string
}

func New(
	logger logging.Logger,
	users *services.UserService,
	media *services.MediaService,
	share *services.ShareService,
	board *services.BoardService,
	expenses *services.ExpenseService,
	hub *feed.Hub,
	corsAllowedOrigin string,
) *Server {
	return &Server{
		logger:            logger,
		users:             users,
		media:             media,
		share:             share,
		board:             board,
		expenses:          expenses,
		hub:               hub,
		corsAllowedOrigin: corsAllowedOrigin,
	}
}

// Routes builds the router. Register, login, refresh and the share
// viewer are public; everything else requires a bearer token.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.corsAllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/share/{token}", s.handleResolveShare)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.auth)

			r.Get("/feed", s.handleFeed)

			r.Get("/media", s.handleListDirectory)
			r.Post("/media/folders", s.handleCreateFolder)
			r.Delete("/media/folders/{id}", s.handleDeleteFolder)
			r.Post("/media/files", s.handleUpload)
			r.Put("/media/files/{id}/rename", s.handleRenameFile)
			r.Delete("/media/files/{id}", s.handleDeleteFile)
			r.Post("/media/share", s.handleCreateShare)

			r.Get("/board", s.handleBoardList)
			r.Post("/board/items", s.handleBoardAddItem)
			r.Put("/board/items/{id}/status", s.handleBoardMoveItem)
			r.Delete("/board/items/{id}", s.handleBoardRemoveItem)

			r.Get("/expenses", s.handleExpensesList)
			r.Get("/expenses/summary", s.handleExpensesSummary)
			r.Post("/expenses/budgets", s.handleAddBudget)
			r.Post("/expenses", s.handleAddExpense)
			r.Delete("/expenses/{id}", s.handleRemoveExpense)
		})
	})

	return r
}
