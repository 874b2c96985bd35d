// Package api exposes the recipe-sharing service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"foodgram/internal/auth"
	"foodgram/internal/recipe"
	"foodgram/internal/storage"
	"foodgram/internal/user"
)

// Server holds the API server state.
type Server struct {
	users    *user.Repository
	recipes  *recipe.Repository
	media    *storage.MediaStore
	tokens   *auth.Manager
	baseURL  string
	log      *zap.Logger
	metrics  *Metrics
	registry *prometheus.Registry
}

// NewServer creates a new API server.
func NewServer(
	users *user.Repository,
	recipes *recipe.Repository,
	media *storage.MediaStore,
	tokens *auth.Manager,
	baseURL string,
	log *zap.Logger,
) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		users:    users,
		recipes:  recipes,
		media:    media,
		tokens:   tokens,
		baseURL:  baseURL,
		log:      log,
		metrics:  NewMetrics(registry),
		registry: registry,
	}
}

// Router builds the chi router with all routes configured.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.withAuth)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/s/{token}", s.handleShortLink)

	fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(s.media.Dir())))
	r.Get("/media/*", fileServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth/token", func(r chi.Router) {
			r.Post("/login/", s.handleLogin)
			r.Post("/logout/", requireAuth(s.handleLogout))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleRegister)
			r.Get("/me/", requireAuth(s.handleCurrentUser))
			r.Put("/me/avatar/", requireAuth(s.handleSetAvatar))
			r.Delete("/me/avatar/", requireAuth(s.handleDeleteAvatar))
			r.Get("/subscriptions/", requireAuth(s.handleListSubscriptions))
			r.Get("/{id}/", s.handleGetUser)
			r.Post("/{id}/subscribe/", requireAuth(s.handleSubscribe))
			r.Delete("/{id}/subscribe/", requireAuth(s.handleUnsubscribe))
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", s.handleListIngredients)
			r.Get("/{id}/", s.handleGetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.handleListRecipes)
			r.Post("/", requireAuth(s.handleCreateRecipe))
			r.Get("/download_shopping_cart", requireAuth(s.handleDownloadShoppingCart))
			r.Get("/{id}/", s.handleGetRecipe)
			r.Patch("/{id}/", requireAuth(s.handleUpdateRecipe))
			r.Delete("/{id}/", requireAuth(s.handleDeleteRecipe))
			r.Get("/{id}/get-link/", s.handleGetLink)
			r.Post("/{id}/favorite/", requireAuth(s.markHandler(markCreate, markFavorite)))
			r.Delete("/{id}/favorite/", requireAuth(s.markHandler(markDelete, markFavorite)))
			r.Post("/{id}/shopping_cart/", requireAuth(s.markHandler(markCreate, markCart)))
			r.Delete("/{id}/shopping_cart/", requireAuth(s.markHandler(markDelete, markCart)))
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// serverError logs the failure and hides it behind a generic 500.
func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error("internal error", zap.Error(err))
	sendError(w, "Внутренняя ошибка сервера.", http.StatusInternalServerError)
}
