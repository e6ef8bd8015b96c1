package router

import (
	"net/http"

	"github.com/Jayeshfarkunde27/To-let/internal/adapter/http/handler"
	"github.com/Jayeshfarkunde27/To-let/internal/adapter/http/middleware"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/metrics"
	"github.com/Jayeshfarkunde27/To-let/internal/user/entity"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// New assembles the HTTP routes. Browsing and chat are public; posting
// listings and uploading photos require the owner role.
func New(
	userHandler *handler.UserHandler,
	propertyHandler *handler.PropertyHandler,
	chatHandler *handler.ChatHandler,
	mm *metrics.MetricsManager,
	jwtSecret string,
	log *logger.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Tracing("tolet"))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(mm))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.JWTAuth(jwtSecret, log))
		auth.Post("/api/auth/logout", userHandler.Logout)
		auth.Get("/api/users/me", userHandler.GetProfile)
		auth.Post("/api/users/role", userHandler.SelectRole)
	})

	r.Get("/api/properties", propertyHandler.List)
	r.Get("/api/properties/{id}", propertyHandler.Get)

	r.Group(func(owner chi.Router) {
		owner.Use(middleware.JWTAuth(jwtSecret, log))
		owner.Use(middleware.RequireRole(string(entity.RoleOwner)))
		owner.Post("/api/properties", propertyHandler.Create)
		owner.Post("/api/properties/{id}/photos", propertyHandler.UploadPhoto)
		owner.Get("/api/owner/properties", propertyHandler.ListOwned)
		owner.Post("/api/assistant/describe", chatHandler.Describe)
	})

	r.Post("/api/chat/sessions", chatHandler.StartSession)
	r.Get("/api/chat/sessions/{id}", chatHandler.GetTranscript)
	r.Delete("/api/chat/sessions/{id}", chatHandler.EndSession)
	r.Post("/api/chat/sessions/{id}/messages", chatHandler.SendMessage)

	return r
}
