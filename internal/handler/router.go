package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/startup-chat/backend/internal/handler/chat"
	middlewarePkg "github.com/zhouzirui/startup-chat/backend/internal/middleware"
	chatService "github.com/zhouzirui/startup-chat/backend/internal/service/chat"
	"github.com/zhouzirui/startup-chat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(frontendURL string, generator chat.Generator, store chatService.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(frontendURL))

	chatHandler := chat.New(generator, store)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "route not found")
	})

	return r
}
