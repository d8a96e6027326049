package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/zenstellar/backend/internal/handler/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/handler/fortune"
	"github.com/zhouzirui/zenstellar/backend/internal/handler/inspiration"
	"github.com/zhouzirui/zenstellar/backend/internal/handler/zen"
	middlewarePkg "github.com/zhouzirui/zenstellar/backend/internal/middleware"
	"github.com/zhouzirui/zenstellar/backend/internal/model/zodiac"
	aiService "github.com/zhouzirui/zenstellar/backend/internal/service/ai"
	chatService "github.com/zhouzirui/zenstellar/backend/internal/service/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/service/sage"
	zenService "github.com/zhouzirui/zenstellar/backend/internal/service/zen"
	"github.com/zhouzirui/zenstellar/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(signs zodiac.Store, chatSvc *chatService.Service, sageSvc *sage.Sage, aiClient *aiService.Client, zenSvc *zenService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(chatSvc, sageSvc)
	fortuneHandler := fortune.New(signs, aiClient)
	inspirationHandler := inspiration.New(aiClient)
	zenHandler := zen.New(zenSvc)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"status":       "ok",
				"aiConfigured": aiClient.Configured(),
			})
		})

		chatHandler.RegisterRoutes(api)
		fortuneHandler.RegisterRoutes(api)
		inspirationHandler.RegisterRoutes(api)
		zenHandler.RegisterRoutes(api)
	})

	return r
}
