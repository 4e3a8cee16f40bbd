package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wordrush/internal/registry"
	"wordrush/internal/ws"
)

// SetupRoutes builds the router with the registry injected. staticDir is
// optional; when set, the frontend bundle is served with an index.html
// fallback.
func SetupRoutes(reg *registry.Registry, log *zap.Logger, staticDir string) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/api/health", Healthz)
	r.Get("/api/stats", Stats(reg))
	r.Get("/ws", ws.Handler(reg, log))

	if staticDir != "" {
		r.NotFound(SPA(staticDir))
	}
	return r
}
