// Package handler exposes the console over HTTP and websockets.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dispatch-console/internal/console/domain"
	"dispatch-console/internal/console/service"
	"dispatch-console/pkg/auth"
	"dispatch-console/pkg/logger"
	"dispatch-console/pkg/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 10 * time.Second

// OverviewSource computes the dashboard metrics.
type OverviewSource interface {
	Overview(ctx context.Context) (domain.Overview, error)
}

type Handler struct {
	log      logger.Logger
	jwt      *auth.JWTManager
	registry *service.Registry
	overview OverviewSource
	hub      *websocket.Hub
}

func New(log logger.Logger, jwt *auth.JWTManager, registry *service.Registry, overview OverviewSource, hub *websocket.Hub) *Handler {
	return &Handler{
		log:      log,
		jwt:      jwt,
		registry: registry,
		overview: overview,
		hub:      hub,
	}
}

// Router builds the console's HTTP router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/ws/console", websocket.NewHandler(h.log, h.jwt, h.onConnect, auth.ConsoleRoles...))

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.jwt.AuthMiddleware)
		r.Use(auth.RequireRole(auth.ConsoleRoles...))

		r.With(auth.RequireRole(auth.RoleAdmin)).Get("/overview", h.getOverview)
		r.Get("/screens", h.listScreens)
		r.Get("/screens/{screen}/export", h.exportScreen)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.hub.Count(),
	})
}

func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.overview.Overview(ctx)
	if err != nil {
		h.log.Error("get_overview_metrics", err)
		writeError(w, http.StatusInternalServerError, "Error processing request")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Timestamp string `json:"timestamp"`
		domain.Overview
	}{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Overview:  m,
	})
}

func (h *Handler) listScreens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"screens": h.registry.Names()})
}

// exportScreen renders a screen's rows narrowed by the query string:
// format and search are reserved, every other parameter is a field filter.
func (h *Handler) exportScreen(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	name := chi.URLParam(r, "screen")
	query := r.URL.Query()
	q := service.Query{Search: query.Get("search"), Filters: map[string]string{}}
	for key, values := range query {
		if key == "format" || key == "search" || len(values) == 0 {
			continue
		}
		q.Filters[key] = values[0]
	}

	exp, err := h.registry.ExportScreen(ctx, name, query.Get("format"), q)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.log.WithFields(logger.LogFields{"screen": name}).Error("export_screen", err)
		}
		writeError(w, status, publicMessage(err, status))
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("X-Export-Rows", strconv.Itoa(exp.Rows))
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Data)
}
