package handler

import (
	"net/http"

	"github.com/fakhrymubarak/chennai-weather/internal/middleware"
	"github.com/fakhrymubarak/chennai-weather/internal/view"
)

// NewRouter registers every dashboard route. Manual refreshes go through limiter.
func NewRouter(h *DashboardHandler, limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/api/dashboard", h.HandleDashboardAPI)
	mux.Handle("/refresh", limiter.Middleware(http.HandlerFunc(h.HandleRefresh)))
	mux.HandleFunc("/events", h.HandleEvents)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.Handle("/static/", view.StaticHandler())
	return mux
}
