package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
	"github.com/fakhrymubarak/chennai-weather/internal/view"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type DashboardHandler struct {
	DashboardService service.DashboardServiceInterface
	HealthChecks     map[string]HealthCheck

	renderer  *view.Renderer
	clock     func() time.Time
	logger    *zap.SugaredLogger
	heartbeat time.Duration
}

func NewDashboardHandler(svc ...service.DashboardServiceInterface) *DashboardHandler {
	var dashboardService service.DashboardServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		dashboardService = svc[0]
	} else {
		dashboardService = service.NewDashboardService(nil)
	}
	return &DashboardHandler{
		DashboardService: dashboardService,
		HealthChecks:     map[string]HealthCheck{},
		renderer:         view.MustRenderer(),
		clock:            time.Now,
		logger:           config.GetLogger(),
		heartbeat:        30 * time.Second,
	}
}

func (h *DashboardHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorw("could not encode json", "error", err)
	}
}

func (h *DashboardHandler) methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	h.writeJSONResponse(w, http.StatusMethodNotAllowed, model.Failure("Method not allowed", "Error"))
}

// PreferencesFromRequest reads unit, lang, theme and dark from the query.
// Invalid values fall back to the configured defaults; a missing lang is
// negotiated from Accept-Language.
func PreferencesFromRequest(r *http.Request) service.Preferences {
	prefs := service.DefaultPreferences()
	q := r.URL.Query()
	if u, ok := format.ParseUnit(q.Get("unit")); ok {
		prefs.Unit = u
	}
	if l, ok := i18n.ParseLanguage(q.Get("lang")); ok {
		prefs.Language = l
	} else if accept := r.Header.Get("Accept-Language"); accept != "" {
		prefs.Language = i18n.Negotiate(accept, prefs.Language)
	}
	if q.Has("theme") {
		if th, ok := service.ParseTheme(q.Get("theme")); ok {
			prefs.Theme = th
		}
	}
	switch q.Get("dark") {
	case "1", "true", "on":
		prefs.DarkMode = true
	case "0", "false", "off":
		prefs.DarkMode = false
	}
	return prefs
}

func (h *DashboardHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	prefs := PreferencesFromRequest(r)
	page := view.Build(h.DashboardService.Snapshot(), prefs, h.clock())

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.logger.Errorw("Error executing template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", string(prefs.Language))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// DashboardPayload is the JSON form of the dashboard for one viewer.
type DashboardPayload struct {
	service.Snapshot
	Gradient    service.Gradient    `json:"gradient"`
	Preferences service.Preferences `json:"preferences"`
}

func (h *DashboardHandler) payload(r *http.Request) DashboardPayload {
	prefs := PreferencesFromRequest(r)
	snap := h.DashboardService.Snapshot()
	return DashboardPayload{
		Snapshot:    snap,
		Gradient:    service.SelectGradient(snap.Current, prefs.Theme, prefs.DarkMode),
		Preferences: prefs,
	}
}

func (h *DashboardHandler) HandleDashboardAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, model.Success(h.payload(r)))
}

// safeRedirect accepts only local absolute paths.
func safeRedirect(target string) (string, bool) {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "", false
	}
	return target, true
}

// HandleRefresh runs one refresh cycle. A form field named redirect turns the
// response into a 303 back to the page, for the no-script refresh button.
func (h *DashboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	// the cycle outlives a client that disconnects mid-refresh
	err := h.DashboardService.Refresh(context.WithoutCancel(r.Context()))

	if target, ok := safeRedirect(r.FormValue("redirect")); ok {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	switch {
	case errors.Is(err, service.ErrRefreshInProgress):
		h.writeJSONResponse(w, http.StatusConflict, model.Failure("A refresh is already in progress", "Conflict"))
	case err != nil:
		resp := model.Failure(fmt.Sprintf("Refresh failed: %v", err), "Showing previous data")
		resp.Data = h.payload(r)
		h.writeJSONResponse(w, http.StatusBadGateway, resp)
	default:
		h.writeJSONResponse(w, http.StatusOK, model.Success(h.payload(r)))
	}
}

// HandleEvents streams one server-sent event per dashboard state change,
// starting with the current state.
func (h *DashboardHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeJSONResponse(w, http.StatusInternalServerError, model.Failure("Streaming unsupported", "Error"))
		return
	}

	updates := make(chan service.Snapshot, 8)
	unsubscribe := h.DashboardService.Subscribe(func(s service.Snapshot) {
		select {
		case updates <- s:
		default:
			// slow reader; it will catch up on the next change
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, h.DashboardService.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if err := writeEvent(w, snap); err != nil {
				h.logger.Debugw("Event stream closed", "error", err)
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, snap service.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	return err
}

type healthResponse struct {
	Status      string            `json:"status"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
	Loading     bool              `json:"loading"`
	Checks      map[string]string `json:"checks,omitempty"`
}

func (h *DashboardHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.DashboardService.Snapshot()
	resp := healthResponse{Status: "ok", LastUpdated: snap.LastUpdated, Loading: snap.Loading}
	for name, check := range h.HealthChecks {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(h.HealthChecks))
		}
		if err := check(r.Context()); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}
	h.writeJSONResponse(w, http.StatusOK, resp)
}
