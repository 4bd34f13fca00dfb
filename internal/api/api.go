// Package api exposes the event query surface over HTTP.
//
// Routes:
//
//	GET  /healthcheck     liveness probe
//	GET  /events          filtered, paginated event listing
//	GET  /events/{id}     single event by snapshot id
//	GET  /filters         distinct filter values from the snapshot
//	POST /refresh-events  synchronous scrape run
//
// Reads serve the latest snapshot; a read arriving before any snapshot
// exists triggers one synchronous scrape run. Malformed filter or
// pagination input is normalized to safe defaults rather than rejected.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rcanty/pulsefeed/internal/event"
	"github.com/rcanty/pulsefeed/internal/logger"
	"github.com/rcanty/pulsefeed/internal/query"
	"github.com/rcanty/pulsefeed/internal/scraper"
	"github.com/rcanty/pulsefeed/internal/storage"
)

// Handler implements the HTTP layer over the snapshot store and the
// scrape pipeline.
type Handler struct {
	store           *storage.Store
	scraper         *scraper.Scraper
	defaultPageSize int
	maxPageSize     int
}

// NewHandler constructs the API handler. Non-positive page sizes fall
// back to the query package default.
func NewHandler(store *storage.Store, sc *scraper.Scraper, defaultPageSize, maxPageSize int) *Handler {
	if defaultPageSize < 1 {
		defaultPageSize = query.DefaultPageSize
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = defaultPageSize
	}
	return &Handler{
		store:           store,
		scraper:         sc,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Routes returns a chi.Router with all endpoints mounted.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/healthcheck", h.healthcheck)
	router.Get("/events", h.listEvents)
	router.Get("/events/{id}", h.getEvent)
	router.Get("/filters", h.getFilters)
	router.Post("/refresh-events", h.refreshEvents)

	return router
}

func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// eventsResponse is the wire shape of the event listing endpoint.
type eventsResponse struct {
	Events     []event.Event `json:"events"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.loadEvents(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch events")
		return
	}

	criteria := criteriaFromQuery(r.URL.Query())
	matched := query.Apply(events, criteria)

	page, size := paginationFromQuery(r.URL.Query(), h.defaultPageSize, h.maxPageSize)
	result := query.Paginate(matched, page, size)

	logger.IncrCounter("api.event_queries")
	writeJSON(w, http.StatusOK, eventsResponse{
		Events:     result.Events,
		Total:      result.Total,
		Page:       result.Number,
		PageSize:   result.Size,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	events, err := h.loadEvents(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch event")
		return
	}

	for i := range events {
		if events[i].ID == id {
			writeJSON(w, http.StatusOK, events[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "event not found")
}

func (h *Handler) getFilters(w http.ResponseWriter, r *http.Request) {
	events, err := h.loadEvents(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch filters")
		return
	}
	writeJSON(w, http.StatusOK, query.CollectOptions(events))
}

// refreshResponse is the wire shape of a successful manual refresh.
type refreshResponse struct {
	Success    bool `json:"success"`
	EventCount int  `json:"eventCount"`
}

func (h *Handler) refreshEvents(w http.ResponseWriter, r *http.Request) {
	count, err := h.scraper.RunAndStore(r.Context(), h.store)
	if err != nil {
		if errors.Is(err, scraper.ErrRunInProgress) {
			writeError(w, http.StatusConflict, "refresh already in progress")
			return
		}
		logger.Error("manual refresh failed", nil, err)
		writeError(w, http.StatusInternalServerError, "failed to refresh events")
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Success: true, EventCount: count})
}

// loadEvents returns the current snapshot, running the pipeline once
// synchronously when no snapshot exists yet. A concurrent first run is
// treated as good enough: we retry the load after losing the race.
func (h *Handler) loadEvents(r *http.Request) ([]event.Event, error) {
	events, err := h.store.Load()
	if err == nil {
		return events, nil
	}
	if !errors.Is(err, storage.ErrNoSnapshot) {
		return nil, err
	}

	logger.Info("no snapshot on read, running scrape", nil)
	if _, err := h.scraper.RunAndStore(r.Context(), h.store); err != nil && !errors.Is(err, scraper.ErrRunInProgress) {
		return nil, err
	}

	events, err = h.store.Load()
	if errors.Is(err, storage.ErrNoSnapshot) {
		// A failed first run still serves an empty dataset.
		return []event.Event{}, nil
	}
	return events, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
