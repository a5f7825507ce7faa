package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jw6ventures/icsexport/internal/entity"
	"github.com/jw6ventures/icsexport/internal/export"
	"github.com/jw6ventures/icsexport/internal/http/errors"
	"github.com/jw6ventures/icsexport/internal/metrics"
)

// exportWindow bounds calendar exports on both sides of now.
const exportWindow = 365 * 24 * time.Hour

// Handler serves iCalendar exports of calendar and to-do list entities.
type Handler struct {
	registry entity.Registry
	loc      *time.Location
	now      func() time.Time
}

// NewHandler returns a handler resolving entities through registry, with
// loc as the host time zone. A nil loc means UTC.
func NewHandler(registry entity.Registry, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{registry: registry, loc: loc, now: time.Now}
}

// CalendarExport writes the events of a calendar entity within a year of now.
func (h *Handler) CalendarExport(w http.ResponseWriter, r *http.Request) {
	profile := export.CalendarEvents.Name
	res, ok := h.resolve(w, r, entity.KindCalendar, profile)
	if !ok {
		return
	}

	now := h.now().In(h.loc)
	events, err := res.Calendar.Events(r.Context(), now.Add(-exportWindow), now.Add(exportWindow))
	if err != nil {
		h.fail(w, r, profile, err, "failed to load calendar events")
		return
	}

	doc, err := export.BuildCalendar(res.Calendar.Name(), events)
	if err != nil {
		h.fail(w, r, profile, err, "failed to build calendar export")
		return
	}
	h.write(w, r, doc)
}

// TodoExport writes the items of a to-do list as VTODO components.
func (h *Handler) TodoExport(w http.ResponseWriter, r *http.Request) {
	h.todoExport(w, r, export.TodoItems, export.BuildTodoList)
}

// TodoEventsExport writes the items of a to-do list as VEVENT components.
func (h *Handler) TodoEventsExport(w http.ResponseWriter, r *http.Request) {
	h.todoExport(w, r, export.TodoEvents, export.BuildTodoEvents)
}

type todoBuilder func(name string, items []export.TodoItem) (*export.Document, error)

func (h *Handler) todoExport(w http.ResponseWriter, r *http.Request, p *export.Profile, build todoBuilder) {
	res, ok := h.resolve(w, r, entity.KindTodoList, p.Name)
	if !ok {
		return
	}

	items, err := res.TodoList.Items(r.Context())
	if err != nil {
		h.fail(w, r, p.Name, err, "failed to load todo items")
		return
	}

	doc, err := build(res.TodoList.Name(), items)
	if err != nil {
		h.fail(w, r, p.Name, err, "failed to build todo export")
		return
	}
	h.write(w, r, doc)
}

// resolve looks up the entity named in the URL and checks it has the wanted
// capability. On failure the 400 response has already been written.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, want entity.Kind, profile string) (entity.Resolution, bool) {
	entityID := chi.URLParam(r, "entity_id")

	res, err := h.registry.Resolve(r.Context(), entityID)
	if err == nil && res.Kind != want {
		err = fmt.Errorf("entity %q is %s, want %s", entityID, res.Kind, want)
	}
	if err != nil {
		metrics.ObserveExport(profile, metrics.OutcomeBadRequest, 0)
		errors.BadRequest(w, r, err)
		return entity.Resolution{}, false
	}
	return res, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, profile string, err error, message string) {
	metrics.ObserveExport(profile, metrics.OutcomeError, 0)
	errors.InternalError(w, r, err, message)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, doc *export.Document) {
	body := doc.Serialize()
	metrics.ObserveExport(doc.Profile.Name, metrics.OutcomeOK, doc.Len())
	errors.LogInfo(r, fmt.Sprintf("exported %d %s components for %s", doc.Len(), doc.Profile.Name, chi.URLParam(r, "entity_id")))

	w.Header().Set("Content-Type", "text/calendar")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
