package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/voyago/internal/domain/message"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/database"
	"github.com/voyago/voyago/internal/service"
)

const defaultListLimit = 20

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	orchestrator *service.Orchestrator
	compare      *service.CompareService
	pools        service.PoolSource
	store        database.Store
	log          *slog.Logger
}

// NewHandlers creates the handler set. store may be nil when the plan
// archive is disabled.
func NewHandlers(orchestrator *service.Orchestrator, compare *service.CompareService, pools service.PoolSource, store database.Store, log *slog.Logger) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		compare:      compare,
		pools:        pools,
		store:        store,
		log:          log,
	}
}

// PlanTrip runs one full orchestration and returns the composed plan.
func (h *Handlers) PlanTrip(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[trip.Request](w, r)
	if !ok {
		return
	}

	plan, err := h.orchestrator.PlanTrip(r.Context(), req)
	if err != nil {
		if message.IsUnsupportedType(err) {
			h.log.Error("agent contract violation", "error", err)
			writeError(w, http.StatusInternalServerError, "planning_failed", err.Error())
			return
		}
		writeDomainError(w, err, "trip planning failed")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// compareRequest names the two destinations to compare.
type compareRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CompareDestinations scores two destinations against each other.
func (h *Handlers) CompareDestinations(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[compareRequest](w, r)
	if !ok {
		return
	}
	if req.A == "" || req.B == "" {
		writeError(w, http.StatusBadRequest, "validation", "both destination names are required")
		return
	}

	report, err := h.compare.Compare(r.Context(), req.A, req.B)
	if err != nil {
		writeDomainError(w, err, "comparison failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetPools returns the fetched candidate pools for one destination.
func (h *Handlers) GetPools(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "validation", "destination name is required")
		return
	}

	pools, err := h.pools.Pools(r.Context(), name)
	if err != nil {
		writeDomainError(w, err, "pool fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

// ListTrips returns the most recent archived plans, newest first. With the
// archive disabled the listing is empty rather than an error.
func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, []trip.Plan{})
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	plans, err := h.store.ListPlans(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err, "listing failed")
		return
	}
	if plans == nil {
		plans = []trip.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// GetTrip returns one archived plan by request ID.
func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "not_found", "plan archive is disabled")
		return
	}

	plan, err := h.store.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
