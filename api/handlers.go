/*
handlers.go - HTTP API handlers for the bookkeeping backend

PURPOSE:
  Exposes the stock ledger and the domain services via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Stock:
    GET    /api/stocks                          Products and raw materials
    POST   /api/stocks                          Manual signed delta
    PUT    /api/stocks/{type}/{name}            Overwrite (may rename)
    DELETE /api/stocks/{type}/{name}            Clear entry
    GET    /api/stocks/{type}/{name}/movements  Journal, newest first
    POST   /api/stocks/check                    Advisory shortage check

  Records (inventory_handlers.go), attendance (attendance_handlers.go) and
  farm (farm_handlers.go) follow the same list/create/get/update/delete shape.

ARCHITECTURE:
  Handler holds the services. Every stock-affecting write goes through
  inventory.Service, which reconciles the ledger in the same transaction as
  the record write.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (insufficient stock, name collision, closed order, retryable race)
  - 500: Internal errors (logged with request ID)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/radhakrishnanganapathy/rksApp-sub000/attendance"
	"github.com/radhakrishnanganapathy/rksApp-sub000/farm"
	"github.com/radhakrishnanganapathy/rksApp-sub000/inventory"
	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
	"github.com/radhakrishnanganapathy/rksApp-sub000/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Ledger     *stock.Ledger
	Inventory  *inventory.Service
	Attendance *attendance.Service
	Farm       *farm.Service
}

// NewHandler wires the services over one store.
func NewHandler(store *sqlite.Store, opts ...stock.Option) *Handler {
	ledger := stock.NewLedger(store, opts...)
	return &Handler{
		Store:      store,
		Ledger:     ledger,
		Inventory:  inventory.NewService(store, ledger),
		Attendance: attendance.NewService(store),
		Farm:       farm.NewService(store),
	}
}

// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// STOCK HANDLERS
// =============================================================================

// ListStocks returns every entry grouped by kind.
// GET /api/stocks
func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.List(r.Context())
	if err != nil {
		h.handleError(w, r, "Failed to list stock", err)
		return
	}

	resp := StocksResponse{Products: []StockEntryDTO{}, RawMaterials: []StockEntryDTO{}}
	for _, e := range entries {
		switch e.Kind {
		case stock.KindProduct:
			resp.Products = append(resp.Products, toStockEntryDTO(e))
		case stock.KindRawMaterial:
			resp.RawMaterials = append(resp.RawMaterials, toStockEntryDTO(e))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdjustStock applies a signed delta, creating the entry when absent.
// POST /api/stocks
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req StockDeltaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, err := stock.ParseKind(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stock type", err)
		return
	}

	entry, err := h.Ledger.ApplyDelta(r.Context(), stock.Delta{
		Key:    stock.Key{Kind: kind, Name: req.Name},
		Qty:    req.Qty,
		Unit:   req.Unit,
		Reason: stock.ReasonManualDelta,
	})
	if err != nil {
		h.handleError(w, r, "Failed to adjust stock", err)
		return
	}
	writeJSON(w, http.StatusOK, toStockEntryDTO(entry))
}

// SetStock overwrites an entry's quantity and unit. A different body name
// renames the entry.
// PUT /api/stocks/{type}/{name}
func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	key, ok := stockKeyParam(w, r)
	if !ok {
		return
	}
	var req StockSetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := req.Name
	if name == "" {
		name = key.Name
	}

	entry, err := h.Ledger.SetAbsolute(r.Context(), key, name, req.Qty, req.Unit)
	if err != nil {
		h.handleError(w, r, "Failed to set stock", err)
		return
	}
	writeJSON(w, http.StatusOK, toStockEntryDTO(entry))
}

// DELETE /api/stocks/{type}/{name}
func (h *Handler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	key, ok := stockKeyParam(w, r)
	if !ok {
		return
	}
	if err := h.Ledger.Remove(r.Context(), key); err != nil {
		h.handleError(w, r, "Failed to delete stock", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMovements returns the journal for one entry.
// GET /api/stocks/{type}/{name}/movements?limit=50
func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	key, ok := stockKeyParam(w, r)
	if !ok {
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	movements, err := h.Ledger.Movements(r.Context(), key, limit)
	if err != nil {
		h.handleError(w, r, "Failed to list movements", err)
		return
	}
	dtos := make([]MovementDTO, len(movements))
	for i, m := range movements {
		dtos[i] = toMovementDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CheckStock reports shortages for the requested lines without changing stock.
// POST /api/stocks/check
func (h *Handler) CheckStock(w http.ResponseWriter, r *http.Request) {
	var req StockCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lines := make([]inventory.StockLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = inventory.StockLine{Kind: stock.Kind(item.Type), Name: item.Name, Qty: item.Qty}
	}

	shortages, err := h.Inventory.CheckStock(r.Context(), lines)
	if err != nil {
		h.handleError(w, r, "Failed to check stock", err)
		return
	}
	resp := StockCheckResponse{OK: len(shortages) == 0, Shortages: make([]ShortageDTO, len(shortages))}
	for i, s := range shortages {
		resp.Shortages[i] = ShortageDTO{
			Type:      string(s.Key.Kind),
			Name:      s.Key.Name,
			Available: s.Available,
			Requested: s.Requested,
			Shortfall: s.Shortfall,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// stockKeyParam reads {type} and {name}. Names may arrive percent-encoded.
func stockKeyParam(w http.ResponseWriter, r *http.Request) (stock.Key, bool) {
	kind, err := stock.ParseKind(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stock type", err)
		return stock.Key{}, false
	}
	// chi matches on RawPath when it is set, leaving the segment escaped.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	return stock.Key{Kind: kind, Name: name}, true
}

// =============================================================================
// HELPERS
// =============================================================================

// handleError maps domain errors to HTTP statuses. Unexpected errors are
// logged and reported as 500.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case stock.IsNotFound(err),
		errors.Is(err, inventory.ErrNotFound),
		attendance.IsNotFound(err),
		errors.Is(err, farm.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)

	case stock.IsRetryable(err):
		writeError(w, http.StatusConflict, "Concurrent modification, please retry", err)

	case errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, stock.ErrEntryExists),
		errors.Is(err, inventory.ErrInvalidTransition),
		errors.Is(err, inventory.ErrOrderClosed):
		writeError(w, http.StatusConflict, message, err)

	case inventory.IsClientError(err),
		attendance.IsClientError(err),
		farm.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)

	default:
		log.Printf("[%s] %s %s: %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, message, err)
		writeError(w, http.StatusInternalServerError, message, nil)
	}
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// dateRange parses ?from=&to=. Missing bounds are open.
func dateRange(w http.ResponseWriter, r *http.Request) (inventory.DateRange, bool) {
	q := r.URL.Query()
	from, err := parseDate("from", q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return inventory.DateRange{}, false
	}
	to, err := parseDate("to", q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return inventory.DateRange{}, false
	}
	return inventory.DateRange{From: from, To: to}, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
