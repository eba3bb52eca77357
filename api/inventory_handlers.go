package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radhakrishnanganapathy/rksApp-sub000/inventory"
)

// =============================================================================
// RECORD HANDLERS
// =============================================================================
//
// Sales, production, expenses and raw material usage share one shape:
//   GET    /api/<records>?from=&to=   List, newest first
//   POST   /api/<records>             Create, applies stock deltas
//   GET    /api/<records>/{id}        Get
//   PUT    /api/<records>/{id}        Replace, reconciles stock
//   DELETE /api/<records>/{id}        Delete, reverts stock

// recordRoutes binds one record type's service calls to its DTO.
type recordRoutes[T any, D any] struct {
	noun   string
	decode func(D) (T, error)
	encode func(T) D
	list   func(context.Context, inventory.DateRange) ([]T, error)
	create func(context.Context, T) (T, error)
	get    func(context.Context, string) (T, error)
	update func(context.Context, string, T) (T, error)
	remove func(context.Context, string) error
}

func (rr recordRoutes[T, D]) handleList(h *Handler, w http.ResponseWriter, r *http.Request) {
	dr, ok := dateRange(w, r)
	if !ok {
		return
	}
	records, err := rr.list(r.Context(), dr)
	if err != nil {
		h.handleError(w, r, "Failed to list "+rr.noun, err)
		return
	}
	dtos := make([]D, len(records))
	for i, rec := range records {
		dtos[i] = rr.encode(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (rr recordRoutes[T, D]) handleCreate(h *Handler, w http.ResponseWriter, r *http.Request) {
	rec, ok := rr.readBody(w, r)
	if !ok {
		return
	}
	created, err := rr.create(r.Context(), rec)
	if err != nil {
		h.handleError(w, r, "Failed to create "+rr.noun, err)
		return
	}
	writeJSON(w, http.StatusCreated, rr.encode(created))
}

func (rr recordRoutes[T, D]) handleGet(h *Handler, w http.ResponseWriter, r *http.Request) {
	rec, err := rr.get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to get "+rr.noun, err)
		return
	}
	writeJSON(w, http.StatusOK, rr.encode(rec))
}

func (rr recordRoutes[T, D]) handleUpdate(h *Handler, w http.ResponseWriter, r *http.Request) {
	rec, ok := rr.readBody(w, r)
	if !ok {
		return
	}
	updated, err := rr.update(r.Context(), chi.URLParam(r, "id"), rec)
	if err != nil {
		h.handleError(w, r, "Failed to update "+rr.noun, err)
		return
	}
	writeJSON(w, http.StatusOK, rr.encode(updated))
}

func (rr recordRoutes[T, D]) handleDelete(h *Handler, w http.ResponseWriter, r *http.Request) {
	if err := rr.remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, "Failed to delete "+rr.noun, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rr recordRoutes[T, D]) readBody(w http.ResponseWriter, r *http.Request) (T, bool) {
	var (
		dto  D
		zero T
	)
	if !decodeJSON(w, r, &dto) {
		return zero, false
	}
	rec, err := rr.decode(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+rr.noun, err)
		return zero, false
	}
	return rec, true
}

func (h *Handler) sales() recordRoutes[inventory.Sale, SaleDTO] {
	return recordRoutes[inventory.Sale, SaleDTO]{
		noun: "sale", decode: SaleDTO.toDomain, encode: toSaleDTO,
		list: h.Inventory.ListSales, create: h.Inventory.CreateSale, get: h.Inventory.GetSale,
		update: h.Inventory.UpdateSale, remove: h.Inventory.DeleteSale,
	}
}

func (h *Handler) production() recordRoutes[inventory.ProductionEntry, ProductionDTO] {
	return recordRoutes[inventory.ProductionEntry, ProductionDTO]{
		noun: "production entry", decode: ProductionDTO.toDomain, encode: toProductionDTO,
		list: h.Inventory.ListProduction, create: h.Inventory.CreateProduction, get: h.Inventory.GetProduction,
		update: h.Inventory.UpdateProduction, remove: h.Inventory.DeleteProduction,
	}
}

func (h *Handler) expenses() recordRoutes[inventory.Expense, ExpenseDTO] {
	return recordRoutes[inventory.Expense, ExpenseDTO]{
		noun: "expense", decode: ExpenseDTO.toDomain, encode: toExpenseDTO,
		list: h.Inventory.ListExpenses, create: h.Inventory.CreateExpense, get: h.Inventory.GetExpense,
		update: h.Inventory.UpdateExpense, remove: h.Inventory.DeleteExpense,
	}
}

func (h *Handler) usage() recordRoutes[inventory.UsageEntry, UsageDTO] {
	return recordRoutes[inventory.UsageEntry, UsageDTO]{
		noun: "usage entry", decode: UsageDTO.toDomain, encode: toUsageDTO,
		list: h.Inventory.ListUsage, create: h.Inventory.CreateUsage, get: h.Inventory.GetUsage,
		update: h.Inventory.UpdateUsage, remove: h.Inventory.DeleteUsage,
	}
}

// GET /api/sales
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) { h.sales().handleList(h, w, r) }

// POST /api/sales
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) { h.sales().handleCreate(h, w, r) }

// GET /api/sales/{id}
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) { h.sales().handleGet(h, w, r) }

// PUT /api/sales/{id}
func (h *Handler) UpdateSale(w http.ResponseWriter, r *http.Request) { h.sales().handleUpdate(h, w, r) }

// DELETE /api/sales/{id}
func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) { h.sales().handleDelete(h, w, r) }

// GET /api/production
func (h *Handler) ListProduction(w http.ResponseWriter, r *http.Request) {
	h.production().handleList(h, w, r)
}

// POST /api/production
func (h *Handler) CreateProduction(w http.ResponseWriter, r *http.Request) {
	h.production().handleCreate(h, w, r)
}

// GET /api/production/{id}
func (h *Handler) GetProduction(w http.ResponseWriter, r *http.Request) {
	h.production().handleGet(h, w, r)
}

// PUT /api/production/{id}
func (h *Handler) UpdateProduction(w http.ResponseWriter, r *http.Request) {
	h.production().handleUpdate(h, w, r)
}

// DELETE /api/production/{id}
func (h *Handler) DeleteProduction(w http.ResponseWriter, r *http.Request) {
	h.production().handleDelete(h, w, r)
}

// GET /api/expenses
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	h.expenses().handleList(h, w, r)
}

// POST /api/expenses
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	h.expenses().handleCreate(h, w, r)
}

// GET /api/expenses/{id}
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	h.expenses().handleGet(h, w, r)
}

// PUT /api/expenses/{id}
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	h.expenses().handleUpdate(h, w, r)
}

// DELETE /api/expenses/{id}
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	h.expenses().handleDelete(h, w, r)
}

// GET /api/raw-material-usage
func (h *Handler) ListUsage(w http.ResponseWriter, r *http.Request) { h.usage().handleList(h, w, r) }

// POST /api/raw-material-usage
func (h *Handler) CreateUsage(w http.ResponseWriter, r *http.Request) { h.usage().handleCreate(h, w, r) }

// GET /api/raw-material-usage/{id}
func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) { h.usage().handleGet(h, w, r) }

// PUT /api/raw-material-usage/{id}
func (h *Handler) UpdateUsage(w http.ResponseWriter, r *http.Request) { h.usage().handleUpdate(h, w, r) }

// DELETE /api/raw-material-usage/{id}
func (h *Handler) DeleteUsage(w http.ResponseWriter, r *http.Request) { h.usage().handleDelete(h, w, r) }

// =============================================================================
// ORDER HANDLERS
// =============================================================================

// ListOrders returns orders, optionally filtered by ?status=.
// GET /api/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := inventory.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.Inventory.ListOrders(r.Context(), status)
	if err != nil {
		h.handleError(w, r, "Failed to list orders", err)
		return
	}
	dtos := make([]OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = toOrderDTO(o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// POST /api/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := readOrder(w, r)
	if !ok {
		return
	}
	created, err := h.Inventory.CreateOrder(r.Context(), order)
	if err != nil {
		h.handleError(w, r, "Failed to create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(created))
}

// GET /api/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Inventory.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(order))
}

// UpdateOrder edits a waiting order. Status changes go through SetOrderStatus.
// PUT /api/orders/{id}
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := readOrder(w, r)
	if !ok {
		return
	}
	updated, err := h.Inventory.UpdateOrder(r.Context(), chi.URLParam(r, "id"), order)
	if err != nil {
		h.handleError(w, r, "Failed to update order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(updated))
}

// DELETE /api/orders/{id}
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Inventory.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, "Failed to delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetOrderStatus delivers or cancels a waiting order. Delivery records a sale.
// PUT /api/orders/{id}/status
func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req OrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Inventory.SetOrderStatus(r.Context(), chi.URLParam(r, "id"), inventory.OrderStatus(req.Status))
	if err != nil {
		h.handleError(w, r, "Failed to change order status", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(order))
}

func readOrder(w http.ResponseWriter, r *http.Request) (inventory.Order, bool) {
	var dto OrderDTO
	if !decodeJSON(w, r, &dto) {
		return inventory.Order{}, false
	}
	order, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order", err)
		return inventory.Order{}, false
	}
	return order, true
}
