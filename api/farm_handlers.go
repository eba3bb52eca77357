package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radhakrishnanganapathy/rksApp-sub000/farm"
)

// =============================================================================
// CATALOG
// =============================================================================

// GET /api/farm/categories
func (h *Handler) ListFarmCategories(w http.ResponseWriter, r *http.Request) {
	cats := farm.Categories()
	dtos := make([]CategoryDTO, len(cats))
	for i, c := range cats {
		dtos[i] = CategoryDTO{Name: c.Name, Kind: string(c.Kind)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GET /api/farm/crops
func (h *Handler) ListCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.Farm.ListCrops(r.Context())
	if err != nil {
		h.handleError(w, r, "Failed to list crops", err)
		return
	}
	dtos := make([]CropDTO, len(crops))
	for i, c := range crops {
		dtos[i] = toCropDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// POST /api/farm/crops
func (h *Handler) CreateCrop(w http.ResponseWriter, r *http.Request) {
	var req CropDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	crop, err := h.Farm.CreateCrop(r.Context(), farm.Crop{Name: req.Name, Variety: req.Variety})
	if err != nil {
		h.handleError(w, r, "Failed to create crop", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCropDTO(crop))
}

// =============================================================================
// BATCHES
// =============================================================================

// GET /api/farm/batches?cropId=
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Farm.ListBatches(r.Context(), r.URL.Query().Get("cropId"))
	if err != nil {
		h.handleError(w, r, "Failed to list batches", err)
		return
	}
	dtos := make([]BatchDTO, len(batches))
	for i, b := range batches {
		dtos[i] = toBatchDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// POST /api/farm/batches
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch", err)
		return
	}
	batch, err := h.Farm.CreateBatch(r.Context(), farm.Batch{
		CropID:    req.CropID,
		Name:      req.Name,
		StartDate: start,
		Area:      req.Area,
		AreaUnit:  req.AreaUnit,
	})
	if err != nil {
		h.handleError(w, r, "Failed to create batch", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBatchDTO(batch))
}

// GET /api/farm/batches/{id}
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.Farm.GetBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to get batch", err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchDTO(batch))
}

// DeleteBatch removes the batch with its expenses, income and tasks.
// DELETE /api/farm/batches/{id}
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	if err := h.Farm.DeleteBatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, "Failed to delete batch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/farm/batches/{id}/status
func (h *Handler) SetBatchStatus(w http.ResponseWriter, r *http.Request) {
	var req BatchStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	batch, err := h.Farm.SetBatchStatus(r.Context(), chi.URLParam(r, "id"), farm.BatchStatus(req.Status))
	if err != nil {
		h.handleError(w, r, "Failed to change batch status", err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchDTO(batch))
}

// GET /api/farm/batches/{id}/summary
func (h *Handler) BatchSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Farm.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to summarize batch", err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchSummaryDTO(summary))
}

// =============================================================================
// EXPENSES & INCOME
// =============================================================================

// GET /api/farm/batches/{id}/expenses
func (h *Handler) ListFarmExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Farm.ListExpenses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to list farm expenses", err)
		return
	}
	dtos := make([]FarmExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toFarmExpenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddFarmExpense records an expense whose detail fields follow the category.
// POST /api/farm/batches/{id}/expenses
func (h *Handler) AddFarmExpense(w http.ResponseWriter, r *http.Request) {
	var req FarmExpenseDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	expense, err := req.toDomain(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid farm expense", err)
		return
	}
	created, err := h.Farm.AddExpense(r.Context(), expense)
	if err != nil {
		h.handleError(w, r, "Failed to add farm expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toFarmExpenseDTO(created))
}

// DELETE /api/farm/expenses/{id}
func (h *Handler) DeleteFarmExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Farm.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, "Failed to delete farm expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/farm/batches/{id}/income
func (h *Handler) ListIncome(w http.ResponseWriter, r *http.Request) {
	income, err := h.Farm.ListIncome(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to list income", err)
		return
	}
	dtos := make([]IncomeDTO, len(income))
	for i, in := range income {
		dtos[i] = toIncomeDTO(in)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// POST /api/farm/batches/{id}/income
func (h *Handler) AddIncome(w http.ResponseWriter, r *http.Request) {
	var req IncomeDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid income", err)
		return
	}
	income, err := h.Farm.AddIncome(r.Context(), farm.Income{
		BatchID:  chi.URLParam(r, "id"),
		Date:     date,
		Source:   req.Source,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Amount:   req.Amount,
	})
	if err != nil {
		h.handleError(w, r, "Failed to add income", err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeDTO(income))
}

// DELETE /api/farm/income/{id}
func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.Farm.DeleteIncome(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, "Failed to delete income", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TASKS
// =============================================================================

// GET /api/farm/batches/{id}/tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Farm.ListTasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to list tasks", err)
		return
	}
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// POST /api/farm/batches/{id}/tasks
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req TaskDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task", err)
		return
	}
	task, err := h.Farm.AddTask(r.Context(), farm.Task{BatchID: chi.URLParam(r, "id"), Date: date, Title: req.Title})
	if err != nil {
		h.handleError(w, r, "Failed to add task", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// UpdateTask marks a task done or open.
// PUT /api/farm/tasks/{id}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := h.Farm.SetTaskDone(r.Context(), chi.URLParam(r, "id"), req.Done)
	if err != nil {
		h.handleError(w, r, "Failed to update task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// DELETE /api/farm/tasks/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Farm.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, "Failed to delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
