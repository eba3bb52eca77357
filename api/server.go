/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request, included in 500 logs
  4. CORS:       Cross-origin requests from the mobile/web client

ROUTE GROUPS:
  /api/stocks/*              Stock ledger (read, manual delta, overwrite, journal)
  /api/sales/*               Sales
  /api/production/*          Production entries
  /api/expenses/*            Expenses (raw material purchases add stock)
  /api/raw-material-usage/*  Raw material consumption
  /api/orders/*              Customer orders and status transitions
  /api/employees/*           Employees
  /api/attendance/*          Daily attendance marks
  /api/salary/summary        Monthly or yearly salary totals
  /api/farm/*                Crops, batches, expenses, income, tasks
  /api/health                Liveness and database check

SECURITY NOTE:
  No authentication middleware. The server is meant for a single trusted
  client on a private network.

SEE ALSO:
  - handlers.go: Handler and error mapping
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. An empty
// allowedOrigins list allows any origin.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Stock ledger
		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", h.ListStocks)
			r.Post("/", h.AdjustStock)
			r.Post("/check", h.CheckStock)
			r.Put("/{type}/{name}", h.SetStock)
			r.Delete("/{type}/{name}", h.DeleteStock)
			r.Get("/{type}/{name}/movements", h.ListMovements)
		})

		// Stock-affecting records
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.CreateSale)
			r.Get("/{id}", h.GetSale)
			r.Put("/{id}", h.UpdateSale)
			r.Delete("/{id}", h.DeleteSale)
		})
		r.Route("/production", func(r chi.Router) {
			r.Get("/", h.ListProduction)
			r.Post("/", h.CreateProduction)
			r.Get("/{id}", h.GetProduction)
			r.Put("/{id}", h.UpdateProduction)
			r.Delete("/{id}", h.DeleteProduction)
		})
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Get("/{id}", h.GetExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})
		r.Route("/raw-material-usage", func(r chi.Router) {
			r.Get("/", h.ListUsage)
			r.Post("/", h.CreateUsage)
			r.Get("/{id}", h.GetUsage)
			r.Put("/{id}", h.UpdateUsage)
			r.Delete("/{id}", h.DeleteUsage)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}", h.UpdateOrder)
			r.Delete("/{id}", h.DeleteOrder)
			r.Put("/{id}/status", h.SetOrderStatus)
		})

		// Attendance and salary
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})
		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Post("/", h.MarkAttendance)
			r.Delete("/{employeeId}/{date}", h.UnmarkAttendance)
		})
		r.Get("/salary/summary", h.SalarySummary)

		// Farm
		r.Route("/farm", func(r chi.Router) {
			r.Get("/categories", h.ListFarmCategories)
			r.Get("/crops", h.ListCrops)
			r.Post("/crops", h.CreateCrop)
			r.Route("/batches", func(r chi.Router) {
				r.Get("/", h.ListBatches)
				r.Post("/", h.CreateBatch)
				r.Get("/{id}", h.GetBatch)
				r.Delete("/{id}", h.DeleteBatch)
				r.Put("/{id}/status", h.SetBatchStatus)
				r.Get("/{id}/summary", h.BatchSummary)
				r.Get("/{id}/expenses", h.ListFarmExpenses)
				r.Post("/{id}/expenses", h.AddFarmExpense)
				r.Get("/{id}/income", h.ListIncome)
				r.Post("/{id}/income", h.AddIncome)
				r.Get("/{id}/tasks", h.ListTasks)
				r.Post("/{id}/tasks", h.AddTask)
			})
			r.Put("/tasks/{id}", h.UpdateTask)
			r.Delete("/tasks/{id}", h.DeleteTask)
			r.Delete("/expenses/{id}", h.DeleteFarmExpense)
			r.Delete("/income/{id}", h.DeleteIncome)
		})
	})

	return r
}
