package inventory

import "context"

// Store persists inventory records. Get methods return nil when the id is
// unknown. Methods called with a context from stock.Ledger.WithTx must join
// that transaction; store/sqlite does this by sharing one backend with the
// stock store.
type Store interface {
	SaveSale(ctx context.Context, s Sale) error
	GetSale(ctx context.Context, id string) (*Sale, error)
	ListSales(ctx context.Context, r DateRange) ([]Sale, error)
	DeleteSale(ctx context.Context, id string) error

	SaveProduction(ctx context.Context, p ProductionEntry) error
	GetProduction(ctx context.Context, id string) (*ProductionEntry, error)
	ListProduction(ctx context.Context, r DateRange) ([]ProductionEntry, error)
	DeleteProduction(ctx context.Context, id string) error

	SaveExpense(ctx context.Context, e Expense) error
	GetExpense(ctx context.Context, id string) (*Expense, error)
	ListExpenses(ctx context.Context, r DateRange) ([]Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	SaveUsage(ctx context.Context, u UsageEntry) error
	GetUsage(ctx context.Context, id string) (*UsageEntry, error)
	ListUsage(ctx context.Context, r DateRange) ([]UsageEntry, error)
	DeleteUsage(ctx context.Context, id string) error

	SaveOrder(ctx context.Context, o Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, status OrderStatus) ([]Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
