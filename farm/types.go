package farm

import (
	"time"

	"github.com/shopspring/decimal"
)

type Crop struct {
	ID        string
	Name      string
	Variety   string
	CreatedAt time.Time
}

type BatchStatus string

const (
	BatchActive    BatchStatus = "active"
	BatchHarvested BatchStatus = "harvested"
)

func (s BatchStatus) Valid() bool { return s == BatchActive || s == BatchHarvested }

type Batch struct {
	ID        string
	CropID    string
	Name      string
	StartDate time.Time
	Area      decimal.Decimal
	AreaUnit  string
	Status    BatchStatus
}

// Expense is money spent on a batch. Detail.Kind() always matches the
// category's kind.
type Expense struct {
	ID       string
	BatchID  string
	Date     time.Time
	Category string
	Amount   decimal.Decimal
	Detail   Detail
}

type Income struct {
	ID       string
	BatchID  string
	Date     time.Time
	Source   string
	Quantity decimal.Decimal
	Unit     string
	Amount   decimal.Decimal
}

// Task is an entry on a batch's timeline.
type Task struct {
	ID      string
	BatchID string
	Date    time.Time
	Title   string
	Done    bool
}

// CategoryTotal is the spend on one category.
type CategoryTotal struct {
	Category string
	Kind     CategoryKind
	Amount   decimal.Decimal
}

// BatchSummary is the profit and loss of one batch.
type BatchSummary struct {
	BatchID        string
	TotalExpense   decimal.Decimal
	TotalIncome    decimal.Decimal
	Profit         decimal.Decimal
	ByCategory     []CategoryTotal
	OpenTasks      int
	CompletedTasks int
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
