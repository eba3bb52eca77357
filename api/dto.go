/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain types carry no
  JSON tags; these types are the external contract and convert to and from
  the domain model.

CONVENTIONS:
  - Field names are camelCase (materialName, quantityUsed, packedQty)
  - Dates are "YYYY-MM-DD" strings
  - Quantities and money are JSON numbers (decimal, no float rounding)
  - Stock kinds on the wire: "product" | "raw_material"

NAMING CONVENTION:
  - *DTO:      Types returned to clients (and accepted for record bodies)
  - *Request:  Request-only bodies
  - *Response: Response wrappers

VALIDATION:
  Validation is done by the domain services, not in DTOs. DTOs only parse
  formats (dates, kinds).

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radhakrishnanganapathy/rksApp-sub000/attendance"
	"github.com/radhakrishnanganapathy/rksApp-sub000/farm"
	"github.com/radhakrishnanganapathy/rksApp-sub000/inventory"
	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

func init() {
	// Quantities and money are sent as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// parseDate parses an optional date. Empty input yields the zero time.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (use YYYY-MM-DD)", field, s)
	}
	return t, nil
}

// =============================================================================
// STOCK
// =============================================================================

type StockEntryDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}

func toStockEntryDTO(e stock.Entry) StockEntryDTO {
	dto := StockEntryDTO{ID: e.ID, Type: string(e.Kind), Name: e.Name, Qty: e.Qty, Unit: e.Unit}
	if !e.UpdatedAt.IsZero() {
		dto.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// StocksResponse is the GET /api/stocks body.
type StocksResponse struct {
	Products     []StockEntryDTO `json:"products"`
	RawMaterials []StockEntryDTO `json:"rawMaterials"`
}

// StockDeltaRequest adds a signed quantity to an entry.
type StockDeltaRequest struct {
	Type string          `json:"type"`
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
	Unit string          `json:"unit,omitempty"`
}

// StockSetRequest overwrites an entry. A different name renames it.
type StockSetRequest struct {
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
	Unit string          `json:"unit"`
}

type MovementDTO struct {
	ID     string          `json:"id"`
	Delta  decimal.Decimal `json:"delta"`
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`
	Unit   string          `json:"unit"`
	Reason string          `json:"reason"`
	Ref    string          `json:"ref,omitempty"`
	At     string          `json:"at"`
}

func toMovementDTO(m stock.Movement) MovementDTO {
	return MovementDTO{
		ID:     m.ID,
		Delta:  m.Delta,
		Before: m.Before,
		After:  m.After,
		Unit:   m.Unit,
		Reason: string(m.Reason),
		Ref:    m.Ref,
		At:     m.At.Format(time.RFC3339),
	}
}

type StockCheckItem struct {
	Type string          `json:"type"`
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
}

type StockCheckRequest struct {
	Items []StockCheckItem `json:"items"`
}

type ShortageDTO struct {
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

type StockCheckResponse struct {
	OK        bool          `json:"ok"`
	Shortages []ShortageDTO `json:"shortages"`
}

// =============================================================================
// INVENTORY RECORDS
// =============================================================================

type LineItemDTO struct {
	Name  string          `json:"name"`
	Qty   decimal.Decimal `json:"qty"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit,omitempty"`
}

func toLineItems(in []LineItemDTO) []inventory.LineItem {
	out := make([]inventory.LineItem, len(in))
	for i, li := range in {
		out[i] = inventory.LineItem{Name: li.Name, Qty: li.Qty, Price: li.Price, Unit: li.Unit}
	}
	return out
}

func toLineItemDTOs(in []inventory.LineItem) []LineItemDTO {
	out := make([]LineItemDTO, len(in))
	for i, li := range in {
		out[i] = LineItemDTO{Name: li.Name, Qty: li.Qty, Price: li.Price, Unit: li.Unit}
	}
	return out
}

type SaleDTO struct {
	ID       string          `json:"id,omitempty"`
	Date     string          `json:"date"`
	Customer string          `json:"customer"`
	Items    []LineItemDTO   `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Notes    string          `json:"notes,omitempty"`
}

func (d SaleDTO) toDomain() (inventory.Sale, error) {
	date, err := parseDate("date", d.Date)
	if err != nil {
		return inventory.Sale{}, err
	}
	return inventory.Sale{Date: date, Customer: d.Customer, Items: toLineItems(d.Items), Notes: d.Notes}, nil
}

func toSaleDTO(s inventory.Sale) SaleDTO {
	return SaleDTO{
		ID:       s.ID,
		Date:     formatDate(s.Date),
		Customer: s.Customer,
		Items:    toLineItemDTOs(s.Items),
		Total:    s.Total,
		Notes:    s.Notes,
	}
}

type ProductionDTO struct {
	ID        string          `json:"id,omitempty"`
	Date      string          `json:"date"`
	Item      string          `json:"item"`
	Qty       decimal.Decimal `json:"qty"`
	PackedQty decimal.Decimal `json:"packedQty"`
	Unit      string          `json:"unit"`
	Notes     string          `json:"notes,omitempty"`
}

func (d ProductionDTO) toDomain() (inventory.ProductionEntry, error) {
	date, err := parseDate("date", d.Date)
	if err != nil {
		return inventory.ProductionEntry{}, err
	}
	return inventory.ProductionEntry{
		Date: date, Item: d.Item, Qty: d.Qty, PackedQty: d.PackedQty, Unit: d.Unit, Notes: d.Notes,
	}, nil
}

func toProductionDTO(p inventory.ProductionEntry) ProductionDTO {
	return ProductionDTO{
		ID: p.ID, Date: formatDate(p.Date), Item: p.Item, Qty: p.Qty, PackedQty: p.PackedQty, Unit: p.Unit, Notes: p.Notes,
	}
}

type ExpenseDTO struct {
	ID           string          `json:"id,omitempty"`
	Date         string          `json:"date"`
	Category     string          `json:"category"`
	MaterialName string          `json:"materialName,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Amount       decimal.Decimal `json:"amount"`
	Notes        string          `json:"notes,omitempty"`
}

func (d ExpenseDTO) toDomain() (inventory.Expense, error) {
	date, err := parseDate("date", d.Date)
	if err != nil {
		return inventory.Expense{}, err
	}
	return inventory.Expense{
		Date: date, Category: d.Category, MaterialName: d.MaterialName,
		Quantity: d.Quantity, Unit: d.Unit, Amount: d.Amount, Notes: d.Notes,
	}, nil
}

func toExpenseDTO(e inventory.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID: e.ID, Date: formatDate(e.Date), Category: e.Category, MaterialName: e.MaterialName,
		Quantity: e.Quantity, Unit: e.Unit, Amount: e.Amount, Notes: e.Notes,
	}
}

type UsageDTO struct {
	ID           string          `json:"id,omitempty"`
	Date         string          `json:"date"`
	MaterialName string          `json:"materialName"`
	QuantityUsed decimal.Decimal `json:"quantityUsed"`
	Unit         string          `json:"unit"`
	Purpose      string          `json:"purpose,omitempty"`
}

func (d UsageDTO) toDomain() (inventory.UsageEntry, error) {
	date, err := parseDate("date", d.Date)
	if err != nil {
		return inventory.UsageEntry{}, err
	}
	return inventory.UsageEntry{
		Date: date, MaterialName: d.MaterialName, QuantityUsed: d.QuantityUsed, Unit: d.Unit, Purpose: d.Purpose,
	}, nil
}

func toUsageDTO(u inventory.UsageEntry) UsageDTO {
	return UsageDTO{
		ID: u.ID, Date: formatDate(u.Date), MaterialName: u.MaterialName,
		QuantityUsed: u.QuantityUsed, Unit: u.Unit, Purpose: u.Purpose,
	}
}

type OrderDTO struct {
	ID           string          `json:"id,omitempty"`
	Customer     string          `json:"customer"`
	Phone        string          `json:"phone,omitempty"`
	OrderDate    string          `json:"orderDate"`
	DeliveryDate string          `json:"deliveryDate,omitempty"`
	Items        []LineItemDTO   `json:"items"`
	Advance      decimal.Decimal `json:"advance"`
	Total        decimal.Decimal `json:"total"`
	Balance      decimal.Decimal `json:"balance"`
	Status       string          `json:"status"`
	SaleID       string          `json:"saleId,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

func (d OrderDTO) toDomain() (inventory.Order, error) {
	orderDate, err := parseDate("orderDate", d.OrderDate)
	if err != nil {
		return inventory.Order{}, err
	}
	deliveryDate, err := parseDate("deliveryDate", d.DeliveryDate)
	if err != nil {
		return inventory.Order{}, err
	}
	return inventory.Order{
		Customer:     d.Customer,
		Phone:        d.Phone,
		OrderDate:    orderDate,
		DeliveryDate: deliveryDate,
		Items:        toLineItems(d.Items),
		Advance:      d.Advance,
		Notes:        d.Notes,
	}, nil
}

func toOrderDTO(o inventory.Order) OrderDTO {
	return OrderDTO{
		ID:           o.ID,
		Customer:     o.Customer,
		Phone:        o.Phone,
		OrderDate:    formatDate(o.OrderDate),
		DeliveryDate: formatDate(o.DeliveryDate),
		Items:        toLineItemDTOs(o.Items),
		Advance:      o.Advance,
		Total:        o.Total(),
		Balance:      o.Balance(),
		Status:       string(o.Status),
		SaleID:       o.SaleID,
		Notes:        o.Notes,
	}
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type EmployeeDTO struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Role        string          `json:"role,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	DailySalary decimal.Decimal `json:"dailySalary"`
	Active      *bool           `json:"active,omitempty"`
	JoinedAt    string          `json:"joinedAt,omitempty"`
}

// toDomain uses active when the body omits the flag.
func (d EmployeeDTO) toDomain(active bool) (attendance.Employee, error) {
	joined, err := parseDate("joinedAt", d.JoinedAt)
	if err != nil {
		return attendance.Employee{}, err
	}
	if d.Active != nil {
		active = *d.Active
	}
	return attendance.Employee{
		Name: d.Name, Role: d.Role, Phone: d.Phone, DailySalary: d.DailySalary, Active: active, JoinedAt: joined,
	}, nil
}

func toEmployeeDTO(e attendance.Employee) EmployeeDTO {
	active := e.Active
	return EmployeeDTO{
		ID: e.ID, Name: e.Name, Role: e.Role, Phone: e.Phone,
		DailySalary: e.DailySalary, Active: &active, JoinedAt: formatDate(e.JoinedAt),
	}
}

type AttendanceDTO struct {
	ID           string           `json:"id,omitempty"`
	EmployeeID   string           `json:"employeeId"`
	Date         string           `json:"date"`
	Status       string           `json:"status"`
	CustomSalary *decimal.Decimal `json:"customSalary,omitempty"`
	Salary       decimal.Decimal  `json:"salary"`
}

func toAttendanceDTO(r attendance.Record) AttendanceDTO {
	return AttendanceDTO{
		ID: r.ID, EmployeeID: r.EmployeeID, Date: formatDate(r.Date),
		Status: string(r.Status), CustomSalary: r.CustomSalary, Salary: r.Salary,
	}
}

type EmployeeSalaryDTO struct {
	EmployeeID  string          `json:"employeeId"`
	Name        string          `json:"name"`
	DailySalary decimal.Decimal `json:"dailySalary"`
	PresentDays int             `json:"presentDays"`
	AbsentDays  int             `json:"absentDays"`
	Salary      decimal.Decimal `json:"salary"`
}

type SalarySummaryResponse struct {
	Year      int                 `json:"year"`
	Month     string              `json:"month"` // "1".."12" or "all"
	Employees []EmployeeSalaryDTO `json:"employees"`
	Total     decimal.Decimal     `json:"total"`
}

func toSalarySummaryResponse(s attendance.Summary) SalarySummaryResponse {
	month := "all"
	if s.Period.Month != attendance.AllMonths {
		month = fmt.Sprint(s.Period.Month)
	}
	resp := SalarySummaryResponse{
		Year:      s.Period.Year,
		Month:     month,
		Employees: make([]EmployeeSalaryDTO, len(s.Employees)),
		Total:     s.Total,
	}
	for i, e := range s.Employees {
		resp.Employees[i] = EmployeeSalaryDTO{
			EmployeeID:  e.EmployeeID,
			Name:        e.Name,
			DailySalary: e.DailySalary,
			PresentDays: e.PresentDays,
			AbsentDays:  e.AbsentDays,
			Salary:      e.Salary,
		}
	}
	return resp
}

// =============================================================================
// FARM
// =============================================================================

type CategoryDTO struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type CropDTO struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Variety   string `json:"variety,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func toCropDTO(c farm.Crop) CropDTO {
	dto := CropDTO{ID: c.ID, Name: c.Name, Variety: c.Variety}
	if !c.CreatedAt.IsZero() {
		dto.CreatedAt = c.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

type BatchDTO struct {
	ID        string          `json:"id,omitempty"`
	CropID    string          `json:"cropId"`
	Name      string          `json:"name"`
	StartDate string          `json:"startDate"`
	Area      decimal.Decimal `json:"area"`
	AreaUnit  string          `json:"areaUnit,omitempty"`
	Status    string          `json:"status,omitempty"`
}

func toBatchDTO(b farm.Batch) BatchDTO {
	return BatchDTO{
		ID: b.ID, CropID: b.CropID, Name: b.Name, StartDate: formatDate(b.StartDate),
		Area: b.Area, AreaUnit: b.AreaUnit, Status: string(b.Status),
	}
}

type BatchStatusRequest struct {
	Status string `json:"status"`
}

// FarmExpenseDTO flattens the category-specific detail. Which of quantity,
// unit, workers, wage and notes apply depends on the category's kind.
type FarmExpenseDTO struct {
	ID       string           `json:"id,omitempty"`
	BatchID  string           `json:"batchId,omitempty"`
	Date     string           `json:"date"`
	Category string           `json:"category"`
	Kind     string           `json:"kind,omitempty"`
	Amount   decimal.Decimal  `json:"amount"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Workers  *int             `json:"workers,omitempty"`
	Wage     *decimal.Decimal `json:"wage,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// toDomain resolves the detail variant from the category. Fields that do not
// belong to the category's kind are ignored.
func (d FarmExpenseDTO) toDomain(batchID string) (farm.Expense, error) {
	date, err := parseDate("date", d.Date)
	if err != nil {
		return farm.Expense{}, err
	}
	cat, err := farm.LookupCategory(d.Category)
	if err != nil {
		return farm.Expense{}, err
	}

	var detail farm.Detail
	switch cat.Kind {
	case farm.KindMaterial:
		md := farm.MaterialDetail{Unit: d.Unit}
		if d.Quantity != nil {
			md.Quantity = *d.Quantity
		}
		detail = md
	case farm.KindLabour:
		ld := farm.LabourDetail{}
		if d.Workers != nil {
			ld.Workers = *d.Workers
		}
		if d.Wage != nil {
			ld.Wage = *d.Wage
		}
		detail = ld
	default:
		detail = farm.GeneralDetail{Notes: d.Notes}
	}
	return farm.Expense{BatchID: batchID, Date: date, Category: cat.Name, Amount: d.Amount, Detail: detail}, nil
}

func toFarmExpenseDTO(e farm.Expense) FarmExpenseDTO {
	dto := FarmExpenseDTO{
		ID: e.ID, BatchID: e.BatchID, Date: formatDate(e.Date), Category: e.Category, Amount: e.Amount,
	}
	switch d := e.Detail.(type) {
	case farm.MaterialDetail:
		q := d.Quantity
		dto.Kind, dto.Quantity, dto.Unit = string(farm.KindMaterial), &q, d.Unit
	case farm.LabourDetail:
		workers, wage := d.Workers, d.Wage
		dto.Kind, dto.Workers, dto.Wage = string(farm.KindLabour), &workers, &wage
	case farm.GeneralDetail:
		dto.Kind, dto.Notes = string(farm.KindGeneral), d.Notes
	}
	return dto
}

type IncomeDTO struct {
	ID       string          `json:"id,omitempty"`
	BatchID  string          `json:"batchId,omitempty"`
	Date     string          `json:"date"`
	Source   string          `json:"source"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

func toIncomeDTO(i farm.Income) IncomeDTO {
	return IncomeDTO{
		ID: i.ID, BatchID: i.BatchID, Date: formatDate(i.Date), Source: i.Source,
		Quantity: i.Quantity, Unit: i.Unit, Amount: i.Amount,
	}
}

type TaskDTO struct {
	ID      string `json:"id,omitempty"`
	BatchID string `json:"batchId,omitempty"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Done    bool   `json:"done"`
}

func toTaskDTO(t farm.Task) TaskDTO {
	return TaskDTO{ID: t.ID, BatchID: t.BatchID, Date: formatDate(t.Date), Title: t.Title, Done: t.Done}
}

type TaskUpdateRequest struct {
	Done bool `json:"done"`
}

type CategoryTotalDTO struct {
	Category string          `json:"category"`
	Kind     string          `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
}

type BatchSummaryDTO struct {
	BatchID        string             `json:"batchId"`
	TotalExpense   decimal.Decimal    `json:"totalExpense"`
	TotalIncome    decimal.Decimal    `json:"totalIncome"`
	Profit         decimal.Decimal    `json:"profit"`
	ByCategory     []CategoryTotalDTO `json:"byCategory"`
	OpenTasks      int                `json:"openTasks"`
	CompletedTasks int                `json:"completedTasks"`
}

func toBatchSummaryDTO(s farm.BatchSummary) BatchSummaryDTO {
	dto := BatchSummaryDTO{
		BatchID:        s.BatchID,
		TotalExpense:   s.TotalExpense,
		TotalIncome:    s.TotalIncome,
		Profit:         s.Profit,
		ByCategory:     make([]CategoryTotalDTO, len(s.ByCategory)),
		OpenTasks:      s.OpenTasks,
		CompletedTasks: s.CompletedTasks,
	}
	for i, c := range s.ByCategory {
		dto.ByCategory[i] = CategoryTotalDTO{Category: c.Category, Kind: string(c.Kind), Amount: c.Amount}
	}
	return dto
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
