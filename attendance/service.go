package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store persists employees and attendance.
type Store interface {
	SaveEmployee(ctx context.Context, e Employee) error
	// GetEmployee returns nil when the id is unknown.
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	// DeleteEmployee removes the employee and their attendance. Reports whether it existed.
	DeleteEmployee(ctx context.Context, id string) (bool, error)

	// UpsertAttendance inserts or replaces the record for (EmployeeID, Date) and
	// returns the stored row. An existing row keeps its ID.
	UpsertAttendance(ctx context.Context, r Record) (Record, error)
	DeleteAttendance(ctx context.Context, employeeID string, date time.Time) (bool, error)
	// ListAttendance returns records with from <= date <= to, optionally for one employee.
	ListAttendance(ctx context.Context, from, to time.Time, employeeID string) ([]Record, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func validateEmployee(e Employee) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if e.DailySalary.IsNegative() {
		return fmt.Errorf("%w: dailySalary must not be negative", ErrValidation)
	}
	return nil
}

func (s *Service) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	if err := validateEmployee(e); err != nil {
		return Employee{}, err
	}
	e.ID = uuid.NewString()
	if e.JoinedAt.IsZero() {
		e.JoinedAt = s.now()
	}
	e.JoinedAt = day(e.JoinedAt)
	if err := s.store.SaveEmployee(ctx, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, e Employee) (Employee, error) {
	if err := validateEmployee(e); err != nil {
		return Employee{}, err
	}
	cur, err := s.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	e.ID = id
	if e.JoinedAt.IsZero() {
		e.JoinedAt = cur.JoinedAt
	}
	e.JoinedAt = day(e.JoinedAt)
	if err := s.store.SaveEmployee(ctx, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if e == nil {
		return Employee{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	return *e, nil
}

func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	all, err := s.store.ListEmployees(ctx)
	if err != nil || !activeOnly {
		return all, err
	}
	active := make([]Employee, 0, len(all))
	for _, e := range all {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	ok, err := s.store.DeleteEmployee(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	return nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// Mark records attendance for one employee on one day. Marking a day that
// already has a record replaces its status and salary.
func (s *Service) Mark(ctx context.Context, employeeID string, date time.Time, status Status, customSalary *decimal.Decimal) (Record, error) {
	if !status.Valid() {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if date.IsZero() {
		return Record{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if customSalary != nil && customSalary.IsNegative() {
		return Record{}, fmt.Errorf("%w: customSalary must not be negative", ErrValidation)
	}
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return Record{}, err
	}

	return s.store.UpsertAttendance(ctx, Record{
		ID:           uuid.NewString(),
		EmployeeID:   employeeID,
		Date:         day(date),
		Status:       status,
		CustomSalary: customSalary,
		Salary:       daySalary(status, emp.DailySalary, customSalary),
	})
}

// Unmark removes the record for (employeeID, date).
func (s *Service) Unmark(ctx context.Context, employeeID string, date time.Time) error {
	ok, err := s.store.DeleteAttendance(ctx, employeeID, day(date))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrNotFound, employeeID, date.Format("2006-01-02"))
	}
	return nil
}

// List returns records between from and to inclusive. Zero bounds are open.
func (s *Service) List(ctx context.Context, from, to time.Time, employeeID string) ([]Record, error) {
	return s.store.ListAttendance(ctx, from, to, employeeID)
}

// =============================================================================
// SALARY
// =============================================================================

// Summary values attendance in the period. Employees appear when they are
// active or have at least one record in the period.
func (s *Service) Summary(ctx context.Context, p Period) (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}
	from, to := p.Range()

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return Summary{}, err
	}
	records, err := s.store.ListAttendance(ctx, from, to, "")
	if err != nil {
		return Summary{}, err
	}

	rows := make(map[string]*EmployeeSalary, len(employees))
	for _, e := range employees {
		rows[e.ID] = &EmployeeSalary{
			EmployeeID:  e.ID,
			Name:        e.Name,
			DailySalary: e.DailySalary,
			Salary:      decimal.Zero,
		}
	}
	seen := make(map[string]bool)
	for _, r := range records {
		row, ok := rows[r.EmployeeID]
		if !ok {
			continue
		}
		seen[r.EmployeeID] = true
		switch r.Status {
		case StatusPresent:
			row.PresentDays++
			row.Salary = row.Salary.Add(r.Salary)
		case StatusAbsent:
			row.AbsentDays++
		}
	}

	out := Summary{Period: p, Total: decimal.Zero}
	for _, e := range employees {
		if !e.Active && !seen[e.ID] {
			continue
		}
		row := rows[e.ID]
		out.Employees = append(out.Employees, *row)
		out.Total = out.Total.Add(row.Salary)
	}
	sort.SliceStable(out.Employees, func(i, j int) bool {
		return out.Employees[i].Name < out.Employees[j].Name
	})
	return out, nil
}
