/*
Package attendance tracks employee attendance and values it as salary.

KEY CONCEPTS:
  - Employee: a worker with a default daily salary
  - Record:   one attendance mark for (employee, date), present or absent
  - Period:   a year plus a month 1..12, or month 0 for the whole year

SALARY RULE:
  A present day is paid customSalary when the mark carries one, otherwise
  the employee's dailySalary at the time of marking. The amount is stored on
  the record, so a later change to dailySalary does not revalue past days.
  Absent days are counted but not paid.

UNIQUENESS:
  There is at most one Record per (employee, date). Marking the same day
  again replaces the previous values; the store enforces this with a unique
  constraint so concurrent marks cannot produce duplicates.
*/
package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID          string
	Name        string
	Role        string
	Phone       string
	DailySalary decimal.Decimal
	Active      bool
	JoinedAt    time.Time
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

func (s Status) Valid() bool { return s == StatusPresent || s == StatusAbsent }

// Record is one attendance mark.
type Record struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Status       Status
	CustomSalary *decimal.Decimal // overrides the daily salary for this day
	Salary       decimal.Decimal  // what the day pays, fixed when marked
}

// daySalary returns what a mark pays given the employee's current daily salary.
func daySalary(status Status, daily decimal.Decimal, custom *decimal.Decimal) decimal.Decimal {
	if status != StatusPresent {
		return decimal.Zero
	}
	if custom != nil {
		return *custom
	}
	return daily
}

// =============================================================================
// PERIOD
// =============================================================================

// Period selects a month of a year, or the whole year when Month is 0.
type Period struct {
	Year  int
	Month int
}

// AllMonths is the Month value meaning the whole year.
const AllMonths = 0

// ParseMonth accepts "1".."12" or "all".
func ParseMonth(s string) (int, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return AllMonths, nil
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("%w: month must be 1-12 or all, got %q", ErrValidation, s)
	}
	return m, nil
}

func (p Period) Validate() error {
	if p.Year < 1 {
		return fmt.Errorf("%w: year is required", ErrValidation)
	}
	if p.Month < 0 || p.Month > 12 {
		return fmt.Errorf("%w: month must be 0-12", ErrValidation)
	}
	return nil
}

// Range returns the first and last day of the period.
func (p Period) Range() (time.Time, time.Time) {
	if p.Month == AllMonths {
		return time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(p.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// =============================================================================
// SUMMARY
// =============================================================================

type EmployeeSalary struct {
	EmployeeID  string
	Name        string
	DailySalary decimal.Decimal
	PresentDays int
	AbsentDays  int
	Salary      decimal.Decimal
}

type Summary struct {
	Period    Period
	Employees []EmployeeSalary
	Total     decimal.Decimal
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
