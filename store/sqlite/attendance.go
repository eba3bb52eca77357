package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radhakrishnanganapathy/rksApp-sub000/attendance"
)

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

const employeeColumns = `id, name, role, phone, daily_salary, active, joined_at`

func (s *Store) SaveEmployee(ctx context.Context, e attendance.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			phone = excluded.phone,
			daily_salary = excluded.daily_salary,
			active = excluded.active,
			joined_at = excluded.joined_at
	`
	_, err := s.exec(ctx, query,
		e.ID, e.Name, e.Role, e.Phone, e.DailySalary.String(), boolInt(e.Active), formatDate(e.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*attendance.Employee, error) {
	return getRow(s.queryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id), scanEmployee)
}

func (s *Store) ListEmployees(ctx context.Context) ([]attendance.Employee, error) {
	return listRows(ctx, s, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`, nil, scanEmployee)
}

// DeleteEmployee removes the employee together with their attendance.
func (s *Store) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.exec(ctx, `DELETE FROM attendance WHERE employee_id = ?`, id); err != nil {
			return err
		}
		var err error
		ok, err = affected(s.exec(ctx, `DELETE FROM employees WHERE id = ?`, id))
		return err
	})
	return ok, err
}

func scanEmployee(row scanner) (attendance.Employee, error) {
	var (
		e              attendance.Employee
		salary, joined string
		active         int
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Role, &e.Phone, &salary, &active, &joined); err != nil {
		return e, err
	}
	e.DailySalary = parseDecimal(salary)
	e.Active = active != 0
	e.JoinedAt = parseDate(joined)
	return e, nil
}

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

const attendanceColumns = `id, employee_id, date, status, custom_salary, salary`

// UpsertAttendance relies on UNIQUE(employee_id, date): a second mark for the
// same day updates the existing row instead of adding one.
func (s *Store) UpsertAttendance(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	var custom sql.NullString
	if r.CustomSalary != nil {
		custom = sql.NullString{String: r.CustomSalary.String(), Valid: true}
	}

	var out attendance.Record
	err := s.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO attendance (` + attendanceColumns + `)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(employee_id, date) DO UPDATE SET
				status = excluded.status,
				custom_salary = excluded.custom_salary,
				salary = excluded.salary
		`
		if _, err := s.exec(ctx, query, r.ID, r.EmployeeID, formatDate(r.Date), string(r.Status), custom, r.Salary.String()); err != nil {
			return fmt.Errorf("failed to mark attendance: %w", err)
		}
		stored, err := scanAttendance(s.queryRow(ctx,
			`SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = ? AND date = ?`,
			r.EmployeeID, formatDate(r.Date)))
		out = stored
		return err
	})
	return out, err
}

func (s *Store) DeleteAttendance(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	return affected(s.exec(ctx,
		`DELETE FROM attendance WHERE employee_id = ? AND date = ?`, employeeID, formatDate(date)))
}

func (s *Store) ListAttendance(ctx context.Context, from, to time.Time, employeeID string) ([]attendance.Record, error) {
	where, args := dateRange("date", from, to, nil, nil)
	if employeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, employeeID)
	}
	return listRows(ctx, s, `SELECT `+attendanceColumns+` FROM attendance`+whereClause(where)+` ORDER BY date, employee_id`, args, scanAttendance)
}

func scanAttendance(row scanner) (attendance.Record, error) {
	var (
		r                    attendance.Record
		date, status, salary string
		custom               sql.NullString
	)
	if err := row.Scan(&r.ID, &r.EmployeeID, &date, &status, &custom, &salary); err != nil {
		return r, err
	}
	r.Salary = parseDecimal(salary)
	r.Date = parseDate(date)
	r.Status = attendance.Status(status)
	if custom.Valid {
		d, err := decimal.NewFromString(custom.String)
		if err == nil {
			r.CustomSalary = &d
		}
	}
	return r, nil
}

var _ attendance.Store = (*Store)(nil)
