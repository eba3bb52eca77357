package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhakrishnanganapathy/rksApp-sub000/attendance"
	"github.com/radhakrishnanganapathy/rksApp-sub000/store/sqlite"
)

func newTestService(t *testing.T) *attendance.Service {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return attendance.NewService(store)
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func hire(t *testing.T, svc *attendance.Service, name string, daily int64) attendance.Employee {
	t.Helper()
	e, err := svc.CreateEmployee(context.Background(), attendance.Employee{
		Name: name, DailySalary: decimal.NewFromInt(daily), Active: true, JoinedAt: day(time.January, 1),
	})
	require.NoError(t, err)
	return e
}

func mark(t *testing.T, svc *attendance.Service, empID string, date time.Time, status attendance.Status, custom *decimal.Decimal) {
	t.Helper()
	_, err := svc.Mark(context.Background(), empID, date, status, custom)
	require.NoError(t, err)
}

func TestMark_SameDayKeepsLatest(t *testing.T) {
	// GIVEN: An employee
	svc := newTestService(t)
	ctx := context.Background()
	e := hire(t, svc, "Selvi", 500)

	// WHEN: Marking one day twice, the second time with a custom salary
	mark(t, svc, e.ID, day(time.May, 2), attendance.StatusAbsent, nil)
	custom := decimal.NewFromInt(650)
	mark(t, svc, e.ID, day(time.May, 2).Add(15*time.Hour), attendance.StatusPresent, &custom)

	// THEN: One record with the latest values
	records, err := svc.List(ctx, day(time.May, 1), day(time.May, 31), e.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.StatusPresent, records[0].Status)
	require.NotNil(t, records[0].CustomSalary)
	assert.True(t, custom.Equal(*records[0].CustomSalary))
}

func TestMark_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := hire(t, svc, "Selvi", 500)

	_, err := svc.Mark(ctx, e.ID, day(time.May, 2), "late", nil)
	assert.ErrorIs(t, err, attendance.ErrInvalidStatus)

	_, err = svc.Mark(ctx, "ghost", day(time.May, 2), attendance.StatusPresent, nil)
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)

	negative := decimal.NewFromInt(-1)
	_, err = svc.Mark(ctx, e.ID, day(time.May, 2), attendance.StatusPresent, &negative)
	assert.ErrorIs(t, err, attendance.ErrValidation)

	_, err = svc.Mark(ctx, e.ID, time.Time{}, attendance.StatusPresent, nil)
	assert.True(t, attendance.IsClientError(err))
}

func TestUnmark(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := hire(t, svc, "Selvi", 500)
	mark(t, svc, e.ID, day(time.May, 2), attendance.StatusPresent, nil)

	require.NoError(t, svc.Unmark(ctx, e.ID, day(time.May, 2)))

	err := svc.Unmark(ctx, e.ID, day(time.May, 2))
	assert.True(t, attendance.IsNotFound(err))
}

func TestSummary_MonthAndYear(t *testing.T) {
	// GIVEN: Two employees with marks in May and June
	svc := newTestService(t)
	ctx := context.Background()
	selvi := hire(t, svc, "Selvi", 500)
	arun := hire(t, svc, "Arun", 400)

	custom := decimal.NewFromInt(650)
	mark(t, svc, selvi.ID, day(time.May, 2), attendance.StatusPresent, &custom)
	mark(t, svc, selvi.ID, day(time.May, 3), attendance.StatusPresent, nil)
	mark(t, svc, selvi.ID, day(time.May, 4), attendance.StatusAbsent, nil)
	mark(t, svc, arun.ID, day(time.June, 1), attendance.StatusPresent, nil)

	// WHEN: Summarizing May
	may, err := svc.Summary(ctx, attendance.Period{Year: 2025, Month: 5})
	require.NoError(t, err)

	// THEN: Selvi earns 650 + 500, Arun is listed with nothing
	require.Len(t, may.Employees, 2)
	assert.Equal(t, "Arun", may.Employees[0].Name)
	assert.True(t, may.Employees[0].Salary.IsZero())
	assert.Equal(t, 2, may.Employees[1].PresentDays)
	assert.Equal(t, 1, may.Employees[1].AbsentDays)
	assert.True(t, decimal.NewFromInt(1150).Equal(may.Total))

	// WHEN: Summarizing the whole year
	year, err := svc.Summary(ctx, attendance.Period{Year: 2025, Month: attendance.AllMonths})
	require.NoError(t, err)

	// THEN: June counts too
	assert.True(t, decimal.NewFromInt(1550).Equal(year.Total))
}

func TestSummary_InactiveEmployees(t *testing.T) {
	// GIVEN: Two employees who leave; only one worked in May
	svc := newTestService(t)
	ctx := context.Background()
	worked := hire(t, svc, "Kavitha", 300)
	idle := hire(t, svc, "Ravi", 300)
	mark(t, svc, worked.ID, day(time.May, 5), attendance.StatusPresent, nil)

	for _, e := range []attendance.Employee{worked, idle} {
		e.Active = false
		_, err := svc.UpdateEmployee(ctx, e.ID, e)
		require.NoError(t, err)
	}

	// WHEN: Summarizing May
	may, err := svc.Summary(ctx, attendance.Period{Year: 2025, Month: 5})
	require.NoError(t, err)

	// THEN: Only the one with records is listed
	require.Len(t, may.Employees, 1)
	assert.Equal(t, "Kavitha", may.Employees[0].Name)
}

func TestDeleteEmployee_RemovesAttendance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	e := hire(t, svc, "Selvi", 500)
	mark(t, svc, e.ID, day(time.May, 2), attendance.StatusPresent, nil)

	require.NoError(t, svc.DeleteEmployee(ctx, e.ID))

	records, err := svc.List(ctx, time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.Empty(t, records)
	_, err = svc.GetEmployee(ctx, e.ID)
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestEmployee_Validation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateEmployee(context.Background(), attendance.Employee{Name: " "})
	assert.ErrorIs(t, err, attendance.ErrValidation)

	_, err = svc.CreateEmployee(context.Background(), attendance.Employee{Name: "x", DailySalary: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, attendance.ErrValidation)
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"all", attendance.AllMonths, false},
		{"ALL", attendance.AllMonths, false},
		{"", attendance.AllMonths, false},
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"13", 0, true},
		{"may", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := attendance.ParseMonth(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, attendance.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_Range(t *testing.T) {
	from, to := attendance.Period{Year: 2024, Month: 2}.Range()
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), to)

	from, to = attendance.Period{Year: 2024}.Range()
	assert.Equal(t, time.January, from.Month())
	assert.Equal(t, 31, to.Day())
	assert.Equal(t, time.December, to.Month())
}

func TestSummary_RaiseDoesNotRevaluePastDays(t *testing.T) {
	// GIVEN: An employee marked present in March at 500 a day
	svc := newTestService(t)
	ctx := context.Background()
	e := hire(t, svc, "Selvi", 500)
	mark(t, svc, e.ID, day(time.March, 3), attendance.StatusPresent, nil)

	// WHEN: The daily salary is raised to 800 and April is marked
	e.DailySalary = decimal.NewFromInt(800)
	_, err := svc.UpdateEmployee(ctx, e.ID, e)
	require.NoError(t, err)
	mark(t, svc, e.ID, day(time.April, 1), attendance.StatusPresent, nil)

	// THEN: March still pays 500, April pays the new rate
	march, err := svc.Summary(ctx, attendance.Period{Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(march.Total), "got %s", march.Total)
	april, err := svc.Summary(ctx, attendance.Period{Year: 2025, Month: 4})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(april.Total), "got %s", april.Total)

	records, err := svc.List(ctx, day(time.March, 1), day(time.March, 31), e.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, decimal.NewFromInt(500).Equal(records[0].Salary))
	assert.Nil(t, records[0].CustomSalary)
}
