package domain

import "time"

// EmployeeRow holds the resolved month of one employee, keyed by day of month.
type EmployeeRow struct {
	EmployeeID uint
	Name       string
	Days       map[int]Cell
}

// Report is the resolved month. Rows keep the order employees were given in.
type Report struct {
	Year  int
	Month time.Month
	Rows  []EmployeeRow
}

// DaysInMonth returns 28..31 for the report month.
func (r *Report) DaysInMonth() int {
	return DaysIn(r.Year, r.Month)
}

// ByName projects the report onto the sink mapping:
// display name -> day of month -> cell. Employees sharing a display name
// collide and the later row wins.
func (r *Report) ByName() map[string]map[int]Cell {
	out := make(map[string]map[int]Cell, len(r.Rows))
	for _, row := range r.Rows {
		out[row.Name] = row.Days
	}
	return out
}

// Row returns the row of an employee, or nil.
func (r *Report) Row(employeeID uint) *EmployeeRow {
	for i := range r.Rows {
		if r.Rows[i].EmployeeID == employeeID {
			return &r.Rows[i]
		}
	}
	return nil
}

// BuildMonthReport resolves every day of the month for every employee
// with the default resolver.
func BuildMonthReport(year int, month time.Month, employees []Employee, plans []PlanEntry, adjustments []Adjustment) *Report {
	return NewResolver().BuildMonth(year, month, employees, plans, adjustments)
}

// BuildMonth indexes plans and adjustments by (employee, date) and resolves
// one cell per employee per day. Only the given employees get a row; plan or
// adjustment rows of anyone else are ignored. Inputs are not modified.
func (r *Resolver) BuildMonth(year int, month time.Month, employees []Employee, plans []PlanEntry, adjustments []Adjustment) *Report {
	planIndex := make(map[dayKey]*PlanEntry, len(plans))
	for i := range plans {
		planIndex[keyOf(plans[i].EmployeeID, plans[i].Date)] = &plans[i]
	}

	adjIndex := make(map[dayKey]*Adjustment, len(adjustments))
	for i := range adjustments {
		adjIndex[keyOf(adjustments[i].EmployeeID, adjustments[i].Date)] = &adjustments[i]
	}

	numDays := DaysIn(year, month)
	report := &Report{
		Year:  year,
		Month: month,
		Rows:  make([]EmployeeRow, 0, len(employees)),
	}

	for _, emp := range employees {
		row := EmployeeRow{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Days:       make(map[int]Cell, numDays),
		}

		for day := 1; day <= numDays; day++ {
			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			key := keyOf(emp.ID, date)
			row.Days[day] = r.Resolve(emp, planIndex[key], adjIndex[key], date)
		}

		report.Rows = append(report.Rows, row)
	}

	return report
}
