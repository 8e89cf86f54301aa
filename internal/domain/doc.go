// Package domain resolves the attendance status of employees.
//
// Three sources describe a day: the employee profile, the baseline plan row
// and a manual adjustment. Resolver folds them into one Cell (code and note)
// using a fixed precedence table, and BuildMonth does so for every employee
// and every day of a month. The package performs no I/O and keeps no state
// between calls.
package domain
