// Package directory holds the fixed set of employees known to HRDesk.
//
// Employees are seeded once at startup. The only field that changes afterwards
// is LeaveBalance, and only the leave ledger writes it.
package directory

import (
	"errors"
	"sync"
)

// ErrEmployeeNotFound is returned when an employee id does not resolve.
var ErrEmployeeNotFound = errors.New("employee not found")

// Employee is a directory entry.
type Employee struct {
	ID           string `json:"emp_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	LeaveBalance int    `json:"leave_balance"`
}

// Directory is a concurrency-safe employee lookup table.
type Directory struct {
	mu        sync.RWMutex
	employees map[string]*Employee
	order     []string
}

// New creates a Directory from the given employees. Later duplicates of an id
// replace earlier ones but keep the first position.
func New(employees ...Employee) *Directory {
	d := &Directory{
		employees: make(map[string]*Employee, len(employees)),
	}
	for _, e := range employees {
		emp := e
		if _, exists := d.employees[emp.ID]; !exists {
			d.order = append(d.order, emp.ID)
		}
		d.employees[emp.ID] = &emp
	}
	return d
}

// Lookup returns a copy of the employee with the given id.
func (d *Directory) Lookup(empID string) (Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	emp, ok := d.employees[empID]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return *emp, nil
}

// AdjustBalance applies a signed delta to the employee's leave balance and
// returns the updated record. The result is not checked against zero.
func (d *Directory) AdjustBalance(empID string, delta int) (Employee, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	emp, ok := d.employees[empID]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	emp.LeaveBalance += delta
	return *emp, nil
}

// All returns copies of every employee in seed order.
func (d *Directory) All() []Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Employee, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.employees[id])
	}
	return out
}

// Len returns the number of employees.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}
