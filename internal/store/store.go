// Package store provides persistence for the HRDesk directory, leave ledger
// and meeting calendar.
package store

import (
	"github.com/localrivet/hrdesk/internal/directory"
	"github.com/localrivet/hrdesk/internal/leave"
	"github.com/localrivet/hrdesk/internal/meeting"
)

// Snapshot is the full persisted state, each collection in insertion order.
type Snapshot struct {
	Employees []directory.Employee
	Leaves    []leave.Request
	Meetings  []meeting.Meeting
}

// Store defines the interface for persisting HRDesk records.
type Store interface {
	// Initialize opens the store at the given path.
	Initialize(dbPath string) error

	// Close closes the store and releases any resources.
	Close() error

	// SaveEmployee inserts or updates an employee.
	SaveEmployee(emp directory.Employee) error

	// SaveLeave inserts or updates a leave request.
	SaveLeave(req leave.Request) error

	// SaveMeeting inserts or updates a meeting.
	SaveMeeting(m meeting.Meeting) error

	// SaveSnapshot writes every record of s atomically.
	SaveSnapshot(s *Snapshot) error

	// Load reads all records.
	Load() (*Snapshot, error)
}
