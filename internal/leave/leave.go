// Package leave implements the leave ledger: submission, approval and
// cancellation of leave requests, and the balance deduction that goes with
// approval.
package leave

import (
	"errors"
	"strings"
	"sync"

	"github.com/localrivet/hrdesk/internal/directory"
	"github.com/localrivet/hrdesk/internal/util"
)

// IDPrefix prefixes every leave request identifier.
const IDPrefix = "L"

// Status is the lifecycle state of a leave request.
type Status string

// Leave request statuses. Approved and Cancelled are terminal.
const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusCancelled Status = "Cancelled"
)

var (
	ErrEmployeeNotFound    = directory.ErrEmployeeNotFound
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrInvalidDays         = errors.New("leave days must be at least 1")
	// ErrNotFoundOrAlreadyProcessed is returned by Approve both for unknown
	// ids and for requests that are no longer pending.
	ErrNotFoundOrAlreadyProcessed = errors.New("leave request not found or already processed")
	ErrLeaveNotFound              = errors.New("leave request not found")
	ErrCannotCancelProcessed      = errors.New("cannot cancel a processed leave request")
)

// Request is a single leave request.
type Request struct {
	ID         string `json:"leave_id"`
	EmployeeID string `json:"emp_id"`
	Days       int    `json:"days"`
	Reason     string `json:"reason"`
	Status     Status `json:"status"`
	ApprovedBy string `json:"approved_by,omitempty"`
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	EmployeeID string
	// Status is compared case-insensitively.
	Status string
}

func (f Filter) match(r *Request) bool {
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(r.Status), f.Status) {
		return false
	}
	return true
}

// Ledger owns all leave requests. A single mutex serializes every operation so
// that the balance check in Submit and the deduction in Approve cannot
// interleave.
type Ledger struct {
	mu       sync.Mutex
	dir      *directory.Directory
	requests []*Request
	byID     map[string]*Request
	seq      int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithRequests preloads previously stored requests. The id counter continues
// after the highest sequence number found.
func WithRequests(requests ...Request) Option {
	return func(l *Ledger) {
		for _, r := range requests {
			req := r
			l.requests = append(l.requests, &req)
			l.byID[req.ID] = &req
			if n, ok := util.ParseSequence(IDPrefix, req.ID); ok && n > l.seq {
				l.seq = n
			}
		}
	}
}

// NewLedger creates a Ledger backed by dir.
func NewLedger(dir *directory.Directory, opts ...Option) *Ledger {
	l := &Ledger{
		dir:  dir,
		byID: make(map[string]*Request),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit records a new pending request. The employee's balance must cover
// days; it is not deducted until approval.
func (l *Ledger) Submit(empID string, days int, reason string) (Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	emp, err := l.dir.Lookup(empID)
	if err != nil {
		return Request{}, err
	}
	if days < 1 {
		return Request{}, ErrInvalidDays
	}
	if emp.LeaveBalance < days {
		return Request{}, ErrInsufficientBalance
	}

	l.seq++
	req := &Request{
		ID:         util.SequenceID(IDPrefix, l.seq),
		EmployeeID: empID,
		Days:       days,
		Reason:     reason,
		Status:     StatusPending,
	}
	l.requests = append(l.requests, req)
	l.byID[req.ID] = req
	return *req, nil
}

// Approve moves a pending request to Approved and deducts its days from the
// employee's balance. approverID is recorded as given.
func (l *Ledger) Approve(leaveID, approverID string) (Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, ok := l.byID[leaveID]
	if !ok || req.Status != StatusPending {
		return Request{}, ErrNotFoundOrAlreadyProcessed
	}
	if _, err := l.dir.AdjustBalance(req.EmployeeID, -req.Days); err != nil {
		return Request{}, err
	}
	req.Status = StatusApproved
	req.ApprovedBy = approverID
	return *req, nil
}

// Cancel moves a pending request to Cancelled. Balances are never touched.
func (l *Ledger) Cancel(leaveID string) (Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, ok := l.byID[leaveID]
	if !ok {
		return Request{}, ErrLeaveNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ErrCannotCancelProcessed
	}
	req.Status = StatusCancelled
	return *req, nil
}

// Balance returns the employee record holding the current balance.
func (l *Ledger) Balance(empID string) (directory.Employee, error) {
	return l.dir.Lookup(empID)
}

// Get returns the request with the given id.
func (l *Ledger) Get(leaveID string) (Request, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, ok := l.byID[leaveID]
	if !ok {
		return Request{}, false
	}
	return *req, true
}

// List returns the requests matching f in submission order.
func (l *Ledger) List(f Filter) []Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Request, 0, len(l.requests))
	for _, r := range l.requests {
		if f.match(r) {
			out = append(out, *r)
		}
	}
	return out
}

// Count returns how many requests exist for empID, in any status. An empty
// empID counts every request.
func (l *Ledger) Count(empID string) int {
	return len(l.List(Filter{EmployeeID: empID}))
}
