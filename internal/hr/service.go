// Package hr is the query and reporting facade over the employee directory,
// the leave ledger and the meeting calendar. It is the single entry point the
// transports use, and it writes every successful change through to the
// configured store.
package hr

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/localrivet/hrdesk/internal/directory"
	"github.com/localrivet/hrdesk/internal/errortypes"
	"github.com/localrivet/hrdesk/internal/leave"
	"github.com/localrivet/hrdesk/internal/logger"
	"github.com/localrivet/hrdesk/internal/meeting"
	"github.com/localrivet/hrdesk/internal/store"
	"github.com/localrivet/hrdesk/internal/telemetry"
)

// Report aggregates leave and meeting counts. TotalLeaveRequests counts
// requests in any status while UpcomingMeetings only counts scheduled
// meetings.
type Report struct {
	TotalLeaveRequests int `json:"total_leave_requests"`
	UpcomingMeetings   int `json:"upcoming_meetings"`
}

// Service wires the HR components together. leaveMu and meetingMu keep each
// mutation and its store write in the same order across goroutines.
type Service struct {
	leaveMu   sync.Mutex
	meetingMu sync.Mutex

	dir      *directory.Directory
	ledger   *leave.Ledger
	calendar *meeting.Calendar
	store    store.Store
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStore enables write-through persistence.
func WithStore(s store.Store) Option {
	return func(svc *Service) { svc.store = s }
}

// WithMetrics records operation outcomes on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New creates a Service over existing components.
func New(dir *directory.Directory, ledger *leave.Ledger, calendar *meeting.Calendar, opts ...Option) *Service {
	svc := &Service{
		dir:      dir,
		ledger:   ledger,
		calendar: calendar,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.logger = logger.GetLogger(svc.logger, "hr")
	svc.metrics.SetEmployees(dir.Len())
	return svc
}

// Open builds a Service from the records held by st. A store without
// employees is seeded with the default employees. A nil st gives a memory-only service.
func Open(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		dir := directory.Default()
		return New(dir, leave.NewLedger(dir), meeting.NewCalendar(), opts...), nil
	}

	snap, err := st.Load()
	if err != nil {
		return nil, errortypes.DatabaseError(err, "failed to load stored state")
	}

	if len(snap.Employees) == 0 {
		seed := &store.Snapshot{Employees: directory.DefaultEmployees()}
		if err := st.SaveSnapshot(seed); err != nil {
			return nil, errortypes.DatabaseError(err, "failed to seed employees")
		}
		snap.Employees = seed.Employees
	}

	dir := directory.New(snap.Employees...)
	ledger := leave.NewLedger(dir, leave.WithRequests(snap.Leaves...))
	calendar := meeting.NewCalendar(meeting.WithMeetings(snap.Meetings...))

	svc := New(dir, ledger, calendar, append(append([]Option(nil), opts...), WithStore(st))...)
	svc.logger.Info("Restored state from store",
		"employees", len(snap.Employees),
		"leave_requests", len(snap.Leaves),
		"meetings", len(snap.Meetings))
	return svc, nil
}

// persist runs a store write if a store is configured. Failures are logged
// and counted; the in-memory change stands.
func (s *Service) persist(what, id string, write func(store.Store) error) {
	if s.store == nil {
		return
	}
	if err := write(s.store); err != nil {
		s.metrics.StoreError()
		errortypes.LogError(s.logger, errortypes.DatabaseError(err, "failed to persist "+what).
			WithField("id", id))
	}
}

// SubmitLeave files a new pending leave request.
func (s *Service) SubmitLeave(empID string, days int, reason string) (leave.Request, error) {
	s.leaveMu.Lock()
	defer s.leaveMu.Unlock()

	s.logger.Debug("Submitting leave request", "emp_id", empID, "days", days)

	req, err := s.ledger.Submit(empID, days, reason)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInsufficientBalance):
			s.metrics.LeaveRequest(telemetry.LeaveRejectedBalance)
		case errors.Is(err, leave.ErrInvalidDays):
			s.metrics.LeaveRequest(telemetry.LeaveRejectedInvalidDays)
		default:
			s.metrics.LeaveRequest(telemetry.LeaveRejectedNotFound)
		}
		s.logger.Warn("Leave request rejected", "emp_id", empID, "days", days, "error", err)
		return leave.Request{}, err
	}

	s.persist("leave request", req.ID, func(st store.Store) error { return st.SaveLeave(req) })
	s.metrics.LeaveRequest(telemetry.LeaveSubmitted)
	s.logger.Info("Leave request submitted", "leave_id", req.ID, "emp_id", empID, "days", days)
	return req, nil
}

// ApproveLeave approves a pending request and deducts its days.
func (s *Service) ApproveLeave(leaveID, approverID string) (leave.Request, error) {
	s.leaveMu.Lock()
	defer s.leaveMu.Unlock()

	req, err := s.ledger.Approve(leaveID, approverID)
	if err != nil {
		s.metrics.LeaveRequest(telemetry.LeaveRejectedProcessed)
		s.logger.Warn("Leave approval rejected", "leave_id", leaveID, "approver_id", approverID, "error", err)
		return leave.Request{}, err
	}

	emp, lookupErr := s.dir.Lookup(req.EmployeeID)
	s.persist("leave approval", req.ID, func(st store.Store) error {
		if lookupErr != nil {
			return lookupErr
		}
		return st.SaveSnapshot(&store.Snapshot{
			Employees: []directory.Employee{emp},
			Leaves:    []leave.Request{req},
		})
	})
	s.metrics.LeaveRequest(telemetry.LeaveApproved)
	s.logger.Info("Leave request approved",
		"leave_id", req.ID, "emp_id", req.EmployeeID, "approver_id", approverID, "balance", emp.LeaveBalance)
	return req, nil
}

// CancelLeave cancels a pending request.
func (s *Service) CancelLeave(leaveID string) (leave.Request, error) {
	s.leaveMu.Lock()
	defer s.leaveMu.Unlock()

	req, err := s.ledger.Cancel(leaveID)
	if err != nil {
		if errors.Is(err, leave.ErrCannotCancelProcessed) {
			s.metrics.LeaveRequest(telemetry.LeaveRejectedProcessed)
		} else {
			s.metrics.LeaveRequest(telemetry.LeaveRejectedNotFound)
		}
		s.logger.Warn("Leave cancellation rejected", "leave_id", leaveID, "error", err)
		return leave.Request{}, err
	}

	s.persist("leave cancellation", req.ID, func(st store.Store) error { return st.SaveLeave(req) })
	s.metrics.LeaveRequest(telemetry.LeaveCancelled)
	s.logger.Info("Leave request cancelled", "leave_id", req.ID)
	return req, nil
}

// LeaveBalance returns the employee record carrying the current balance.
func (s *Service) LeaveBalance(empID string) (directory.Employee, error) {
	return s.ledger.Balance(empID)
}

// ListLeaves lists leave requests filtered by employee and status.
func (s *Service) ListLeaves(empID, status string) []leave.Request {
	return s.ledger.List(leave.Filter{EmployeeID: empID, Status: status})
}

// ScheduleMeeting books a client meeting.
func (s *Service) ScheduleMeeting(empID, date, slot, client string) meeting.Meeting {
	s.meetingMu.Lock()
	defer s.meetingMu.Unlock()

	m := s.calendar.Schedule(empID, date, slot, client)

	s.persist("meeting", m.ID, func(st store.Store) error { return st.SaveMeeting(m) })
	s.metrics.Meeting(telemetry.MeetingScheduled)
	s.logger.Info("Meeting scheduled", "meeting_id", m.ID, "emp_id", empID, "date", date, "time", slot)
	return m
}

// AvailableSlots lists the free slots of an employee on date.
func (s *Service) AvailableSlots(empID, date string) []string {
	return s.calendar.AvailableSlots(empID, date)
}

// UpcomingMeetings lists the scheduled meetings of an employee.
func (s *Service) UpcomingMeetings(empID string) []meeting.Meeting {
	return s.calendar.Upcoming(empID)
}

// CancelMeeting cancels a meeting.
func (s *Service) CancelMeeting(meetingID string) (meeting.Meeting, error) {
	s.meetingMu.Lock()
	defer s.meetingMu.Unlock()

	m, err := s.calendar.Cancel(meetingID)
	if err != nil {
		s.metrics.Meeting(telemetry.MeetingNotFound)
		s.logger.Warn("Meeting cancellation rejected", "meeting_id", meetingID, "error", err)
		return meeting.Meeting{}, err
	}

	s.persist("meeting cancellation", m.ID, func(st store.Store) error { return st.SaveMeeting(m) })
	s.metrics.Meeting(telemetry.MeetingCancelled)
	s.logger.Info("Meeting cancelled", "meeting_id", m.ID)
	return m, nil
}

// SendInvite acknowledges an invitation to email for the meeting.
func (s *Service) SendInvite(meetingID, email string) (meeting.Meeting, error) {
	m, err := s.calendar.Invite(meetingID, email)
	if err != nil {
		s.metrics.Meeting(telemetry.MeetingNotFound)
		s.logger.Warn("Meeting invite rejected", "meeting_id", meetingID, "error", err)
		return meeting.Meeting{}, err
	}

	s.metrics.Meeting(telemetry.MeetingInvited)
	s.logger.Info("Meeting invite acknowledged", "meeting_id", m.ID, "email", email)
	return m, nil
}

// EmployeeInfo looks up an employee. ok is false when the id is unknown.
func (s *Service) EmployeeInfo(empID string) (emp directory.Employee, ok bool) {
	emp, err := s.dir.Lookup(empID)
	return emp, err == nil
}

// Employees lists the directory.
func (s *Service) Employees() []directory.Employee {
	return s.dir.All()
}

// Report counts leave requests and upcoming meetings, for one employee or for
// everyone when empID is empty.
func (s *Service) Report(empID string) Report {
	return Report{
		TotalLeaveRequests: s.ledger.Count(empID),
		UpcomingMeetings:   s.calendar.CountScheduled(empID),
	}
}

// Greeting returns a short greeting for the employee.
func (s *Service) Greeting(empID string) (string, error) {
	emp, err := s.dir.Lookup(empID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Hello, %s!", emp.Name), nil
}

// LeaveSummaryPrompt returns a prompt asking for a summary of the employee's
// leave record.
func (s *Service) LeaveSummaryPrompt(empID string) (string, error) {
	emp, err := s.dir.Lookup(empID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Please summarize the leave record for %s who has %d days remaining.",
		emp.Name, emp.LeaveBalance), nil
}
