package store

import (
	"errors"
	"fmt"
	"sync"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/localrivet/hrdesk/internal/directory"
	"github.com/localrivet/hrdesk/internal/leave"
	"github.com/localrivet/hrdesk/internal/meeting"
)

// ErrNotInitialized is returned when the store is used before Initialize.
var ErrNotInitialized = errors.New("store not initialized")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		emp_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		leave_balance INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		leave_id TEXT PRIMARY KEY,
		emp_id TEXT NOT NULL,
		days INTEGER NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		approved_by TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS meetings (
		meeting_id TEXT PRIMARY KEY,
		emp_id TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		client TEXT NOT NULL,
		status TEXT NOT NULL
	);`,
}

// Upserts keep the original rowid so that loading in rowid order returns
// records in insertion order.
const (
	upsertEmployeeSQL = `
	INSERT INTO employees (emp_id, name, role, leave_balance)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(emp_id) DO UPDATE SET
		name = excluded.name,
		role = excluded.role,
		leave_balance = excluded.leave_balance;`

	upsertLeaveSQL = `
	INSERT INTO leave_requests (leave_id, emp_id, days, reason, status, approved_by)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(leave_id) DO UPDATE SET
		emp_id = excluded.emp_id,
		days = excluded.days,
		reason = excluded.reason,
		status = excluded.status,
		approved_by = excluded.approved_by;`

	upsertMeetingSQL = `
	INSERT INTO meetings (meeting_id, emp_id, date, time, client, status)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(meeting_id) DO UPDATE SET
		emp_id = excluded.emp_id,
		date = excluded.date,
		time = excluded.time,
		client = excluded.client,
		status = excluded.status;`
)

// SQLiteStore is an implementation of Store that uses SQLite. A single
// connection is shared and guarded by a mutex since crawshaw connections are
// not safe for concurrent use.
type SQLiteStore struct {
	mu     sync.Mutex
	conn   *sqlite.Conn
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Initialize opens the database and creates the tables if needed.
func (s *SQLiteStore) Initialize(dbPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dbPath = dbPath

	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.conn = conn

	if err := s.createTables(); err != nil {
		s.conn.Close()
		s.conn = nil
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

func (s *SQLiteStore) createTables() error {
	for _, ddl := range schema {
		if err := s.exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// exec runs a statement that returns no rows. Parameters are bound in order;
// int values bind as integers and everything else as text.
func (s *SQLiteStore) exec(query string, args ...interface{}) error {
	stmt, err := s.conn.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Reset()

	for i, arg := range args {
		// Bind indices are 1-based.
		switch v := arg.(type) {
		case int:
			stmt.BindInt64(i+1, int64(v))
		case string:
			stmt.BindText(i+1, v)
		default:
			return fmt.Errorf("unsupported bind type %T", arg)
		}
	}

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// Close closes the store and releases any resources.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

// SaveEmployee inserts or updates an employee.
func (s *SQLiteStore) SaveEmployee(emp directory.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotInitialized
	}
	return s.saveEmployee(emp)
}

func (s *SQLiteStore) saveEmployee(emp directory.Employee) error {
	if err := s.exec(upsertEmployeeSQL, emp.ID, emp.Name, emp.Role, emp.LeaveBalance); err != nil {
		return fmt.Errorf("failed to save employee %s: %w", emp.ID, err)
	}
	return nil
}

// SaveLeave inserts or updates a leave request.
func (s *SQLiteStore) SaveLeave(req leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotInitialized
	}
	return s.saveLeave(req)
}

func (s *SQLiteStore) saveLeave(req leave.Request) error {
	err := s.exec(upsertLeaveSQL, req.ID, req.EmployeeID, req.Days, req.Reason, string(req.Status), req.ApprovedBy)
	if err != nil {
		return fmt.Errorf("failed to save leave request %s: %w", req.ID, err)
	}
	return nil
}

// SaveMeeting inserts or updates a meeting.
func (s *SQLiteStore) SaveMeeting(m meeting.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotInitialized
	}
	return s.saveMeeting(m)
}

func (s *SQLiteStore) saveMeeting(m meeting.Meeting) error {
	err := s.exec(upsertMeetingSQL, m.ID, m.EmployeeID, m.Date, m.Time, m.Client, string(m.Status))
	if err != nil {
		return fmt.Errorf("failed to save meeting %s: %w", m.ID, err)
	}
	return nil
}

// SaveSnapshot writes every record of snap inside one savepoint.
func (s *SQLiteStore) SaveSnapshot(snap *Snapshot) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotInitialized
	}
	if snap == nil {
		return nil
	}

	defer sqlitex.Save(s.conn)(&err)

	for _, emp := range snap.Employees {
		if err = s.saveEmployee(emp); err != nil {
			return err
		}
	}
	for _, req := range snap.Leaves {
		if err = s.saveLeave(req); err != nil {
			return err
		}
	}
	for _, m := range snap.Meetings {
		if err = s.saveMeeting(m); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every record in insertion order.
func (s *SQLiteStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrNotInitialized
	}

	snap := &Snapshot{}

	err := s.query(`SELECT emp_id, name, role, leave_balance FROM employees ORDER BY rowid;`, func(stmt *sqlite.Stmt) {
		snap.Employees = append(snap.Employees, directory.Employee{
			ID:           stmt.ColumnText(0),
			Name:         stmt.ColumnText(1),
			Role:         stmt.ColumnText(2),
			LeaveBalance: int(stmt.ColumnInt64(3)),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	err = s.query(`SELECT leave_id, emp_id, days, reason, status, approved_by FROM leave_requests ORDER BY rowid;`, func(stmt *sqlite.Stmt) {
		snap.Leaves = append(snap.Leaves, leave.Request{
			ID:         stmt.ColumnText(0),
			EmployeeID: stmt.ColumnText(1),
			Days:       int(stmt.ColumnInt64(2)),
			Reason:     stmt.ColumnText(3),
			Status:     leave.Status(stmt.ColumnText(4)),
			ApprovedBy: stmt.ColumnText(5),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load leave requests: %w", err)
	}

	err = s.query(`SELECT meeting_id, emp_id, date, time, client, status FROM meetings ORDER BY rowid;`, func(stmt *sqlite.Stmt) {
		snap.Meetings = append(snap.Meetings, meeting.Meeting{
			ID:         stmt.ColumnText(0),
			EmployeeID: stmt.ColumnText(1),
			Date:       stmt.ColumnText(2),
			Time:       stmt.ColumnText(3),
			Client:     stmt.ColumnText(4),
			Status:     meeting.Status(stmt.ColumnText(5)),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load meetings: %w", err)
	}

	return snap, nil
}

func (s *SQLiteStore) query(query string, row func(stmt *sqlite.Stmt)) error {
	stmt, err := s.conn.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return fmt.Errorf("failed to execute select statement: %w", err)
		}
		if !hasRow {
			return nil
		}
		row(stmt)
	}
}
