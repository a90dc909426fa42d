// Package meeting implements the client meeting calendar.
package meeting

import (
	"errors"
	"fmt"
	"sync"

	"github.com/localrivet/hrdesk/internal/util"
)

// IDPrefix prefixes every meeting identifier.
const IDPrefix = "M"

// Status is the lifecycle state of a meeting.
type Status string

// Meeting statuses. Cancelled is terminal.
const (
	StatusScheduled Status = "Scheduled"
	StatusCancelled Status = "Cancelled"
)

// First and last bookable hours, inclusive.
const (
	firstSlotHour = 9
	lastSlotHour  = 17
)

// ErrMeetingNotFound is returned when a meeting id does not resolve.
var ErrMeetingNotFound = errors.New("meeting not found")

// Meeting is a single client meeting.
type Meeting struct {
	ID         string `json:"meeting_id"`
	EmployeeID string `json:"emp_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Client     string `json:"client"`
	Status     Status `json:"status"`
}

// Slots returns every bookable slot label of a day in hourly order.
func Slots() []string {
	slots := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// Calendar owns all meetings.
type Calendar struct {
	mu       sync.Mutex
	meetings []*Meeting
	byID     map[string]*Meeting
	seq      int
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithMeetings preloads previously stored meetings.
func WithMeetings(meetings ...Meeting) Option {
	return func(c *Calendar) {
		for _, m := range meetings {
			mtg := m
			c.meetings = append(c.meetings, &mtg)
			c.byID[mtg.ID] = &mtg
			if n, ok := util.ParseSequence(IDPrefix, mtg.ID); ok && n > c.seq {
				c.seq = n
			}
		}
	}
}

// NewCalendar creates an empty Calendar.
func NewCalendar(opts ...Option) *Calendar {
	c := &Calendar{
		byID: make(map[string]*Meeting),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule books a meeting. It never fails: neither the employee nor slot
// collisions are checked, callers are expected to consult AvailableSlots.
func (c *Calendar) Schedule(empID, date, slot, client string) Meeting {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	m := &Meeting{
		ID:         util.SequenceID(IDPrefix, c.seq),
		EmployeeID: empID,
		Date:       date,
		Time:       slot,
		Client:     client,
		Status:     StatusScheduled,
	}
	c.meetings = append(c.meetings, m)
	c.byID[m.ID] = m
	return *m
}

// AvailableSlots returns the slots of date not held by a scheduled meeting of
// empID.
func (c *Calendar) AvailableSlots(empID, date string) []string {
	c.mu.Lock()
	booked := make(map[string]bool)
	for _, m := range c.meetings {
		if m.EmployeeID == empID && m.Date == date && m.Status == StatusScheduled {
			booked[m.Time] = true
		}
	}
	c.mu.Unlock()

	free := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for _, s := range Slots() {
		if !booked[s] {
			free = append(free, s)
		}
	}
	return free
}

// Upcoming returns the scheduled meetings of empID in booking order.
func (c *Calendar) Upcoming(empID string) []Meeting {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Meeting, 0)
	for _, m := range c.meetings {
		if m.EmployeeID == empID && m.Status == StatusScheduled {
			out = append(out, *m)
		}
	}
	return out
}

// Cancel marks a meeting cancelled. Cancelling twice is not an error.
func (c *Calendar) Cancel(meetingID string) (Meeting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.byID[meetingID]
	if !ok {
		return Meeting{}, ErrMeetingNotFound
	}
	m.Status = StatusCancelled
	return *m, nil
}

// Invite acknowledges an invitation for the meeting. Nothing is sent and the
// meeting status is not checked.
func (c *Calendar) Invite(meetingID, email string) (Meeting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.byID[meetingID]
	if !ok {
		return Meeting{}, ErrMeetingNotFound
	}
	return *m, nil
}

// All returns every meeting, cancelled ones included, in booking order.
func (c *Calendar) All() []Meeting {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Meeting, 0, len(c.meetings))
	for _, m := range c.meetings {
		out = append(out, *m)
	}
	return out
}

// CountScheduled counts scheduled meetings of empID, or of everyone when empID
// is empty.
func (c *Calendar) CountScheduled(empID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, m := range c.meetings {
		if m.Status != StatusScheduled {
			continue
		}
		if empID == "" || m.EmployeeID == empID {
			n++
		}
	}
	return n
}
