package errortypes

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/localrivet/hrdesk/internal/directory"
	"github.com/localrivet/hrdesk/internal/leave"
	"github.com/localrivet/hrdesk/internal/meeting"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"employee not found", directory.ErrEmployeeNotFound, ErrorTypeNotFound},
		{"leave not found", leave.ErrLeaveNotFound, ErrorTypeNotFound},
		{"meeting not found", meeting.ErrMeetingNotFound, ErrorTypeNotFound},
		{"already processed", leave.ErrNotFoundOrAlreadyProcessed, ErrorTypeConflict},
		{"insufficient balance", leave.ErrInsufficientBalance, ErrorTypeConflict},
		{"cannot cancel", leave.ErrCannotCancelProcessed, ErrorTypeConflict},
		{"invalid days", leave.ErrInvalidDays, ErrorTypeValidation},
		{"anything else", errors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomain(tt.err, "operation failed")
			if appErr.Type != tt.want {
				t.Errorf("FromDomain() type = %s, want %s", appErr.Type, tt.want)
			}
			if !errors.Is(appErr, tt.err) {
				t.Errorf("FromDomain() should wrap the original error")
			}
		})
	}

	if FromDomain(nil, "x") != nil {
		t.Errorf("FromDomain(nil) should be nil")
	}

	existing := ConfigError(errors.New("bad"), "config")
	if FromDomain(existing, "other") != existing {
		t.Errorf("FromDomain should pass AppErrors through")
	}
}

func TestAppErrorMessageAndFields(t *testing.T) {
	err := DatabaseError(errors.New("disk full"), "failed to save leave request").
		WithField("leave_id", "L001").
		WithFields(map[string]interface{}{"emp_id": "e002"})

	if err.Error() != "failed to save leave request: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Fields["leave_id"] != "L001" || err.Fields["emp_id"] != "e002" {
		t.Errorf("fields not recorded: %v", err.Fields)
	}
	if err.StackInfo == "" {
		t.Errorf("expected a captured stack")
	}
	if !IsDatabaseError(err) || IsNotFoundError(err) {
		t.Errorf("type predicates disagree with %s", err.Type)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogError(logger, NotFoundError(meeting.ErrMeetingNotFound, "cancel meeting").WithField("meeting_id", "M404"))
	out := buf.String()
	for _, want := range []string{"cancel meeting", "type=not_found", "meeting_id=M404"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}

	buf.Reset()
	LogError(logger, errors.New("plain"))
	if !strings.Contains(buf.String(), "plain") {
		t.Errorf("plain error not logged: %s", buf.String())
	}
}
