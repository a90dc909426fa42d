// Package tools defines the MCP tool names and the request and response
// schemas for the HRDesk service.
package tools

import (
	"errors"

	"github.com/localrivet/hrdesk/internal/directory"
	"github.com/localrivet/hrdesk/internal/hr"
	"github.com/localrivet/hrdesk/internal/leave"
	"github.com/localrivet/hrdesk/internal/meeting"
)

const (
	// ToolSubmitLeaveRequest is the name of the submit_leave_request MCP tool
	ToolSubmitLeaveRequest = "submit_leave_request"

	// ToolApproveLeaveRequest is the name of the approve_leave_request MCP tool
	ToolApproveLeaveRequest = "approve_leave_request"

	// ToolGetLeaveBalance is the name of the get_leave_balance MCP tool
	ToolGetLeaveBalance = "get_leave_balance"

	// ToolListLeaveRequests is the name of the list_leave_requests MCP tool
	ToolListLeaveRequests = "list_leave_requests"

	// ToolCancelLeaveRequest is the name of the cancel_leave_request MCP tool
	ToolCancelLeaveRequest = "cancel_leave_request"

	// ToolScheduleClientMeeting is the name of the schedule_client_meeting MCP tool
	ToolScheduleClientMeeting = "schedule_client_meeting"

	// ToolGetAvailableSlots is the name of the get_available_slots MCP tool
	ToolGetAvailableSlots = "get_available_slots"

	// ToolListUpcomingMeetings is the name of the list_upcoming_meetings MCP tool
	ToolListUpcomingMeetings = "list_upcoming_meetings"

	// ToolCancelMeeting is the name of the cancel_meeting MCP tool
	ToolCancelMeeting = "cancel_meeting"

	// ToolSendMeetingInvite is the name of the send_meeting_invite MCP tool
	ToolSendMeetingInvite = "send_meeting_invite"

	// ToolGetEmployeeInfo is the name of the get_employee_info MCP tool
	ToolGetEmployeeInfo = "get_employee_info"

	// ToolGenerateReport is the name of the generate_report MCP tool
	ToolGenerateReport = "generate_report"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AllTools lists every tool name in registration order.
func AllTools() []string {
	return []string{
		ToolSubmitLeaveRequest,
		ToolApproveLeaveRequest,
		ToolGetLeaveBalance,
		ToolListLeaveRequests,
		ToolCancelLeaveRequest,
		ToolScheduleClientMeeting,
		ToolGetAvailableSlots,
		ToolListUpcomingMeetings,
		ToolCancelMeeting,
		ToolSendMeetingInvite,
		ToolGetEmployeeInfo,
		ToolGenerateReport,
	}
}

// Message returns the client-facing text for err. Errors outside the HR
// domain come back unchanged.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, directory.ErrEmployeeNotFound):
		return "Employee not found."
	case errors.Is(err, leave.ErrInsufficientBalance):
		return "Insufficient leave balance."
	case errors.Is(err, leave.ErrInvalidDays):
		return "Leave days must be at least 1."
	case errors.Is(err, leave.ErrNotFoundOrAlreadyProcessed):
		return "Leave request not found or already processed."
	case errors.Is(err, leave.ErrCannotCancelProcessed):
		return "Cannot cancel a processed leave request."
	case errors.Is(err, leave.ErrLeaveNotFound):
		return "Leave request not found."
	case errors.Is(err, meeting.ErrMeetingNotFound):
		return "Meeting not found."
	default:
		return err.Error()
	}
}

// SubmitLeaveRequestRequest defines the input schema for submit_leave_request tool
type SubmitLeaveRequestRequest struct {
	EmpID  string `json:"emp_id" validate:"required"`
	Days   int    `json:"days" validate:"gt=0"`
	Reason string `json:"reason"`
}

// SubmitLeaveRequestResponse defines the output schema for submit_leave_request tool
type SubmitLeaveRequestResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	LeaveID string `json:"leave_id,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// ApproveLeaveRequestRequest defines the input schema for approve_leave_request tool.
// ManagerID is accepted as an alias for ApproverID.
type ApproveLeaveRequestRequest struct {
	LeaveID    string `json:"leave_id" validate:"required"`
	ApproverID string `json:"approver_id" validate:"required_without=ManagerID"`
	ManagerID  string `json:"manager_id,omitempty"`
}

// Approver returns whichever approver field was supplied.
func (r ApproveLeaveRequestRequest) Approver() string {
	if r.ApproverID != "" {
		return r.ApproverID
	}
	return r.ManagerID
}

// StatusResponse is the output schema for tools that only report a message.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GetLeaveBalanceRequest defines the input schema for get_leave_balance tool
type GetLeaveBalanceRequest struct {
	EmpID string `json:"emp_id" validate:"required"`
}

// GetLeaveBalanceResponse defines the output schema for get_leave_balance tool
type GetLeaveBalanceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Balance int    `json:"balance"`
	Error   string `json:"error,omitempty"`
}

// ListLeaveRequestsRequest defines the input schema for list_leave_requests tool.
// Both filters are optional.
type ListLeaveRequestsRequest struct {
	EmpID  string `json:"emp_id,omitempty"`
	Status string `json:"status,omitempty"`
}

// ListLeaveRequestsResponse defines the output schema for list_leave_requests tool
type ListLeaveRequestsResponse struct {
	Status   string          `json:"status"`
	Requests []leave.Request `json:"requests"`
	Error    string          `json:"error,omitempty"`
}

// CancelLeaveRequestRequest defines the input schema for cancel_leave_request tool
type CancelLeaveRequestRequest struct {
	LeaveID string `json:"leave_id" validate:"required"`
}

// ScheduleClientMeetingRequest defines the input schema for schedule_client_meeting tool
// Fields are stored as given; scheduling never rejects a request.
type ScheduleClientMeetingRequest struct {
	EmpID  string `json:"emp_id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Client string `json:"client"`
}

// ScheduleClientMeetingResponse defines the output schema for schedule_client_meeting tool
type ScheduleClientMeetingResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	MeetingID string `json:"meeting_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GetAvailableSlotsRequest defines the input schema for get_available_slots tool
type GetAvailableSlotsRequest struct {
	EmpID string `json:"emp_id" validate:"required"`
	Date  string `json:"date" validate:"required"`
}

// GetAvailableSlotsResponse defines the output schema for get_available_slots tool
type GetAvailableSlotsResponse struct {
	Status string   `json:"status"`
	Slots  []string `json:"slots"`
	Error  string   `json:"error,omitempty"`
}

// ListUpcomingMeetingsRequest defines the input schema for list_upcoming_meetings tool
type ListUpcomingMeetingsRequest struct {
	EmpID string `json:"emp_id" validate:"required"`
}

// ListUpcomingMeetingsResponse defines the output schema for list_upcoming_meetings tool
type ListUpcomingMeetingsResponse struct {
	Status   string            `json:"status"`
	Meetings []meeting.Meeting `json:"meetings"`
	Error    string            `json:"error,omitempty"`
}

// CancelMeetingRequest defines the input schema for cancel_meeting tool
type CancelMeetingRequest struct {
	MeetingID string `json:"meeting_id" validate:"required"`
}

// SendMeetingInviteRequest defines the input schema for send_meeting_invite tool
// The email is recorded as given. An unknown meeting id is the only failure.
type SendMeetingInviteRequest struct {
	MeetingID string `json:"meeting_id"`
	Email     string `json:"email"`
}

// GetEmployeeInfoRequest defines the input schema for get_employee_info tool
type GetEmployeeInfoRequest struct {
	EmpID string `json:"emp_id" validate:"required"`
}

// GetEmployeeInfoResponse defines the output schema for get_employee_info tool
type GetEmployeeInfoResponse struct {
	Status   string              `json:"status"`
	Employee *directory.Employee `json:"employee,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// GenerateReportRequest defines the input schema for generate_report tool.
// An empty EmpID reports on every employee.
type GenerateReportRequest struct {
	EmpID string `json:"emp_id,omitempty"`
}

// GenerateReportResponse defines the output schema for generate_report tool
type GenerateReportResponse struct {
	Status string `json:"status"`
	hr.Report
	Error string `json:"error,omitempty"`
}
