// Package server provides the MCP tool server and the operational HTTP
// handler for the HRDesk service.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/localrivet/gomcp/server"

	"github.com/localrivet/hrdesk/internal/errortypes"
	"github.com/localrivet/hrdesk/internal/hr"
	"github.com/localrivet/hrdesk/internal/logger"
	"github.com/localrivet/hrdesk/internal/telemetry"
	"github.com/localrivet/hrdesk/internal/tools"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

// DefaultServerName is the MCP server name used when none is configured.
const DefaultServerName = "hr-desk"

// MCPHRToolServer implements the HRToolServer interface for handling MCP
// tool calls against the HR service.
type MCPHRToolServer struct {
	name      string
	svc       *hr.Service
	metrics   *telemetry.Metrics
	logger    *slog.Logger
	validate  *validator.Validate
	mcpServer server.Server
}

// Option configures an MCPHRToolServer.
type Option func(*MCPHRToolServer)

// WithName sets the MCP server name.
func WithName(name string) Option {
	return func(s *MCPHRToolServer) {
		if name != "" {
			s.name = name
		}
	}
}

// WithMetrics records tool call counts and latency on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *MCPHRToolServer) { s.metrics = m }
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *MCPHRToolServer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHRToolServer creates a new MCPHRToolServer instance.
func NewHRToolServer(svc *hr.Service, opts ...Option) *MCPHRToolServer {
	s := &MCPHRToolServer{
		name:     DefaultServerName,
		svc:      svc,
		logger:   slog.Default(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.GetLogger(s.logger, "mcp")
	return s
}

// newValidator reports field names by their json tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Initialize creates the MCP server and registers the HR tools on it.
func (s *MCPHRToolServer) Initialize() error {
	s.logger.Info("Initializing MCP HR Tool Server", "name", s.name)

	if s.svc == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	s.mcpServer = s.RegisterTools(server.NewServer(s.name))
	s.logger.Info("MCP HR Tool Server initialized successfully", "tool_count", len(tools.AllTools()))
	return nil
}

// RegisterTools registers every HR tool and resource on srv and returns the
// result. It lets another MCP server embed the HR tools.
func (s *MCPHRToolServer) RegisterTools(srv server.Server) server.Server {
	srv = srv.Tool(tools.ToolSubmitLeaveRequest, "Submit a leave request for an employee",
		s.handleSubmitLeaveRequest)
	srv = srv.Tool(tools.ToolApproveLeaveRequest, "Approve a pending leave request and deduct the days",
		s.handleApproveLeaveRequest)
	srv = srv.Tool(tools.ToolGetLeaveBalance, "Get the remaining leave days of an employee",
		s.handleGetLeaveBalance)
	srv = srv.Tool(tools.ToolListLeaveRequests, "List leave requests, optionally by employee and status",
		s.handleListLeaveRequests)
	srv = srv.Tool(tools.ToolCancelLeaveRequest, "Cancel a pending leave request",
		s.handleCancelLeaveRequest)
	srv = srv.Tool(tools.ToolScheduleClientMeeting, "Schedule a client meeting for an employee",
		s.handleScheduleClientMeeting)
	srv = srv.Tool(tools.ToolGetAvailableSlots, "List free hourly slots of an employee on a date",
		s.handleGetAvailableSlots)
	srv = srv.Tool(tools.ToolListUpcomingMeetings, "List the scheduled meetings of an employee",
		s.handleListUpcomingMeetings)
	srv = srv.Tool(tools.ToolCancelMeeting, "Cancel a client meeting",
		s.handleCancelMeeting)
	srv = srv.Tool(tools.ToolSendMeetingInvite, "Send a meeting invite to an email address",
		s.handleSendMeetingInvite)
	srv = srv.Tool(tools.ToolGetEmployeeInfo, "Get an employee record",
		s.handleGetEmployeeInfo)
	srv = srv.Tool(tools.ToolGenerateReport, "Count leave requests and upcoming meetings",
		s.handleGenerateReport)

	srv = srv.Resource("/employees/{emp_id}/greeting", "Greeting for an employee",
		s.handleGreeting)
	srv = srv.Resource("/employees/{emp_id}/leave-summary", "Prompt asking for a summary of an employee's leave record",
		s.handleLeaveSummary)
	return srv
}

// Start starts the MCP server on the stdio transport. It returns when stdin
// is closed.
func (s *MCPHRToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	s.logger.Info("Starting MCP HR Tool Server")
	return s.mcpServer.AsStdio().Run()
}

// Stop gracefully shuts down the MCP server.
func (s *MCPHRToolServer) Stop() error {
	s.logger.Info("Stopping MCP HR Tool Server")
	// The server will exit when stdin is closed
	return nil
}

// call tracks one tool invocation.
type call struct {
	tool    string
	log     *slog.Logger
	start   time.Time
	metrics *telemetry.Metrics
}

func (s *MCPHRToolServer) begin(tool string, args ...any) *call {
	c := &call{
		tool:    tool,
		log:     s.logger.With("tool", tool, "call_id", uuid.NewString()),
		start:   time.Now(),
		metrics: s.metrics,
	}
	c.log.Info("Processing tool call", args...)
	return c
}

func (c *call) done(status string) {
	elapsed := time.Since(c.start)
	c.metrics.ToolCall(c.tool, status, elapsed)
	c.log.Debug("Tool call finished", "status", status, "elapsed", elapsed)
}

// fail logs err and returns the message the client sees.
func (c *call) fail(err error) string {
	msg := tools.Message(err)
	if appErr := errortypes.FromDomain(err, msg); appErr.Type == errortypes.ErrorTypeInternal {
		errortypes.LogError(c.log, appErr)
	} else {
		c.log.Warn("Tool call rejected", "type", string(appErr.Type), "error", msg)
	}
	c.done(tools.StatusError)
	return msg
}

// check validates req and returns a client message describing the first
// failed constraint.
func (s *MCPHRToolServer) check(c *call, req interface{}) string {
	err := s.validate.Struct(req)
	if err == nil {
		return ""
	}

	msg := "Invalid request."
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "required_without":
			msg = fmt.Sprintf("Missing required field: %s.", fe.Field())
		case "gt":
			msg = fmt.Sprintf("Field %s must be greater than %s.", fe.Field(), fe.Param())
		default:
			msg = fmt.Sprintf("Invalid value for field %s.", fe.Field())
		}
	}

	c.log.Warn("Tool call rejected", "type", string(errortypes.ErrorTypeValidation), "error", msg, "detail", err)
	c.done(tools.StatusError)
	return msg
}

// handleSubmitLeaveRequest handles the submit_leave_request MCP tool call.
func (s *MCPHRToolServer) handleSubmitLeaveRequest(ctx *server.Context, req tools.SubmitLeaveRequestRequest) (tools.SubmitLeaveRequestResponse, error) {
	c := s.begin(tools.ToolSubmitLeaveRequest, "emp_id", req.EmpID, "days", req.Days)
	response := tools.SubmitLeaveRequestResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	leaveReq, err := s.svc.SubmitLeave(req.EmpID, req.Days, req.Reason)
	if err != nil {
		response.Status = tools.StatusError
		response.Error = c.fail(err)
		return response, nil
	}

	response.LeaveID = leaveReq.ID
	response.Message = fmt.Sprintf("Leave request %s submitted successfully.", leaveReq.ID)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleApproveLeaveRequest handles the approve_leave_request MCP tool call.
func (s *MCPHRToolServer) handleApproveLeaveRequest(ctx *server.Context, req tools.ApproveLeaveRequestRequest) (tools.StatusResponse, error) {
	c := s.begin(tools.ToolApproveLeaveRequest, "leave_id", req.LeaveID, "approver_id", req.Approver())
	response := tools.StatusResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	leaveReq, err := s.svc.ApproveLeave(req.LeaveID, req.Approver())
	if err != nil {
		response.Status = tools.StatusError
		response.Error = c.fail(err)
		return response, nil
	}

	response.Message = fmt.Sprintf("Leave request %s approved by %s.", leaveReq.ID, leaveReq.ApprovedBy)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleGetLeaveBalance handles the get_leave_balance MCP tool call.
func (s *MCPHRToolServer) handleGetLeaveBalance(ctx *server.Context, req tools.GetLeaveBalanceRequest) (tools.GetLeaveBalanceResponse, error) {
	c := s.begin(tools.ToolGetLeaveBalance, "emp_id", req.EmpID)
	response := tools.GetLeaveBalanceResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	emp, err := s.svc.LeaveBalance(req.EmpID)
	if err != nil {
		response.Status = tools.StatusError
		response.Error = c.fail(err)
		return response, nil
	}

	response.Balance = emp.LeaveBalance
	response.Message = fmt.Sprintf("%s has %d leave days remaining.", emp.Name, emp.LeaveBalance)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleListLeaveRequests handles the list_leave_requests MCP tool call.
func (s *MCPHRToolServer) handleListLeaveRequests(ctx *server.Context, req tools.ListLeaveRequestsRequest) (tools.ListLeaveRequestsResponse, error) {
	c := s.begin(tools.ToolListLeaveRequests, "emp_id", req.EmpID, "status", req.Status)

	response := tools.ListLeaveRequestsResponse{
		Status:   tools.StatusSuccess,
		Requests: s.svc.ListLeaves(req.EmpID, req.Status),
	}
	c.log.Info("Listed leave requests", "count", len(response.Requests))
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleCancelLeaveRequest handles the cancel_leave_request MCP tool call.
func (s *MCPHRToolServer) handleCancelLeaveRequest(ctx *server.Context, req tools.CancelLeaveRequestRequest) (tools.StatusResponse, error) {
	c := s.begin(tools.ToolCancelLeaveRequest, "leave_id", req.LeaveID)
	response := tools.StatusResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	leaveReq, err := s.svc.CancelLeave(req.LeaveID)
	if err != nil {
		response.Status = tools.StatusError
		response.Error = c.fail(err)
		return response, nil
	}

	response.Message = fmt.Sprintf("Leave request %s cancelled.", leaveReq.ID)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleScheduleClientMeeting handles the schedule_client_meeting MCP tool call.
func (s *MCPHRToolServer) handleScheduleClientMeeting(ctx *server.Context, req tools.ScheduleClientMeetingRequest) (tools.ScheduleClientMeetingResponse, error) {
	c := s.begin(tools.ToolScheduleClientMeeting, "emp_id", req.EmpID, "date", req.Date, "time", req.Time)
	response := tools.ScheduleClientMeetingResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	m := s.svc.ScheduleMeeting(req.EmpID, req.Date, req.Time, req.Client)

	response.MeetingID = m.ID
	response.Message = fmt.Sprintf("Meeting %s scheduled with %s on %s at %s.", m.ID, m.Client, m.Date, m.Time)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleGetAvailableSlots handles the get_available_slots MCP tool call.
func (s *MCPHRToolServer) handleGetAvailableSlots(ctx *server.Context, req tools.GetAvailableSlotsRequest) (tools.GetAvailableSlotsResponse, error) {
	c := s.begin(tools.ToolGetAvailableSlots, "emp_id", req.EmpID, "date", req.Date)
	response := tools.GetAvailableSlotsResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	response.Slots = s.svc.AvailableSlots(req.EmpID, req.Date)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleListUpcomingMeetings handles the list_upcoming_meetings MCP tool call.
func (s *MCPHRToolServer) handleListUpcomingMeetings(ctx *server.Context, req tools.ListUpcomingMeetingsRequest) (tools.ListUpcomingMeetingsResponse, error) {
	c := s.begin(tools.ToolListUpcomingMeetings, "emp_id", req.EmpID)
	response := tools.ListUpcomingMeetingsResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	response.Meetings = s.svc.UpcomingMeetings(req.EmpID)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleCancelMeeting handles the cancel_meeting MCP tool call.
func (s *MCPHRToolServer) handleCancelMeeting(ctx *server.Context, req tools.CancelMeetingRequest) (tools.StatusResponse, error) {
	c := s.begin(tools.ToolCancelMeeting, "meeting_id", req.MeetingID)
	response := tools.StatusResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	m, err := s.svc.CancelMeeting(req.MeetingID)
	if err != nil {
		response.Status = tools.StatusError
		response.Error = c.fail(err)
		return response, nil
	}

	response.Message = fmt.Sprintf("Meeting %s cancelled.", m.ID)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleSendMeetingInvite handles the send_meeting_invite MCP tool call.
func (s *MCPHRToolServer) handleSendMeetingInvite(ctx *server.Context, req tools.SendMeetingInviteRequest) (tools.StatusResponse, error) {
	c := s.begin(tools.ToolSendMeetingInvite, "meeting_id", req.MeetingID)
	response := tools.StatusResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	m, err := s.svc.SendInvite(req.MeetingID, req.Email)
	if err != nil {
		response.Status = tools.StatusError
		response.Error = c.fail(err)
		return response, nil
	}

	response.Message = fmt.Sprintf("Invite sent to %s for meeting %s with %s.", req.Email, m.ID, m.Client)
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleGetEmployeeInfo handles the get_employee_info MCP tool call.
func (s *MCPHRToolServer) handleGetEmployeeInfo(ctx *server.Context, req tools.GetEmployeeInfoRequest) (tools.GetEmployeeInfoResponse, error) {
	c := s.begin(tools.ToolGetEmployeeInfo, "emp_id", req.EmpID)
	response := tools.GetEmployeeInfoResponse{Status: tools.StatusSuccess}

	if msg := s.check(c, req); msg != "" {
		response.Status = tools.StatusError
		response.Error = msg
		return response, nil
	}

	emp, ok := s.svc.EmployeeInfo(req.EmpID)
	if !ok {
		response.Status = tools.StatusError
		response.Error = "Employee not found."
		c.log.Warn("Tool call rejected", "type", string(errortypes.ErrorTypeNotFound), "error", response.Error)
		c.done(tools.StatusError)
		return response, nil
	}

	response.Employee = &emp
	c.done(tools.StatusSuccess)
	return response, nil
}

// handleGenerateReport handles the generate_report MCP tool call.
func (s *MCPHRToolServer) handleGenerateReport(ctx *server.Context, req tools.GenerateReportRequest) (tools.GenerateReportResponse, error) {
	c := s.begin(tools.ToolGenerateReport, "emp_id", req.EmpID)

	response := tools.GenerateReportResponse{
		Status: tools.StatusSuccess,
		Report: s.svc.Report(req.EmpID),
	}
	c.done(tools.StatusSuccess)
	return response, nil
}

// EmployeeResourceArgs carries the path parameter of the employee resources.
type EmployeeResourceArgs struct {
	EmpID string `json:"emp_id" path:"emp_id"`
}

// handleGreeting serves the employee greeting resource. Unknown employees get
// the not-found message as text.
func (s *MCPHRToolServer) handleGreeting(ctx *server.Context, args EmployeeResourceArgs) (string, error) {
	greeting, err := s.svc.Greeting(args.EmpID)
	if err != nil {
		return tools.Message(err), nil
	}
	return greeting, nil
}

// handleLeaveSummary serves the leave-summary prompt text for an employee.
func (s *MCPHRToolServer) handleLeaveSummary(ctx *server.Context, args EmployeeResourceArgs) (string, error) {
	prompt, err := s.svc.LeaveSummaryPrompt(args.EmpID)
	if err != nil {
		return tools.Message(err), nil
	}
	return prompt, nil
}
