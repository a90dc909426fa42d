package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/localrivet/hrdesk/internal/directory"
	"github.com/localrivet/hrdesk/internal/errortypes"
	"github.com/localrivet/hrdesk/internal/hr"
	"github.com/localrivet/hrdesk/internal/telemetry"
)

// shutdownTimeout bounds how long in-flight ops requests may run after the
// context is cancelled.
const shutdownTimeout = 5 * time.Second

// NewOpsHandler returns the operational HTTP handler: health, Prometheus
// metrics and read-only JSON views over the HR service.
func NewOpsHandler(svc *hr.Service, metrics *telemetry.Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /v1/report", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Report(r.URL.Query().Get("emp_id")))
	})

	mux.HandleFunc("GET /v1/employees/{emp_id}", func(w http.ResponseWriter, r *http.Request) {
		empID := r.PathValue("emp_id")
		emp, ok := svc.EmployeeInfo(empID)
		if !ok {
			HandleError(w, errortypes.NotFoundError(directory.ErrEmployeeNotFound, "Employee not found.").
				WithField("emp_id", empID))
			return
		}
		writeJSON(w, http.StatusOK, emp)
	})

	mux.HandleFunc("GET /v1/employees/{emp_id}/slots", func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			HandleError(w, NewErrorWithStatus(errors.New("date query parameter is required"),
				http.StatusBadRequest, ErrorCodeInvalidRequest, "Missing date parameter"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"emp_id": r.PathValue("emp_id"),
			"date":   date,
			"slots":  svc.AvailableSlots(r.PathValue("emp_id"), date),
		})
	})

	return mux
}

// ServeOps serves handler on addr until ctx is cancelled.
func ServeOps(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting ops HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errortypes.ConfigError(err, "ops HTTP server failed").WithField("addr", addr)
	case <-ctx.Done():
		logger.Info("Stopping ops HTTP server", "addr", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
