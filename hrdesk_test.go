package hrdesk

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerInMemory(t *testing.T) {
	srv, err := NewServer(ServerOptions{Config: DefaultConfig()})
	require.NoError(t, err)

	assert.Nil(t, srv.GetStore())
	assert.NotNil(t, srv.GetMetrics())
	assert.NotNil(t, srv.GetToolServer())

	req, err := srv.GetService().SubmitLeave("e002", 3, "trip")
	require.NoError(t, err)
	assert.Equal(t, "L001", req.ID)

	assert.NoError(t, srv.Stop())
}

func TestNewServerWithSQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "hrdesk.db")

	srv, err := NewServer(ServerOptions{Config: cfg})
	require.NoError(t, err)
	require.NotNil(t, srv.GetStore())

	_, err = srv.GetService().SubmitLeave("e002", 3, "trip")
	require.NoError(t, err)
	_, err = srv.GetService().ApproveLeave("L001", "e001")
	require.NoError(t, err)
	require.NoError(t, srv.Stop())

	restarted, err := NewServer(ServerOptions{Config: cfg})
	require.NoError(t, err)
	defer restarted.Stop()

	emp, err := restarted.GetService().LeaveBalance("e002")
	require.NoError(t, err)
	assert.Equal(t, 5, emp.LeaveBalance)
}

func TestNewServerBadSQLitePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "no", "such", "dir", "hrdesk.db")

	_, err := NewServer(ServerOptions{Config: cfg})
	assert.Error(t, err)
}

func TestNewServerFromConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hrdeskconfig")
	cfg := DefaultConfig()
	cfg.Server.Name = "people-ops"
	require.NoError(t, cfg.SaveToFile(path))

	srv, err := NewServer(ServerOptions{ConfigPath: path})
	require.NoError(t, err)
	defer srv.Stop()

	assert.Equal(t, "people-ops", srv.config.Server.Name)
}

func TestOpsHandler(t *testing.T) {
	srv, err := NewServer(ServerOptions{})
	require.NoError(t, err)
	defer srv.Stop()

	w := httptest.NewRecorder()
	srv.OpsHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
