package leave

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localrivet/hrdesk/internal/directory"
)

func newTestLedger() (*Ledger, *directory.Directory) {
	dir := directory.Default()
	return NewLedger(dir), dir
}

func balanceOf(t *testing.T, dir *directory.Directory, empID string) int {
	t.Helper()
	emp, err := dir.Lookup(empID)
	require.NoError(t, err)
	return emp.LeaveBalance
}

func TestSubmitApproveScenario(t *testing.T) {
	l, dir := newTestLedger()

	req, err := l.Submit("e002", 3, "family trip")
	require.NoError(t, err)
	assert.Equal(t, "L001", req.ID)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, 8, balanceOf(t, dir, "e002"))

	approved, err := l.Approve("L001", "e001")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "e001", approved.ApprovedBy)
	assert.Equal(t, 5, balanceOf(t, dir, "e002"))

	_, err = l.Approve("L001", "e001")
	assert.ErrorIs(t, err, ErrNotFoundOrAlreadyProcessed)
	assert.Equal(t, 5, balanceOf(t, dir, "e002"))
}

func TestSubmitFailuresDoNotMutate(t *testing.T) {
	tests := []struct {
		name    string
		empID   string
		days    int
		wantErr error
	}{
		{"unknown employee", "e999", 1, ErrEmployeeNotFound},
		{"insufficient balance", "e011", 6, ErrInsufficientBalance},
		{"zero days", "e001", 0, ErrInvalidDays},
		{"negative days", "e001", -2, ErrInvalidDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, dir := newTestLedger()
			before := dir.All()

			_, err := l.Submit(tt.empID, tt.days, "reason")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, l.List(Filter{}))
			assert.Equal(t, before, dir.All())
		})
	}
}

func TestSubmitExactBalance(t *testing.T) {
	l, _ := newTestLedger()

	_, err := l.Submit("e011", 5, "all of it")
	assert.NoError(t, err)
}

func TestSubmitChecksCurrentBalanceOnly(t *testing.T) {
	l, dir := newTestLedger()

	// Pending requests do not reserve days, so both submissions pass.
	_, err := l.Submit("e009", 6, "first")
	require.NoError(t, err)
	_, err = l.Submit("e009", 6, "second")
	require.NoError(t, err)

	_, err = l.Approve("L001", "e001")
	require.NoError(t, err)
	assert.Equal(t, 0, balanceOf(t, dir, "e009"))

	// Approval does not re-check sufficiency.
	_, err = l.Approve("L002", "e001")
	require.NoError(t, err)
	assert.Equal(t, -6, balanceOf(t, dir, "e009"))

	_, err = l.Submit("e009", 1, "third")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestApproveUnknown(t *testing.T) {
	l, _ := newTestLedger()

	_, err := l.Approve("L404", "e001")
	assert.ErrorIs(t, err, ErrNotFoundOrAlreadyProcessed)
}

func TestApproveCancelled(t *testing.T) {
	l, dir := newTestLedger()

	_, err := l.Submit("e003", 2, "rest")
	require.NoError(t, err)
	_, err = l.Cancel("L001")
	require.NoError(t, err)

	_, err = l.Approve("L001", "e001")
	assert.ErrorIs(t, err, ErrNotFoundOrAlreadyProcessed)
	assert.Equal(t, 10, balanceOf(t, dir, "e003"))
}

func TestCancel(t *testing.T) {
	l, dir := newTestLedger()

	_, err := l.Submit("e004", 4, "move")
	require.NoError(t, err)

	cancelled, err := l.Cancel("L001")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 15, balanceOf(t, dir, "e004"))

	_, err = l.Cancel("L001")
	assert.ErrorIs(t, err, ErrCannotCancelProcessed)

	_, err = l.Cancel("L999")
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestCancelApprovedLeavesStateUnchanged(t *testing.T) {
	l, dir := newTestLedger()

	_, err := l.Submit("e004", 4, "move")
	require.NoError(t, err)
	_, err = l.Approve("L001", "e001")
	require.NoError(t, err)

	_, err = l.Cancel("L001")
	assert.ErrorIs(t, err, ErrCannotCancelProcessed)

	req, ok := l.Get("L001")
	require.True(t, ok)
	assert.Equal(t, StatusApproved, req.Status)
	assert.Equal(t, 11, balanceOf(t, dir, "e004"))
}

func TestList(t *testing.T) {
	l, _ := newTestLedger()

	for _, s := range []struct {
		emp  string
		days int
	}{{"e001", 1}, {"e002", 2}, {"e001", 3}, {"e003", 1}} {
		_, err := l.Submit(s.emp, s.days, "r")
		require.NoError(t, err)
	}
	_, err := l.Approve("L003", "e004")
	require.NoError(t, err)
	_, err = l.Cancel("L004")
	require.NoError(t, err)

	ids := func(reqs []Request) []string {
		out := make([]string, 0, len(reqs))
		for _, r := range reqs {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"L001", "L002", "L003", "L004"}},
		{"by employee", Filter{EmployeeID: "e001"}, []string{"L001", "L003"}},
		{"by status", Filter{Status: "pending"}, []string{"L001", "L002"}},
		{"status case insensitive", Filter{Status: "APPROVED"}, []string{"L003"}},
		{"both", Filter{EmployeeID: "e001", Status: "Pending"}, []string{"L001"}},
		{"no match", Filter{EmployeeID: "e003", Status: "pending"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(l.List(tt.filter)))
		})
	}

	assert.Equal(t, 4, l.Count(""))
	assert.Equal(t, 2, l.Count("e001"))
	assert.Equal(t, 1, l.Count("e003"))
}

func TestBalance(t *testing.T) {
	l, _ := newTestLedger()

	emp, err := l.Balance("e010")
	require.NoError(t, err)
	assert.Equal(t, 12, emp.LeaveBalance)

	_, err = l.Balance("x")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestWithRequestsContinuesSequence(t *testing.T) {
	dir := directory.Default()
	l := NewLedger(dir, WithRequests(
		Request{ID: "L001", EmployeeID: "e001", Days: 1, Status: StatusApproved, ApprovedBy: "m"},
		Request{ID: "L007", EmployeeID: "e002", Days: 2, Status: StatusPending},
	))

	req, err := l.Submit("e003", 1, "next")
	require.NoError(t, err)
	assert.Equal(t, "L008", req.ID)

	_, err = l.Approve("L007", "e001")
	require.NoError(t, err)
	assert.Equal(t, 6, balanceOf(t, dir, "e002"))
	assert.Equal(t, []string{"L001", "L007", "L008"}, func() []string {
		var out []string
		for _, r := range l.List(Filter{}) {
			out = append(out, r.ID)
		}
		return out
	}())
}

func TestConcurrentApprovalsNeverDoubleDeduct(t *testing.T) {
	l, dir := newTestLedger()

	_, err := l.Submit("e002", 8, "sabbatical")
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		approved int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Approve("L001", "e001"); err == nil {
				mu.Lock()
				approved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, approved)
	assert.Equal(t, 0, balanceOf(t, dir, "e002"))
}

func TestConcurrentSubmitsGetUniqueIDs(t *testing.T) {
	l, _ := newTestLedger()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Submit("e005", 1, "day off")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, r := range l.List(Filter{}) {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, seen, 40)
	assert.True(t, seen["L001"])
	assert.True(t, seen["L040"])
}
