package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	membersRepo "attendify/database/repository/members"
	recordsRepo "attendify/database/repository/records"
	"attendify/models"
	"attendify/services/attendance"
	"attendify/services/members"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServices() (*members.DefaultMemberService, *attendance.Ledger) {
	dir := members.NewMemberService(membersRepo.NewMemoryMemberRepo(
		models.Member{MembershipNumber: "M1", FullName: "Ann", Group: "Youth"},
		models.Member{MembershipNumber: "M2", FullName: "Ben", Group: "Youth"},
		models.Member{MembershipNumber: "M3", FullName: "Cat", Group: "Youth"},
		models.Member{MembershipNumber: "A1", FullName: "Dan", Group: "Adults"},
	), zap.NewNop())
	ledger := attendance.NewLedger(recordsRepo.NewMemoryRecordRepo(), dir, zap.NewNop(),
		attendance.WithClock(func() time.Time { return time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC) }))
	return dir, ledger
}

func newTestRouter() *gin.Engine {
	dir, ledger := newServices()
	mh := NewMemberHandler(dir)
	ah := NewAttendanceHandler(ledger)

	r := gin.New()
	r.GET("/members", mh.ListMembersHandler)
	r.GET("/members/groups", mh.ListGroupsHandler)
	r.GET("/members/group/:group", mh.ListGroupMembersHandler)
	r.PUT("/members", mh.ReplaceMembersHandler)
	r.POST("/members/upload", mh.UploadRosterHandler)
	r.POST("/attendance/session", ah.RecordSessionHandler)
	r.GET("/attendance", ah.QueryRecordsHandler)
	r.GET("/attendance/export", ah.ExportRecordsHandler)
	r.DELETE("/attendance", ah.ClearRecordsHandler)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return do(t, r, method, path, body, "application/json")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
