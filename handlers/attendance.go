// File: attendify/handlers/attendance.go
package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"attendify/models"
	"attendify/services/attendance"
	"attendify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AttendanceHandler exposes the attendance ledger.
type AttendanceHandler struct {
	Ledger attendance.LedgerService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(ledger attendance.LedgerService) *AttendanceHandler {
	return &AttendanceHandler{Ledger: ledger}
}

type sessionRequest struct {
	Date    string   `json:"date" binding:"required"`
	Group   string   `json:"group" binding:"required"`
	Present []string `json:"present"`
	// Roster defaults to the group's directory roster when omitted.
	Roster []string `json:"roster"`
}

// RecordSessionHandler reconciles one (date, group) session.
func (h *AttendanceHandler) RecordSessionHandler(c *gin.Context) {
	logger := getLogger(c)

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		utils.RespondError(c, logger, "Invalid session",
			utils.NewValidationError("invalid session", utils.FieldError{Field: "date", Error: err.Error()}))
		return
	}

	var result *models.SessionResult
	if req.Roster == nil {
		result, err = h.Ledger.RecordGroupSession(c.Request.Context(), date, req.Group, req.Present)
	} else {
		result, err = h.Ledger.RecordSession(c.Request.Context(), date, req.Group, req.Present, req.Roster)
	}
	if err != nil {
		utils.RespondError(c, logger, "Failed to record attendance", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// QueryRecordsHandler lists ledger rows matching the from/to/group/member/status query.
func (h *AttendanceHandler) QueryRecordsHandler(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	records, err := h.Ledger.Query(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, getLogger(c), "Failed to fetch attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// ExportRecordsHandler downloads the matching rows as CSV. timestamp=true adds the
// submission time column.
func (h *AttendanceHandler) ExportRecordsHandler(c *gin.Context) {
	logger := getLogger(c)
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	withTimestamp, err := strconv.ParseBool(c.DefaultQuery("timestamp", "false"))
	if err != nil {
		utils.RespondError(c, logger, "Invalid filter", utils.NewValidationError("invalid filter",
			utils.FieldError{Field: "timestamp", Error: "must be true or false"}))
		return
	}

	records, err := h.Ledger.Query(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, logger, "Failed to export attendance", err)
		return
	}

	var buf bytes.Buffer
	if err := attendance.WriteCSV(&buf, records, withTimestamp); err != nil {
		utils.RespondError(c, logger, "Failed to export attendance", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFileName(filter)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ClearRecordsHandler empties the ledger.
func (h *AttendanceHandler) ClearRecordsHandler(c *gin.Context) {
	logger := getLogger(c)
	removed, err := h.Ledger.Clear(c.Request.Context())
	if err != nil {
		utils.RespondError(c, logger, "Failed to clear attendance", err)
		return
	}
	logger.Info("Attendance cleared", zap.Int("removed", removed))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// bindFilter parses the query string into a filter, normalizing dates and status. It writes
// the error response itself when it returns false.
func bindFilter(c *gin.Context) (models.RecordFilter, bool) {
	var fields []utils.FieldError
	filter := models.RecordFilter{
		Group:    strings.TrimSpace(c.Query("group")),
		MemberID: strings.TrimSpace(c.Query("member")),
	}
	if s := c.Query("from"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			fields = append(fields, utils.FieldError{Field: "from", Error: err.Error()})
		}
		filter.From = d
	}
	if s := c.Query("to"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			fields = append(fields, utils.FieldError{Field: "to", Error: err.Error()})
		}
		filter.To = d
	}
	if s := c.Query("status"); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			fields = append(fields, utils.FieldError{Field: "status", Error: err.Error()})
		}
		filter.Status = st
	}
	if len(fields) > 0 {
		utils.RespondError(c, getLogger(c), "Invalid filter", utils.NewValidationError("invalid filter", fields...))
		return filter, false
	}
	return filter, true
}

func exportFileName(f models.RecordFilter) string {
	name := "attendance"
	if f.Group != "" {
		name += "_" + sanitizeFileName(f.Group)
	}
	if f.From != "" {
		name += "_from_" + string(f.From)
	}
	if f.To != "" {
		name += "_to_" + string(f.To)
	}
	return name + ".csv"
}

func sanitizeFileName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
