// File: attendify/handlers/members.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"attendify/models"
	"attendify/services/members"
	"attendify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxRosterUpload caps roster uploads.
const maxRosterUpload = 5 << 20

// multipartOverhead leaves room for multipart boundaries and part headers around the file.
const multipartOverhead = 64 << 10

// MemberHandler exposes the member directory.
type MemberHandler struct {
	Service members.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(svc members.MemberService) *MemberHandler {
	return &MemberHandler{Service: svc}
}

// ListMembersHandler returns the whole directory.
func (h *MemberHandler) ListMembersHandler(c *gin.Context) {
	all, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, getLogger(c), "Failed to fetch members", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": nonNil(all)})
}

// ListGroupsHandler returns the distinct group names.
func (h *MemberHandler) ListGroupsHandler(c *gin.Context) {
	groups, err := h.Service.Groups(c.Request.Context())
	if err != nil {
		utils.RespondError(c, getLogger(c), "Failed to fetch groups", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// ListGroupMembersHandler returns the roster of one group.
func (h *MemberHandler) ListGroupMembersHandler(c *gin.Context) {
	group := c.Param("group")
	roster, err := h.Service.ListByGroup(c.Request.Context(), group)
	if err != nil {
		utils.RespondError(c, getLogger(c), "Failed to fetch group roster", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group, "members": nonNil(roster)})
}

type replaceMembersRequest struct {
	Members []models.Member `json:"members" binding:"required"`
}

// ReplaceMembersHandler overwrites the directory with a JSON roster.
func (h *MemberHandler) ReplaceMembersHandler(c *gin.Context) {
	logger := getLogger(c)

	var req replaceMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.Service.ReplaceAll(c.Request.Context(), req.Members); err != nil {
		utils.RespondError(c, logger, "Failed to replace members", err)
		return
	}
	logger.Info("Roster replaced", zap.Int("members", len(req.Members)))
	c.JSON(http.StatusOK, gin.H{"imported": len(req.Members)})
}

// UploadRosterHandler replaces the directory with an uploaded CSV roster, sent either as the
// multipart field "file" or as a text/csv body. Rosters over maxRosterUpload are rejected whole.
func (h *MemberHandler) UploadRosterHandler(c *gin.Context) {
	logger := getLogger(c)

	var data []byte
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRosterUpload+multipartOverhead)
		fh, err := c.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				utils.RespondError(c, logger, "Roster upload rejected", errRosterTooLarge())
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing roster file"})
			return
		}
		if fh.Size > maxRosterUpload {
			utils.RespondError(c, logger, "Roster upload rejected", errRosterTooLarge())
			return
		}
		f, err := fh.Open()
		if err != nil {
			logger.Error("Failed to open uploaded roster", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable roster file"})
			return
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			logger.Error("Failed to read uploaded roster", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable roster file"})
			return
		}
	} else {
		var err error
		data, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRosterUpload))
		if err != nil {
			if isTooLarge(err) {
				utils.RespondError(c, logger, "Roster upload rejected", errRosterTooLarge())
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable roster file"})
			return
		}
	}

	n, err := h.Service.ImportCSV(c.Request.Context(), bytes.NewReader(data))
	if err != nil {
		utils.RespondError(c, logger, "Roster upload rejected", err)
		return
	}
	logger.Info("Roster uploaded", zap.Int("members", n))
	c.JSON(http.StatusOK, gin.H{"imported": n})
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func errRosterTooLarge() error {
	return utils.NewValidationError("roster file too large",
		utils.FieldError{Field: "file", Error: fmt.Sprintf("must not exceed %d bytes", maxRosterUpload)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
