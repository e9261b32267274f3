// File: attendify/handlers/bundle.go
package handlers

import (
	"attendify/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Tokens *utils.TokenManager
	Health *utils.HealthMonitor

	// Auth endpoints
	LoginHandler gin.HandlerFunc

	// Member directory endpoints
	ListMembersHandler      gin.HandlerFunc
	ListGroupsHandler       gin.HandlerFunc
	ListGroupMembersHandler gin.HandlerFunc
	ReplaceMembersHandler   gin.HandlerFunc
	UploadRosterHandler     gin.HandlerFunc

	// Attendance endpoints
	RecordSessionHandler gin.HandlerFunc
	QueryRecordsHandler  gin.HandlerFunc
	ExportRecordsHandler gin.HandlerFunc
	ClearRecordsHandler  gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle.
func NewHandlerBundle(auth *AuthHandler, members *MemberHandler, att *AttendanceHandler, health *utils.HealthMonitor) *HandlerBundle {
	return &HandlerBundle{
		Tokens: auth.Tokens,
		Health: health,

		LoginHandler: auth.LoginHandler,

		ListMembersHandler:      members.ListMembersHandler,
		ListGroupsHandler:       members.ListGroupsHandler,
		ListGroupMembersHandler: members.ListGroupMembersHandler,
		ReplaceMembersHandler:   members.ReplaceMembersHandler,
		UploadRosterHandler:     members.UploadRosterHandler,

		RecordSessionHandler: att.RecordSessionHandler,
		QueryRecordsHandler:  att.QueryRecordsHandler,
		ExportRecordsHandler: att.ExportRecordsHandler,
		ClearRecordsHandler:  att.ClearRecordsHandler,
	}
}
