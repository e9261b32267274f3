package routes

import (
	"net/http"
	"time"

	"attendify/handlers"
	"attendify/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the admin login endpoint.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)
	}
}

// RegisterMemberRoutes registers member directory endpoints.
func RegisterMemberRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/members")
	{
		api.Use(middleware.JWTAuthAdminMiddleware(hb.Tokens))
		api.GET("", hb.ListMembersHandler)
		api.GET("/groups", hb.ListGroupsHandler)
		api.GET("/group/:group", hb.ListGroupMembersHandler)
		api.PUT("", hb.ReplaceMembersHandler)
		api.POST("/upload", hb.UploadRosterHandler)
	}
}

// RegisterAttendanceRoutes registers attendance ledger endpoints.
func RegisterAttendanceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/attendance")
	{
		api.Use(middleware.JWTAuthAdminMiddleware(hb.Tokens))
		api.POST("/session", hb.RecordSessionHandler)
		api.GET("", hb.QueryRecordsHandler)
		api.GET("/export", hb.ExportRecordsHandler)
		api.DELETE("", hb.ClearRecordsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Health == nil {
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Attendify"})
		})
		return
	}
	r.GET("/health", handlers.HealthHandler(hb.Health))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterMemberRoutes(r, hb)
	RegisterAttendanceRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
