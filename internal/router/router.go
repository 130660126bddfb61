package router

import (
	"github.com/gin-gonic/gin"

	"noteflow/internal/handler"
	"noteflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	intakeH *handler.IntakeHandler,
	clientH *handler.ClientHandler,
	notesH *handler.NotesHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Intake routes
	intake := v1.Group("/intake")
	intake.POST("/process", intakeH.Process)
	intake.POST("/imports", intakeH.Enqueue)
	intake.GET("/imports/:id", intakeH.GetImport)
	intake.DELETE("/imports/:id", intakeH.CancelImport)

	// Roster lookup and session notes
	clients := v1.Group("/clients")
	clients.GET("/search", clientH.Search)
	clients.GET("/:id/notes", notesH.List)
	clients.GET("/:id/notes/export/csv", notesH.ExportCSV)

	return r
}
