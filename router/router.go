package router

import (
	"backoffice/config"
	"backoffice/controllers"
	dbpkg "backoffice/db"
	"backoffice/logger"
	"backoffice/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Initialize wires all routes and middlewares: public routes, authenticated routes and admin routes.
func Initialize(r *gin.Engine, cfg config.Configuration, db *gorm.DB, services *controllers.Services, log *logger.Logger) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Cors.AllowedOrigins))
	r.Use(dbpkg.SetDBtoContext(db))
	r.Use(controllers.SetServicesToContext(services))

	lg := Logger(log)

	r.GET("/health", controllers.GetHealth)

	api := r.Group("/api")

	// Public (chat channels)
	api.POST("/feedback", lg, controllers.PostFeedback)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	// Knowledge
	auth.GET("/intents", lg, controllers.GetIntents)
	auth.GET("/intents/:id", lg, controllers.GetIntentByID)
	auth.PUT("/intents/:id", lg, controllers.UpdateIntent)
	auth.DELETE("/intents/:id", lg, controllers.DeleteIntent)

	// Knowledge file
	auth.POST("/file/check", lg, controllers.CheckFile)
	auth.POST("/file/import", lg, controllers.ImportFile)
	auth.GET("/file/export", lg, controllers.ExportFile)

	// Bot engine
	auth.GET("/rasa/export", lg, controllers.ExportRasa)
	auth.POST("/rasa/train", lg, controllers.TrainRasa)

	// Inbox
	auth.GET("/inbox", lg, controllers.GetInbox)
	auth.POST("/inbox/fill", lg, controllers.FillInbox)
	auth.POST("/inbox/:id/validate", lg, controllers.ValidateInbox)
	auth.DELETE("/inbox/:id", lg, controllers.ArchiveInbox)

	// Chatbot config
	auth.GET("/config", lg, controllers.GetConfig)

	// Admin routes
	admin := auth.Group("")
	admin.Use(Adminizer())

	admin.PUT("/config", lg, controllers.UpdateConfig)

	// Events (admin)
	admin.GET("/events", lg, controllers.GetEvents)
	admin.GET("/events/:id", lg, controllers.GetEventByID)

	log.Info("routes initialized")
}
