package controllers

import (
	"net/http"

	dbpkg "backoffice/db"

	"github.com/gin-gonic/gin"
)

// GET /health
func GetHealth(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "base de données non configurée", http.StatusInternalServerError)
		return
	}
	if err := db.DB().PingContext(c.Request.Context()); err != nil {
		RespondError(c, "base de données indisponible", http.StatusServiceUnavailable)
		return
	}
	RespondSuccess(c, gin.H{"status": "ok"})
}
