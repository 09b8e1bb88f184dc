package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the backoffice front to call the API. "*" (or no origin) allows every origin.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Application-Version", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
		conf.AllowCredentials = true
	}
	return cors.New(conf)
}
