package controllers

import (
	"backoffice/inbox"
	"backoffice/logger"
	"backoffice/orchestrator"
	"backoffice/store"

	"github.com/gin-gonic/gin"
)

const servicesKey = "services"

// Services are the engines the handlers drive.
type Services struct {
	Store        *store.Store
	Config       *store.ConfigStore
	Orchestrator *orchestrator.Orchestrator
	Reconciler   *inbox.Reconciler
	JwtSecret    string
	Log          *logger.Logger
}

func SetServicesToContext(s *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(servicesKey, s)
		c.Next()
	}
}

func ServicesInstance(c *gin.Context) *Services {
	v, ok := c.Get(servicesKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Services)
	return s
}

// services fetches the services or answers 500 when the route was wired without them.
func services(c *gin.Context) (*Services, bool) {
	s := ServicesInstance(c)
	if s == nil {
		RespondError(c, "services non configurés", 500)
		return nil, false
	}
	return s, true
}
