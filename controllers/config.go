package controllers

import (
	"net/http"

	"backoffice/store"

	"github.com/gin-gonic/gin"
)

// GET /api/config
func GetConfig(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}
	cfg, err := s.Config.Get()
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"config": cfg})
}

// PUT /api/config (admin)
func UpdateConfig(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}
	var update store.ConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, "requête invalide : "+err.Error(), http.StatusBadRequest)
		return
	}
	cfg, err := s.Config.Update(update)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"config": cfg})
}
