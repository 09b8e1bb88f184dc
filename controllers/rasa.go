package controllers

import (
	"errors"
	"net/http"

	"backoffice/orchestrator"

	"github.com/gin-gonic/gin"
)

// GET /api/rasa/export
// The training documents of the deployable knowledge, as one YAML document.
func ExportRasa(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}
	bundle, err := s.Orchestrator.ExportBundle(c.Request.Context())
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	payload, err := bundle.TrainingPayload()
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="rasa.yml"`)
	c.Data(http.StatusOK, "application/x-yaml", payload)
}

// POST /api/rasa/train
func TrainRasa(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}
	err := s.Orchestrator.RequestTraining(c.Request.Context())
	if errors.Is(err, orchestrator.ErrBusy) {
		RespondError(c, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "training"})
}
