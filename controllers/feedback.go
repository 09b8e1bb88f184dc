package controllers

import (
	"errors"
	"net/http"

	"backoffice/inbox"
	"backoffice/models"

	"github.com/gin-gonic/gin"
)

// POST /api/feedback
// Sent by the chat channels. The feedback is attached to its turn by the feedback worker.
func PostFeedback(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}

	var fb models.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		RespondError(c, "feedback invalide : "+err.Error(), http.StatusBadRequest)
		return
	}
	fb.ID = 0

	created, err := inbox.SubmitFeedback(s.Store, &fb)
	if errors.Is(err, inbox.ErrInvalidFeedback) {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{"feedback": fb})
}
