package controllers

import (
	"errors"
	"net/http"
	"strings"

	"backoffice/models"
	"backoffice/spreadsheet"
	"backoffice/store"

	"github.com/gin-gonic/gin"
)

// GET /api/intents?status=active
func GetIntents(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}

	var statuses []string
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !models.IsIntentStatus(status) {
			RespondError(c, "statut invalide", http.StatusBadRequest)
			return
		}
		statuses = append(statuses, status)
	}

	intents, err := s.Store.IntentsByStatus(statuses...)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"intents": intents})
}

// GET /api/intents/:id
func GetIntentByID(c *gin.Context) {
	id, ok := ParamString(c, "id")
	if !ok {
		return
	}
	s, ok := services(c)
	if !ok {
		return
	}

	intent, err := s.Store.Intent(id)
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, "connaissance introuvable", http.StatusNotFound)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"intent": intent})
}

// PUT /api/intents/:id
func UpdateIntent(c *gin.Context) {
	id, ok := ParamString(c, "id")
	if !ok {
		return
	}
	s, ok := services(c)
	if !ok {
		return
	}

	var edit store.IntentEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		RespondError(c, "requête invalide : "+err.Error(), http.StatusBadRequest)
		return
	}
	if msg := checkEdit(id, &edit); msg != "" {
		RespondError(c, msg, http.StatusBadRequest)
		return
	}

	intent, err := s.Store.UpdateIntent(id, edit)
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, "connaissance introuvable", http.StatusNotFound)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.Config.SetNeedTraining(true); err != nil {
		s.Log.Error("flag training", "error", err)
	}
	RespondSuccess(c, gin.H{"intent": intent})
}

// checkEdit applies the file rules to a manual edit.
func checkEdit(id string, edit *store.IntentEdit) string {
	edit.MainQuestion = strings.TrimSpace(edit.MainQuestion)
	if edit.MainQuestion == "" && !models.IsReservedIntent(id) {
		return "la question principale est obligatoire"
	}
	questions := edit.Knowledges[:0]
	for _, q := range edit.Knowledges {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	edit.Knowledges = questions

	for i, r := range edit.Responses {
		if spreadsheet.ResponseTypeLabel(r.ResponseType) == "" {
			return "type de réponse inconnu"
		}
		if strings.TrimSpace(r.Response) == "" {
			return "réponse vide"
		}
		if models.IsAttachment(r.ResponseType) && (i == 0 || edit.Responses[i-1].ResponseType != models.RESPONSE_TYPE_TEXT) {
			return "un bouton, une image ou une réponse rapide doit suivre une réponse texte"
		}
	}
	return ""
}

// DELETE /api/intents/:id
// The intent is archived at the next training.
func DeleteIntent(c *gin.Context) {
	id, ok := ParamString(c, "id")
	if !ok {
		return
	}
	if models.IsReservedIntent(id) {
		RespondError(c, "cette connaissance est réservée", http.StatusBadRequest)
		return
	}
	s, ok := services(c)
	if !ok {
		return
	}

	if err := s.Store.ArchiveIntent(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondError(c, "connaissance introuvable", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.Config.SetNeedTraining(true); err != nil {
		s.Log.Error("flag training", "error", err)
	}
	RespondSuccess(c, gin.H{"id": id, "status": models.INTENT_STATUS_TO_ARCHIVE})
}
