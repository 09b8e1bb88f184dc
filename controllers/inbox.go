package controllers

import (
	"errors"
	"net/http"
	"strings"

	"backoffice/models"
	"backoffice/store"

	"github.com/gin-gonic/gin"
)

// GET /api/inbox
// Query params: status, intent_id, q, limit (default 50, max 500), offset.
func GetInbox(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}

	filter := store.InboxFilter{
		Status:   strings.TrimSpace(c.Query("status")),
		IntentID: strings.TrimSpace(c.Query("intent_id")),
		Query:    strings.TrimSpace(c.Query("q")),
		Limit:    clampInt(queryInt(c, "limit", 50), 1, 500),
		Offset:   clampInt(queryInt(c, "offset", 0), 0, 1_000_000),
	}
	if filter.Status != "" && !models.IsInboxStatus(filter.Status) {
		RespondError(c, "statut invalide", http.StatusBadRequest)
		return
	}

	rows, total, err := s.Store.ListInbox(filter)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
		"inbox":  rows,
	})
}

// POST /api/inbox/:id/validate
func ValidateInbox(c *gin.Context) {
	setInboxStatus(c, models.INBOX_STATUS_CONFIRMED)
}

// DELETE /api/inbox/:id
func ArchiveInbox(c *gin.Context) {
	setInboxStatus(c, models.INBOX_STATUS_ARCHIVED)
}

func setInboxStatus(c *gin.Context, status string) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	s, ok := services(c)
	if !ok {
		return
	}
	var reviewer *int64
	if user, ok := GetUserLogged(c); ok {
		reviewer = &user.ID
	}

	row, err := s.Store.SetInboxStatus(id, status, reviewer)
	switch {
	case errors.Is(err, store.ErrNotFound):
		RespondError(c, "question introuvable", http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidTransition):
		RespondError(c, "changement de statut impossible", http.StatusConflict)
	case err != nil:
		RespondError(c, err.Error(), http.StatusInternalServerError)
	default:
		RespondSuccess(c, gin.H{"inbox": row})
	}
}

// POST /api/inbox/fill
// Runs a reconciliation pass without waiting for the worker.
func FillInbox(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}
	n, err := s.Reconciler.Run(c.Request.Context())
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"count": n})
}
