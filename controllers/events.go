package controllers

import (
	"errors"
	"net/http"
	"strings"

	"backoffice/store"

	"github.com/gin-gonic/gin"
)

// GET /api/events (admin)
// Query params: sender_id, type, limit (default 200, max 500), offset.
func GetEvents(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}

	filter := store.EventFilter{
		SenderID: strings.TrimSpace(c.Query("sender_id")),
		TypeName: strings.TrimSpace(c.Query("type")),
		Limit:    clampInt(queryInt(c, "limit", 200), 1, 500),
		Offset:   clampInt(queryInt(c, "offset", 0), 0, 1_000_000),
	}
	events, err := s.Store.ListEvents(filter)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"events": events, "limit": filter.Limit, "offset": filter.Offset})
}

// GET /api/events/:id (admin)
func GetEventByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	s, ok := services(c)
	if !ok {
		return
	}

	event, err := s.Store.Event(id)
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, "événement introuvable", http.StatusNotFound)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"event": event})
}
