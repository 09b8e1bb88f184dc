package inbox

import (
	"context"
	"sync"

	"backoffice/logger"
	"backoffice/models"
)

// EventStore is what the reconciler reads events from and writes turns to.
type EventStore interface {
	MaxInboxTimestamp() (float64, error)
	EventsAfter(watermark float64) ([]models.Event, error)
	ExistingIntentIDs(ids []string) (map[string]bool, error)
	CreateInboxes(rows []models.Inbox) error
}

// Reconciler replays the events newer than the latest stored turn into inbox rows.
// Runs are serialized: the watermark is read then written without a database lock.
type Reconciler struct {
	store EventStore
	log   *logger.Logger
	mu    sync.Mutex
}

func NewReconciler(store EventStore, log *logger.Logger) *Reconciler {
	return &Reconciler{store: store, log: log.With("component", "inbox_fill")}
}

// Run reconciles the pending events and returns the number of rows written.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	watermark, err := r.store.MaxInboxTimestamp()
	if err != nil {
		return 0, err
	}
	events, err := r.store.EventsAfter(watermark)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	var rows []models.Inbox
	for _, turn := range Segment(events) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		row, err := BuildTurn(turn)
		if err != nil {
			r.log.Warn("skipping turn", "sender_id", turn[0].SenderID, "event_id", turn[0].ID, "error", err)
			continue
		}
		if row.IntentID == nil || *row.IntentID == "" {
			continue
		}
		rows = append(rows, row)
	}

	rows, err = r.knownIntentsOnly(rows)
	if err != nil {
		return 0, err
	}
	if err := r.store.CreateInboxes(rows); err != nil {
		return 0, err
	}
	if len(rows) > 0 {
		r.log.Info("inbox rows written", "count", len(rows), "watermark", watermark)
	}
	return len(rows), nil
}

// knownIntentsOnly drops turns linked to an intent the knowledge base no longer has.
func (r *Reconciler) knownIntentsOnly(rows []models.Inbox) ([]models.Inbox, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, *row.IntentID)
	}
	known, err := r.store.ExistingIntentIDs(ids)
	if err != nil {
		return nil, err
	}
	kept := rows[:0]
	for _, row := range rows {
		if known[*row.IntentID] {
			kept = append(kept, row)
		} else {
			r.log.Debug("dropping turn on unknown intent", "intent_id", *row.IntentID, "event_id", row.EventID)
		}
	}
	return kept, nil
}
