package inbox

import (
	"context"
	"testing"

	"backoffice/logger"
	"backoffice/models"
	"backoffice/store"
	"backoffice/store/storetest"

	"github.com/jinzhu/gorm"
)

func seedEvents(t *testing.T, conn *gorm.DB, events ...models.Event) {
	t.Helper()
	for i := range events {
		if err := conn.Create(&events[i]).Error; err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}
}

func seedIntents(t *testing.T, conn *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := conn.Create(&models.Intent{ID: id, MainQuestion: id, Status: models.INTENT_STATUS_ACTIVE}).Error; err != nil {
			t.Fatalf("seed intent: %v", err)
		}
	}
}

func TestReconcilerIsIdempotent(t *testing.T) {
	conn := storetest.Open(t)
	seedIntents(t, conn, "salut", "horaires")
	seedEvents(t, conn,
		userEvent(1, "u1", 10, "Bonjour", "salut", 0.99),
		botEvent(2, "u1", 11, "Bonjour !"),
		listenEvent(3, "u1", 12),
		userEvent(4, "u1", 20, "Horaires ?", "horaires", 0.8),
		botEvent(5, "u1", 21, "9h-18h"),
		listenEvent(6, "u1", 22),
	)
	r := NewReconciler(store.New(conn), logger.Nop())

	n, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	n, err = r.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n != 0 {
		t.Fatalf("second run must not write anything, wrote %d", n)
	}

	var count int
	conn.Model(&models.Inbox{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 stored rows, got %d", count)
	}

	seedEvents(t, conn,
		userEvent(7, "u1", 30, "Merci", "salut", 0.96),
		botEvent(8, "u1", 31, "Avec plaisir"),
		listenEvent(9, "u1", 32),
	)
	n, err = r.Run(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("new events: expected 1 row, got %d (%v)", n, err)
	}
}

func TestReconcilerSkipsUnknownIntentsAndBrokenTurns(t *testing.T) {
	conn := storetest.Open(t)
	seedIntents(t, conn, "salut")
	broken := `{"event":"user"`
	seedEvents(t, conn,
		userEvent(1, "a", 10, "Bonjour", "salut", 0.99),
		botEvent(2, "a", 11, "Bonjour !"),
		listenEvent(3, "a", 12),
		userEvent(4, "b", 10, "Météo ?", "meteo", 0.99),
		botEvent(5, "b", 11, "Soleil"),
		listenEvent(6, "b", 12),
		models.Event{ID: 7, SenderID: "c", TypeName: models.EVENT_TYPE_USER, Timestamp: 10, Data: &broken},
		botEvent(8, "c", 11, "?"),
		listenEvent(9, "c", 12),
	)

	n, err := NewReconciler(store.New(conn), logger.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the known intent turn, got %d", n)
	}
	var row models.Inbox
	if err := conn.First(&row).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if row.SenderID != "a" || row.Status != models.INBOX_STATUS_CONFIRMED {
		t.Fatalf("unexpected row %+v", row)
	}
}
