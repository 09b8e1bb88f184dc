package store

import (
	"testing"
	"time"

	"backoffice/models"
	"backoffice/spreadsheet"
	"backoffice/store/storetest"
)

func strPtr(s string) *string { return &s }

func seedIntent(t *testing.T, s *Store, id, status string, questions ...string) {
	t.Helper()
	if err := s.db.Create(&models.Intent{ID: id, MainQuestion: "q " + id, Status: status}).Error; err != nil {
		t.Fatalf("seed intent: %v", err)
	}
	for _, q := range questions {
		if err := s.db.Create(&models.Knowledge{IntentID: id, Question: q}).Error; err != nil {
			t.Fatalf("seed knowledge: %v", err)
		}
	}
	if err := s.db.Create(&models.Response{IntentID: id, ResponseType: models.RESPONSE_TYPE_TEXT, Response: "r " + id}).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}
}

func TestApplyImportReplacesImportedContent(t *testing.T) {
	s := New(storetest.Open(t))
	seedIntent(t, s, "horaires", models.INTENT_STATUS_ACTIVE, "old synonym")
	seedIntent(t, s, "tarifs", models.INTENT_STATUS_ACTIVE, "combien")

	plan := spreadsheet.ImportPlan{
		Intents:    []models.Intent{{ID: "horaires", MainQuestion: "Quels horaires ?"}, {ID: "acces", MainQuestion: "Comment venir ?"}},
		Knowledges: []models.Knowledge{{IntentID: "horaires", Question: "ouverture"}, {IntentID: "acces", Question: "adresse"}},
		Responses: []models.Response{
			{IntentID: "horaires", ResponseType: models.RESPONSE_TYPE_TEXT, Response: "9h-18h"},
			{IntentID: "acces", ResponseType: models.RESPONSE_TYPE_TEXT, Response: "Bus 12"},
		},
	}
	result, err := s.ApplyImport(plan)
	if err != nil {
		t.Fatalf("apply import: %v", err)
	}
	if result.Intents != 2 || result.Knowledges != 2 || result.Responses != 2 {
		t.Fatalf("unexpected counts %+v", result)
	}

	horaires, err := s.Intent("horaires")
	if err != nil {
		t.Fatalf("load horaires: %v", err)
	}
	if horaires.Status != models.INTENT_STATUS_TO_DEPLOY {
		t.Fatalf("imported intent must wait for training, got %s", horaires.Status)
	}
	if len(horaires.Knowledges) != 1 || horaires.Knowledges[0].Question != "ouverture" {
		t.Fatalf("knowledges not replaced: %+v", horaires.Knowledges)
	}
	if horaires.MainQuestion != "Quels horaires ?" {
		t.Fatalf("main question not updated: %q", horaires.MainQuestion)
	}

	tarifs, err := s.Intent("tarifs")
	if err != nil {
		t.Fatalf("load tarifs: %v", err)
	}
	if tarifs.Status != models.INTENT_STATUS_ACTIVE || len(tarifs.Knowledges) != 1 {
		t.Fatalf("intent outside the file must be untouched: %+v", tarifs)
	}
}

func TestApplyImportDeleteIntents(t *testing.T) {
	s := New(storetest.Open(t))
	seedIntent(t, s, "tarifs", models.INTENT_STATUS_ACTIVE, "combien")
	seedIntent(t, s, models.INTENT_OFF_TOPIC, models.INTENT_STATUS_ACTIVE, "blabla", "hein")
	seedIntent(t, s, "ancien", models.INTENT_STATUS_ARCHIVED)

	plan := spreadsheet.ImportPlan{
		Intents:       []models.Intent{{ID: "acces", MainQuestion: "Comment venir ?"}},
		Responses:     []models.Response{{IntentID: "acces", ResponseType: models.RESPONSE_TYPE_TEXT, Response: "Bus 12"}},
		DeleteIntents: true,
	}
	if _, err := s.ApplyImport(plan); err != nil {
		t.Fatalf("apply import: %v", err)
	}

	tarifs, _ := s.Intent("tarifs")
	if tarifs.Status != models.INTENT_STATUS_TO_ARCHIVE {
		t.Fatalf("missing intent must be archived, got %s", tarifs.Status)
	}
	if len(tarifs.Knowledges) != 0 || len(tarifs.Responses) != 0 {
		t.Fatalf("content must be wiped: %+v", tarifs)
	}
	offTopic, _ := s.Intent(models.INTENT_OFF_TOPIC)
	if offTopic.Status != models.INTENT_STATUS_ACTIVE {
		t.Fatalf("reserved intent must not be archived, got %s", offTopic.Status)
	}
	ancien, _ := s.Intent("ancien")
	if ancien.Status != models.INTENT_STATUS_ARCHIVED {
		t.Fatalf("archived intent must stay archived, got %s", ancien.Status)
	}
}

func TestTransitionIntents(t *testing.T) {
	s := New(storetest.Open(t))
	seedIntent(t, s, "a", models.INTENT_STATUS_TO_DEPLOY)
	seedIntent(t, s, "b", models.INTENT_STATUS_ACTIVE_MODIFIED)
	seedIntent(t, s, "c", models.INTENT_STATUS_ACTIVE)

	n, err := s.TransitionIntents(models.PendingDeployStatuses, models.INTENT_STATUS_IN_TRAINING)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 transitions, got %d", n)
	}
	training, err := s.IntentsByStatus(models.TrainingIntentStatuses...)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(training) != 3 {
		t.Fatalf("expected 3 intents in the training set, got %d", len(training))
	}
}

func TestUpdateIntentMarksActiveModified(t *testing.T) {
	s := New(storetest.Open(t))
	seedIntent(t, s, "a", models.INTENT_STATUS_ACTIVE, "x")

	intent, err := s.UpdateIntent("a", IntentEdit{
		MainQuestion: "nouvelle",
		Knowledges:   []string{"y", "z"},
		Responses:    []models.Response{{ResponseType: models.RESPONSE_TYPE_TEXT, Response: "ok"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if intent.Status != models.INTENT_STATUS_ACTIVE_MODIFIED {
		t.Fatalf("expected active_modified, got %s", intent.Status)
	}
	if len(intent.Knowledges) != 2 || intent.Knowledges[0].Question != "y" {
		t.Fatalf("unexpected knowledges %+v", intent.Knowledges)
	}
	if _, err := s.UpdateIntent("missing", IntentEdit{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMaxInboxTimestamp(t *testing.T) {
	s := New(storetest.Open(t))
	ts, err := s.MaxInboxTimestamp()
	if err != nil || ts != 0 {
		t.Fatalf("empty inbox: got %v, %v", ts, err)
	}
	rows := []models.Inbox{
		{SenderID: "u", Timestamp: 10.5, Status: models.INBOX_STATUS_PENDING},
		{SenderID: "u", Timestamp: 42.25, Status: models.INBOX_STATUS_PENDING},
	}
	if err := s.CreateInboxes(rows); err != nil {
		t.Fatalf("create: %v", err)
	}
	ts, err = s.MaxInboxTimestamp()
	if err != nil || ts != 42.25 {
		t.Fatalf("expected 42.25, got %v, %v", ts, err)
	}
}

func TestSetInboxStatus(t *testing.T) {
	s := New(storetest.Open(t))
	rows := []models.Inbox{{SenderID: "u", Timestamp: 1, Status: models.INBOX_STATUS_PENDING}}
	if err := s.CreateInboxes(rows); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := rows[0].ID
	reviewer := int64(7)

	row, err := s.SetInboxStatus(id, models.INBOX_STATUS_CONFIRMED, &reviewer)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if row.Status != models.INBOX_STATUS_CONFIRMED || row.UserID == nil || *row.UserID != 7 {
		t.Fatalf("unexpected row %+v", row)
	}
	if _, err := s.SetInboxStatus(id, models.INBOX_STATUS_ARCHIVED, nil); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := s.SetInboxStatus(id, models.INBOX_STATUS_CONFIRMED, nil); err != ErrInvalidTransition {
		t.Fatalf("archived rows are final, got %v", err)
	}
}

func TestUpsertFeedbackDeduplicates(t *testing.T) {
	s := New(storetest.Open(t))
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first := models.Feedback{SenderID: "u", UserQuestion: "Horaires ?", Timestamp: at, Status: models.FEEDBACK_STATUS_WRONG}
	created, err := s.UpsertFeedback(&first)
	if err != nil || !created {
		t.Fatalf("first feedback: created=%v err=%v", created, err)
	}
	again := models.Feedback{SenderID: "u", UserQuestion: "Horaires ?", Timestamp: at, Status: models.FEEDBACK_STATUS_RELEVANT}
	created, err = s.UpsertFeedback(&again)
	if err != nil || created {
		t.Fatalf("duplicate feedback: created=%v err=%v", created, err)
	}
	if again.ID != first.ID || again.Status != models.FEEDBACK_STATUS_RELEVANT {
		t.Fatalf("duplicate must update in place: %+v", again)
	}

	pending, err := s.PendingFeedbacks(0, 0)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Status != models.FEEDBACK_STATUS_RELEVANT {
		t.Fatalf("unexpected pending feedbacks %+v", pending)
	}
}

func TestAnonymize(t *testing.T) {
	s := New(storetest.Open(t))
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	old := float64(now.AddDate(-4, 0, 0).Unix())
	recent := float64(now.AddDate(0, -1, 0).Unix())

	rows := []models.Inbox{
		{SenderID: "u", Timestamp: old, Question: strPtr("vieux"), Response: strPtr("[]"), Status: models.INBOX_STATUS_PENDING},
		{SenderID: "u", Timestamp: recent, Question: strPtr("récent"), Status: models.INBOX_STATUS_PENDING},
	}
	if err := s.CreateInboxes(rows); err != nil {
		t.Fatalf("create inbox: %v", err)
	}
	events := []models.Event{
		{SenderID: "u", TypeName: models.EVENT_TYPE_USER, Timestamp: old, Data: strPtr(`{"text":"vieux"}`)},
		{SenderID: "u", TypeName: models.EVENT_TYPE_BOT, Timestamp: old, Data: strPtr(`{"text":"réponse"}`)},
	}
	for i := range events {
		if err := s.db.Create(&events[i]).Error; err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	inboxes, evs, err := s.Anonymize(now.AddDate(-3, 0, 0))
	if err != nil {
		t.Fatalf("anonymize: %v", err)
	}
	if inboxes != 1 || evs != 1 {
		t.Fatalf("expected 1 inbox and 1 event, got %d and %d", inboxes, evs)
	}

	oldRow, _ := s.Inbox(rows[0].ID)
	if oldRow.Question != nil || oldRow.Response != nil {
		t.Fatalf("old turn keeps its text: %+v", oldRow)
	}
	recentRow, _ := s.Inbox(rows[1].ID)
	if recentRow.Question == nil {
		t.Fatalf("recent turn lost its text")
	}
	botEvent, _ := s.Event(events[1].ID)
	if botEvent.Data == nil {
		t.Fatalf("bot events are not anonymized")
	}
}
