package inbox

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"backoffice/logger"
	"backoffice/models"
	"backoffice/store"
	"backoffice/store/storetest"
)

func question(s string) *string { return &s }

func TestMatchWindow(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()
	base := float64(at.Unix())
	fb := models.Feedback{SenderID: "u", UserQuestion: "horaires ?", Timestamp: at, Status: models.FEEDBACK_STATUS_WRONG}

	inside := models.Inbox{ID: 1, SenderID: "u", Timestamp: base + 590, Question: question("Horaires ?")}
	if _, ok := Match(fb, []models.Inbox{inside}); !ok {
		t.Fatalf("row 590s after the feedback must match")
	}
	outside := models.Inbox{ID: 2, SenderID: "u", Timestamp: base + 610, Question: question("Horaires ?")}
	if _, ok := Match(fb, []models.Inbox{outside}); ok {
		t.Fatalf("row 610s after the feedback must not match")
	}
	before := models.Inbox{ID: 3, SenderID: "u", Timestamp: base - 590, Question: question("HORAIRES ?")}
	if _, ok := Match(fb, []models.Inbox{before}); !ok {
		t.Fatalf("the window is symmetric")
	}
}

func TestMatchRules(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()
	base := float64(at.Unix())
	fb := models.Feedback{SenderID: "u", UserQuestion: "Horaires ?", Timestamp: at}

	candidates := []models.Inbox{
		{ID: 1, SenderID: "other", Timestamp: base, Question: question("Horaires ?")},
		{ID: 2, SenderID: "u", Timestamp: base, Question: question("Horaires")},
		{ID: 3, SenderID: "u", Timestamp: base + 120, Question: question("horaires ?")},
		{ID: 4, SenderID: "u", Timestamp: base - 30, Question: question("HORAIRES ?")},
		{ID: 5, SenderID: "u", Timestamp: base + 30, Question: question("Horaires ?")},
		{ID: 6, SenderID: "u", Timestamp: base, Question: nil},
	}
	row, ok := Match(fb, candidates)
	if !ok {
		t.Fatalf("expected a match")
	}
	if row.ID != 4 {
		t.Fatalf("closest row then lowest id must win, got %d", row.ID)
	}
}

func TestSubmitFeedbackValidates(t *testing.T) {
	s := store.New(storetest.Open(t))
	_, err := SubmitFeedback(s, &models.Feedback{SenderID: "u", UserQuestion: "q", Timestamp: time.Now(), Status: "bof"})
	if !errors.Is(err, ErrInvalidFeedback) {
		t.Fatalf("expected ErrInvalidFeedback, got %v", err)
	}
}

func TestFeedbackMatcherRun(t *testing.T) {
	conn := storetest.Open(t)
	s := store.New(conn)
	at := time.Unix(1_700_000_000, 0).UTC()
	base := float64(at.Unix())

	rows := []models.Inbox{
		{SenderID: "u", Timestamp: base + 590, Question: question("Horaires ?"), Status: models.INBOX_STATUS_TO_VERIFY},
		{SenderID: "v", Timestamp: base + 610, Question: question("Tarifs ?"), Status: models.INBOX_STATUS_PENDING},
	}
	if err := s.CreateInboxes(rows); err != nil {
		t.Fatalf("seed inbox: %v", err)
	}

	matching := models.Feedback{SenderID: "u", UserQuestion: "horaires ?", Timestamp: at, Status: models.FEEDBACK_STATUS_RELEVANT}
	late := models.Feedback{SenderID: "v", UserQuestion: "Tarifs ?", Timestamp: at, Status: models.FEEDBACK_STATUS_WRONG}
	for _, fb := range []*models.Feedback{&matching, &late} {
		if _, err := SubmitFeedback(s, fb); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	n, err := NewFeedbackMatcher(s, logger.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 match, got %d", n)
	}

	row, _ := s.Inbox(rows[0].ID)
	if row.Status != models.FEEDBACK_STATUS_RELEVANT || row.FeedbackStatus != models.FEEDBACK_STATUS_RELEVANT {
		t.Fatalf("feedback not applied: %+v", row)
	}
	if row.FeedbackTimestamp == nil {
		t.Fatalf("feedback timestamp not set")
	}
	untouched, _ := s.Inbox(rows[1].ID)
	if untouched.Status != models.INBOX_STATUS_PENDING {
		t.Fatalf("row outside the window changed: %+v", untouched)
	}

	pending, _ := s.PendingFeedbacks(0, 0)
	if len(pending) != 1 || pending[0].SenderID != "v" {
		t.Fatalf("only the unmatched feedback must remain: %+v", pending)
	}
}

func TestFeedbackMatcherReachesPastStaleFeedbacks(t *testing.T) {
	conn := storetest.Open(t)
	s := store.New(conn)
	at := time.Unix(1_700_000_000, 0).UTC()

	for i := 0; i < feedbackBatchSize+50; i++ {
		stale := models.Feedback{
			SenderID:     "old",
			UserQuestion: fmt.Sprintf("question %d", i),
			Timestamp:    at.Add(-time.Duration(i) * time.Hour),
			Status:       models.FEEDBACK_STATUS_WRONG,
		}
		if _, err := SubmitFeedback(s, &stale); err != nil {
			t.Fatalf("seed stale feedback: %v", err)
		}
	}

	rows := []models.Inbox{{SenderID: "u", Timestamp: float64(at.Unix()) + 10, Question: question("Horaires ?"), Status: models.INBOX_STATUS_PENDING}}
	if err := s.CreateInboxes(rows); err != nil {
		t.Fatalf("seed inbox: %v", err)
	}
	fresh := models.Feedback{SenderID: "u", UserQuestion: "HORAIRES ?", Timestamp: at, Status: models.FEEDBACK_STATUS_RELEVANT}
	if _, err := SubmitFeedback(s, &fresh); err != nil {
		t.Fatalf("submit: %v", err)
	}

	n, err := NewFeedbackMatcher(s, logger.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected the newest feedback to match, got %d matches", n)
	}
	row, _ := s.Inbox(rows[0].ID)
	if row.Status != models.FEEDBACK_STATUS_RELEVANT {
		t.Fatalf("feedback not applied: %+v", row)
	}
	pending, _ := s.PendingFeedbacks(0, 0)
	if len(pending) != feedbackBatchSize+50 {
		t.Fatalf("stale feedbacks must stay, got %d", len(pending))
	}
}
