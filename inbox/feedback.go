package inbox

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"backoffice/logger"
	"backoffice/models"
)

// FEEDBACK_WINDOW is how far apart a feedback and the turn it refers to may be, on either side.
const FEEDBACK_WINDOW = 10 * time.Minute

const feedbackBatchSize = 200

var ErrInvalidFeedback = errors.New("invalid feedback")

type FeedbackRecorder interface {
	UpsertFeedback(fb *models.Feedback) (bool, error)
}

type FeedbackStore interface {
	FeedbackRecorder
	PendingFeedbacks(afterID int64, limit int) ([]models.Feedback, error)
	InboxCandidates(senderID string, from, to float64) ([]models.Inbox, error)
	AttachFeedback(fb models.Feedback, inboxID int64) error
}

// SubmitFeedback records a feedback. Resubmitting the same question and timestamp updates the status of the
// stored feedback instead of adding a second one.
func SubmitFeedback(store FeedbackRecorder, fb *models.Feedback) (bool, error) {
	fb.UserQuestion = strings.TrimSpace(fb.UserQuestion)
	fb.SenderID = strings.TrimSpace(fb.SenderID)
	if missing := fb.MissingFields(); missing != "" {
		return false, fmt.Errorf("%w: %s", ErrInvalidFeedback, missing)
	}
	return store.UpsertFeedback(fb)
}

type FeedbackMatcher struct {
	store FeedbackStore
	log   *logger.Logger
	mu    sync.Mutex
}

func NewFeedbackMatcher(store FeedbackStore, log *logger.Logger) *FeedbackMatcher {
	return &FeedbackMatcher{store: store, log: log.With("component", "feedback")}
}

// Run attaches every pending feedback that has a matching turn. Unmatched feedbacks stay for a later run.
// The pending rows are read page by page so old unmatched feedbacks never hide newer ones.
func (m *FeedbackMatcher) Run(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched, seen := 0, 0
	var lastID int64
	for {
		page, err := m.store.PendingFeedbacks(lastID, feedbackBatchSize)
		if err != nil {
			return matched, err
		}
		for _, fb := range page {
			if err := ctx.Err(); err != nil {
				return matched, err
			}
			ok, err := m.attach(fb)
			if err != nil {
				return matched, err
			}
			if ok {
				matched++
			}
		}
		seen += len(page)
		if len(page) < feedbackBatchSize {
			break
		}
		lastID = page[len(page)-1].ID
	}
	if matched > 0 {
		m.log.Info("feedbacks attached", "count", matched, "pending", seen-matched)
	}
	return matched, nil
}

// attach links fb to its turn when there is one.
func (m *FeedbackMatcher) attach(fb models.Feedback) (bool, error) {
	at := unixSeconds(fb.Timestamp)
	window := FEEDBACK_WINDOW.Seconds()
	candidates, err := m.store.InboxCandidates(fb.SenderID, at-window, at+window)
	if err != nil {
		return false, err
	}
	row, ok := Match(fb, candidates)
	if !ok {
		return false, nil
	}
	if err := m.store.AttachFeedback(fb, row.ID); err != nil {
		m.log.Error("attach feedback", "feedback_id", fb.ID, "inbox_id", row.ID, "error", err)
		return false, nil
	}
	return true, nil
}

// Match picks the turn a feedback refers to: same sender, within the window, same question ignoring case.
// Among several, the closest in time wins, then the oldest row.
func Match(fb models.Feedback, candidates []models.Inbox) (models.Inbox, bool) {
	at := unixSeconds(fb.Timestamp)
	question := strings.ToUpper(fb.UserQuestion)
	window := FEEDBACK_WINDOW.Seconds()

	var best models.Inbox
	bestDistance := math.Inf(1)
	found := false
	for _, row := range candidates {
		if row.SenderID != fb.SenderID || row.Question == nil {
			continue
		}
		if strings.ToUpper(*row.Question) != question {
			continue
		}
		distance := math.Abs(row.Timestamp - at)
		if distance > window {
			continue
		}
		if !found || distance < bestDistance || (distance == bestDistance && row.ID < best.ID) {
			best, bestDistance, found = row, distance, true
		}
	}
	return best, found
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
