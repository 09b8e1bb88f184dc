package models

import (
	"encoding/json"
	"time"
)

// INBOX_QUESTION_MAX_LENGTH keeps stored questions under the 2000 chars column limit.
const INBOX_QUESTION_MAX_LENGTH = 1900

// INBOX_RANKING_SIZE is how many candidate intents are kept for display.
const INBOX_RANKING_SIZE = 5

// Inbox is one reconciled question/answer turn.
type Inbox struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SenderID          string     `gorm:"not null;index" json:"sender_id"`
	EventID           int64      `json:"event_id"`
	Timestamp         float64    `gorm:"index" json:"timestamp"`
	Question          *string    `gorm:"type:varchar(2000)" json:"question"`
	Confidence        float64    `json:"confidence"`
	IntentRanking     string     `gorm:"type:text" json:"intent_ranking"`
	Response          *string    `gorm:"type:text" json:"response"`
	ResponseTime      int64      `json:"response_time"`
	Status            string     `gorm:"not null;default:'pending';index" json:"status"`
	FeedbackStatus    string     `gorm:"default:''" json:"feedback_status"`
	FeedbackTimestamp *time.Time `json:"feedback_timestamp"`
	IntentID          *string    `gorm:"index" json:"intent_id"`
	UserID            *int64     `json:"user_id"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

// RankedIntent is one candidate intent proposed by the NLU.
type RankedIntent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ResponseFragment is one message the bot sent during the turn.
type ResponseFragment struct {
	Text string          `json:"text"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (inbox Inbox) Ranking() ([]RankedIntent, error) {
	var out []RankedIntent
	if inbox.IntentRanking == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(inbox.IntentRanking), &out)
	return out, err
}

func (inbox Inbox) Fragments() ([]ResponseFragment, error) {
	var out []ResponseFragment
	if inbox.Response == nil || *inbox.Response == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(*inbox.Response), &out)
	return out, err
}
