package models

import "time"

// Feedback is a relevance judgment sent by a channel. It is deleted once attached to an Inbox row.
type Feedback struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SenderID     string     `gorm:"not null;index" json:"sender_id" form:"sender_id"`
	UserQuestion string     `gorm:"type:text;not null" json:"user_question" form:"user_question"`
	BotResponse  string     `gorm:"type:text" json:"bot_response" form:"bot_response"`
	Timestamp    time.Time  `gorm:"not null;index" json:"timestamp" form:"timestamp"`
	Status       string     `gorm:"not null" json:"status" form:"status"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (feedback Feedback) MissingFields() string {
	if feedback.SenderID == "" {
		return "sender_id"
	} else if feedback.UserQuestion == "" {
		return "user_question"
	} else if feedback.Timestamp.IsZero() {
		return "timestamp"
	} else if !IsFeedbackStatus(feedback.Status) {
		return "status"
	}
	return ""
}
