package models

import "time"

/************************************************
/**** MARK: RESPONSE TYPES ****/
/************************************************/
const RESPONSE_TYPE_TEXT = "text"
const RESPONSE_TYPE_IMAGE = "image"
const RESPONSE_TYPE_BUTTON = "button"
const RESPONSE_TYPE_QUICK_REPLY = "quick_reply"

// Response is one reply fragment. Image, button and quick_reply responses decorate the text response
// stored right before them.
type Response struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	IntentID     string     `gorm:"not null;index" json:"intent_id"`
	ResponseType string     `gorm:"not null;default:'text'" json:"response_type"`
	Response     string     `gorm:"type:text;not null" json:"response"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// IsAttachment reports whether the response attaches to a preceding text response.
func IsAttachment(responseType string) bool {
	switch responseType {
	case RESPONSE_TYPE_IMAGE, RESPONSE_TYPE_BUTTON, RESPONSE_TYPE_QUICK_REPLY:
		return true
	}
	return false
}
