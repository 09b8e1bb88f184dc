package models

import "time"

// Knowledge is one synonym question (training phrase) of an intent.
type Knowledge struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	IntentID  string     `gorm:"not null;index" json:"intent_id"`
	Question  string     `gorm:"type:text;not null" json:"question"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
