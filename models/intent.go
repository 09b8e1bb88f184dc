package models

import "time"

// Intent is a question category the bot can answer. Its ID is a stable slug shared with the bot engine.
type Intent struct {
	ID           string      `gorm:"primary_key" json:"id"`
	Category     string      `gorm:"default:''" json:"category" form:"category"`
	MainQuestion string      `gorm:"type:text;default:''" json:"main_question" form:"main_question"`
	Status       string      `gorm:"not null;default:'to_deploy';index" json:"status"`
	Hidden       bool        `gorm:"not null;default:false" json:"hidden" form:"hidden"`
	ExpiresAt    *time.Time  `json:"expires_at" form:"expires_at"`
	Knowledges   []Knowledge `gorm:"foreignkey:IntentID" json:"knowledges,omitempty"`
	Responses    []Response  `gorm:"foreignkey:IntentID" json:"responses,omitempty"`
	CreatedAt    *time.Time  `json:"created_at"`
	UpdatedAt    *time.Time  `json:"updated_at"`
}

// TrainingPhrases counts main question + synonym questions.
func (intent Intent) TrainingPhrases() int {
	n := len(intent.Knowledges)
	if intent.MainQuestion != "" {
		n++
	}
	return n
}
