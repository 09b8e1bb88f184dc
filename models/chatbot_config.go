package models

import "time"

// CHATBOT_CONFIG_ID is the id of the only configuration row.
const CHATBOT_CONFIG_ID = 1

// ChatbotConfig holds the coordination flags shared by imports, retraining and the workers.
// TrainingRasa and IsBlocked are only flipped through conditional updates (see store.ConfigStore).
type ChatbotConfig struct {
	ID                      int64      `gorm:"primary_key" json:"id"`
	TrainingRasa            bool       `gorm:"not null;default:false" json:"training_rasa"`
	NeedTraining            bool       `gorm:"not null;default:false" json:"need_training"`
	NeedUpdate              bool       `gorm:"not null;default:false" json:"need_update"`
	IsBlocked               bool       `gorm:"not null;default:false" json:"is_blocked"`
	ShowFallbackSuggestions bool       `gorm:"not null;default:false" json:"show_fallback_suggestions"`
	LastTrainingAt          *time.Time `json:"last_training_at"`
	CreatedAt               *time.Time `json:"created_at"`
	UpdatedAt               *time.Time `json:"updated_at"`
}
