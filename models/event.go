package models

/************************************************
/**** MARK: EVENT TYPES ****/
/************************************************/
const EVENT_TYPE_USER = "user"
const EVENT_TYPE_BOT = "bot"
const EVENT_TYPE_ACTION = "action"
const EVENT_TYPE_SESSION_STARTED = "session_started"

// ACTION_LISTEN marks the end of a conversational turn: the bot engine waits for new input.
const ACTION_LISTEN = "action_listen"

// Event is a raw telemetry row written by the bot engine's tracker store. Rows are append-only;
// only Data is ever rewritten (nulled by anonymization).
type Event struct {
	ID         int64   `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SenderID   string  `gorm:"not null;index" json:"sender_id"`
	TypeName   string  `gorm:"not null" json:"type_name"`
	Timestamp  float64 `gorm:"index" json:"timestamp"`
	IntentName string  `gorm:"default:''" json:"intent_name"`
	ActionName string  `gorm:"default:''" json:"action_name"`
	Data       *string `gorm:"type:text" json:"data"`
}
