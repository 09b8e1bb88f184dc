// Package inbox turns the bot engine event log into reviewable turns and attaches user feedback to them.
package inbox

import (
	"encoding/json"
	"fmt"

	"backoffice/models"
)

// Payload is the decoded data of one event. It is one of ActionPayload, BotPayload, UserPayload,
// SessionStartedPayload or OtherPayload.
type Payload interface {
	EventTimestamp() float64
}

type ActionPayload struct {
	Name       string
	Confidence float64
	Timestamp  float64
}

type BotPayload struct {
	Text      string
	Data      json.RawMessage
	Timestamp float64
}

type ParseData struct {
	Intent        models.RankedIntent   `json:"intent"`
	IntentRanking []models.RankedIntent `json:"intent_ranking"`
}

type UserPayload struct {
	Text         string
	MessageID    string
	InputChannel string
	ParseData    ParseData
	Timestamp    float64
}

type SessionStartedPayload struct {
	Timestamp float64
}

// OtherPayload is any event kind the backoffice has no use for (slots, restarts, ...).
type OtherPayload struct {
	Event     string
	Timestamp float64
}

func (p ActionPayload) EventTimestamp() float64         { return p.Timestamp }
func (p BotPayload) EventTimestamp() float64            { return p.Timestamp }
func (p UserPayload) EventTimestamp() float64           { return p.Timestamp }
func (p SessionStartedPayload) EventTimestamp() float64 { return p.Timestamp }
func (p OtherPayload) EventTimestamp() float64          { return p.Timestamp }

type envelope struct {
	Event        string          `json:"event"`
	Timestamp    float64         `json:"timestamp"`
	Name         string          `json:"name"`
	Confidence   *float64        `json:"confidence"`
	Text         *string         `json:"text"`
	Data         json.RawMessage `json:"data"`
	MessageID    string          `json:"message_id"`
	InputChannel *string         `json:"input_channel"`
	ParseData    *ParseData      `json:"parse_data"`
}

// ParsePayload decodes a raw event payload according to its "event" field.
func ParsePayload(raw []byte) (Payload, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode event payload: %w", err)
	}
	switch env.Event {
	case models.EVENT_TYPE_ACTION:
		p := ActionPayload{Name: env.Name, Timestamp: env.Timestamp}
		if env.Confidence != nil {
			p.Confidence = *env.Confidence
		}
		return p, nil
	case models.EVENT_TYPE_BOT:
		p := BotPayload{Data: env.Data, Timestamp: env.Timestamp}
		if env.Text != nil {
			p.Text = *env.Text
		}
		if string(p.Data) == "null" {
			p.Data = nil
		}
		return p, nil
	case models.EVENT_TYPE_USER:
		p := UserPayload{MessageID: env.MessageID, Timestamp: env.Timestamp}
		if env.Text != nil {
			p.Text = *env.Text
		}
		if env.InputChannel != nil {
			p.InputChannel = *env.InputChannel
		}
		if env.ParseData != nil {
			p.ParseData = *env.ParseData
		}
		return p, nil
	case models.EVENT_TYPE_SESSION_STARTED:
		return SessionStartedPayload{Timestamp: env.Timestamp}, nil
	case "":
		return nil, fmt.Errorf("event payload without event kind")
	default:
		return OtherPayload{Event: env.Event, Timestamp: env.Timestamp}, nil
	}
}

func eventPayload(ev models.Event) (Payload, error) {
	if ev.Data == nil {
		return nil, fmt.Errorf("event %d has no payload", ev.ID)
	}
	p, err := ParsePayload([]byte(*ev.Data))
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", ev.ID, err)
	}
	return p, nil
}
