package inbox

import (
	"encoding/json"

	"backoffice/models"
)

func payload(v map[string]interface{}) *string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	s := string(b)
	return &s
}

func userEvent(id int64, sender string, ts float64, text string, intent string, confidence float64, ranking ...models.RankedIntent) models.Event {
	if ranking == nil {
		ranking = []models.RankedIntent{{Name: intent, Confidence: confidence}}
	}
	return models.Event{
		ID: id, SenderID: sender, TypeName: models.EVENT_TYPE_USER, Timestamp: ts, IntentName: intent,
		Data: payload(map[string]interface{}{
			"event":         "user",
			"timestamp":     ts,
			"text":          text,
			"message_id":    "m1",
			"input_channel": "rest",
			"parse_data": map[string]interface{}{
				"intent":         map[string]interface{}{"name": intent, "confidence": confidence},
				"intent_ranking": ranking,
			},
		}),
	}
}

func botEvent(id int64, sender string, ts float64, text string) models.Event {
	return models.Event{
		ID: id, SenderID: sender, TypeName: models.EVENT_TYPE_BOT, Timestamp: ts,
		Data: payload(map[string]interface{}{"event": "bot", "timestamp": ts, "text": text, "data": map[string]interface{}{"image": nil}}),
	}
}

func listenEvent(id int64, sender string, ts float64) models.Event {
	return models.Event{
		ID: id, SenderID: sender, TypeName: models.EVENT_TYPE_ACTION, Timestamp: ts, ActionName: models.ACTION_LISTEN,
		Data: payload(map[string]interface{}{"event": "action", "timestamp": ts, "name": models.ACTION_LISTEN}),
	}
}

func sessionEvent(id int64, sender string, ts float64) models.Event {
	return models.Event{
		ID: id, SenderID: sender, TypeName: models.EVENT_TYPE_SESSION_STARTED, Timestamp: ts,
		Data: payload(map[string]interface{}{"event": "session_started", "timestamp": ts}),
	}
}
