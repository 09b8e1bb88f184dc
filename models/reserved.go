package models

// Reserved intents hold generic bot phrases. They are exempt from the main question rule and are never
// archived by a full import.
const INTENT_PRESENTATION = "phrase_presentation"
const INTENT_OFF_TOPIC = "phrase_hors_sujet"
const INTENT_FEEDBACK = "phrase_feedback"

// FALLBACK_INTENT is the bot engine's "I did not understand" intent. The off-topic intent is exported under
// this name.
const FALLBACK_INTENT = "nlu_fallback"

var reservedIntents = map[string]struct{}{
	INTENT_PRESENTATION: {},
	INTENT_OFF_TOPIC:    {},
	INTENT_FEEDBACK:     {},
}

func IsReservedIntent(id string) bool {
	_, ok := reservedIntents[id]
	return ok
}

// ReservedIntentIDs returns the reserved ids in a stable order.
func ReservedIntentIDs() []string {
	return []string{INTENT_PRESENTATION, INTENT_OFF_TOPIC, INTENT_FEEDBACK}
}

// BotIntentName is the name an intent is exported under.
func BotIntentName(id string) string {
	if id == INTENT_OFF_TOPIC {
		return FALLBACK_INTENT
	}
	return id
}

// StoreIntentID maps a bot engine intent name back to the stored intent id.
func StoreIntentID(name string) string {
	if name == FALLBACK_INTENT {
		return INTENT_OFF_TOPIC
	}
	return name
}
