package inbox

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"backoffice/models"
)

// DEFAULT_RESPONSE_TIME_MS is stored when the turn timing cannot be measured.
const DEFAULT_RESPONSE_TIME_MS = 100

// Segment cuts events into turns. Events are sorted by sender then time, a turn ends on action_listen or
// when the sender changes, and only turns holding a user message and a bot message are kept.
func Segment(events []models.Event) [][]models.Event {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.SenderID != b.SenderID {
			return a.SenderID < b.SenderID
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.ID < b.ID
	})

	var turns [][]models.Event
	var current []models.Event
	flush := func() {
		if eligible(current) {
			turns = append(turns, current)
		}
		current = nil
	}
	for _, ev := range sorted {
		if len(current) > 0 && current[0].SenderID != ev.SenderID {
			flush()
		}
		current = append(current, ev)
		if ev.ActionName == models.ACTION_LISTEN {
			flush()
		}
	}
	flush()
	return turns
}

func eligible(turn []models.Event) bool {
	var user, bot bool
	for _, ev := range turn {
		switch ev.TypeName {
		case models.EVENT_TYPE_USER:
			user = true
		case models.EVENT_TYPE_BOT:
			bot = true
		}
	}
	return user && bot
}

// BuildTurn builds the inbox row of one turn. It fails when an event payload cannot be decoded.
func BuildTurn(turn []models.Event) (models.Inbox, error) {
	if len(turn) == 0 {
		return models.Inbox{}, fmt.Errorf("empty turn")
	}
	row := models.Inbox{
		SenderID:  turn[0].SenderID,
		EventID:   turn[0].ID,
		Timestamp: turn[0].Timestamp,
		Status:    models.INBOX_STATUS_PENDING,
	}

	fragments := []models.ResponseFragment{}
	ranking := []models.RankedIntent{}
	var sent, received float64
	var hasSent, hasReceived bool

	for _, ev := range turn {
		if ev.Timestamp > row.Timestamp {
			row.Timestamp = ev.Timestamp
		}
		payload, err := eventPayload(ev)
		if err != nil {
			return models.Inbox{}, err
		}
		switch p := payload.(type) {
		case BotPayload:
			fragments = append(fragments, models.ResponseFragment{Text: p.Text, Data: p.Data})
			sent, hasSent = p.Timestamp, true
		case UserPayload:
			question := truncate(p.Text, models.INBOX_QUESTION_MAX_LENGTH)
			row.Question = &question

			top, candidates := rank(p.ParseData)
			ranking = candidates
			row.Confidence = top.Confidence
			row.Status = models.InboxStatusForConfidence(top.Confidence)
			if top.Name != "" {
				id := models.StoreIntentID(top.Name)
				row.IntentID = &id
			} else {
				row.IntentID = nil
			}
			received, hasReceived = p.Timestamp, true
		case ActionPayload, SessionStartedPayload, OtherPayload:
		}
	}

	row.ResponseTime = DEFAULT_RESPONSE_TIME_MS
	if hasSent && hasReceived {
		ms := math.Round((sent - received) * 1000)
		if !math.IsNaN(ms) && !math.IsInf(ms, 0) && ms >= 0 {
			row.ResponseTime = int64(ms)
		}
	}

	response, err := json.Marshal(fragments)
	if err != nil {
		return models.Inbox{}, err
	}
	r := string(response)
	row.Response = &r

	encoded, err := json.Marshal(ranking)
	if err != nil {
		return models.Inbox{}, err
	}
	row.IntentRanking = string(encoded)
	return row, nil
}

// rank returns the intent a turn is linked to and the candidates kept for display. When the NLU fell back,
// the best real candidate is promoted instead.
func rank(parse ParseData) (models.RankedIntent, []models.RankedIntent) {
	top := parse.Intent
	candidates := parse.IntentRanking
	if top.Name == models.FALLBACK_INTENT {
		filtered := make([]models.RankedIntent, 0, len(candidates))
		for _, c := range candidates {
			if c.Name != models.FALLBACK_INTENT {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
		if len(candidates) > 0 {
			top = candidates[0]
		}
	}
	if len(candidates) > models.INBOX_RANKING_SIZE {
		candidates = candidates[:models.INBOX_RANKING_SIZE]
	}
	if candidates == nil {
		candidates = []models.RankedIntent{}
	}
	return top, candidates
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
