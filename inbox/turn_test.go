package inbox

import (
	"strings"
	"testing"

	"backoffice/models"
)

func TestSegmentTwoTurns(t *testing.T) {
	events := []models.Event{
		userEvent(1, "u1", 10, "Bonjour", "salut", 0.99),
		botEvent(2, "u1", 11, "Bonjour !"),
		listenEvent(3, "u1", 12),
		userEvent(4, "u1", 20, "Horaires ?", "horaires", 0.8),
		botEvent(5, "u1", 21, "9h-18h"),
		listenEvent(6, "u1", 22),
	}
	turns := Segment(events)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		row, err := BuildTurn(turn)
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		fragments, err := row.Fragments()
		if err != nil {
			t.Fatalf("turn %d fragments: %v", i, err)
		}
		if row.Question == nil || len(fragments) == 0 {
			t.Fatalf("turn %d: expected a question and a response, got %+v", i, row)
		}
	}
}

func TestSegmentSortsAndSplitsSenders(t *testing.T) {
	events := []models.Event{
		botEvent(5, "b", 21, "réponse b"),
		userEvent(4, "b", 20, "question b", "x", 0.9),
		botEvent(2, "a", 11, "réponse a"),
		userEvent(1, "a", 10, "question a", "x", 0.9),
		sessionEvent(7, "c", 5),
		listenEvent(8, "c", 6),
	}
	turns := Segment(events)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0][0].SenderID != "a" || turns[1][0].SenderID != "b" {
		t.Fatalf("turns must be grouped by sender: %+v", turns)
	}
	if turns[0][0].TypeName != models.EVENT_TYPE_USER {
		t.Fatalf("events must be sorted by time inside a turn")
	}
}

func TestBuildTurnFields(t *testing.T) {
	turn := []models.Event{
		userEvent(10, "u1", 100.0, "Horaires ?", "horaires", 0.7),
		botEvent(11, "u1", 100.25, "9h-18h"),
		botEvent(12, "u1", 100.5, "Autre chose ?"),
		listenEvent(13, "u1", 100.75),
	}
	row, err := BuildTurn(turn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if row.SenderID != "u1" || row.EventID != 10 {
		t.Fatalf("sender and event must come from the first event: %+v", row)
	}
	if row.Timestamp != 100.75 {
		t.Fatalf("timestamp must be the turn end, got %v", row.Timestamp)
	}
	if row.Status != models.INBOX_STATUS_TO_VERIFY || row.Confidence != 0.7 {
		t.Fatalf("unexpected status %s / confidence %v", row.Status, row.Confidence)
	}
	if row.IntentID == nil || *row.IntentID != "horaires" {
		t.Fatalf("unexpected intent %v", row.IntentID)
	}
	if row.ResponseTime != 500 {
		t.Fatalf("expected 500ms, got %d", row.ResponseTime)
	}
	fragments, _ := row.Fragments()
	if len(fragments) != 2 || fragments[1].Text != "Autre chose ?" {
		t.Fatalf("unexpected fragments %+v", fragments)
	}
}

func TestBuildTurnFallbackPromotion(t *testing.T) {
	ranking := []models.RankedIntent{
		{Name: models.FALLBACK_INTENT, Confidence: 0.9},
		{Name: "weather", Confidence: 0.05},
		{Name: "hours", Confidence: 0.03},
	}
	turn := []models.Event{
		userEvent(1, "u", 1, "il fait beau ?", models.FALLBACK_INTENT, 0.9, ranking...),
		botEvent(2, "u", 2, "Je n'ai pas compris"),
	}
	row, err := BuildTurn(turn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if row.IntentID == nil || *row.IntentID != "weather" {
		t.Fatalf("expected weather, got %v", row.IntentID)
	}
	if row.Confidence != 0.05 || row.Status != models.INBOX_STATUS_PENDING {
		t.Fatalf("unexpected confidence %v / status %s", row.Confidence, row.Status)
	}
	kept, _ := row.Ranking()
	if len(kept) != 2 || kept[0].Name != "weather" {
		t.Fatalf("fallback must be filtered from the ranking: %+v", kept)
	}
}

func TestBuildTurnFallbackWithoutCandidates(t *testing.T) {
	turn := []models.Event{
		userEvent(1, "u", 1, "???", models.FALLBACK_INTENT, 0.4),
		botEvent(2, "u", 2, "Je n'ai pas compris"),
	}
	row, err := BuildTurn(turn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if row.IntentID == nil || *row.IntentID != models.INTENT_OFF_TOPIC {
		t.Fatalf("expected the off-topic intent, got %v", row.IntentID)
	}
}

func TestBuildTurnRankingTopFive(t *testing.T) {
	var ranking []models.RankedIntent
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		ranking = append(ranking, models.RankedIntent{Name: name, Confidence: 0.1})
	}
	row, err := BuildTurn([]models.Event{userEvent(1, "u", 1, "q", "a", 0.1, ranking...), botEvent(2, "u", 2, "r")})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	kept, _ := row.Ranking()
	if len(kept) != models.INBOX_RANKING_SIZE {
		t.Fatalf("expected %d candidates, got %d", models.INBOX_RANKING_SIZE, len(kept))
	}
}

func TestBuildTurnTruncatesQuestion(t *testing.T) {
	long := strings.Repeat("é", 2500)
	row, err := BuildTurn([]models.Event{userEvent(1, "u", 1, long, "a", 0.99), botEvent(2, "u", 2, "r")})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := []rune(*row.Question); len(got) != 1900 {
		t.Fatalf("expected 1900 characters, got %d", len(got))
	}
	if *row.Question != strings.Repeat("é", 1900) {
		t.Fatalf("question must keep its first characters")
	}
}

func TestBuildTurnResponseTimeDefault(t *testing.T) {
	bot := botEvent(1, "u", 1, "bonjour")
	user := userEvent(2, "u", 5, "salut", "a", 0.99)
	row, err := BuildTurn([]models.Event{bot, user})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if row.ResponseTime != DEFAULT_RESPONSE_TIME_MS {
		t.Fatalf("negative timing must fall back to %dms, got %d", DEFAULT_RESPONSE_TIME_MS, row.ResponseTime)
	}
}

func TestBuildTurnMalformedPayload(t *testing.T) {
	broken := "{"
	turn := []models.Event{
		{ID: 1, SenderID: "u", TypeName: models.EVENT_TYPE_USER, Timestamp: 1, Data: &broken},
		botEvent(2, "u", 2, "r"),
	}
	if _, err := BuildTurn(turn); err == nil {
		t.Fatalf("expected an error on malformed payload")
	}
}
