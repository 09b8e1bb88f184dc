package spreadsheet

import (
	"sort"
	"strings"
	"time"

	"backoffice/models"
)

// Encode renders intents as a table, one line per response. Intent level columns are only filled on the
// first line of each intent. Intents must have their knowledges and responses loaded.
func Encode(intents []models.Intent) [][]string {
	sorted := make([]models.Intent, len(intents))
	copy(sorted, intents)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].UpdatedAt, sorted[j].UpdatedAt
		if !sameInstant(a, b) {
			return after(a, b)
		}
		return sorted[i].MainQuestion < sorted[j].MainQuestion
	})

	table := [][]string{append([]string(nil), exportHeaders...)}
	for _, intent := range sorted {
		responses := make([]models.Response, len(intent.Responses))
		copy(responses, intent.Responses)
		sort.SliceStable(responses, func(i, j int) bool { return responses[i].ID < responses[j].ID })

		for i, resp := range responses {
			line := []string{intent.ID, "", "", ResponseTypeLabel(resp.ResponseType), resp.Response, "", "", ""}
			if i == 0 {
				line[1] = intent.Category
				line[2] = intent.MainQuestion
				line[5] = joinQuestions(intent.Knowledges)
				line[6] = formatTime(intent.ExpiresAt, dateLayout)
				line[7] = formatTime(intent.UpdatedAt, dateTimeLayout)
			}
			table = append(table, line)
		}
	}
	return table
}

func joinQuestions(knowledges []models.Knowledge) string {
	sorted := make([]models.Knowledge, len(knowledges))
	copy(sorted, knowledges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	questions := make([]string, 0, len(sorted))
	for _, k := range sorted {
		questions = append(questions, k.Question)
	}
	return strings.Join(questions, "; ")
}

func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// after orders the most recent first; intents never updated go last.
func after(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
