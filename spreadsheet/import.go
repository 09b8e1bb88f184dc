package spreadsheet

import (
	"regexp"
	"strings"

	"backoffice/models"
)

// ImportOptions tunes how a validated file replaces the knowledge base.
type ImportOptions struct {
	// DeleteIntents archives every intent absent from the file and wipes all knowledges and responses.
	DeleteIntents bool   `json:"delete_intents" form:"delete_intents"`
	OldURL        string `json:"old_url" form:"old_url"`
	NewURL        string `json:"new_url" form:"new_url"`
}

// ImportPlan is what an import writes. Responses are in file order, which becomes their stored order.
type ImportPlan struct {
	Intents       []models.Intent
	Knowledges    []models.Knowledge
	Responses     []models.Response
	DeleteIntents bool
}

// IntentIDs returns the ids of the imported intents.
func (p ImportPlan) IntentIDs() []string {
	ids := make([]string, 0, len(p.Intents))
	for _, intent := range p.Intents {
		ids = append(ids, intent.ID)
	}
	return ids
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	Intents    int `json:"intents"`
	Knowledges int `json:"knowledges"`
	Responses  int `json:"responses"`
}

// BuildImport turns validated rows into the intents, knowledges and responses to write.
// An intent is imported when its id has a main question, is reserved, or is the target of a "<id>" link.
func BuildImport(rows []Row, opts ImportOptions) ImportPlan {
	plan := ImportPlan{DeleteIntents: opts.DeleteIntents}
	index := map[string]int{}

	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		if i, ok := index[r.ID]; ok {
			fillIntent(&plan.Intents[i], r)
			continue
		}
		if r.MainQuestion == "" && !models.IsReservedIntent(r.ID) && !referencedElsewhere(rows, -1, r.ID) {
			continue
		}
		intent := models.Intent{ID: r.ID, Status: models.INTENT_STATUS_ACTIVE}
		fillIntent(&intent, r)
		index[r.ID] = len(plan.Intents)
		plan.Intents = append(plan.Intents, intent)
	}

	rewrite := urlRewriter(opts.OldURL, opts.NewURL)
	for _, r := range rows {
		if _, ok := index[r.ID]; !ok {
			continue
		}
		for _, q := range r.Questions {
			plan.Knowledges = append(plan.Knowledges, models.Knowledge{IntentID: r.ID, Question: q})
		}
		if r.Response != "" && r.ResponseType != "" {
			plan.Responses = append(plan.Responses, models.Response{
				IntentID:     r.ID,
				ResponseType: r.ResponseType,
				Response:     rewrite(r.Response),
			})
		}
	}
	return plan
}

func fillIntent(intent *models.Intent, r Row) {
	if intent.MainQuestion == "" {
		intent.MainQuestion = r.MainQuestion
	}
	if intent.Category == "" {
		intent.Category = r.Category
	}
	if intent.ExpiresAt == nil {
		intent.ExpiresAt = r.ExpiresAt
	}
}

var schemePrefix = regexp.MustCompile(`^(?:https?:)?//`)

// urlRewriter replaces oldURL by newURL whatever the scheme of the occurrence, keeping a trailing slash
// when the occurrence had one.
func urlRewriter(oldURL, newURL string) func(string) string {
	old := strings.TrimSuffix(schemePrefix.ReplaceAllString(strings.TrimSpace(oldURL), ""), "/")
	replacement := strings.TrimSuffix(strings.TrimSpace(newURL), "/")
	if old == "" || replacement == "" {
		return func(s string) string { return s }
	}

	pattern := regexp.MustCompile(`(?:https?:)?//` + regexp.QuoteMeta(old) + `/?`)
	return func(s string) string {
		return pattern.ReplaceAllStringFunc(s, func(match string) string {
			if strings.HasSuffix(match, "/") {
				return replacement + "/"
			}
			return replacement
		})
	}
}
