package spreadsheet

import (
	"strings"

	"backoffice/models"
)

// Report is the outcome of checking a decoded file. Errors block an import, warnings do not.
type Report struct {
	Errors         map[int]string `json:"errors"`
	Warnings       map[int]string `json:"warnings"`
	Categories     []string       `json:"categories"`
	QuestionsCount int            `json:"questions_count"`
}

func (r Report) HasErrors() bool {
	return len(r.Errors) > 0
}

const (
	msgMissingID          = "ID manquant"
	msgMissingType        = "Type de réponse manquant ou inconnu"
	msgMissingResponse    = "Réponse manquante"
	msgMissingBoth        = "Réponse et type de réponse manquants"
	msgOrphanAttachment   = "Un bouton, une image ou une réponse rapide doit suivre une réponse texte du même ID"
	msgOrphanIntent       = "Question manquante : cet ID n'a aucune question et n'est référencé par aucun lien <ID>"
	msgMissingCategory    = "Catégorie manquante"
	msgNoSimilarQuestions = "Aucune question similaire"
)

// Validate checks every row on its own and against its neighbours.
func Validate(rows []Row) Report {
	report := Report{
		Errors:     map[int]string{},
		Warnings:   map[int]string{},
		Categories: []string{},
	}

	withQuestion := map[string]bool{}
	for _, r := range rows {
		if r.ID != "" && r.MainQuestion != "" {
			withQuestion[r.ID] = true
		}
	}

	seenCategory := map[string]bool{}
	for i, r := range rows {
		var errs, warns []string

		if r.ID == "" {
			errs = append(errs, msgMissingID)
		}
		switch {
		case r.Response == "" && r.ResponseType == "":
			errs = append(errs, msgMissingBoth)
		case r.ResponseType == "":
			errs = append(errs, msgMissingType)
		case r.Response == "":
			errs = append(errs, msgMissingResponse)
		}
		if models.IsAttachment(r.ResponseType) && !followsText(rows, i) {
			errs = append(errs, msgOrphanAttachment)
		}
		if r.ID != "" && r.MainQuestion == "" && !withQuestion[r.ID] &&
			!models.IsReservedIntent(r.ID) && !referencedElsewhere(rows, i, r.ID) {
			errs = append(errs, msgOrphanIntent)
		}

		if r.MainQuestion != "" {
			report.QuestionsCount++
			if r.Category == "" {
				warns = append(warns, msgMissingCategory)
			}
			if len(r.Questions) == 0 {
				warns = append(warns, msgNoSimilarQuestions)
			}
		}
		if r.Category != "" && !seenCategory[r.Category] {
			seenCategory[r.Category] = true
			report.Categories = append(report.Categories, r.Category)
		}

		if len(errs) > 0 {
			report.Errors[r.Line] = strings.Join(errs, " / ")
		}
		if len(warns) > 0 {
			report.Warnings[r.Line] = strings.Join(warns, " / ")
		}
	}
	return report
}

// followsText reports whether rows[i] directly follows a text response of the same intent. A blank line in
// between breaks the link.
func followsText(rows []Row, i int) bool {
	if i == 0 {
		return false
	}
	prev := rows[i-1]
	return prev.Line == rows[i].Line-1 && prev.ID == rows[i].ID && prev.ResponseType == models.RESPONSE_TYPE_TEXT
}

// referencedElsewhere reports whether a row other than skip links to id with the "<id>" syntax.
// skip < 0 checks every row.
func referencedElsewhere(rows []Row, skip int, id string) bool {
	link := "<" + id + ">"
	for i, r := range rows {
		if i == skip {
			continue
		}
		if strings.Contains(r.Response, link) {
			return true
		}
	}
	return false
}
