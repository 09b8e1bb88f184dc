// Package spreadsheet converts the knowledge base to and from the tabular file editors work with.
package spreadsheet

import (
	"errors"
	"time"

	"backoffice/models"
)

// Column headers of the knowledge file.
const (
	HeaderID           = "ID"
	HeaderCategory     = "Catégorie"
	HeaderMainQuestion = "Question"
	HeaderResponseType = "Type de réponse"
	HeaderResponse     = "Réponse(s)"
	HeaderQuestions    = "Questions similaires"
	HeaderExpiresAt    = "Date d'expiration"
	HeaderUpdatedAt    = "Date de mise à jour"
)

const dateLayout = "02/01/2006"
const dateTimeLayout = "02/01/2006 15:04"

// ErrUnreadable is returned when the file cannot be parsed as a knowledge table at all.
var ErrUnreadable = errors.New("fichier illisible")

// ErrInvalidRows is returned when an import is attempted on a file whose check reported errors.
var ErrInvalidRows = errors.New("le fichier contient des erreurs")

var exportHeaders = []string{
	HeaderID,
	HeaderCategory,
	HeaderMainQuestion,
	HeaderResponseType,
	HeaderResponse,
	HeaderQuestions,
	HeaderExpiresAt,
	HeaderUpdatedAt,
}

var requiredHeaders = []string{HeaderID, HeaderMainQuestion, HeaderResponseType, HeaderResponse}

var responseTypeLabels = map[string]string{
	models.RESPONSE_TYPE_TEXT:        "Texte",
	models.RESPONSE_TYPE_IMAGE:       "Image",
	models.RESPONSE_TYPE_BUTTON:      "Boutons",
	models.RESPONSE_TYPE_QUICK_REPLY: "Réponses rapides",
}

var responseTypesByLabel = func() map[string]string {
	out := make(map[string]string, len(responseTypeLabels))
	for k, v := range responseTypeLabels {
		out[v] = k
	}
	return out
}()

// ResponseTypeLabel returns the label shown in the file for a response type.
func ResponseTypeLabel(responseType string) string {
	return responseTypeLabels[responseType]
}

// ResponseTypeFromLabel returns the response type for a file label, or "" when the label is unknown.
func ResponseTypeFromLabel(label string) string {
	return responseTypesByLabel[label]
}

// Row is one physical line of the knowledge file. Line is the spreadsheet line number (header is line 1).
type Row struct {
	Line         int
	ID           string
	Category     string
	MainQuestion string
	ResponseType string
	Response     string
	Questions    []string
	ExpiresAt    *time.Time
}
