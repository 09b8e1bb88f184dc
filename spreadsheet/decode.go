package spreadsheet

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`\W`)
var repeatedNewlines = regexp.MustCompile(`\n{2,}`)

// Decode maps a raw table (first line = headers) to rows. Blank lines are skipped; line numbers are kept.
func Decode(table [][]string) ([]Row, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: aucune ligne", ErrUnreadable)
	}

	columns := map[string]int{}
	for i, h := range table[0] {
		columns[strings.TrimSpace(h)] = i
	}
	for _, h := range requiredHeaders {
		if _, ok := columns[h]; !ok {
			return nil, fmt.Errorf("%w: colonne %q absente", ErrUnreadable, h)
		}
	}

	cell := func(line []string, header string) string {
		i, ok := columns[header]
		if !ok || i >= len(line) {
			return ""
		}
		return line[i]
	}

	rows := make([]Row, 0, len(table)-1)
	previousID := ""
	for i, line := range table[1:] {
		if isBlank(line) {
			continue
		}

		id := NormalizeID(cell(line, HeaderID))
		if id == "" {
			id = previousID
		}
		previousID = id

		rows = append(rows, Row{
			Line:         i + 2,
			ID:           id,
			Category:     strings.TrimSpace(cell(line, HeaderCategory)),
			MainQuestion: strings.TrimSpace(cell(line, HeaderMainQuestion)),
			ResponseType: ResponseTypeFromLabel(strings.TrimSpace(cell(line, HeaderResponseType))),
			Response:     NormalizeResponse(cell(line, HeaderResponse)),
			Questions:    SplitQuestions(cell(line, HeaderQuestions)),
			ExpiresAt:    parseDate(cell(line, HeaderExpiresAt)),
		})
	}
	return rows, nil
}

// NormalizeID strips diacritics and replaces every non-word character with "_".
func NormalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, raw)
	if err != nil {
		out = raw
	}
	return nonWord.ReplaceAllString(out, "_")
}

// NormalizeResponse collapses pasted paragraphs: two or more newlines become one.
func NormalizeResponse(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return repeatedNewlines.ReplaceAllString(raw, "\n")
}

// SplitQuestions splits the ";"-joined synonym cell.
func SplitQuestions(raw string) []string {
	var out []string
	for _, q := range strings.Split(raw, ";") {
		q = strings.TrimSpace(q)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

func isBlank(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
