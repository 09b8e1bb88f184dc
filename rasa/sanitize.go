package rasa

import (
	"regexp"
	"strings"
)

var emoji = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}\x{200D}]`)
var whitespace = regexp.MustCompile(`\s+`)
var repeatedNewlines = regexp.MustCompile(`\n{2,}`)
var forbidden = strings.NewReplacer("/", "", `\`, "", `"`, "", "`", "")

// SanitizeExample turns a training phrase into one clean line: no emoji, no slashes, double quotes or
// backticks, single spaces.
func SanitizeExample(s string) string {
	s = emoji.ReplaceAllString(s, "")
	s = forbidden.Replace(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeText prepares a response for display: two or more newlines become one.
func SanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return repeatedNewlines.ReplaceAllString(s, "\n")
}

// ParseButtons reads a ";"-separated list of "label<payload>" entries.
// An entry without "<" is a label with an empty payload.
func ParseButtons(raw string) []Button {
	var buttons []Button
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		open := strings.Index(segment, "<")
		if open < 0 {
			buttons = append(buttons, Button{Label: segment})
			continue
		}
		payload := segment[open+1:]
		if end := strings.LastIndex(payload, ">"); end >= 0 {
			payload = payload[:end]
		}
		buttons = append(buttons, Button{
			Label:   strings.TrimSpace(segment[:open]),
			Payload: strings.TrimSpace(payload),
		})
	}
	return buttons
}
