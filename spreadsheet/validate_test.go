package spreadsheet

import (
	"strings"
	"testing"
)

func TestValidateAttachmentMustFollowText(t *testing.T) {
	rows := []Row{
		{Line: 2, ID: "contact", Category: "Infos", MainQuestion: "Comment vous contacter ?", ResponseType: "image", Response: "logo.png", Questions: []string{"contact"}},
		{Line: 3, ID: "contact", ResponseType: "button", Response: "Site<https://x>"},
	}
	report := Validate(rows)
	if !strings.Contains(report.Errors[2], msgOrphanAttachment) {
		t.Fatalf("expected orphan error on line 2, got %q", report.Errors[2])
	}
	if !strings.Contains(report.Errors[3], msgOrphanAttachment) {
		t.Fatalf("expected orphan error on line 3, got %q", report.Errors[3])
	}

	rows[0].ResponseType = "text"
	rows[0].Response = "Écrivez-nous"
	report = Validate(rows)
	if len(report.Errors) != 0 {
		t.Fatalf("expected no error once preceded by text, got %v", report.Errors)
	}
}

func TestValidateAttachmentAfterBlankLine(t *testing.T) {
	table := [][]string{
		header(),
		{"contact", "Infos", "Comment vous contacter ?", "Texte", "Écrivez-nous", "contact", ""},
		{},
		{"contact", "", "", "Boutons", "Site<https://x>", "", ""},
	}
	rows, err := Decode(table)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	report := Validate(rows)
	if !strings.Contains(report.Errors[4], msgOrphanAttachment) {
		t.Fatalf("expected orphan error on line 4, got %v", report.Errors)
	}

	rows, err = Decode(append(table[:2:2], table[3]))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report := Validate(rows); len(report.Errors) != 0 {
		t.Fatalf("expected no error without the blank line, got %v", report.Errors)
	}
}

func TestValidateAttachmentNeedsSameID(t *testing.T) {
	rows := []Row{
		{Line: 2, ID: "a", Category: "c", MainQuestion: "q a", ResponseType: "text", Response: "r", Questions: []string{"x"}},
		{Line: 3, ID: "b", Category: "c", MainQuestion: "q b", ResponseType: "quick_reply", Response: "Oui<oui>", Questions: []string{"y"}},
	}
	report := Validate(rows)
	if !strings.Contains(report.Errors[3], msgOrphanAttachment) {
		t.Fatalf("expected orphan error on line 3, got %v", report.Errors)
	}
}

func TestValidateRowErrors(t *testing.T) {
	rows := []Row{
		{Line: 2, ID: "", MainQuestion: "q", ResponseType: "text", Response: "r"},
		{Line: 3, ID: "a", MainQuestion: "q", Response: "r"},
		{Line: 4, ID: "a", ResponseType: "text"},
		{Line: 5, ID: "a"},
	}
	report := Validate(rows)
	want := map[int]string{2: msgMissingID, 3: msgMissingType, 4: msgMissingResponse, 5: msgMissingBoth}
	for line, msg := range want {
		if !strings.Contains(report.Errors[line], msg) {
			t.Fatalf("line %d: expected %q in %q", line, msg, report.Errors[line])
		}
	}
}

func TestValidateOrphanIntent(t *testing.T) {
	rows := []Row{
		{Line: 2, ID: "orphan", ResponseType: "text", Response: "r"},
		{Line: 3, ID: "phrase_presentation", ResponseType: "text", Response: "Bonjour"},
		{Line: 4, ID: "menu", Category: "c", MainQuestion: "Menu ?", ResponseType: "text", Response: "Choisissez", Questions: []string{"menu"}},
		{Line: 5, ID: "menu", ResponseType: "button", Response: "Détails<details>"},
		{Line: 6, ID: "details", ResponseType: "text", Response: "Les détails"},
	}
	report := Validate(rows)
	if !strings.Contains(report.Errors[2], msgOrphanIntent) {
		t.Fatalf("expected orphan intent error on line 2, got %v", report.Errors)
	}
	if _, ok := report.Errors[3]; ok {
		t.Fatalf("reserved id must not be an orphan: %q", report.Errors[3])
	}
	if _, ok := report.Errors[6]; ok {
		t.Fatalf("linked id must not be an orphan: %q", report.Errors[6])
	}
}

func TestValidateWarningsAndSummary(t *testing.T) {
	rows := []Row{
		{Line: 2, ID: "a", MainQuestion: "q a", ResponseType: "text", Response: "r"},
		{Line: 3, ID: "b", Category: "Infos", MainQuestion: "q b", ResponseType: "text", Response: "r", Questions: []string{"x"}},
		{Line: 4, ID: "c", Category: "Infos", MainQuestion: "q c", ResponseType: "text", Response: "r", Questions: []string{"y"}},
		{Line: 5, ID: "d", Category: "Aides", MainQuestion: "q d", ResponseType: "text", Response: "r", Questions: []string{"z"}},
	}
	report := Validate(rows)
	if report.HasErrors() {
		t.Fatalf("unexpected errors %v", report.Errors)
	}
	if !strings.Contains(report.Warnings[2], msgMissingCategory) || !strings.Contains(report.Warnings[2], msgNoSimilarQuestions) {
		t.Fatalf("expected both warnings on line 2, got %q", report.Warnings[2])
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected a single warning line, got %v", report.Warnings)
	}
	if report.QuestionsCount != 4 {
		t.Fatalf("expected 4 questions, got %d", report.QuestionsCount)
	}
	if len(report.Categories) != 2 || report.Categories[0] != "Infos" || report.Categories[1] != "Aides" {
		t.Fatalf("unexpected categories %v", report.Categories)
	}
}
