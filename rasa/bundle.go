package rasa

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"backoffice/models"

	"gopkg.in/yaml.v3"
)

// MinTrainingPhrases is the number of phrases (main question + synonyms) an intent needs to be trained.
const MinTrainingPhrases = 2

// Options carries the chatbot settings that end up in the domain.
type Options struct {
	ShowFallbackSuggestions bool
}

// Bundle holds the four training documents.
type Bundle struct {
	Config Config
	Domain Domain
	NLU    NLU
	Rules  Rules
}

// Build serializes intents (with knowledges and responses loaded) into training documents.
// The output only depends on its input: intents are processed in id order.
func Build(intents []models.Intent, opts Options) *Bundle {
	sorted := make([]models.Intent, len(intents))
	copy(sorted, intents)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	b := &Bundle{
		Config: DefaultConfig(),
		Domain: Domain{
			Version:       FormatVersion,
			Intents:       []string{},
			Responses:     map[string][]Utterance{},
			SessionConfig: SessionConfig{SessionExpirationTime: 60, CarryOverSlots: true},
		},
		NLU:   NLU{Version: FormatVersion, NLU: []Example{}},
		Rules: Rules{Version: FormatVersion, Rules: []Rule{}},
	}

	for _, intent := range sorted {
		if intent.TrainingPhrases() < MinTrainingPhrases {
			continue
		}
		name := models.BotIntentName(intent.ID)

		b.Domain.Intents = append(b.Domain.Intents, name)
		b.NLU.NLU = append(b.NLU.NLU, Example{Intent: name, Examples: examples(intent)})

		rule := Rule{Rule: name, Steps: []Step{{Intent: name}}}
		for _, u := range utterances(name, intent.Responses) {
			// keys embed the intent name, so they cannot collide across intents
			b.Domain.Responses[u.key] = []Utterance{*u.utterance}
			rule.Steps = append(rule.Steps, Step{Action: u.key})
		}

		if name == models.FALLBACK_INTENT {
			if b.Domain.Slots == nil {
				b.Domain.Slots = map[string]Slot{}
			}
			b.Domain.Slots[FallbackSlot] = Slot{
				Type:         "bool",
				InitialValue: opts.ShowFallbackSuggestions,
				Mappings:     []SlotMapping{{Type: "custom"}},
			}
			b.Domain.Actions = append(b.Domain.Actions, FallbackAction)
			rule.Steps = append(rule.Steps, Step{Action: FallbackAction})
		}
		b.Rules.Rules = append(b.Rules.Rules, rule)
	}
	return b
}

func examples(intent models.Intent) string {
	knowledges := make([]models.Knowledge, len(intent.Knowledges))
	copy(knowledges, intent.Knowledges)
	sort.SliceStable(knowledges, func(i, j int) bool { return knowledges[i].ID < knowledges[j].ID })

	phrases := make([]string, 0, len(knowledges)+1)
	if intent.MainQuestion != "" {
		phrases = append(phrases, intent.MainQuestion)
	}
	for _, k := range knowledges {
		phrases = append(phrases, k.Question)
	}

	var sb strings.Builder
	for _, p := range phrases {
		p = SanitizeExample(p)
		if p == "" {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return sb.String()
}

type keyedUtterance struct {
	key       string
	utterance *Utterance
}

// utterances walks responses in stored order. A text response at position i becomes utter_<name>_<i>;
// an image or button list at position i decorates the utterance created at position i-1, when there is one.
func utterances(name string, responses []models.Response) []keyedUtterance {
	sorted := make([]models.Response, len(responses))
	copy(sorted, responses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var out []keyedUtterance
	byPosition := map[int]*Utterance{}
	for i, resp := range sorted {
		switch resp.ResponseType {
		case models.RESPONSE_TYPE_TEXT:
			u := &Utterance{Text: SanitizeText(resp.Response)}
			byPosition[i] = u
			out = append(out, keyedUtterance{key: "utter_" + name + "_" + strconv.Itoa(i), utterance: u})
		case models.RESPONSE_TYPE_IMAGE:
			if target, ok := byPosition[i-1]; ok {
				target.Image = strings.TrimSpace(resp.Response)
			}
		case models.RESPONSE_TYPE_BUTTON, models.RESPONSE_TYPE_QUICK_REPLY:
			if target, ok := byPosition[i-1]; ok {
				target.Buttons = ParseButtons(resp.Response)
			}
		}
	}
	return out
}

// Files renders each document under its path relative to the bot project root.
func (b *Bundle) Files() (map[string][]byte, error) {
	docs := map[string]any{
		"config.yml":     b.Config,
		"domain.yml":     b.Domain,
		"data/nlu.yml":   b.NLU,
		"data/rules.yml": b.Rules,
	}
	out := make(map[string][]byte, len(docs))
	for name, doc := range docs {
		data, err := marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// WriteFiles writes the documents into the bot project directory.
func (b *Bundle) WriteFiles(dir string) error {
	files, err := b.Files()
	if err != nil {
		return err
	}
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

type trainingRequest struct {
	Config `yaml:",inline"`
	Domain `yaml:",inline"`
	NLU    []Example `yaml:"nlu"`
	Rules  []Rule    `yaml:"rules"`
}

// TrainingPayload merges all documents into the single YAML body the bot engine train endpoint takes.
func (b *Bundle) TrainingPayload() ([]byte, error) {
	return marshal(trainingRequest{
		Config: b.Config,
		Domain: b.Domain,
		NLU:    b.NLU.NLU,
		Rules:  b.Rules.Rules,
	})
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
