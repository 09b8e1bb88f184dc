// Package rasa builds the bot engine training documents from the knowledge base.
package rasa

// FormatVersion is the training data format version written in every document.
const FormatVersion = "3.1"

// FallbackSlot tells the fallback action whether to propose close intents.
const FallbackSlot = "fallback_suggestions"

// FallbackAction runs after the fallback utterances.
const FallbackAction = "action_fallback_suggestions"

type Button struct {
	Label   string `yaml:"title" json:"label"`
	Payload string `yaml:"payload" json:"payload"`
}

type Utterance struct {
	Text    string   `yaml:"text"`
	Image   string   `yaml:"image,omitempty"`
	Buttons []Button `yaml:"buttons,omitempty"`
}

type SlotMapping struct {
	Type string `yaml:"type"`
}

type Slot struct {
	Type                  string        `yaml:"type"`
	InitialValue          bool          `yaml:"initial_value"`
	InfluenceConversation bool          `yaml:"influence_conversation"`
	Mappings              []SlotMapping `yaml:"mappings"`
}

type SessionConfig struct {
	SessionExpirationTime int  `yaml:"session_expiration_time"`
	CarryOverSlots        bool `yaml:"carry_over_slots_to_new_session"`
}

type Domain struct {
	Version       string                 `yaml:"version"`
	Intents       []string               `yaml:"intents"`
	Responses     map[string][]Utterance `yaml:"responses"`
	Slots         map[string]Slot        `yaml:"slots,omitempty"`
	Actions       []string               `yaml:"actions,omitempty"`
	SessionConfig SessionConfig          `yaml:"session_config"`
}

type Example struct {
	Intent   string `yaml:"intent"`
	Examples string `yaml:"examples"`
}

type NLU struct {
	Version string    `yaml:"version"`
	NLU     []Example `yaml:"nlu"`
}

// Step is one rule step: either an intent trigger or an action.
type Step struct {
	Intent string `yaml:"intent,omitempty"`
	Action string `yaml:"action,omitempty"`
}

type Rule struct {
	Rule  string `yaml:"rule"`
	Steps []Step `yaml:"steps"`
}

type Rules struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Config is the NLU pipeline and dialogue policies. It is static.
type Config struct {
	Recipe   string           `yaml:"recipe"`
	Language string           `yaml:"language"`
	Pipeline []map[string]any `yaml:"pipeline"`
	Policies []map[string]any `yaml:"policies"`
}

// DefaultConfig is the pipeline every bot is trained with.
func DefaultConfig() Config {
	return Config{
		Recipe:   "default.v1",
		Language: "fr",
		Pipeline: []map[string]any{
			{"name": "WhitespaceTokenizer"},
			{"name": "RegexFeaturizer"},
			{"name": "LexicalSyntacticFeaturizer"},
			{"name": "CountVectorsFeaturizer"},
			{"name": "CountVectorsFeaturizer", "analyzer": "char_wb", "min_ngram": 1, "max_ngram": 4},
			{"name": "DIETClassifier", "epochs": 100, "constrain_similarities": true},
			{"name": "EntitySynonymMapper"},
			{"name": "FallbackClassifier", "threshold": 0.6, "ambiguity_threshold": 0.1},
		},
		Policies: []map[string]any{
			{"name": "MemoizationPolicy"},
			{"name": "RulePolicy", "core_fallback_threshold": 0.3, "enable_fallback_prediction": true},
		},
	}
}
