package store

import (
	"fmt"
	"time"

	"backoffice/models"

	"github.com/jinzhu/gorm"
)

// ConfigStore reads and updates the chatbot configuration. Building one guarantees the row exists, so
// callers never see a missing configuration.
//
// The guard flags (is_blocked, training_rasa) are only taken through conditional updates: the flag is set
// in the same statement that checks it, and RowsAffected tells whether this caller won.
type ConfigStore struct {
	db *gorm.DB
}

func NewConfigStore(db *gorm.DB) (*ConfigStore, error) {
	var cfg models.ChatbotConfig
	if err := db.Where(models.ChatbotConfig{ID: models.CHATBOT_CONFIG_ID}).FirstOrCreate(&cfg).Error; err != nil {
		return nil, fmt.Errorf("ensure chatbot config: %w", err)
	}
	return &ConfigStore{db: db}, nil
}

func (c *ConfigStore) scope() *gorm.DB {
	return c.db.Model(&models.ChatbotConfig{}).Where("id = ?", models.CHATBOT_CONFIG_ID)
}

func (c *ConfigStore) Get() (models.ChatbotConfig, error) {
	var cfg models.ChatbotConfig
	if err := c.db.Where("id = ?", models.CHATBOT_CONFIG_ID).First(&cfg).Error; err != nil {
		return models.ChatbotConfig{}, notFound(err)
	}
	return cfg, nil
}

// TryBlock takes the import lock. It fails while another import or a training runs.
func (c *ConfigStore) TryBlock() (bool, error) {
	res := c.scope().
		Where("is_blocked = ? AND training_rasa = ?", false, false).
		Update("is_blocked", true)
	return res.RowsAffected == 1, res.Error
}

func (c *ConfigStore) Unblock() error {
	return c.scope().Update("is_blocked", false).Error
}

// TryStartTraining takes the training lock when a training is needed and nothing else holds a lock.
// need_training is consumed by the same statement, so a request made while the training runs survives it.
func (c *ConfigStore) TryStartTraining() (bool, error) {
	res := c.scope().
		Where("training_rasa = ? AND is_blocked = ? AND need_update = ? AND need_training = ?", false, false, false, true).
		Updates(map[string]interface{}{"training_rasa": true, "need_training": false})
	return res.RowsAffected == 1, res.Error
}

// FinishTraining releases the training lock. A successful training stamps last_training_at, a failed one
// asks for a training again.
func (c *ConfigStore) FinishTraining(success bool, at time.Time) error {
	fields := map[string]interface{}{"training_rasa": false}
	if success {
		fields["last_training_at"] = at
	} else {
		fields["need_training"] = true
	}
	return c.scope().Updates(fields).Error
}

func (c *ConfigStore) SetNeedTraining(need bool) error {
	return c.scope().Update("need_training", need).Error
}

// ConfigUpdate holds the settings an administrator may change. Nil fields are left untouched.
type ConfigUpdate struct {
	ShowFallbackSuggestions *bool `json:"show_fallback_suggestions"`
	NeedUpdate              *bool `json:"need_update"`
}

func (c *ConfigStore) Update(update ConfigUpdate) (models.ChatbotConfig, error) {
	fields := map[string]interface{}{}
	if update.ShowFallbackSuggestions != nil {
		fields["show_fallback_suggestions"] = *update.ShowFallbackSuggestions
		// the fallback slot lives in the trained domain
		fields["need_training"] = true
	}
	if update.NeedUpdate != nil {
		fields["need_update"] = *update.NeedUpdate
	}
	if len(fields) > 0 {
		if err := c.scope().Updates(fields).Error; err != nil {
			return models.ChatbotConfig{}, err
		}
	}
	return c.Get()
}
