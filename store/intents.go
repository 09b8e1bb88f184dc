package store

import (
	"fmt"
	"time"

	"backoffice/models"

	"github.com/jinzhu/gorm"
)

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func (s *Store) withContent() *gorm.DB {
	return s.db.Preload("Knowledges", orderByID).Preload("Responses", orderByID)
}

// IntentsByStatus returns the intents in one of statuses with knowledges and responses in stored order.
// No status means every intent.
func (s *Store) IntentsByStatus(statuses ...string) ([]models.Intent, error) {
	q := s.withContent()
	if len(statuses) > 0 {
		q = q.Where("status IN (?)", statuses)
	}
	var intents []models.Intent
	if err := q.Order("id asc").Find(&intents).Error; err != nil {
		return nil, fmt.Errorf("load intents: %w", err)
	}
	return intents, nil
}

func (s *Store) Intent(id string) (models.Intent, error) {
	var intent models.Intent
	if err := s.withContent().Where("id = ?", id).First(&intent).Error; err != nil {
		return models.Intent{}, notFound(err)
	}
	return intent, nil
}

// ExistingIntentIDs reports which of ids are stored.
func (s *Store) ExistingIntentIDs(ids []string) (map[string]bool, error) {
	out := map[string]bool{}
	if len(ids) == 0 {
		return out, nil
	}
	var found []string
	if err := s.db.Model(&models.Intent{}).Where("id IN (?)", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

// TransitionIntents moves every intent in one of from to status to.
func (s *Store) TransitionIntents(from []string, to string) (int64, error) {
	if len(from) == 0 {
		return 0, nil
	}
	res := s.db.Model(&models.Intent{}).Where("status IN (?)", from).Update("status", to)
	return res.RowsAffected, res.Error
}

// IntentEdit is a manual edit of an intent content. Knowledges and responses replace the stored ones.
type IntentEdit struct {
	Category     string            `json:"category"`
	MainQuestion string            `json:"main_question"`
	Hidden       bool              `json:"hidden"`
	ExpiresAt    *time.Time        `json:"expires_at"`
	Knowledges   []string          `json:"knowledges"`
	Responses    []models.Response `json:"responses"`
}

// UpdateIntent applies edit and moves the intent to the status an edit leads to.
func (s *Store) UpdateIntent(id string, edit IntentEdit) (models.Intent, error) {
	err := s.inTx(func(tx *gorm.DB) error {
		var current models.Intent
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			return notFound(err)
		}
		err := tx.Model(&models.Intent{}).Where("id = ?", id).Updates(map[string]interface{}{
			"category":      edit.Category,
			"main_question": edit.MainQuestion,
			"hidden":        edit.Hidden,
			"expires_at":    edit.ExpiresAt,
			"status":        models.IntentStatusAfterEdit(current.Status),
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("intent_id = ?", id).Delete(&models.Knowledge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("intent_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		for _, q := range edit.Knowledges {
			if err := tx.Create(&models.Knowledge{IntentID: id, Question: q}).Error; err != nil {
				return err
			}
		}
		for _, r := range edit.Responses {
			if err := tx.Create(&models.Response{IntentID: id, ResponseType: r.ResponseType, Response: r.Response}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Intent{}, err
	}
	return s.Intent(id)
}

// ArchiveIntent schedules an intent for removal at the next training.
func (s *Store) ArchiveIntent(id string) error {
	res := s.db.Model(&models.Intent{}).
		Where("id = ? AND status <> ?", id, models.INTENT_STATUS_ARCHIVED).
		Update("status", models.INTENT_STATUS_TO_ARCHIVE)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
