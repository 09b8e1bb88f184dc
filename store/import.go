package store

import (
	"fmt"

	"backoffice/models"
	"backoffice/spreadsheet"

	"github.com/jinzhu/gorm"
)

// ApplyImport writes an import plan in one transaction: upsert the intents, archive or wipe what the plan
// replaces, insert the new knowledges and responses and leave the imported intents waiting for a training.
func (s *Store) ApplyImport(plan spreadsheet.ImportPlan) (spreadsheet.ImportResult, error) {
	var result spreadsheet.ImportResult
	ids := plan.IntentIDs()

	err := s.inTx(func(tx *gorm.DB) error {
		for _, intent := range plan.Intents {
			if err := upsertIntent(tx, intent); err != nil {
				return fmt.Errorf("upsert intent %s: %w", intent.ID, err)
			}
			result.Intents++
		}

		if plan.DeleteIntents {
			keep := append(append([]string{}, ids...), models.ReservedIntentIDs()...)
			err := tx.Model(&models.Intent{}).
				Where("id NOT IN (?) AND status <> ?", keep, models.INTENT_STATUS_ARCHIVED).
				Update("status", models.INTENT_STATUS_TO_ARCHIVE).Error
			if err != nil {
				return fmt.Errorf("archive missing intents: %w", err)
			}
			if err := tx.Where("1 = 1").Delete(&models.Knowledge{}).Error; err != nil {
				return err
			}
			if err := tx.Where("1 = 1").Delete(&models.Response{}).Error; err != nil {
				return err
			}
		}

		if len(ids) > 0 {
			if err := tx.Where("intent_id IN (?)", ids).Delete(&models.Knowledge{}).Error; err != nil {
				return err
			}
			if err := tx.Where("intent_id IN (?)", ids).Delete(&models.Response{}).Error; err != nil {
				return err
			}
		}

		for _, k := range plan.Knowledges {
			k := k
			if err := tx.Create(&k).Error; err != nil {
				return fmt.Errorf("insert knowledge: %w", err)
			}
			result.Knowledges++
		}
		for _, r := range plan.Responses {
			r := r
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("insert response: %w", err)
			}
			result.Responses++
		}

		if len(ids) > 0 {
			err := tx.Model(&models.Intent{}).Where("id IN (?)", ids).
				Update("status", models.INTENT_STATUS_TO_DEPLOY).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return spreadsheet.ImportResult{}, err
	}
	return result, nil
}

func upsertIntent(tx *gorm.DB, intent models.Intent) error {
	var existing models.Intent
	err := tx.Where("id = ?", intent.ID).First(&existing).Error
	if gorm.IsRecordNotFoundError(err) {
		intent.Knowledges = nil
		intent.Responses = nil
		intent.Status = models.INTENT_STATUS_ACTIVE
		return tx.Create(&intent).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&models.Intent{}).Where("id = ?", intent.ID).Updates(map[string]interface{}{
		"category":      intent.Category,
		"main_question": intent.MainQuestion,
		"expires_at":    intent.ExpiresAt,
		"status":        models.INTENT_STATUS_ACTIVE,
	}).Error
}
