package store

import (
	"time"

	"backoffice/models"

	"github.com/jinzhu/gorm"
)

// Anonymize erases the free text of turns and user events older than before. Rows are kept for statistics.
func (s *Store) Anonymize(before time.Time) (inboxes int64, events int64, err error) {
	limit := float64(before.UnixNano()) / float64(time.Second)
	err = s.inTx(func(tx *gorm.DB) error {
		res := tx.Model(&models.Inbox{}).
			Where("timestamp < ? AND (question IS NOT NULL OR response IS NOT NULL)", limit).
			Updates(map[string]interface{}{"question": gorm.Expr("NULL"), "response": gorm.Expr("NULL")})
		if res.Error != nil {
			return res.Error
		}
		inboxes = res.RowsAffected

		res = tx.Model(&models.Event{}).
			Where("type_name = ? AND timestamp < ? AND data IS NOT NULL", models.EVENT_TYPE_USER, limit).
			Update("data", gorm.Expr("NULL"))
		if res.Error != nil {
			return res.Error
		}
		events = res.RowsAffected
		return nil
	})
	return inboxes, events, err
}
