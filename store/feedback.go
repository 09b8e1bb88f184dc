package store

import (
	"time"

	"backoffice/models"

	"github.com/jinzhu/gorm"
)

// UpsertFeedback stores fb unless a feedback with the same question and timestamp exists, in which case
// only its status is updated. It reports whether a new row was created.
func (s *Store) UpsertFeedback(fb *models.Feedback) (bool, error) {
	var existing models.Feedback
	err := s.db.Where("user_question = ? AND timestamp = ?", fb.UserQuestion, fb.Timestamp).First(&existing).Error
	if err == nil {
		if err := s.db.Model(&existing).Update("status", fb.Status).Error; err != nil {
			return false, err
		}
		*fb = existing
		return false, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return false, err
	}
	if err := s.db.Create(fb).Error; err != nil {
		return false, err
	}
	return true, nil
}

// PendingFeedbacks lists the feedbacks not attached yet with an id above afterID, oldest first.
func (s *Store) PendingFeedbacks(afterID int64, limit int) ([]models.Feedback, error) {
	q := s.db.Where("id > ?", afterID).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.Feedback
	err := q.Find(&out).Error
	return out, err
}

// AttachFeedback copies the feedback status onto the inbox row and deletes the feedback.
func (s *Store) AttachFeedback(fb models.Feedback, inboxID int64) error {
	at := time.Now()
	if fb.CreatedAt != nil {
		at = *fb.CreatedAt
	}
	return s.inTx(func(tx *gorm.DB) error {
		res := tx.Model(&models.Inbox{}).
			Where("id = ? AND status <> ?", inboxID, models.INBOX_STATUS_ARCHIVED).
			Updates(map[string]interface{}{
				"status":             fb.Status,
				"feedback_status":    fb.Status,
				"feedback_timestamp": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", fb.ID).Delete(&models.Feedback{}).Error
	})
}
