package store

import (
	"database/sql"
	"fmt"
	"strings"

	"backoffice/models"

	"github.com/jinzhu/gorm"
)

// MaxInboxTimestamp is the reconciliation watermark: the latest turn already stored, 0 when there is none.
func (s *Store) MaxInboxTimestamp() (float64, error) {
	var max sql.NullFloat64
	if err := s.db.Model(&models.Inbox{}).Select("MAX(timestamp)").Row().Scan(&max); err != nil {
		return 0, fmt.Errorf("read watermark: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Float64, nil
}

// CreateInboxes stores a reconciliation batch. Either every row is written or none.
func (s *Store) CreateInboxes(rows []models.Inbox) error {
	if len(rows) == 0 {
		return nil
	}
	return s.inTx(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("insert inbox: %w", err)
			}
		}
		return nil
	})
}

// InboxCandidates lists the turns of a sender inside [from, to] a feedback can still be attached to.
func (s *Store) InboxCandidates(senderID string, from, to float64) ([]models.Inbox, error) {
	var rows []models.Inbox
	err := s.db.
		Where("sender_id = ? AND timestamp >= ? AND timestamp <= ?", senderID, from, to).
		Where("status <> ? AND question IS NOT NULL", models.INBOX_STATUS_ARCHIVED).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

type InboxFilter struct {
	Status   string
	IntentID string
	Query    string
	Limit    int
	Offset   int
}

// ListInbox returns the most recent turns matching filter and the total count.
func (s *Store) ListInbox(filter InboxFilter) ([]models.Inbox, int, error) {
	q := s.db.Model(&models.Inbox{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.IntentID != "" {
		q = q.Where("intent_id = ?", filter.IntentID)
	}
	if query := strings.TrimSpace(filter.Query); query != "" {
		q = q.Where("UPPER(question) LIKE ?", "%"+strings.ToUpper(query)+"%")
	}

	var total int
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Inbox
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Order("timestamp desc, id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Store) Inbox(id int64) (models.Inbox, error) {
	var row models.Inbox
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		return models.Inbox{}, notFound(err)
	}
	return row, nil
}

// SetInboxStatus moves a turn to status. The update only applies if the row still has the status it was
// read with.
func (s *Store) SetInboxStatus(id int64, status string, userID *int64) (models.Inbox, error) {
	row, err := s.Inbox(id)
	if err != nil {
		return models.Inbox{}, err
	}
	if !models.CanTransitionInbox(row.Status, status) {
		return models.Inbox{}, ErrInvalidTransition
	}

	fields := map[string]interface{}{"status": status}
	if userID != nil {
		fields["user_id"] = *userID
	}
	res := s.db.Model(&models.Inbox{}).Where("id = ? AND status = ?", id, row.Status).Updates(fields)
	if res.Error != nil {
		return models.Inbox{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Inbox{}, ErrInvalidTransition
	}
	return s.Inbox(id)
}
