package store

import (
	"fmt"

	"backoffice/models"
)

// EventsAfter returns the events newer than watermark grouped by sender and in chronological order.
func (s *Store) EventsAfter(watermark float64) ([]models.Event, error) {
	var events []models.Event
	err := s.db.
		Where("timestamp > ?", watermark).
		Order("sender_id asc, timestamp asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return events, nil
}

type EventFilter struct {
	SenderID string
	TypeName string
	Limit    int
	Offset   int
}

func (s *Store) ListEvents(filter EventFilter) ([]models.Event, error) {
	q := s.db.Model(&models.Event{})
	if filter.SenderID != "" {
		q = q.Where("sender_id = ?", filter.SenderID)
	}
	if filter.TypeName != "" {
		q = q.Where("type_name = ?", filter.TypeName)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	var events []models.Event
	err := q.Order("timestamp desc, id desc").Find(&events).Error
	return events, err
}

func (s *Store) Event(id int64) (models.Event, error) {
	var ev models.Event
	if err := s.db.Where("id = ?", id).First(&ev).Error; err != nil {
		return models.Event{}, notFound(err)
	}
	return ev, nil
}
