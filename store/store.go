// Package store is the knowledge store: every read and write the engines and handlers make goes through it.
package store

import (
	"errors"

	"github.com/jinzhu/gorm"
)

var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a status change is not allowed from the current status.
var ErrInvalidTransition = errors.New("invalid status transition")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFound(err error) error {
	if gorm.IsRecordNotFoundError(err) {
		return ErrNotFound
	}
	return err
}

// inTx runs fn inside a transaction, rolling back on error or panic.
func (s *Store) inTx(fn func(tx *gorm.DB) error) (err error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
