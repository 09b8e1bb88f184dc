package models

import "time"

// User is a backoffice reviewer. Inbox rows can be assigned to one.
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	Admin     bool       `gorm:"not null; default: false" json:"admin" form:"admin"`
	CreatedAt *time.Time `json:"created_at" form:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" form:"updated_at"`
}
