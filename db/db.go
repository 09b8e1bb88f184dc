package db

import (
	"fmt"
	"os"
	"path/filepath"

	"backoffice/config"
	"backoffice/logger"
	"backoffice/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// Connect opens the database (sqlite3 by default) and migrates the schema.
func Connect(conf config.Configuration, log *logger.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch conf.Database {
	case "postgres", "postgresql":
		log.Info("connecting to postgresql", "host", conf.DbHost, "db", conf.DbName)
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass + " sslmode=disable"
		db, err = gorm.Open("postgres", path)
	default:
		log.Info("connecting to sqlite3", "path", conf.DbPath)
		if err := os.MkdirAll(filepath.Dir(conf.DbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err = gorm.Open("sqlite3", conf.DbPath)
		if err == nil {
			// sqlite only supports one writer
			db.DB().SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.LogMode(conf.LogMode != "prod")

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
// The events table normally belongs to the bot engine tracker store; migrating it is harmless when it exists.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Intent{},
		&models.Knowledge{},
		&models.Response{},
		&models.Event{},
		&models.Inbox{},
		&models.Feedback{},
		&models.ChatbotConfig{},
	).Error
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
