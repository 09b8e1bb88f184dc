package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogMode string `json:"log_mode"` // "dev" ou "prod"

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`
	DbPath   string `json:"db_path"` // arquivo sqlite3

	Security struct {
		JwtSecret string `json:"jwt_secret"`
	} `json:"security"`

	Cors struct {
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"cors"`

	Rasa struct {
		URL        string `json:"url"`
		Token      string `json:"token"`
		DataDir    string `json:"data_dir"`
		ModelsDir  string `json:"models_dir"`
		KeepModels int    `json:"keep_models"`
	} `json:"rasa"`

	Workers struct {
		InboxFillSeconds     int `json:"inbox_fill_seconds"`
		FeedbackSeconds      int `json:"feedback_seconds"`
		TrainingCheckSeconds int `json:"training_check_seconds"`
		AnonymizeHours       int `json:"anonymize_hours"`
	} `json:"workers"`

	Retention struct {
		Years int `json:"years"`
	} `json:"retention"`
}

// Load reads the JSON configuration at path and fills in defaults.
func Load(path string) (Configuration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("read config: %w", err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		return Configuration{}, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Configuration) applyDefaults() {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogMode == "" {
		c.LogMode = "dev"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.DbPath == "" {
		c.DbPath = "db/database.db"
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if len(c.Cors.AllowedOrigins) == 0 {
		c.Cors.AllowedOrigins = []string{"*"}
	}
	if c.Rasa.URL == "" {
		c.Rasa.URL = "http://localhost:5005"
	}
	if c.Rasa.DataDir == "" {
		c.Rasa.DataDir = "rasa"
	}
	if c.Rasa.ModelsDir == "" {
		c.Rasa.ModelsDir = "rasa/models"
	}
	if c.Rasa.KeepModels <= 0 {
		c.Rasa.KeepModels = 5
	}
	if c.Workers.InboxFillSeconds <= 0 {
		c.Workers.InboxFillSeconds = 10
	}
	if c.Workers.FeedbackSeconds <= 0 {
		c.Workers.FeedbackSeconds = 10
	}
	if c.Workers.TrainingCheckSeconds <= 0 {
		c.Workers.TrainingCheckSeconds = 60
	}
	if c.Workers.AnonymizeHours <= 0 {
		c.Workers.AnonymizeHours = 24
	}
	if c.Retention.Years <= 0 {
		c.Retention.Years = 3
	}
}
