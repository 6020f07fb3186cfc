package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	// "dev" läuft gegen SQLite, "prod" gegen PostgreSQL.
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"ctis"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"ctis.db"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4243"`

	CTISBaseURL  string `envconfig:"CTIS_BASE_URL" default:"https://euclinicaltrials.eu/ctis-public-api"`
	CTISPageSize int    `envconfig:"CTIS_PAGE_SIZE" default:"250"`

	GeocodingBaseURL   string `envconfig:"GEOCODING_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	GeocodingUserAgent string `envconfig:"GEOCODING_USER_AGENT" default:"clinicaltrial_sites/0.0.1"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * *"`

	APISecretKey string `envconfig:"API_SECRET_KEY"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
