package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ctis-scraper/config"
	"ctis-scraper/models"
)

// dropOrder listet alle nicht-dauerhaften Tabellen in Abhängigkeits-
// Reihenfolge: erst die Junction-Tabellen, dann die Entitäten. So funktioniert
// der Drop ohne CASCADE auf beiden Dialekten.
var dropOrder = []string{
	"trial_sponsors",
	"trial_third_parties",
	"trial_conditions",
	"trial_sites",
	"trial_products",
	"trial_therapeutic_areas",
	"product_substances",
	"product_administration_routes",
	"third_party_duties",
	"serious_breach_impacted_areas",
	"serious_breach_categories",
	"serious_breach_sites",
	"serious_breaches",
	"trials",
	"sponsors",
	"third_parties",
	"duties",
	"products",
	"substances",
	"administration_routes",
	"therapeutic_areas",
	"conditions",
	"sites",
	"impacted_areas",
	"categories",
}

// Open stellt die Datenbankverbindung passend zur konfigurierten Umgebung her:
// "dev" öffnet SQLite, "prod" PostgreSQL.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Environment {
	case "dev":
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "prod":
		return gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	default:
		return nil, fmt.Errorf("wrong environment configuration (%s), choose either 'dev' or 'prod'", cfg.Environment)
	}
}

// Migrate legt alle Tabellendefinitionen an. Die Sponsor-Kante bekommt ihr
// eigenes Join-Modell, damit is_primary auf der Kante landet.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Trial{}, "Sponsors", &models.TrialSponsor{}); err != nil {
		return fmt.Errorf("setup join table trial_sponsors: %w", err)
	}
	if err := db.SetupJoinTable(&models.Sponsor{}, "Trials", &models.TrialSponsor{}); err != nil {
		return fmt.Errorf("setup join table trial_sponsors: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset entfernt alle Tabellen außer der dauerhaften Menge
// (locations, update_history).
func Reset(db *gorm.DB) error {
	for _, table := range dropOrder {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
