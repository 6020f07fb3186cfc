package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"ctis-scraper/config"
	"ctis-scraper/ctis"
	"ctis-scraper/database"
	"ctis-scraper/services"
)

// Einmaliger Scrape-Lauf ohne Server, z.B. für Cron außerhalb des Prozesses.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger konnte nicht initialisiert werden: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Konfiguration konnte nicht geladen werden", zap.Error(err))
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Datenbankverbindung fehlgeschlagen", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Migration fehlgeschlagen", zap.Error(err))
	}

	normalizer, err := services.NewNormalizer(logger)
	if err != nil {
		logger.Fatal("Normalizer konnte nicht initialisiert werden", zap.Error(err))
	}

	scraper := services.NewScraper(db, ctis.NewFetcher(cfg, logger), normalizer, logger)
	count, err := scraper.Run()
	if err != nil {
		logger.Error("Scrape-Lauf fehlgeschlagen", zap.Int("trials", count), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Scrape-Lauf erfolgreich", zap.Int("trials", count))
}
