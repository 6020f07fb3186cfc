package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"ctis-scraper/config"
	"ctis-scraper/database"
	"ctis-scraper/geocode"
	"ctis-scraper/services"
)

// Einmaliger Geocoding-Lauf über alle offenen Standorte.
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

	enricher := services.NewEnricher(db, geocode.NewFetcher(cfg, logger), logger)
	resolved, unresolved, err := enricher.UpdateLocationCoordinates()
	if err != nil {
		logger.Error("Geocoding-Lauf fehlgeschlagen",
			zap.Int("resolved", resolved), zap.Int("unresolved", unresolved), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Geocoding-Lauf erfolgreich",
		zap.Int("resolved", resolved), zap.Int("unresolved", unresolved))
}
