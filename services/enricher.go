package services

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ctis-scraper/geocode"
	"ctis-scraper/models"
)

// Geocoder löst eine Adresse zu Koordinaten auf.
type Geocoder interface {
	Lookup(street, city, postcode, country string) (*geocode.Result, error)
}

// Enricher reichert Standorte nachträglich mit Koordinaten an. Es werden nur
// Zeilen angefragt, die noch nie versucht wurden (geocodeable IS NULL);
// endgültig unauffindbare Adressen werden markiert und nie wieder angefasst.
type Enricher struct {
	DB       *gorm.DB
	Geocoder Geocoder
	Logger   *zap.Logger

	// Pause zwischen zwei Anfragen, Nominatim verlangt max. 1 req/s.
	Delay time.Duration
}

// NewEnricher erstellt einen Enricher mit dem Standard-Anfrageabstand.
func NewEnricher(db *gorm.DB, geocoder Geocoder, logger *zap.Logger) *Enricher {
	return &Enricher{DB: db, Geocoder: geocoder, Logger: logger, Delay: 2 * time.Second}
}

// UpdateLocationCoordinates geocodiert alle offenen Standorte und liefert die
// Anzahl aufgelöster und nicht auflösbarer Adressen. Jede Zeile wird sofort
// gespeichert, ein Abbruch verliert also keinen Fortschritt. Sperrt der
// Dienst den Client aus, bricht der Lauf mit Fehler ab.
func (e *Enricher) UpdateLocationCoordinates() (int, int, error) {
	var locations []models.Location
	err := e.DB.Where("latitude IS NULL AND geocodeable IS NULL").Find(&locations).Error
	if err != nil {
		return 0, 0, fmt.Errorf("load locations: %w", err)
	}

	e.Logger.Info("Starte Geocoding", zap.Int("locations", len(locations)))
	bar := progressbar.Default(int64(len(locations)), "geocoding")

	resolved, unresolved := 0, 0
	for i := range locations {
		loc := &locations[i]

		result, err := e.Geocoder.Lookup(loc.Address, loc.City, loc.Postcode, loc.Country)
		if err != nil {
			return resolved, unresolved, fmt.Errorf("geocode location %d: %w", loc.ID, err)
		}

		if result == nil {
			notFound := false
			loc.Geocodeable = &notFound
			unresolved++
		} else {
			found := true
			loc.Latitude = &result.Latitude
			loc.Longitude = &result.Longitude
			loc.Geocodeable = &found
			resolved++
		}

		if err := e.DB.Save(loc).Error; err != nil {
			return resolved, unresolved, fmt.Errorf("save location %d: %w", loc.ID, err)
		}

		bar.Add(1)
		if i < len(locations)-1 {
			time.Sleep(e.Delay)
		}
	}

	e.Logger.Info("Geocoding abgeschlossen",
		zap.Int("resolved", resolved), zap.Int("unresolved", unresolved))
	return resolved, unresolved, nil
}
