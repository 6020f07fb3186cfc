package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ctis-scraper/ctis"
	"ctis-scraper/database"
	"ctis-scraper/models"
)

// TrialSource liefert Studien aus dem CTIS-Portal.
type TrialSource interface {
	TotalRecords() (int, error)
	StreamOverview(fn func(ctis.TrialOverview) error) error
	FetchFullTrial(ctNumber string) (*ctis.FullTrial, error)
}

// Scraper orchestriert den kompletten Rebuild: alle Studientabellen werden
// verworfen und aus dem Portal neu aufgebaut. Die dauerhaften Tabellen
// (locations, update_history) bleiben dabei unberührt.
type Scraper struct {
	DB         *gorm.DB
	Source     TrialSource
	Normalizer *Normalizer
	Logger     *zap.Logger
}

// NewScraper erstellt einen neuen Scraper.
func NewScraper(db *gorm.DB, source TrialSource, normalizer *Normalizer, logger *zap.Logger) *Scraper {
	return &Scraper{DB: db, Source: source, Normalizer: normalizer, Logger: logger}
}

// Run führt einen vollständigen Scrape-Lauf aus und liefert die Anzahl
// eingefügter Studien. Jeder Lauf wird unabhängig vom Ausgang in der
// update_history protokolliert; der ursprüngliche Fehler wird durchgereicht.
func (s *Scraper) Run() (int, error) {
	count, err := s.run()
	if recErr := s.recordRun(count, err); recErr != nil {
		s.Logger.Error("Konnte Lauf nicht protokollieren", zap.Error(recErr))
	}
	return count, err
}

func (s *Scraper) run() (int, error) {
	total, err := s.Source.TotalRecords()
	if err != nil {
		return 0, fmt.Errorf("query total records: %w", err)
	}
	s.Logger.Info("Starte Scrape-Lauf", zap.Int("total_records", total))

	// Erst nach erfolgreicher Erreichbarkeitsprüfung wird verworfen.
	if err := database.Reset(s.DB); err != nil {
		return 0, err
	}
	if err := database.Migrate(s.DB); err != nil {
		return 0, err
	}

	bar := progressbar.Default(int64(total), "scraping")
	inserted := 0

	err = s.Source.StreamOverview(func(overview ctis.TrialOverview) error {
		full, err := s.Source.FetchFullTrial(overview.CTNumber)
		if err != nil {
			return err
		}

		// Eine Studie pro Transaktion, halbfertige Studien gibt es nicht.
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			return s.Normalizer.InsertTrialData(tx, overview, full)
		})
		if err != nil {
			return err
		}

		inserted++
		bar.Add(1)
		return nil
	})
	if err != nil {
		return inserted, err
	}

	s.Logger.Info("Scrape-Lauf abgeschlossen", zap.Int("trials", inserted))
	return inserted, nil
}

// recordRun hängt eine Zeile an das append-only Lauf-Protokoll an.
func (s *Scraper) recordRun(count int, runErr error) error {
	row := models.UpdateHistory{
		UpdateTime: time.Now().UTC(),
		Status:     models.UpdateStatusSuccess,
	}

	if runErr != nil {
		row.Status = models.UpdateStatusFailed
		row.ErrorKind = fmt.Sprintf("%T", runErr)
		row.ErrorMessage = runErr.Error()
	}

	details, err := json.Marshal(map[string]int{"trials": count})
	if err != nil {
		return err
	}
	row.Details = datatypes.JSON(details)

	return s.DB.Create(&row).Error
}
