package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"ctis-scraper/ctis"
	"ctis-scraper/models"
)

// fakeSource serviert eine feste Menge Studien ohne HTTP.
type fakeSource struct {
	overviews []ctis.TrialOverview
	fulls     map[string]*ctis.FullTrial
	fetchErr  error
}

func (f *fakeSource) TotalRecords() (int, error) {
	return len(f.overviews), nil
}

func (f *fakeSource) StreamOverview(fn func(ctis.TrialOverview) error) error {
	for _, o := range f.overviews {
		if err := fn(o); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSource) FetchFullTrial(ctNumber string) (*ctis.FullTrial, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fulls[ctNumber], nil
}

func testScraper(t *testing.T, source TrialSource) *Scraper {
	t.Helper()
	db := openTestDB(t)
	return NewScraper(db, source, testNormalizer(t), zap.NewNop())
}

func TestScraperRunRebuildsTrials(t *testing.T) {
	source := &fakeSource{
		overviews: []ctis.TrialOverview{
			{CTNumber: "2024-000001-01-00", LastUpdated: "01/02/2024"},
			{CTNumber: "2024-000002-01-00", LastUpdated: "02/02/2024"},
		},
		fulls: map[string]*ctis.FullTrial{
			"2024-000001-01-00": fullTrialFixture("ORG-SP-1", "ORG-SITE-1"),
			"2024-000002-01-00": fullTrialFixture("ORG-SP-2", "ORG-SITE-2"),
		},
	}
	scraper := testScraper(t, source)

	count, err := scraper.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d trials, want 2", count)
	}

	var trials int64
	scraper.DB.Model(&models.Trial{}).Count(&trials)
	if trials != 2 {
		t.Errorf("got %d trial rows, want 2", trials)
	}

	var history []models.UpdateHistory
	if err := scraper.DB.Find(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 || history[0].Status != models.UpdateStatusSuccess {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestScraperRunPreservesDurableTables(t *testing.T) {
	source := &fakeSource{
		overviews: []ctis.TrialOverview{{CTNumber: "2024-000001-01-00", LastUpdated: "01/02/2024"}},
		fulls: map[string]*ctis.FullTrial{
			"2024-000001-01-00": fullTrialFixture("ORG-SP-1", "ORG-SITE-1"),
		},
	}
	scraper := testScraper(t, source)

	if _, err := scraper.Run(); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Koordinaten eines Standorts setzen, wie es der Enricher täte.
	var loc models.Location
	if err := scraper.DB.First(&loc).Error; err != nil {
		t.Fatalf("load location: %v", err)
	}
	lat, lon, yes := 50.92, 6.92, true
	loc.Latitude, loc.Longitude, loc.Geocodeable = &lat, &lon, &yes
	if err := scraper.DB.Save(&loc).Error; err != nil {
		t.Fatalf("save location: %v", err)
	}

	if _, err := scraper.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}

	// Die Koordinaten überleben den Rebuild.
	var after models.Location
	if err := scraper.DB.First(&after, loc.ID).Error; err != nil {
		t.Fatalf("reload location: %v", err)
	}
	if after.Latitude == nil || *after.Latitude != lat || after.Geocodeable == nil || !*after.Geocodeable {
		t.Errorf("coordinates lost on rebuild: %+v", after)
	}

	// Jeder Lauf hängt eine Protokollzeile an.
	var history int64
	scraper.DB.Model(&models.UpdateHistory{}).Count(&history)
	if history != 2 {
		t.Errorf("got %d history rows, want 2", history)
	}
}

func TestScraperRunRecordsFailure(t *testing.T) {
	wantErr := errors.New("portal unreachable")
	source := &fakeSource{
		overviews: []ctis.TrialOverview{{CTNumber: "2024-000001-01-00"}},
		fetchErr:  wantErr,
	}
	scraper := testScraper(t, source)

	_, err := scraper.Run()
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want original error", err)
	}

	var row models.UpdateHistory
	if err := scraper.DB.First(&row).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if row.Status != models.UpdateStatusFailed {
		t.Errorf("got status %q, want failed", row.Status)
	}
	if row.ErrorKind == "" || row.ErrorMessage == "" {
		t.Errorf("failure row missing error details: %+v", row)
	}
}
