package ctis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ctis-scraper/config"
)

// CustomTransport fügt jeder Anfrage Browser-Header hinzu. Das CTIS-Portal
// beantwortet Anfragen ohne plausiblen User-Agent nicht.
type CustomTransport struct {
	Transport http.RoundTripper
}

func (t *CustomTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:130.0) Gecko/20100101 Firefox/130.0")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Origin", "https://euclinicaltrials.eu")
	req.Header.Set("Referer", "https://euclinicaltrials.eu/ctis-public/search?lang=en")
	return t.Transport.RoundTrip(req)
}

// httpClient wird für alle Anfragen an das CTIS-Portal verwendet.
var httpClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &CustomTransport{
		Transport: http.DefaultTransport,
	},
}

// Fetcher kapselt die Logik zur Interaktion mit der öffentlichen CTIS-API.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des CTIS-Fetchers.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// StreamOverview paginiert durch den Such-Endpunkt und ruft fn für jeden
// Suchtreffer auf, sortiert nach Entscheidungsdatum absteigend. Der
// Seitenzähler wird nach jeder Anfrage bedingungslos erhöht; die Schleife
// endet ausschließlich über das nextPage-Flag des Servers. Jeder HTTP- oder
// Parse-Fehler bricht den gesamten Stream ab.
func (f *Fetcher) StreamOverview(fn func(TrialOverview) error) error {
	log := f.Logger.With(zap.String("endpoint", "search"))

	nextPageAvailable := true
	page := 1

	for nextPageAvailable {
		resp, err := f.search(page, f.Config.CTISPageSize)
		if err != nil {
			return err
		}
		log.Debug("Overview-Seite geladen", zap.Int("page", page), zap.Int("count", len(resp.Data)))

		for _, trial := range resp.Data {
			if trial.CTNumber == "" {
				return fmt.Errorf("overview record on page %d has no ctNumber", page)
			}
			if err := fn(trial); err != nil {
				return err
			}
		}

		page++
		nextPageAvailable = resp.Pagination.NextPage
	}
	return nil
}

// TotalRecords liest die Gesamtzahl der verfügbaren Studien aus den
// Pagination-Metadaten der ersten Suchseite. Wird nur für die
// Fortschrittsanzeige verwendet.
func (f *Fetcher) TotalRecords() (int, error) {
	resp, err := f.search(1, f.Config.CTISPageSize)
	if err != nil {
		return 0, err
	}
	return resp.Pagination.TotalRecords, nil
}

// FetchFullTrial holt das vollständige Detail-Dokument einer einzelnen Studie.
func (f *Fetcher) FetchFullTrial(ctNumber string) (*FullTrial, error) {
	url := fmt.Sprintf("%s/retrieve/%s", f.Config.CTISBaseURL, ctNumber)
	f.Logger.Debug("Rufe Retrieve-Endpunkt auf", zap.String("ct_number", ctNumber))

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		f.Logger.Error("Retrieve-Endpunkt hat nicht-200-Status zurückgegeben",
			zap.String("ct_number", ctNumber),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("retrieve %s failed: status %d", ctNumber, resp.StatusCode)
	}

	var full FullTrial
	if err := json.NewDecoder(resp.Body).Decode(&full); err != nil {
		return nil, fmt.Errorf("decode retrieve response for %s: %w", ctNumber, err)
	}
	return &full, nil
}

// search führt eine einzelne Suchanfrage aus.
func (f *Fetcher) search(page, size int) (*searchResponse, error) {
	payload := searchRequest{
		Pagination: searchPagination{Page: page, Size: size},
		Sort:       searchSort{Property: "decisionDate", Direction: "DESC"},
		Criteria:   searchCriteria{},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := f.Config.CTISBaseURL + "/search"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		f.Logger.Error("Such-Endpunkt hat nicht-200-Status zurückgegeben",
			zap.Int("page", page),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, fmt.Errorf("search page %d failed: status %d", page, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response page %d: %w", page, err)
	}
	return &sr, nil
}
