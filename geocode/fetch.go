package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ctis-scraper/config"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// ErrBlocked signalisiert, dass der Geocoding-Dienst den Client aussperrt
// (HTTP 403). Der aufrufende Prozess muss dann sofort beenden statt weiter
// anzufragen.
var ErrBlocked = errors.New("geocoding service blocked the client")

// Result sind die Koordinaten eines Geocoding-Treffers.
type Result struct {
	Latitude  float64
	Longitude float64
}

// response repräsentiert die JSON-Antwort von Nominatim; Koordinaten kommen
// als Strings.
type response []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Fetcher kapselt die Logik für den Nominatim-Geocoder.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Geocoding-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Lookup holt Koordinaten für die angegebene Adresse. Eine wohlgeformte leere
// Antwort bedeutet "nicht auffindbar" und liefert (nil, nil); HTTP 403
// liefert ErrBlocked.
func (f *Fetcher) Lookup(street, city, postcode, country string) (*Result, error) {
	params := url.Values{}
	params.Set("street", street)
	params.Set("city", city)
	params.Set("postalcode", postcode)
	params.Set("country", country)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", f.Config.GeocodingBaseURL, params.Encode())
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.Config.GeocodingUserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, ErrBlocked
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request failed with status: %d", resp.StatusCode)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}

	if len(r) == 0 {
		f.Logger.Debug("Keine Koordinaten gefunden",
			zap.String("street", street), zap.String("city", city), zap.String("country", country))
		return nil, nil
	}

	lat, err := strconv.ParseFloat(r[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", r[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(r[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", r[0].Lon, err)
	}
	return &Result{Latitude: lat, Longitude: lon}, nil
}
