package models

// Location ist eine Anschrift, dedupliziert über das volle Adress-Tupel
// (address, city, postcode, country). Die Tabelle überlebt den kompletten
// Rebuild, damit einmal geocodierte Koordinaten erhalten bleiben.
//
// Geocodeable ist dreiwertig: nil = noch nicht versucht, true = Koordinaten
// gefunden, false = dauerhaft nicht auflösbar (wird nie erneut angefragt).
type Location struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Address         string `json:"address" gorm:"not null"`
	City            string `json:"city,omitempty"`
	Postcode        string `json:"postcode,omitempty"`
	Country         string `json:"country,omitempty"`
	CountryISO2     string `json:"country_iso2,omitempty" gorm:"column:country_iso2"`
	CountryISO3     string `json:"country_iso3,omitempty" gorm:"column:country_iso3"`
	LocationOneLine string `json:"location_one_line,omitempty"`

	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Geocodeable *bool    `json:"geocodeable,omitempty"`

	// 1:n
	Sites        []Site       `json:"-"`
	ThirdParties []ThirdParty `json:"-"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Location) TableName() string {
	return "locations"
}
