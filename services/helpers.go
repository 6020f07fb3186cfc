package services

import (
	"fmt"
	"time"

	"github.com/biter777/countries"
)

// ConvertDateFormat wandelt einen Datums-String von einem Layout in ein
// anderes um, z.B. "31/01/2024" (dd/mm/yyyy) nach "2024-01-31".
func ConvertDateFormat(value, inLayout, outLayout string) (string, error) {
	t, err := time.Parse(inLayout, value)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", value, err)
	}
	return t.Format(outLayout), nil
}

// CountryToISOCodes löst einen Ländernamen zu seinen ISO-Alpha-2- und
// Alpha-3-Codes auf. Bei unbekannten Namen kommen leere Strings zurück,
// kein Fehler.
func CountryToISOCodes(name string) (string, string) {
	c := countries.ByName(name)
	if c == countries.Unknown {
		return "", ""
	}
	return c.Alpha2(), c.Alpha3()
}

// parseISODate parst ein Datum im Format yyyy-mm-dd. Ein leerer String ist
// kein Fehler, sondern ein fehlendes optionales Feld.
func parseISODate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", value, err)
	}
	return &t, nil
}

// parseUKDate parst ein Datum im Format dd/mm/yyyy, wie es der
// Overview-Endpunkt liefert.
func parseUKDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("02/01/2006", value)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", value, err)
	}
	return &t, nil
}

// parseTimestampDate schneidet den Datumsanteil aus einem Timestamp der Form
// yyyy-mm-ddTHH:MM:SS mit optionalen Sekundenbruchteilen.
func parseTimestampDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05.999999", value)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d, nil
}
