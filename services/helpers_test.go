package services

import (
	"testing"
	"time"
)

func TestConvertDateFormat(t *testing.T) {
	got, err := ConvertDateFormat("31/01/2024", "02/01/2006", "2006-01-02")
	if err != nil {
		t.Fatalf("ConvertDateFormat: %v", err)
	}
	if got != "2024-01-31" {
		t.Errorf("got %q, want 2024-01-31", got)
	}

	if _, err := ConvertDateFormat("not-a-date", "02/01/2006", "2006-01-02"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestCountryToISOCodes(t *testing.T) {
	iso2, iso3 := CountryToISOCodes("Germany")
	if iso2 != "DE" || iso3 != "DEU" {
		t.Errorf("got (%q, %q), want (DE, DEU)", iso2, iso3)
	}

	iso2, iso3 = CountryToISOCodes("Atlantis")
	if iso2 != "" || iso3 != "" {
		t.Errorf("unknown country should yield empty codes, got (%q, %q)", iso2, iso3)
	}
}

func TestParseISODate(t *testing.T) {
	d, err := parseISODate("2024-03-15")
	if err != nil {
		t.Fatalf("parseISODate: %v", err)
	}
	if d == nil || !d.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v, want 2024-03-15", d)
	}

	d, err = parseISODate("")
	if err != nil || d != nil {
		t.Errorf("empty value should be (nil, nil), got (%v, %v)", d, err)
	}

	if _, err := parseISODate("15.03.2024"); err == nil {
		t.Error("expected error for wrong layout")
	}
}

func TestParseUKDate(t *testing.T) {
	d, err := parseUKDate("05/12/2023")
	if err != nil {
		t.Fatalf("parseUKDate: %v", err)
	}
	if d.Day() != 5 || d.Month() != time.December || d.Year() != 2023 {
		t.Errorf("got %v, want 2023-12-05", d)
	}
}

func TestParseTimestampDate(t *testing.T) {
	d, err := parseTimestampDate("2023-06-01T14:22:05.123456")
	if err != nil {
		t.Fatalf("parseTimestampDate: %v", err)
	}
	want := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}
}
