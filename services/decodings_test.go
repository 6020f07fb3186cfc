package services

import (
	"testing"

	"ctis-scraper/ctis"
)

func TestLoadDecodings(t *testing.T) {
	d, err := loadDecodings()
	if err != nil {
		t.Fatalf("loadDecodings: %v", err)
	}
	if len(d.ThirdPartyDuty) == 0 {
		t.Fatal("third_party_duty table is empty")
	}
	if _, ok := d.ThirdPartyDuty["OTHER"]; !ok {
		t.Error("missing OTHER entry in duty table")
	}
}

func TestDecodeDuty(t *testing.T) {
	table := map[string]string{"1": "Regulatory submissions"}

	// Inline-Wert gewinnt gegen die Tabelle.
	got, err := DecodeDuty(ctis.DutyInfo{Code: "1", Value: "Custom duty"}, table)
	if err != nil || got != "Custom duty" {
		t.Errorf("inline value: got (%q, %v)", got, err)
	}

	// Ohne Inline-Wert entscheidet die Tabelle.
	got, err = DecodeDuty(ctis.DutyInfo{Code: "1"}, table)
	if err != nil || got != "Regulatory submissions" {
		t.Errorf("table lookup: got (%q, %v)", got, err)
	}

	// Unbekannter Code ohne Wert ist ein Datenfehler.
	if _, err := DecodeDuty(ctis.DutyInfo{Code: "99"}, table); err == nil {
		t.Error("expected error for unknown duty code")
	}
}
