package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"ctis-scraper/ctis"
)

//go:embed decodings.yaml
var decodingsYAML []byte

type decodings struct {
	ThirdPartyDuty map[string]string `yaml:"third_party_duty"`
}

// loadDecodings parst die eingebettete Decodierungstabelle.
func loadDecodings() (*decodings, error) {
	var d decodings
	if err := yaml.Unmarshal(decodingsYAML, &d); err != nil {
		return nil, fmt.Errorf("parse decodings.yaml: %w", err)
	}
	return &d, nil
}

// DecodeDuty löst den Klartext einer delegierten Aufgabe auf. Ein vom Server
// mitgelieferter Wert gewinnt; sonst entscheidet die statische Tabelle. Ein
// Code ohne beides ist ein Datenfehler.
func DecodeDuty(duty ctis.DutyInfo, table map[string]string) (string, error) {
	if duty.Value != "" {
		return duty.Value, nil
	}
	if name, ok := table[duty.Code]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no decoding for duty code %q", duty.Code)
}
