package models

// All liefert sämtliche Entitäten für die Auto-Migration.
func All() []any {
	return []any{
		&Trial{},
		&Sponsor{},
		&ThirdParty{},
		&Duty{},
		&Product{},
		&Substance{},
		&AdministrationRoute{},
		&TherapeuticArea{},
		&Condition{},
		&Site{},
		&Location{},
		&SeriousBreach{},
		&ImpactedArea{},
		&Category{},
		&UpdateHistory{},
	}
}

// DurableTables sind die Tabellen, die einen vollständigen Rebuild überleben:
// geocodierte Koordinaten und die Lauf-Historie.
func DurableTables() []string {
	return []string{"locations", "update_history"}
}
