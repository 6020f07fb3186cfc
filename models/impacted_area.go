package models

// ImpactedArea ist ein von einem Verstoß betroffener Bereich.
type ImpactedArea struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// m:n
	SeriousBreaches []SeriousBreach `json:"-" gorm:"many2many:serious_breach_impacted_areas"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ImpactedArea) TableName() string {
	return "impacted_areas"
}
