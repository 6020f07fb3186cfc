package models

// Duty ist eine Aufgabe aus dem kontrollierten CTIS-Vokabular, die ein
// Sponsor an eine Drittpartei delegiert hat.
type Duty struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"index;not null"`
	Name string `json:"name,omitempty"`

	// m:n
	ThirdParties []ThirdParty `json:"-" gorm:"many2many:third_party_duties"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Duty) TableName() string {
	return "duties"
}
