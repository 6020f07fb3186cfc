package models

// TherapeuticArea ist ein Therapiegebiet, dedupliziert über den Namen.
type TherapeuticArea struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// m:n
	Trials []Trial `json:"-" gorm:"many2many:trial_therapeutic_areas"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (TherapeuticArea) TableName() string {
	return "therapeutic_areas"
}
