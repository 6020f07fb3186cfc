package models

// Condition ist eine medizinische Indikation, dedupliziert über den Namen.
type Condition struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// m:n
	Trials []Trial `json:"-" gorm:"many2many:trial_conditions"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Condition) TableName() string {
	return "conditions"
}
