package models

// Category ist eine Verstoß-Kategorie aus dem CTIS-Vokabular.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// m:n
	SeriousBreaches []SeriousBreach `json:"-" gorm:"many2many:serious_breach_categories"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Category) TableName() string {
	return "categories"
}
