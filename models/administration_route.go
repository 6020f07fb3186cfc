package models

// AdministrationRoute ist ein Verabreichungsweg (z.B. "Oral use").
type AdministrationRoute struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// m:n
	Products []Product `json:"-" gorm:"many2many:product_administration_routes"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (AdministrationRoute) TableName() string {
	return "administration_routes"
}
