package models

// Substance repräsentiert einen Wirkstoff aus dem Produkt-Wörterbuch.
type Substance struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	Name               string `json:"name,omitempty" gorm:"index"`
	EVCode             string `json:"ev_code,omitempty" gorm:"column:ev_code"`
	SubstanceOrigin    string `json:"substance_origin,omitempty"`
	ActSubstanceOrigin string `json:"act_substance_origin,omitempty"`
	ProductPK          string `json:"product_pk,omitempty" gorm:"column:product_pk"`
	SubstancePK        string `json:"substance_pk,omitempty" gorm:"column:substance_pk"`

	// m:n
	Products []Product `json:"-" gorm:"many2many:product_substances"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Substance) TableName() string {
	return "substances"
}
