package models

// Product repräsentiert ein Prüfpräparat. CTIS liefert keinen stabilen
// Einzelschlüssel, dedupliziert wird über die Gesamtheit der Felder.
type Product struct {
	ID                        uint   `json:"id" gorm:"primaryKey"`
	Name                      string `json:"name,omitempty" gorm:"index"`
	ActiveSubstance           string `json:"active_substance,omitempty"`
	NameOrg                   string `json:"name_org,omitempty"`
	PharmaceuticalFormDisplay string `json:"pharmaceutical_form_display,omitempty"`
	IsPaediatricFormulation   *bool  `json:"is_paediatric_formulation,omitempty"`
	RoleInTrialCode           int    `json:"role_in_trial_code,omitempty"`
	OrphanDrug                *bool  `json:"orphan_drug,omitempty"`
	EVCode                    string `json:"ev_code,omitempty" gorm:"column:ev_code"`
	EUMPNumber                string `json:"eu_mp_number,omitempty" gorm:"column:eu_mp_number"`
	SponsorProductCode        string `json:"sponsor_product_code,omitempty"`

	// m:n
	Trials               []Trial               `json:"-" gorm:"many2many:trial_products"`
	Substances           []Substance           `json:"substances,omitempty" gorm:"many2many:product_substances"`
	AdministrationRoutes []AdministrationRoute `json:"administration_routes,omitempty" gorm:"many2many:product_administration_routes"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Product) TableName() string {
	return "products"
}
