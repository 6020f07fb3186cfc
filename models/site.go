package models

// Site ist ein Prüfzentrum, dedupliziert über die org_id.
type Site struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name,omitempty" gorm:"index"`
	Type       string `json:"type,omitempty"`
	Commercial *bool  `json:"commercial,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	OrgID      string `json:"org_id" gorm:"column:org_id;uniqueIndex;not null"`

	LocationID uint     `json:"location_id" gorm:"not null"`
	Location   Location `json:"location,omitempty"`

	// m:n
	Trials          []Trial         `json:"-" gorm:"many2many:trial_sites"`
	SeriousBreaches []SeriousBreach `json:"-" gorm:"many2many:serious_breach_sites"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Site) TableName() string {
	return "sites"
}
