package models

// ThirdParty repräsentiert eine von einem Sponsor beauftragte Organisation.
type ThirdParty struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name,omitempty" gorm:"index"`
	Type         string `json:"type,omitempty"`
	IsCommercial *bool  `json:"is_commercial,omitempty"`
	OrgID        string `json:"org_id" gorm:"column:org_id;uniqueIndex;not null"`

	LocationID uint     `json:"location_id" gorm:"not null"`
	Location   Location `json:"location,omitempty"`

	// m:n
	Trials []Trial `json:"-" gorm:"many2many:trial_third_parties"`
	Duties []Duty  `json:"duties,omitempty" gorm:"many2many:third_party_duties"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ThirdParty) TableName() string {
	return "third_parties"
}
