package models

// Sponsor repräsentiert eine Sponsor-Organisation, dedupliziert über die org_id.
type Sponsor struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name,omitempty" gorm:"index"`
	Type  string `json:"type,omitempty"`
	OrgID string `json:"org_id" gorm:"column:org_id;uniqueIndex;not null"`

	// m:n
	Trials []Trial `json:"-" gorm:"many2many:trial_sponsors"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Sponsor) TableName() string {
	return "sponsors"
}

// TrialSponsor ist die Kante zwischen Trial und Sponsor. Die Primärsponsor-
// Rolle gilt pro Studie und liegt deshalb auf der Kante, nicht auf der
// geteilten Sponsor-Zeile.
type TrialSponsor struct {
	TrialID   uint `json:"trial_id" gorm:"primaryKey"`
	SponsorID uint `json:"sponsor_id" gorm:"primaryKey"`
	IsPrimary bool `json:"is_primary"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (TrialSponsor) TableName() string {
	return "trial_sponsors"
}
