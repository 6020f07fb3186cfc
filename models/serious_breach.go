package models

import (
	"time"
)

// SeriousBreach ist ein gemeldeter schwerwiegender Verstoß gegen das
// Prüfprotokoll. Hängt 1:n am Trial und wird mit ihm gelöscht.
type SeriousBreach struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	AwareDate      *time.Time `json:"aware_date,omitempty"`
	BreachDate     *time.Time `json:"breach_date,omitempty"`
	SubmissionDate *time.Time `json:"submission_date,omitempty"`
	UpdatedOn      *time.Time `json:"updated_on,omitempty"`

	Description               string `json:"description,omitempty" gorm:"type:text"`
	ActionsTaken              string `json:"actions_taken,omitempty" gorm:"type:text"`
	BenefitRiskBalanceChanged *bool  `json:"benefit_risk_balance_changed,omitempty"`

	TrialID uint `json:"trial_id" gorm:"not null;index"`

	// m:n
	ImpactedAreas []ImpactedArea `json:"impacted_areas,omitempty" gorm:"many2many:serious_breach_impacted_areas"`
	Categories    []Category     `json:"categories,omitempty" gorm:"many2many:serious_breach_categories"`
	Sites         []Site         `json:"sites,omitempty" gorm:"many2many:serious_breach_sites"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (SeriousBreach) TableName() string {
	return "serious_breaches"
}
