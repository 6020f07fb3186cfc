package models

import (
	"time"
)

// Trial repräsentiert eine klinische Studie aus dem CTIS-Portal.
// Die ct_number ist der natürliche Schlüssel und nach dem Insert unveränderlich.
type Trial struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title      string `json:"title,omitempty" gorm:"index"`
	ShortTitle string `json:"short_title,omitempty"`
	CTNumber   string `json:"ct_number" gorm:"column:ct_number;uniqueIndex;not null"`

	IsTransitioned *bool  `json:"is_transitioned,omitempty"`
	EudraCTNumber  string `json:"eudract_number,omitempty" gorm:"column:eudract_number"`
	NCTNumber      string `json:"nct_number,omitempty" gorm:"column:nct_number"`

	Status           string `json:"status,omitempty"`
	PublicStatusCode string `json:"public_status_code,omitempty"`
	Phase            string `json:"phase,omitempty"`
	AgeGroup         string `json:"age_group,omitempty"`
	Gender           string `json:"gender,omitempty"`
	TrialRegion      int    `json:"trial_region,omitempty"`

	EstimatedRecruitmentStartDate *time.Time `json:"estimated_recruitment_start_date,omitempty"`
	DecisionDate                  *time.Time `json:"decision_date,omitempty"`
	EstimatedEndDate              *time.Time `json:"estimated_end_date,omitempty"`
	StartDateEU                   *time.Time `json:"start_date_eu,omitempty" gorm:"column:start_date_eu"`
	EndDateEU                     *time.Time `json:"end_date_eu,omitempty" gorm:"column:end_date_eu"`

	EstimatedRecruitment int        `json:"estimated_recruitment,omitempty"`
	LastUpdatedInCTIS    *time.Time `json:"last_updated_in_ctis,omitempty" gorm:"column:last_updated_in_ctis"`
	CTISURL              string     `json:"ctis_url,omitempty" gorm:"column:ctis_url"`

	// 1:n, wird mit dem Trial kaskadierend gelöscht
	SeriousBreaches []SeriousBreach `json:"serious_breaches,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	// m:n
	Sponsors         []Sponsor         `json:"sponsors,omitempty" gorm:"many2many:trial_sponsors"`
	ThirdParties     []ThirdParty      `json:"third_parties,omitempty" gorm:"many2many:trial_third_parties"`
	Conditions       []Condition       `json:"conditions,omitempty" gorm:"many2many:trial_conditions"`
	Sites            []Site            `json:"sites,omitempty" gorm:"many2many:trial_sites"`
	Products         []Product         `json:"products,omitempty" gorm:"many2many:trial_products"`
	TherapeuticAreas []TherapeuticArea `json:"therapeutic_areas,omitempty" gorm:"many2many:trial_therapeutic_areas"`
}

// TableName gibt explizit den Tabellennamen an.
func (Trial) TableName() string {
	return "trials"
}
