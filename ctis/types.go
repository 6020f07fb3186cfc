package ctis

// searchRequest ist der POST-Body des öffentlichen Such-Endpunkts.
type searchRequest struct {
	Pagination searchPagination `json:"pagination"`
	Sort       searchSort       `json:"sort"`
	Criteria   searchCriteria   `json:"searchCriteria"`
}

type searchPagination struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type searchSort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type searchCriteria struct {
	ContainAll string `json:"containAll"`
	ContainAny string `json:"containAny"`
	ContainNot string `json:"containNot"`
}

// searchResponse ist die Top-Level-Struktur der Such-Antwort.
type searchResponse struct {
	Data       []TrialOverview `json:"data"`
	Pagination struct {
		NextPage     bool `json:"nextPage"`
		TotalRecords int  `json:"totalRecords"`
	} `json:"pagination"`
}

// TrialOverview ist ein Suchtreffer aus dem Overview-Endpunkt.
// LastUpdated kommt im Format dd/mm/yyyy und wird erst beim Einfügen
// normalisiert.
type TrialOverview struct {
	CTNumber             string `json:"ctNumber"`
	CTStatus             string `json:"ctStatus"`
	CTTitle              string `json:"ctTitle"`
	TrialPhase           string `json:"trialPhase"`
	AgeGroup             string `json:"ageGroup"`
	Gender               string `json:"gender"`
	TrialRegion          int    `json:"trialRegion"`
	TotalNumberEnrolled  int    `json:"totalNumberEnrolled"`
	LastUpdated          string `json:"lastUpdated"`
	DecisionDateOverall  string `json:"decisionDateOverall"`
	Sponsor              string `json:"sponsor"`
	SponsorType          string `json:"sponsorType"`
}

// FullTrial ist das vollständige Detail-Dokument des Retrieve-Endpunkts.
type FullTrial struct {
	CTNumber              string                `json:"ctNumber"`
	CTStatus              string                `json:"ctStatus"`
	CTPublicStatusCode    int                   `json:"ctPublicStatusCode"`
	DecisionDate          string                `json:"decisionDate"`
	StartDateEU           string                `json:"startDateEU"`
	EndDateEU             string                `json:"endDateEU"`
	AuthorizedApplication AuthorizedApplication `json:"authorizedApplication"`
	Events                Events                `json:"events"`
}

type AuthorizedApplication struct {
	EudraCT           EudraCT            `json:"eudraCt"`
	AuthorizedPartI   AuthorizedPartI    `json:"authorizedPartI"`
	AuthorizedPartsII []AuthorizedPartII `json:"authorizedPartsII"`
}

type EudraCT struct {
	IsTransitioned *bool  `json:"isTransitioned"`
	EudraCTCode    string `json:"eudraCtCode"`
}

type AuthorizedPartI struct {
	TrialDetails     TrialDetails      `json:"trialDetails"`
	TherapeuticAreas []TherapeuticArea `json:"therapeuticAreas"`
	Sponsors         []SponsorInfo     `json:"sponsors"`
	Products         []ProductInfo     `json:"products"`
}

type TrialDetails struct {
	ClinicalTrialIdentifiers ClinicalTrialIdentifiers `json:"clinicalTrialIdentifiers"`
	TrialInformation         TrialInformation         `json:"trialInformation"`
}

type ClinicalTrialIdentifiers struct {
	ShortTitle                  string `json:"shortTitle"`
	SecondaryIdentifyingNumbers struct {
		NCTNumber struct {
			Number string `json:"number"`
		} `json:"nctNumber"`
	} `json:"secondaryIdentifyingNumbers"`
}

type TrialInformation struct {
	TrialDuration struct {
		EstimatedRecruitmentStartDate string `json:"estimatedRecruitmentStartDate"`
		EstimatedEndDate              string `json:"estimatedEndDate"`
	} `json:"trialDuration"`
	MedicalCondition struct {
		PartIMedicalConditions []struct {
			MedicalCondition string `json:"medicalCondition"`
		} `json:"partIMedicalConditions"`
	} `json:"medicalCondition"`
}

type TherapeuticArea struct {
	Name string `json:"name"`
}

type SponsorInfo struct {
	Primary      bool             `json:"primary"`
	Organisation Organisation     `json:"organisation"`
	ThirdParties []ThirdPartyInfo `json:"thirdParties"`
}

type Organisation struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Commercial  *bool  `json:"commercial"`
	BusinessKey string `json:"businessKey"`
}

type ThirdPartyInfo struct {
	OrganisationAddress OrganisationAddress `json:"organisationAddress"`
	SponsorDuties       []DutyInfo          `json:"sponsorDuties"`
}

type OrganisationAddress struct {
	Organisation Organisation `json:"organisation"`
	Address      Address      `json:"address"`
}

type Address struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
	CountryName  string `json:"countryName"`
}

// DutyInfo ist eine delegierte Aufgabe. Value ist optional; fehlt er, wird
// der Code über die statische Decodierungstabelle aufgelöst.
type DutyInfo struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

type ProductInfo struct {
	ProductName               string `json:"productName"`
	PharmaceuticalFormDisplay string `json:"pharmaceuticalFormDisplay"`
	IsPaediatricFormulation   *bool  `json:"isPaediatricFormulation"`
	MPRoleInTrial             int    `json:"mpRoleInTrial"`
	OrphanDrugEdit            *bool  `json:"orphanDrugEdit"`
	EVCode                    string `json:"evCode"`
	ProductDictionaryInfo     struct {
		ActiveSubstanceName string          `json:"activeSubstanceName"`
		NameOrg             string          `json:"nameOrg"`
		EUMPNumber          string          `json:"euMpNumber"`
		SponsorProductCode  string          `json:"sponsorProductCode"`
		ProductSubstances   []SubstanceInfo `json:"productSubstances"`
	} `json:"productDictionaryInfo"`
	Routes []string `json:"routes"`
}

type SubstanceInfo struct {
	ActSubstName    string `json:"actSubstName"`
	SubstanceEVCode string `json:"substanceEvCode"`
	SubstanceOrigin string `json:"substanceOrigin"`
	ActSubstOrigin  string `json:"actSubstOrigin"`
	ProductPK       string `json:"productPk"`
	SubstancePK     string `json:"substancePk"`
}

type AuthorizedPartII struct {
	TrialSites []SiteInfo `json:"trialSites"`
}

type SiteInfo struct {
	OrganisationAddressInfo OrganisationAddressInfo `json:"organisationAddressInfo"`
}

type OrganisationAddressInfo struct {
	Organisation Organisation `json:"organisation"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Address      Address      `json:"address"`
	// Bei seriousBreachSites liegt der Business-Key direkt auf dieser Ebene.
	BusinessKey string `json:"businessKey"`
}

type Events struct {
	SeriousBreaches []BreachInfo `json:"seriousBreaches"`
}

type BreachInfo struct {
	AwareDate                   string     `json:"awareDate"`
	BreachDate                  string     `json:"breachDate"`
	SubmissionDate              string     `json:"submissionDate"`
	UpdatedOn                   string     `json:"updatedOn"`
	Description                 string     `json:"description"`
	ActionsTaken                string     `json:"actionsTaken"`
	IsBenefitRiskBalanceChanged *bool      `json:"isBenefitRiskBalanceChanged"`
	ImpactedAreaList            []string   `json:"impactedAreaList"`
	Categories                  []Category `json:"categories"`
	SeriousBreachSites          []SiteInfo `json:"seriousBreachSites"`
}

type Category struct {
	Name string `json:"name"`
}
