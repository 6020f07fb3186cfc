package services

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ctis-scraper/ctis"
	"ctis-scraper/database"
	"ctis-scraper/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(zap.NewNop())
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}

// fullTrialFixture baut ein Detail-Dokument mit einem Prüfzentrum, einem
// Sponsor samt Drittpartei und einem Produkt.
func fullTrialFixture(sponsorOrg, siteOrg string) *ctis.FullTrial {
	isPrimary := true
	full := &ctis.FullTrial{CTStatus: "Ongoing", DecisionDate: "2024-02-01T09:30:00.000000"}

	full.AuthorizedApplication.AuthorizedPartI.TherapeuticAreas = []ctis.TherapeuticArea{
		{Name: "Diseases [C] - Neoplasms [C04]"},
	}
	full.AuthorizedApplication.AuthorizedPartI.TrialDetails.TrialInformation.MedicalCondition.PartIMedicalConditions = []struct {
		MedicalCondition string `json:"medicalCondition"`
	}{
		{MedicalCondition: "Non-small cell lung cancer"},
	}
	full.AuthorizedApplication.AuthorizedPartI.Sponsors = []ctis.SponsorInfo{
		{
			Primary: isPrimary,
			Organisation: ctis.Organisation{
				Name: "Acme Pharma", Type: "Industry", BusinessKey: sponsorOrg,
			},
			ThirdParties: []ctis.ThirdPartyInfo{
				{
					OrganisationAddress: ctis.OrganisationAddress{
						Organisation: ctis.Organisation{Name: "Contract Lab", BusinessKey: "ORG-TP-1"},
						Address: ctis.Address{
							AddressLine1: "Laborweg 2", City: "Wien", Postcode: "1010", CountryName: "Austria",
						},
					},
					SponsorDuties: []ctis.DutyInfo{{Code: "3"}},
				},
			},
		},
	}
	full.AuthorizedApplication.AuthorizedPartI.Products = []ctis.ProductInfo{
		{
			ProductName: "Examplinib",
			Routes:      []string{"Oral use"},
		},
	}
	full.AuthorizedApplication.AuthorizedPartI.Products[0].ProductDictionaryInfo.ActiveSubstanceName = "examplinib"
	full.AuthorizedApplication.AuthorizedPartI.Products[0].ProductDictionaryInfo.ProductSubstances = []ctis.SubstanceInfo{
		{ActSubstName: "examplinib", SubstanceEVCode: "SUB-1"},
	}
	full.AuthorizedApplication.AuthorizedPartsII = []ctis.AuthorizedPartII{
		{
			TrialSites: []ctis.SiteInfo{
				{
					OrganisationAddressInfo: ctis.OrganisationAddressInfo{
						Organisation: ctis.Organisation{Name: "Uniklinik Köln", BusinessKey: siteOrg},
						Address: ctis.Address{
							AddressLine1: "Kerpener Str. 62", City: "Köln", Postcode: "50937", CountryName: "Germany",
						},
					},
				},
			},
		},
	}
	return full
}

func insertFixture(t *testing.T, db *gorm.DB, n *Normalizer, ctNumber string, full *ctis.FullTrial) {
	t.Helper()
	overview := ctis.TrialOverview{CTNumber: ctNumber, CTTitle: "A trial", LastUpdated: "15/03/2024"}
	err := db.Transaction(func(tx *gorm.DB) error {
		return n.InsertTrialData(tx, overview, full)
	})
	if err != nil {
		t.Fatalf("InsertTrialData(%s): %v", ctNumber, err)
	}
}

func TestInsertTrialDataBuildsGraph(t *testing.T) {
	db := openTestDB(t)
	n := testNormalizer(t)

	insertFixture(t, db, n, "2024-000001-01-00", fullTrialFixture("ORG-SP-1", "ORG-SITE-1"))

	var trial models.Trial
	err := db.Preload("Sponsors").Preload("Sites.Location").Preload("ThirdParties.Duties").
		Preload("Products.Substances").Preload("Products.AdministrationRoutes").
		Preload("TherapeuticAreas").Preload("Conditions").
		Where("ct_number = ?", "2024-000001-01-00").First(&trial).Error
	if err != nil {
		t.Fatalf("load trial: %v", err)
	}

	if trial.DecisionDate == nil || trial.DecisionDate.Format("2006-01-02") != "2024-02-01" {
		t.Errorf("decision date not normalized: %v", trial.DecisionDate)
	}
	if trial.LastUpdatedInCTIS == nil || trial.LastUpdatedInCTIS.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("last updated not normalized: %v", trial.LastUpdatedInCTIS)
	}
	if len(trial.Sponsors) != 1 || len(trial.Sites) != 1 || len(trial.ThirdParties) != 1 {
		t.Fatalf("unexpected graph: %d sponsors, %d sites, %d third parties",
			len(trial.Sponsors), len(trial.Sites), len(trial.ThirdParties))
	}
	if trial.Sites[0].Location.CountryISO2 != "DE" || trial.Sites[0].Location.CountryISO3 != "DEU" {
		t.Errorf("site location ISO codes missing: %+v", trial.Sites[0].Location)
	}
	if len(trial.ThirdParties[0].Duties) != 1 || trial.ThirdParties[0].Duties[0].Name != "Data management" {
		t.Errorf("duty not decoded: %+v", trial.ThirdParties[0].Duties)
	}
	if len(trial.Products) != 1 || len(trial.Products[0].Substances) != 1 || len(trial.Products[0].AdministrationRoutes) != 1 {
		t.Errorf("product graph incomplete: %+v", trial.Products)
	}
	if len(trial.TherapeuticAreas) != 1 || len(trial.Conditions) != 1 {
		t.Errorf("classification missing: %d areas, %d conditions",
			len(trial.TherapeuticAreas), len(trial.Conditions))
	}

	// is_primary liegt auf der Kante.
	var edge models.TrialSponsor
	if err := db.Where("trial_id = ? AND sponsor_id = ?", trial.ID, trial.Sponsors[0].ID).First(&edge).Error; err != nil {
		t.Fatalf("load sponsor edge: %v", err)
	}
	if !edge.IsPrimary {
		t.Error("sponsor edge should be primary")
	}
}

func TestInsertTrialDataDeduplicatesSharedEntities(t *testing.T) {
	db := openTestDB(t)
	n := testNormalizer(t)

	// Zwei Studien mit identischem Sponsor, Prüfzentrum und Adress-Tupel.
	insertFixture(t, db, n, "2024-000001-01-00", fullTrialFixture("ORG-SP-1", "ORG-SITE-1"))
	insertFixture(t, db, n, "2024-000002-01-00", fullTrialFixture("ORG-SP-1", "ORG-SITE-1"))

	var sponsors, sites, locations, trials int64
	db.Model(&models.Sponsor{}).Count(&sponsors)
	db.Model(&models.Site{}).Count(&sites)
	db.Model(&models.Location{}).Count(&locations)
	db.Model(&models.Trial{}).Count(&trials)

	if trials != 2 {
		t.Errorf("got %d trials, want 2", trials)
	}
	if sponsors != 1 {
		t.Errorf("got %d sponsors, want 1", sponsors)
	}
	if sites != 1 {
		t.Errorf("got %d sites, want 1", sites)
	}
	// Eine Adresse fürs Prüfzentrum, eine für die Drittpartei.
	if locations != 2 {
		t.Errorf("got %d locations, want 2", locations)
	}
}

func TestInsertTrialDataRejectsMissingKeys(t *testing.T) {
	db := openTestDB(t)
	n := testNormalizer(t)

	// Fehlende ct_number
	err := db.Transaction(func(tx *gorm.DB) error {
		return n.InsertTrialData(tx, ctis.TrialOverview{}, fullTrialFixture("ORG-SP-1", "ORG-SITE-1"))
	})
	if err == nil {
		t.Error("expected error for missing ctNumber")
	}

	// Fehlende org_id am Prüfzentrum
	full := fullTrialFixture("ORG-SP-1", "")
	err = db.Transaction(func(tx *gorm.DB) error {
		return n.InsertTrialData(tx, ctis.TrialOverview{CTNumber: "2024-000003-01-00"}, full)
	})
	if err == nil {
		t.Error("expected error for site without org id")
	}

	// Die Transaktion muss vollständig zurückgerollt sein.
	var trials int64
	db.Model(&models.Trial{}).Count(&trials)
	if trials != 0 {
		t.Errorf("rollback incomplete, %d trials left", trials)
	}
}

func TestInsertTrialDataUnknownDutyCodeFails(t *testing.T) {
	db := openTestDB(t)
	n := testNormalizer(t)

	full := fullTrialFixture("ORG-SP-1", "ORG-SITE-1")
	full.AuthorizedApplication.AuthorizedPartI.Sponsors[0].ThirdParties[0].SponsorDuties = []ctis.DutyInfo{{Code: "99"}}

	err := db.Transaction(func(tx *gorm.DB) error {
		return n.InsertTrialData(tx, ctis.TrialOverview{CTNumber: "2024-000004-01-00"}, full)
	})
	if err == nil {
		t.Fatal("expected error for unknown duty code")
	}
}

func TestInsertTrialDataSkipsUnknownBreachSites(t *testing.T) {
	db := openTestDB(t)
	n := testNormalizer(t)

	full := fullTrialFixture("ORG-SP-1", "ORG-SITE-1")
	full.Events.SeriousBreaches = []ctis.BreachInfo{
		{
			AwareDate:        "2024-04-01",
			Description:      "Dosing deviation",
			ImpactedAreaList: []string{"Subject safety"},
			Categories:       []ctis.Category{{Name: "IMP related"}},
			SeriousBreachSites: []ctis.SiteInfo{
				{OrganisationAddressInfo: ctis.OrganisationAddressInfo{BusinessKey: "ORG-SITE-1"}},
				{OrganisationAddressInfo: ctis.OrganisationAddressInfo{BusinessKey: "ORG-UNKNOWN"}},
			},
		},
	}

	insertFixture(t, db, n, "2024-000005-01-00", full)

	var breach models.SeriousBreach
	err := db.Preload("Sites").Preload("ImpactedAreas").Preload("Categories").First(&breach).Error
	if err != nil {
		t.Fatalf("load breach: %v", err)
	}
	if len(breach.Sites) != 1 {
		t.Errorf("got %d breach sites, want 1 (unknown org skipped)", len(breach.Sites))
	}
	if len(breach.ImpactedAreas) != 1 || len(breach.Categories) != 1 {
		t.Errorf("breach classification incomplete: %+v", breach)
	}
}
