package services

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ctis-scraper/ctis"
	"ctis-scraper/models"
)

// Normalizer zerlegt ein CTIS-Detail-Dokument in den relationalen
// Studien-Graphen und fügt ihn per get-or-create in die Datenbank ein.
// Geteilte Entitäten (Sponsoren, Standorte, Produkte, ...) werden über ihre
// natürlichen Schlüssel dedupliziert, Kanten innerhalb einer Studie nie
// doppelt angelegt.
type Normalizer struct {
	Logger *zap.Logger
	duties map[string]string
}

// NewNormalizer erstellt einen Normalizer mit der eingebetteten
// Decodierungstabelle.
func NewNormalizer(logger *zap.Logger) (*Normalizer, error) {
	d, err := loadDecodings()
	if err != nil {
		return nil, err
	}
	return &Normalizer{Logger: logger, duties: d.ThirdPartyDuty}, nil
}

// getOrCreate sucht eine Zeile über die cond-Spalten und legt sie mit
// cond+attrs an, wenn sie fehlt. Map-Bedingungen, damit auch Null-Werte im
// Schlüssel greifen.
func getOrCreate[T any](tx *gorm.DB, dest *T, cond map[string]any, attrs map[string]any) error {
	q := tx.Where(cond)
	if len(attrs) > 0 {
		q = q.Attrs(attrs)
	}
	return q.FirstOrCreate(dest).Error
}

// InsertTrialData fügt eine Studie samt aller Unterentitäten und
// Verknüpfungen in die Datenbank ein. Fehlende Pflichtfelder (ct_number,
// org_id, Adresse) brechen die gesamte Studie ab; der Aufrufer entscheidet
// über Commit oder Rollback.
func (n *Normalizer) InsertTrialData(tx *gorm.DB, overview ctis.TrialOverview, full *ctis.FullTrial) error {
	trial, err := n.buildTrial(overview, full)
	if err != nil {
		return err
	}

	// Zuerst einfügen, damit die Kinder eine Trial-ID referenzieren können.
	if err := tx.Create(trial).Error; err != nil {
		return fmt.Errorf("insert trial %s: %w", trial.CTNumber, err)
	}

	if err := n.insertSites(tx, trial, full); err != nil {
		return err
	}
	if err := n.insertTherapeuticAreas(tx, trial, full); err != nil {
		return err
	}
	if err := n.insertConditions(tx, trial, full); err != nil {
		return err
	}
	if err := n.insertSponsors(tx, trial, full); err != nil {
		return err
	}
	if err := n.insertProducts(tx, trial, full); err != nil {
		return err
	}
	if err := n.insertSeriousBreaches(tx, trial, full); err != nil {
		return err
	}
	return nil
}

// buildTrial setzt die Trial-Zeile aus Overview- und Detail-Dokument zusammen.
func (n *Normalizer) buildTrial(overview ctis.TrialOverview, full *ctis.FullTrial) (*models.Trial, error) {
	if overview.CTNumber == "" {
		return nil, errors.New("trial without ctNumber")
	}

	details := full.AuthorizedApplication.AuthorizedPartI.TrialDetails
	duration := details.TrialInformation.TrialDuration

	lastUpdated, err := parseUKDate(overview.LastUpdated)
	if err != nil {
		return nil, err
	}
	decisionDate, err := parseTimestampDate(full.DecisionDate)
	if err != nil {
		return nil, err
	}
	recruitmentStart, err := parseISODate(duration.EstimatedRecruitmentStartDate)
	if err != nil {
		return nil, err
	}
	estimatedEnd, err := parseISODate(duration.EstimatedEndDate)
	if err != nil {
		return nil, err
	}
	startEU, err := parseISODate(full.StartDateEU)
	if err != nil {
		return nil, err
	}
	endEU, err := parseISODate(full.EndDateEU)
	if err != nil {
		return nil, err
	}

	publicStatusCode := ""
	if full.CTPublicStatusCode != 0 {
		publicStatusCode = strconv.Itoa(full.CTPublicStatusCode)
	}

	return &models.Trial{
		Title:                         overview.CTTitle,
		ShortTitle:                    details.ClinicalTrialIdentifiers.ShortTitle,
		CTNumber:                      overview.CTNumber,
		IsTransitioned:                full.AuthorizedApplication.EudraCT.IsTransitioned,
		EudraCTNumber:                 full.AuthorizedApplication.EudraCT.EudraCTCode,
		NCTNumber:                     details.ClinicalTrialIdentifiers.SecondaryIdentifyingNumbers.NCTNumber.Number,
		Status:                        full.CTStatus,
		PublicStatusCode:              publicStatusCode,
		Phase:                         overview.TrialPhase,
		AgeGroup:                      overview.AgeGroup,
		Gender:                        overview.Gender,
		TrialRegion:                   overview.TrialRegion,
		EstimatedRecruitmentStartDate: recruitmentStart,
		DecisionDate:                  decisionDate,
		EstimatedEndDate:              estimatedEnd,
		StartDateEU:                   startEU,
		EndDateEU:                     endEU,
		EstimatedRecruitment:          overview.TotalNumberEnrolled,
		LastUpdatedInCTIS:             lastUpdated,
		CTISURL:                       fmt.Sprintf("https://euclinicaltrials.eu/search-for-clinical-trials/?lang=en&EUCT=%s", overview.CTNumber),
	}, nil
}

// getOrCreateLocation dedupliziert über das volle Adress-Tupel. Der
// Ländername wird zusätzlich zu ISO-Codes aufgelöst; ein fehlgeschlagener
// Lookup ist kein Fehler.
func (n *Normalizer) getOrCreateLocation(tx *gorm.DB, addr ctis.Address) (*models.Location, error) {
	if addr.AddressLine1 == "" {
		return nil, errors.New("location without address line")
	}

	iso2, iso3 := CountryToISOCodes(addr.CountryName)

	var loc models.Location
	err := getOrCreate(tx, &loc,
		map[string]any{
			"address":  addr.AddressLine1,
			"city":     addr.City,
			"postcode": addr.Postcode,
			"country":  addr.CountryName,
		},
		map[string]any{
			"country_iso2":      iso2,
			"country_iso3":      iso3,
			"location_one_line": fmt.Sprintf("%s, %s, %s", addr.AddressLine1, addr.City, addr.CountryName),
		})
	if err != nil {
		return nil, fmt.Errorf("get or create location: %w", err)
	}
	return &loc, nil
}

func (n *Normalizer) insertSites(tx *gorm.DB, trial *models.Trial, full *ctis.FullTrial) error {
	seen := make(map[uint]bool)

	for _, part := range full.AuthorizedApplication.AuthorizedPartsII {
		for _, siteInfo := range part.TrialSites {
			info := siteInfo.OrganisationAddressInfo
			if info.Organisation.BusinessKey == "" {
				return fmt.Errorf("site without org id in trial %s", trial.CTNumber)
			}

			loc, err := n.getOrCreateLocation(tx, info.Address)
			if err != nil {
				return err
			}

			var site models.Site
			err = getOrCreate(tx, &site,
				map[string]any{"org_id": info.Organisation.BusinessKey},
				map[string]any{
					"name":        info.Organisation.Name,
					"type":        info.Organisation.Type,
					"commercial":  info.Organisation.Commercial,
					"phone":       info.Phone,
					"email":       info.Email,
					"location_id": loc.ID,
				})
			if err != nil {
				return fmt.Errorf("get or create site: %w", err)
			}

			if !seen[site.ID] {
				if err := tx.Model(trial).Association("Sites").Append(&site); err != nil {
					return fmt.Errorf("link site to trial: %w", err)
				}
				seen[site.ID] = true
			}
		}
	}
	return nil
}

func (n *Normalizer) insertTherapeuticAreas(tx *gorm.DB, trial *models.Trial, full *ctis.FullTrial) error {
	seen := make(map[uint]bool)

	for _, ta := range full.AuthorizedApplication.AuthorizedPartI.TherapeuticAreas {
		if ta.Name == "" {
			continue
		}
		var row models.TherapeuticArea
		if err := getOrCreate(tx, &row, map[string]any{"name": ta.Name}, nil); err != nil {
			return fmt.Errorf("get or create therapeutic area: %w", err)
		}
		if !seen[row.ID] {
			if err := tx.Model(trial).Association("TherapeuticAreas").Append(&row); err != nil {
				return fmt.Errorf("link therapeutic area to trial: %w", err)
			}
			seen[row.ID] = true
		}
	}
	return nil
}

func (n *Normalizer) insertConditions(tx *gorm.DB, trial *models.Trial, full *ctis.FullTrial) error {
	seen := make(map[uint]bool)
	conditions := full.AuthorizedApplication.AuthorizedPartI.TrialDetails.TrialInformation.MedicalCondition.PartIMedicalConditions

	for _, cond := range conditions {
		if cond.MedicalCondition == "" {
			continue
		}
		var row models.Condition
		if err := getOrCreate(tx, &row, map[string]any{"name": cond.MedicalCondition}, nil); err != nil {
			return fmt.Errorf("get or create condition: %w", err)
		}
		if !seen[row.ID] {
			if err := tx.Model(trial).Association("Conditions").Append(&row); err != nil {
				return fmt.Errorf("link condition to trial: %w", err)
			}
			seen[row.ID] = true
		}
	}
	return nil
}

func (n *Normalizer) insertSponsors(tx *gorm.DB, trial *models.Trial, full *ctis.FullTrial) error {
	seenThirdParties := make(map[uint]bool)
	seenDuties := make(map[[2]uint]bool)

	for _, sponsor := range full.AuthorizedApplication.AuthorizedPartI.Sponsors {
		if sponsor.Organisation.BusinessKey == "" {
			return fmt.Errorf("sponsor without org id in trial %s", trial.CTNumber)
		}

		var sponsorRow models.Sponsor
		err := getOrCreate(tx, &sponsorRow,
			map[string]any{"org_id": sponsor.Organisation.BusinessKey},
			map[string]any{
				"name": sponsor.Organisation.Name,
				"type": sponsor.Organisation.Type,
			})
		if err != nil {
			return fmt.Errorf("get or create sponsor: %w", err)
		}

		// Die Primärsponsor-Rolle liegt auf der Kante, nicht auf dem Sponsor.
		var edge models.TrialSponsor
		err = getOrCreate(tx, &edge,
			map[string]any{"trial_id": trial.ID, "sponsor_id": sponsorRow.ID},
			map[string]any{"is_primary": sponsor.Primary})
		if err != nil {
			return fmt.Errorf("link sponsor to trial: %w", err)
		}

		for _, tp := range sponsor.ThirdParties {
			org := tp.OrganisationAddress.Organisation
			if org.BusinessKey == "" {
				return fmt.Errorf("third party without org id in trial %s", trial.CTNumber)
			}

			loc, err := n.getOrCreateLocation(tx, tp.OrganisationAddress.Address)
			if err != nil {
				return err
			}

			var tpRow models.ThirdParty
			err = getOrCreate(tx, &tpRow,
				map[string]any{"org_id": org.BusinessKey},
				map[string]any{
					"name":          org.Name,
					"type":          org.Type,
					"is_commercial": org.Commercial,
					"location_id":   loc.ID,
				})
			if err != nil {
				return fmt.Errorf("get or create third party: %w", err)
			}

			if !seenThirdParties[tpRow.ID] {
				if err := tx.Model(trial).Association("ThirdParties").Append(&tpRow); err != nil {
					return fmt.Errorf("link third party to trial: %w", err)
				}
				seenThirdParties[tpRow.ID] = true
			}

			for _, duty := range tp.SponsorDuties {
				name, err := DecodeDuty(duty, n.duties)
				if err != nil {
					return fmt.Errorf("trial %s: %w", trial.CTNumber, err)
				}

				var dutyRow models.Duty
				if err := getOrCreate(tx, &dutyRow, map[string]any{"code": duty.Code, "name": name}, nil); err != nil {
					return fmt.Errorf("get or create duty: %w", err)
				}

				key := [2]uint{tpRow.ID, dutyRow.ID}
				if !seenDuties[key] {
					if err := tx.Model(&tpRow).Association("Duties").Append(&dutyRow); err != nil {
						return fmt.Errorf("link duty to third party: %w", err)
					}
					seenDuties[key] = true
				}
			}
		}
	}
	return nil
}

func (n *Normalizer) insertProducts(tx *gorm.DB, trial *models.Trial, full *ctis.FullTrial) error {
	seenProducts := make(map[uint]bool)
	seenSubstances := make(map[[2]uint]bool)
	seenRoutes := make(map[[2]uint]bool)

	for _, product := range full.AuthorizedApplication.AuthorizedPartI.Products {
		dict := product.ProductDictionaryInfo

		// CTIS liefert keinen stabilen Produktschlüssel; dedupliziert wird
		// über sämtliche beschreibenden Felder.
		var productRow models.Product
		err := getOrCreate(tx, &productRow,
			map[string]any{
				"name":                        product.ProductName,
				"active_substance":            dict.ActiveSubstanceName,
				"name_org":                    dict.NameOrg,
				"pharmaceutical_form_display": product.PharmaceuticalFormDisplay,
				"is_paediatric_formulation":   product.IsPaediatricFormulation,
				"role_in_trial_code":          product.MPRoleInTrial,
				"orphan_drug":                 product.OrphanDrugEdit,
				"ev_code":                     product.EVCode,
				"eu_mp_number":                dict.EUMPNumber,
				"sponsor_product_code":        dict.SponsorProductCode,
			}, nil)
		if err != nil {
			return fmt.Errorf("get or create product: %w", err)
		}

		if !seenProducts[productRow.ID] {
			if err := tx.Model(trial).Association("Products").Append(&productRow); err != nil {
				return fmt.Errorf("link product to trial: %w", err)
			}
			seenProducts[productRow.ID] = true
		}

		for _, substance := range dict.ProductSubstances {
			var substanceRow models.Substance
			err := getOrCreate(tx, &substanceRow,
				map[string]any{
					"name":                 substance.ActSubstName,
					"ev_code":              substance.SubstanceEVCode,
					"substance_origin":     substance.SubstanceOrigin,
					"act_substance_origin": substance.ActSubstOrigin,
					"product_pk":           substance.ProductPK,
					"substance_pk":         substance.SubstancePK,
				}, nil)
			if err != nil {
				return fmt.Errorf("get or create substance: %w", err)
			}

			key := [2]uint{productRow.ID, substanceRow.ID}
			if !seenSubstances[key] {
				if err := tx.Model(&productRow).Association("Substances").Append(&substanceRow); err != nil {
					return fmt.Errorf("link substance to product: %w", err)
				}
				seenSubstances[key] = true
			}
		}

		for _, route := range product.Routes {
			if route == "" {
				continue
			}
			var routeRow models.AdministrationRoute
			if err := getOrCreate(tx, &routeRow, map[string]any{"name": route}, nil); err != nil {
				return fmt.Errorf("get or create administration route: %w", err)
			}

			key := [2]uint{productRow.ID, routeRow.ID}
			if !seenRoutes[key] {
				if err := tx.Model(&productRow).Association("AdministrationRoutes").Append(&routeRow); err != nil {
					return fmt.Errorf("link administration route to product: %w", err)
				}
				seenRoutes[key] = true
			}
		}
	}
	return nil
}

func (n *Normalizer) insertSeriousBreaches(tx *gorm.DB, trial *models.Trial, full *ctis.FullTrial) error {
	for _, sb := range full.Events.SeriousBreaches {
		awareDate, err := parseISODate(sb.AwareDate)
		if err != nil {
			return err
		}
		breachDate, err := parseISODate(sb.BreachDate)
		if err != nil {
			return err
		}
		submissionDate, err := parseISODate(sb.SubmissionDate)
		if err != nil {
			return err
		}
		updatedOn, err := parseISODate(sb.UpdatedOn)
		if err != nil {
			return err
		}

		sbRow := models.SeriousBreach{
			AwareDate:                 awareDate,
			BreachDate:                breachDate,
			SubmissionDate:            submissionDate,
			UpdatedOn:                 updatedOn,
			Description:               sb.Description,
			ActionsTaken:              sb.ActionsTaken,
			BenefitRiskBalanceChanged: sb.IsBenefitRiskBalanceChanged,
			TrialID:                   trial.ID,
		}
		if err := tx.Create(&sbRow).Error; err != nil {
			return fmt.Errorf("insert serious breach: %w", err)
		}

		seenAreas := make(map[uint]bool)
		for _, area := range sb.ImpactedAreaList {
			if area == "" {
				continue
			}
			var areaRow models.ImpactedArea
			if err := getOrCreate(tx, &areaRow, map[string]any{"name": area}, nil); err != nil {
				return fmt.Errorf("get or create impacted area: %w", err)
			}
			if !seenAreas[areaRow.ID] {
				if err := tx.Model(&sbRow).Association("ImpactedAreas").Append(&areaRow); err != nil {
					return fmt.Errorf("link impacted area to breach: %w", err)
				}
				seenAreas[areaRow.ID] = true
			}
		}

		seenCategories := make(map[uint]bool)
		for _, category := range sb.Categories {
			if category.Name == "" {
				continue
			}
			var categoryRow models.Category
			if err := getOrCreate(tx, &categoryRow, map[string]any{"name": category.Name}, nil); err != nil {
				return fmt.Errorf("get or create category: %w", err)
			}
			if !seenCategories[categoryRow.ID] {
				if err := tx.Model(&sbRow).Association("Categories").Append(&categoryRow); err != nil {
					return fmt.Errorf("link category to breach: %w", err)
				}
				seenCategories[categoryRow.ID] = true
			}
		}

		// Best-Effort-Join: Verstoß-Standorte werden über die org_id bereits
		// bekannter Sites aufgelöst; ohne Treffer wird die Kante ausgelassen.
		seenSites := make(map[uint]bool)
		for _, sbSite := range sb.SeriousBreachSites {
			orgID := sbSite.OrganisationAddressInfo.BusinessKey
			if orgID == "" {
				continue
			}

			var site models.Site
			err := tx.Where("org_id = ?", orgID).First(&site).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				n.Logger.Warn("Kein Site-Treffer für Verstoß-Standort",
					zap.String("ct_number", trial.CTNumber),
					zap.String("org_id", orgID))
				continue
			}
			if err != nil {
				return fmt.Errorf("lookup breach site: %w", err)
			}

			if !seenSites[site.ID] {
				if err := tx.Model(&sbRow).Association("Sites").Append(&site); err != nil {
					return fmt.Errorf("link site to breach: %w", err)
				}
				seenSites[site.ID] = true
			}
		}
	}
	return nil
}
