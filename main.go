package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ctis-scraper/config"
	"ctis-scraper/ctis"
	"ctis-scraper/database"
	"ctis-scraper/geocode"
	"ctis-scraper/models"
	"ctis-scraper/services"
)

var (
	trialsScrapedCounter     prometheus.Counter
	locationsGeocodedCounter prometheus.Counter
)

func init() {
	trialsScrapedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trials_scraped_total",
			Help: "Total number of trials inserted by scrape runs.",
		},
	)
	locationsGeocodedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "locations_geocoded_total",
			Help: "Total number of locations resolved to coordinates.",
		},
	)
	prometheus.MustRegister(trialsScrapedCounter, locationsGeocodedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := database.Open(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.", zap.String("environment", cfg.Environment))

	logging.Info("Running database auto-migration...")
	if err := database.Migrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Setup Services
	normalizer, err := services.NewNormalizer(logging)
	if err != nil {
		logging.Fatal("Normalizer creation failed", zap.Error(err))
	}
	scraper := services.NewScraper(db, ctis.NewFetcher(cfg, logging), normalizer, logging)
	enricher := services.NewEnricher(db, geocode.NewFetcher(cfg, logging), logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup Routes
	setupTrialRoutes(router, db, logging)
	setupLocationRoutes(router, db, logging)
	setupUpdateHistoryRoutes(router, db, logging)
	setupJobRoutes(router, scraper, enricher, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled scrape job...")
		count, err := scraper.Run()
		if err != nil {
			logging.Error("Cron job failed", zap.Error(err))
			return
		}
		trialsScrapedCounter.Add(float64(count))
		logging.Info("Cron job completed", zap.Int("trials", count))

		resolved, unresolved, err := enricher.UpdateLocationCoordinates()
		if err != nil {
			logging.Error("Scheduled geocoding failed", zap.Error(err))
			return
		}
		locationsGeocodedCounter.Add(float64(resolved))
		logging.Info("Scheduled geocoding completed",
			zap.Int("resolved", resolved), zap.Int("unresolved", unresolved))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupTrialRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/trials")

	// Einfacher GET-Endpunkt, um alle Studien abzurufen (ohne Filter)
	rg.GET("/", func(c *gin.Context) {
		var trials []models.Trial
		if err := db.Find(&trials).Error; err != nil {
			log.Error("Database query for all trials failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, trials)
	})

	// Body-gesteuerter Endpunkt für komplexe Abfragen
	rg.POST("/query", func(c *gin.Context) {
		type TrialQuery struct {
			Status           string `json:"status"`
			Phase            string `json:"phase"`
			AgeGroup         string `json:"age_group"`
			Condition        string `json:"condition"`
			Country          string `json:"country"`
			TherapeuticArea  string `json:"therapeutic_area"`
			DecisionDateFrom string `json:"decision_date_from"`
			DecisionDateTo   string `json:"decision_date_to"`
			Limit            int    `json:"limit"`
		}

		var req TrialQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		query := db.Model(&models.Trial{})

		if req.Status != "" {
			query = query.Where("status = ?", req.Status)
		}
		if req.Phase != "" {
			query = query.Where("phase = ?", req.Phase)
		}
		if req.AgeGroup != "" {
			query = query.Where("age_group = ?", req.AgeGroup)
		}
		if req.Condition != "" {
			query = query.
				Joins("JOIN trial_conditions tc ON tc.trial_id = trials.id").
				Joins("JOIN conditions cond ON cond.id = tc.condition_id").
				Where("cond.name = ?", req.Condition)
		}
		if req.Country != "" {
			query = query.
				Joins("JOIN trial_sites ts ON ts.trial_id = trials.id").
				Joins("JOIN sites s ON s.id = ts.site_id").
				Joins("JOIN locations l ON l.id = s.location_id").
				Where("l.country = ? OR l.country_iso2 = ?", req.Country, req.Country).
				Distinct("trials.*")
		}
		if req.TherapeuticArea != "" {
			query = query.
				Joins("JOIN trial_therapeutic_areas tta ON tta.trial_id = trials.id").
				Joins("JOIN therapeutic_areas ta ON ta.id = tta.therapeutic_area_id").
				Where("ta.name = ?", req.TherapeuticArea)
		}
		if req.DecisionDateFrom != "" {
			query = query.Where("decision_date >= ?", req.DecisionDateFrom)
		}
		if req.DecisionDateTo != "" {
			query = query.Where("decision_date <= ?", req.DecisionDateTo)
		}
		if req.Limit > 0 {
			query = query.Limit(req.Limit)
		}

		var trials []models.Trial
		if err := query.Order("decision_date desc").Find(&trials).Error; err != nil {
			log.Error("Database query for trials failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, trials)
	})

	// GET - Volle Studie inklusive aller Relationen
	rg.GET("/:ctNumber", func(c *gin.Context) {
		ctNumber := c.Param("ctNumber")

		var trial models.Trial
		err := db.
			Preload("Sponsors").
			Preload("ThirdParties.Location").
			Preload("ThirdParties.Duties").
			Preload("Conditions").
			Preload("Sites.Location").
			Preload("Products.Substances").
			Preload("Products.AdministrationRoutes").
			Preload("TherapeuticAreas").
			Preload("SeriousBreaches.ImpactedAreas").
			Preload("SeriousBreaches.Categories").
			Preload("SeriousBreaches.Sites").
			Where("ct_number = ?", ctNumber).
			First(&trial).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "trial not found"})
				return
			}
			log.Error("DB error fetching trial", zap.String("ct_number", ctNumber), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, trial)
	})
}

func setupLocationRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/locations")

	rg.GET("/", func(c *gin.Context) {
		var locations []models.Location
		if err := db.Find(&locations).Error; err != nil {
			log.Error("Database query for locations failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, locations)
	})

	// Nur Standorte mit aufgelösten Koordinaten, z.B. für Karten-Frontends
	rg.GET("/geocoded", func(c *gin.Context) {
		var locations []models.Location
		if err := db.Where("geocodeable = ?", true).Find(&locations).Error; err != nil {
			log.Error("Database query for geocoded locations failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, locations)
	})
}

func setupUpdateHistoryRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/update-history")

	rg.GET("/", func(c *gin.Context) {
		var history []models.UpdateHistory
		if err := db.Order("update_time desc").Find(&history).Error; err != nil {
			log.Error("Database query for update history failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, history)
	})
}

func setupJobRoutes(router *gin.Engine, scraper *services.Scraper, enricher *services.Enricher, log *zap.Logger) {
	router.POST("/scrape/trigger", func(c *gin.Context) {
		go func() {
			count, err := scraper.Run()
			if err != nil {
				log.Error("Async scrape run failed", zap.Error(err))
				return
			}
			trialsScrapedCounter.Add(float64(count))
			log.Info("Async scrape run completed", zap.Int("trials", count))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Scrape run triggered."})
	})

	router.POST("/geocode/trigger", func(c *gin.Context) {
		go func() {
			resolved, unresolved, err := enricher.UpdateLocationCoordinates()
			if err != nil {
				log.Error("Async geocoding run failed", zap.Error(err))
				return
			}
			locationsGeocodedCounter.Add(float64(resolved))
			log.Info("Async geocoding run completed",
				zap.Int("resolved", resolved), zap.Int("unresolved", unresolved))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Geocoding run triggered."})
	})
}
