package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"farmfund/grant-matcher/internal/config"
	"farmfund/grant-matcher/internal/logger"
	"farmfund/grant-matcher/internal/models"
	"farmfund/grant-matcher/internal/repositories"
	"farmfund/grant-matcher/internal/services"
)

// Seeds a starter grant catalog into Postgres and indexes it into Qdrant.
// Run once against an empty database:
//
//	go run ./scripts
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	grantRepo := repositories.NewGrantRepository(db)

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, zlog)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	searchService, err := services.NewSearchService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
		grantRepo,
		zlog,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Qdrant: %v", err)
	}
	if err := searchService.InitCollection(); err != nil {
		log.Fatalf("Failed to initialize collection: %v", err)
	}

	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, grant := range starterGrants() {
		log.Printf("Seeding: %s", grant.Title)

		if err := grantRepo.Upsert(grant); err != nil {
			log.Printf("  upsert failed: %v", err)
			failCount++
			continue
		}

		if err := searchService.IndexGrant(ctx, grant); err != nil {
			log.Printf("  index failed: %v", err)
			failCount++
			continue
		}
		successCount++
	}

	log.Printf("Done: %d seeded, %d failed", successCount, failCount)
}

func starterGrants() []*models.Grant {
	deadline := func(months int) *time.Time {
		t := time.Now().AddDate(0, months, 0)
		return &t
	}
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }

	return []*models.Grant{
		{
			ID:       uuid.New(),
			SourceID: "usda-eqip-2026",
			Title:    "Environmental Quality Incentives Program",
			Status:   models.GrantOpen,
			Agency:   "USDA NRCS",
			Summary:  "Cost-share assistance for conservation practices on working agricultural land, including irrigation efficiency and soil health improvements.",
			States:   []string{models.StateWildcard},
			Goals:    []models.FundingGoal{models.GoalConservation, models.GoalIrrigation},
			Rolling:  true,
		},
		{
			ID:        uuid.New(),
			SourceID:  "ca-sweep-2026",
			Title:     "State Water Efficiency and Enhancement Program",
			Status:    models.GrantOpen,
			Agency:    "CDFA",
			Summary:   "Grants for irrigation system upgrades and on-farm water distribution improvements that save water and energy.",
			States:    []string{"CA"},
			Goals:     []models.FundingGoal{models.GoalIrrigation, models.GoalEnergy, models.GoalEquipment},
			AmountMax: f(200000),
			Deadline:  deadline(4),
		},
		{
			ID:        uuid.New(),
			SourceID:  "ca-orchard-renewal-2026",
			Title:     "Orchard and Vineyard Renewal Grant",
			Status:    models.GrantOpen,
			Agency:    "CDFA",
			Summary:   "Replanting and equipment support for small orchard and vineyard operations recovering from drought damage.",
			States:    []string{"CA"},
			FarmTypes: []models.FarmType{models.FarmTypeOrchard, models.FarmTypeVineyard},
			Goals:     []models.FundingGoal{models.GoalEquipment, models.GoalExpansion},
			MinAcres:  f(10),
			MaxAcres:  f(500),
			Deadline:  deadline(6),
		},
		{
			ID:            uuid.New(),
			SourceID:      "usda-vapg-2026",
			Title:         "Value-Added Producer Grant",
			Status:        models.GrantOpen,
			Agency:        "USDA Rural Development",
			Summary:       "Working capital and planning funds for producers marketing value-added agricultural products.",
			States:        []string{models.StateWildcard},
			OperatorTypes: []models.OperatorType{models.OperatorIndividual},
			Goals:         []models.FundingGoal{models.GoalMarketing, models.GoalExpansion},
			MaxEmployees:  i(25),
			Deadline:      deadline(3),
		},
		{
			ID:        uuid.New(),
			SourceID:  "usda-organic-cost-share-2026",
			Title:     "Organic Certification Cost Share Program",
			Status:    models.GrantOpen,
			Agency:    "USDA FSA",
			Summary:   "Reimburses a share of organic certification costs for crop and livestock operations.",
			States:    []string{models.StateWildcard},
			Goals:     []models.FundingGoal{models.GoalOrganicCert},
			AmountMax: f(750),
			Rolling:   true,
		},
		{
			ID:        uuid.New(),
			SourceID:  "tx-young-farmer-2026",
			Title:     "Texas Young Farmer Grant",
			Status:    models.GrantOpen,
			Agency:    "Texas Department of Agriculture",
			Summary:   "Dollar-for-dollar matching grants to young agricultural producers for equipment and infrastructure.",
			States:    []string{"TX"},
			Goals:     []models.FundingGoal{models.GoalEquipment, models.GoalInfra},
			AmountMin: f(5000),
			AmountMax: f(20000),
			Deadline:  deadline(2),
		},
	}
}
