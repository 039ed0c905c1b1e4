package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"bolagsbron/pkg/api/config"
	"bolagsbron/pkg/api/diligence"
	apiEngagement "bolagsbron/pkg/api/engagement"
	"bolagsbron/pkg/api/enrich"
	"bolagsbron/pkg/api/listing"
	"bolagsbron/pkg/api/loi"
	"bolagsbron/pkg/api/nda"
	"bolagsbron/pkg/api/qa"
	"bolagsbron/pkg/api/report"
	"bolagsbron/pkg/api/valuation"
	"bolagsbron/pkg/core/agent"
	"bolagsbron/pkg/core/engagement"
	"bolagsbron/pkg/core/store"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Database is optional: without DATABASE_URL the service still serves
	// valuations, it just never persists anything.
	var db *store.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		ctx := context.Background()
		var err error
		db, err = store.New(ctx, dbURL)
		if err != nil {
			fmt.Printf("[WARNING] Database unavailable, running without persistence: %v\n", err)
			db = nil
		} else {
			defer db.Close()
			if err := db.EnsureSchema(ctx); err != nil {
				fmt.Printf("[FATAL] Schema setup failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("[STORE] Connected and schema verified")
		}
	} else {
		fmt.Println("[WARNING] DATABASE_URL not set, running without persistence")
	}

	// Hourly engagement rollups need the database.
	if db != nil {
		sched := engagement.NewScheduler(db)
		if err := sched.RegisterAll(); err != nil {
			fmt.Printf("[FATAL] %v\n", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Config endpoints
	config.InitHandler(agentMgr)
	http.HandleFunc("/api/config", config.HandleConfig)
	http.HandleFunc("/api/config/switch", config.HandleSwitch)

	// Valuation pipeline
	valuation.InitHandler(agentMgr, db)
	http.HandleFunc("/api/valuation", valuation.HandleValuation)

	// Company enrichment
	enrich.InitHandler()
	http.HandleFunc("/api/enrich", enrich.HandleLookup)

	// Marketplace
	listing.InitHandler(db)
	http.HandleFunc("/api/listings", listing.HandleListings)
	http.HandleFunc("/api/listings/status", listing.HandleStatus)

	nda.InitHandler(db)
	http.HandleFunc("/api/nda/request", nda.HandleRequest)
	http.HandleFunc("/api/nda/sign", nda.HandleSign)

	diligence.InitHandler(db)
	http.HandleFunc("/api/dd/items", diligence.HandleItems)
	http.HandleFunc("/api/dd/status", diligence.HandleStatus)

	loi.InitHandler(db)
	http.HandleFunc("/api/loi", loi.HandleSubmit)
	http.HandleFunc("/api/loi/decision", loi.HandleDecision)

	qa.InitHandler(db)
	http.HandleFunc("/api/qa", qa.HandleQA)
	http.HandleFunc("/api/qa/answer", qa.HandleAnswer)

	apiEngagement.InitHandler(db)
	http.HandleFunc("/api/engagement/events", apiEngagement.HandleEvents)
	http.HandleFunc("/api/engagement/heatmap", apiEngagement.HandleHeatMap)

	report.InitHandler(db)
	http.HandleFunc("/api/reports/valuation", report.HandleValuationReport)
	http.HandleFunc("/api/reports/dd", report.HandleDDReport)
	http.HandleFunc("/api/reports/spa", report.HandleSPADraft)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - GET/POST /api/valuation")
	fmt.Println("  - GET  /api/enrich?orgNumber=")
	fmt.Println("  - GET/POST /api/listings")
	fmt.Println("  - POST /api/nda/request, /api/nda/sign")
	fmt.Println("  - GET/POST /api/dd/items, POST /api/dd/status")
	fmt.Println("  - GET/POST /api/loi, POST /api/loi/decision")
	fmt.Println("  - GET/POST /api/qa, POST /api/qa/answer")
	fmt.Println("  - POST /api/engagement/events, GET /api/engagement/heatmap")
	fmt.Println("  - POST /api/reports/valuation, GET /api/reports/dd, /api/reports/spa")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
