package main

import (
	"context"
	"flag"
	"log"
	"time"

	"eventify/internal/config"
	"eventify/internal/database"
	"eventify/internal/external"
	"eventify/internal/logger"
	"eventify/internal/repository"
	"eventify/internal/search"
	"eventify/internal/service"
)

// reconcile cleans up drift: vendor assignments orphaned by a departed
// organizer, pending settlements that never received a processor callback,
// and a vendor search index that missed writes. Safe to run repeatedly;
// already-resolved payments are skipped and index writes are upserts.
func main() {
	var (
		olderThan = flag.Duration("older-than", 15*time.Minute, "only reconcile payments pending longer than this")
		timeout   = flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repos := repository.NewRepositories(db)
	settlementClient := external.NewSettlementClient(cfg.Settlement)
	services := service.NewServices(repos, nil, settlementClient, nil, nil, nil, cfg.JWTSecret)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Assignments on events whose organizer left or was never accepted are
	// invisible anyway; drop the rows so the ledger matches what vendors see
	cleared, err := repos.Assignments.ClearOrphaned(ctx)
	if err != nil {
		log.Fatalf("Failed to clear orphaned assignments: %v", err)
	}
	if cleared > 0 {
		log.Printf("Cleared %d orphaned vendor assignments", cleared)
	}

	// Rebuild the vendor directory index from the source of truth, so writes
	// the API missed while Elasticsearch was down are repaired
	if cfg.Elasticsearch.Enabled {
		if esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch); err != nil {
			log.Printf("Elasticsearch unavailable, skipping vendor re-index: %v", err)
		} else {
			vendors, err := repos.Users.ListVendors(ctx, "", "")
			if err != nil {
				log.Fatalf("Failed to list vendors: %v", err)
			}
			indexed := 0
			for i := range vendors {
				if err := esClient.IndexVendor(ctx, &vendors[i]); err != nil {
					log.Printf("Failed to index vendor %d: %v", vendors[i].ID, err)
					continue
				}
				indexed++
			}
			log.Printf("Re-indexed %d of %d vendors", indexed, len(vendors))
		}
	}

	cutoff := time.Now().Add(-*olderThan)
	stale, err := repos.Payments.ListStalePending(ctx, cutoff)
	if err != nil {
		log.Fatalf("Failed to list stale payments: %v", err)
	}

	log.Printf("Reconciling %d stale pending payments", len(stale))

	var resolved, failed int
	for _, payment := range stale {
		if payment.TransactionID == nil {
			continue
		}

		result, err := services.Payments.ManualVerify(ctx, *payment.TransactionID)
		if err != nil {
			failed++
			log.Printf("Failed to reconcile payment %d (intent %s): %v",
				payment.ID, *payment.TransactionID, err)
			continue
		}
		if result.Status != payment.Status {
			resolved++
			log.Printf("Payment %d moved from %s to %s", payment.ID, payment.Status, result.Status)
		}
	}

	log.Printf("Reconciliation done: %d checked, %d resolved, %d errors",
		len(stale), resolved, failed)
}
