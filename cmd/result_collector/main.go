// Responsible for storing evaluation results broadcast by the compliance API
// and rolling the compliance aggregates.
// Depends on the compliance API being online.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ratertools/air_compliance_engine/pkg/aggregator"
	"github.com/ratertools/air_compliance_engine/pkg/config"
	"github.com/ratertools/air_compliance_engine/pkg/pathing"
	"github.com/ratertools/air_compliance_engine/pkg/resultfeed"
	"github.com/ratertools/air_compliance_engine/pkg/testdb"
)

func main() {
	// Load config
	if err := config.LoadResultCollectorConfig(); err != nil {
		log.Fatalf("Failed to load result collector config: %v", err)
	}

	// Initialize database
	testdb.InitializeDatabase(pathing.GetResultsDbPath())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Periodic aggregation in the background
	intervalHours := config.ActiveResultCollectorConfig.AggregateIntervalHours
	if intervalHours < 1 {
		intervalHours = 1
	}
	go func() {
		ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := aggregator.AggregateAndCleanup(); err != nil {
					log.Printf("Aggregation failed: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Subscribe to the evaluation feed with revive until interrupted
	resultfeed.StartListener(
		ctx,
		config.ActiveResultCollectorConfig.ComplianceAPIHost,
		config.ActiveResultCollectorConfig.TLSEnabled,
		handleEnvelope,
	)
}

// Persist each evaluation envelope as it arrives
func handleEnvelope(envelope *resultfeed.Envelope) {
	recordedAt, err := time.Parse(time.RFC3339, envelope.RecordedAt)
	if err != nil {
		log.Printf("Envelope %s has bad timestamp %q, using receipt time", envelope.ID, envelope.RecordedAt)
		recordedAt = time.Now().UTC()
	}

	record := &testdb.EvaluationRecord{
		ID:         envelope.ID,
		Kind:       string(envelope.Kind),
		RecordedAt: recordedAt.Unix(),
		TestJson:   string(envelope.Test),
		ResultJson: string(envelope.Result),
		Compliant:  envelope.Compliant,
	}
	if err := testdb.InsertEvaluation(record); err != nil {
		log.Printf("Failed to store evaluation %s: %v", envelope.ID, err)
		return
	}
	log.Printf("Stored %s evaluation %s (compliant=%t)", envelope.Kind, envelope.ID, envelope.Compliant)
}
