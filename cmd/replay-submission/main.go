// Command replay-submission re-sends a stored submission's verbatim request
// payload to the provider as a brand new submission.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"insurance-lead-api/config"
	"insurance-lead-api/models"
	"insurance-lead-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var id string
	flag.StringVar(&id, "id", "", "local reference id of the submission to replay")
	flag.Parse()

	if id == "" {
		log.Fatal("-id is required")
	}

	providerCfg, err := config.LoadProviderConfig()
	if err != nil {
		log.Fatalf("invalid provider configuration: %v", err)
	}

	store := services.NewGormSubmissionStore(nil)
	client := services.NewProviderClient(providerCfg, nil)
	pipeline := services.NewSubmissionPipeline(store, client, providerCfg)

	// The process exits right after the call, so the terminal-state write
	// must happen inline.
	pipeline.SynchronousReconcile()

	ctx := context.Background()

	rec, err := store.Get(ctx, id)
	if err != nil {
		log.Fatalf("load submission %s: %v", id, err)
	}

	switch rec.Kind {
	case models.SubmissionKindQuote:
		var req models.QuickQuoteRequest
		if err := json.Unmarshal(rec.RequestPayload, &req); err != nil {
			log.Fatalf("decode stored quote payload: %v", err)
		}
		result, err := pipeline.SubmitQuote(ctx, &req)
		if err != nil {
			log.Fatalf("replay failed: %v", err)
		}
		fmt.Printf("Replayed quote %s as %s\n", id, result.LocalRecordID)
		fmt.Printf("Provider reference: %s, results: %d\n", result.ProviderReferenceID, len(result.Results))

	case models.SubmissionKindLead:
		var req models.LeadTransferRequest
		if err := json.Unmarshal(rec.RequestPayload, &req); err != nil {
			log.Fatalf("decode stored lead payload: %v", err)
		}
		result, err := pipeline.SubmitLead(ctx, &req)
		if err != nil {
			log.Fatalf("replay failed: %v", err)
		}
		fmt.Printf("Replayed lead %s as %s\n", id, result.LocalRecordID)
		fmt.Printf("Provider uuid: %s, redirect: %s\n", result.ProviderUUID, result.RedirectURL)

	default:
		log.Fatalf("submission %s has unknown kind %q", id, rec.Kind)
	}
}
