package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/civicgrid/complaint-service/internal/config"
	"github.com/civicgrid/complaint-service/internal/database"
	"github.com/civicgrid/complaint-service/internal/kafka"
	"github.com/civicgrid/complaint-service/internal/model"
	"github.com/civicgrid/complaint-service/internal/searchindex"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var reindexSearchCmd = &cobra.Command{
	Use:   "reindex-search",
	Short: "Reindex all complaints into search. Prefers Kafka; falls back to HTTP if SEARCH_SERVICE_URL set.",
	RunE:  runReindexSearch,
}

func init() {
	rootCmd.AddCommand(reindexSearchCmd)
}

func runReindexSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../../.env") // repo root when running from bin/
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	conn, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}

	var complaints []model.Complaint
	if err := conn.Find(&complaints).Error; err != nil {
		return fmt.Errorf("list complaints: %w", err)
	}
	log.Printf("reindex-search: found %d complaints", len(complaints))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Prefer Kafka, then HTTP
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopicComplaint != "" {
		log.Println("reindex-search: using Kafka for reindexing")
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicComplaint)
		defer producer.Close()
		for i := range complaints {
			producer.ProduceComplaintEvent(ctx, "complaint.updated", kafka.ComplaintPayload(&complaints[i]))
			if (i+1)%50 == 0 || i == len(complaints)-1 {
				log.Printf("reindex-search: sent %d/%d events to Kafka", i+1, len(complaints))
			}
		}
		log.Printf("reindex-search: done, sent %d events to Kafka (search-service worker will index them)", len(complaints))
		return nil
	}
	if cfg.SearchServiceURL != "" {
		log.Println("reindex-search: using HTTP for reindexing")
		client := searchindex.NewClient(cfg.SearchServiceURL)
		for i := range complaints {
			client.IndexComplaint(ctx, &complaints[i])
			if (i+1)%50 == 0 || i == len(complaints)-1 {
				log.Printf("reindex-search: indexed %d/%d", i+1, len(complaints))
			}
		}
		log.Printf("reindex-search: done, indexed %d complaints via HTTP", len(complaints))
		return nil
	}
	log.Println("reindex-search: neither KAFKA_BROKERS nor SEARCH_SERVICE_URL set")
	log.Printf("reindex-search: found %d complaints (not reindexed)", len(complaints))
	return nil
}
