package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/civicgrid/complaint-service/internal/config"
	"github.com/civicgrid/complaint-service/internal/database"
	"github.com/civicgrid/complaint-service/internal/handler"
	"github.com/civicgrid/complaint-service/internal/kafka"
	"github.com/civicgrid/complaint-service/internal/lifecycle"
	"github.com/civicgrid/complaint-service/internal/ml"
	"github.com/civicgrid/complaint-service/internal/router"
	"github.com/civicgrid/complaint-service/internal/routing"
	"github.com/civicgrid/complaint-service/internal/searchindex"
	"github.com/civicgrid/complaint-service/internal/service"
)

// API wires the HTTP server for the api mode.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
}

// LoadEngine loads the classification artifact and builds the routing
// engine. A load failure is logged, not fatal: the engine runs degraded and
// routes everything to manual triage until the artifact is fixed.
func LoadEngine(cfg *config.Config) *routing.Engine {
	artifact, err := ml.Load(cfg.ModelDir)
	if err != nil {
		log.Printf("ml: model unavailable, running degraded (%v)", err)
		return routing.NewEngine(nil, cfg.ConfidenceThreshold)
	}
	log.Printf("ml: loaded artifact from %s (%d features, %d classes, %d trees)",
		cfg.ModelDir, artifact.Vectorizer.Dimension(), artifact.Forest.NumClasses, len(artifact.Forest.Trees))
	return routing.NewEngine(artifact, cfg.ConfidenceThreshold)
}

// PriorityConfig builds the priority tunables, applying env overrides on top
// of the shipped defaults.
func PriorityConfig(cfg *config.Config) lifecycle.PriorityConfig {
	pc := lifecycle.DefaultPriorityConfig()
	if cfg.PriorityDecayPerDay > 0 {
		pc.DecayPerDay = cfg.PriorityDecayPerDay
	}
	if cfg.PrioritySeverityWeight > 0 {
		pc.SeverityWeight = cfg.PrioritySeverityWeight
	}
	return pc
}

// NewAPI creates the application for api mode.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	engine := LoadEngine(cfg)
	complaintSvc := service.NewComplaintService(db, engine, PriorityConfig(cfg))
	activitySvc := service.NewActivityService(db)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicComplaint)
	search := searchindex.NewClient(cfg.SearchServiceURL)

	complaints := handler.NewComplaintHandler(complaintSvc, activitySvc, engine, producer, search)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(complaints, engine),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  API v1:        %s/api/v1/", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	return nil
}
