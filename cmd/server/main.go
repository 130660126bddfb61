package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"noteflow/internal/categorize"
	"noteflow/internal/config"
	"noteflow/internal/handler"
	"noteflow/internal/intake"
	"noteflow/internal/port"
	"noteflow/internal/repository/postgres"
	"noteflow/internal/router"
	"noteflow/internal/service"
	s3storage "noteflow/internal/storage/s3"
	"noteflow/internal/textextract"
	"noteflow/internal/understanding"
	"noteflow/internal/understanding/claude"
	"noteflow/internal/understanding/openai"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	therapistRepo := postgres.NewTherapistRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	appointmentRepo := postgres.NewAppointmentRepo(db)
	noteRepo := postgres.NewSessionNoteRepo(db)
	documentRepo := postgres.NewDocumentRepo(db)
	jobRepo := postgres.NewImportJobRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the text-understanding stack
	understander, err := buildUnderstander(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize understanding providers: %w", err)
	}

	// Initialize pipeline components
	segmenter := intake.NewSegmenter(cfg.Intake.MinChunkChars)
	extractor := intake.NewExtractor(understander, cfg.Intake.MaxSectionChars)
	resolver := intake.NewResolver(cfg.Intake.FuzzyMatchThreshold)
	linker := intake.NewLinker(appointmentRepo, cfg.Intake.LinkWindow)
	materializer := intake.NewMaterializer(noteRepo, documentRepo, categorize.NewKeywordCategorizer())
	pipeline := intake.NewPipeline(segmenter, extractor, resolver, linker, materializer, clientRepo, cfg.Intake.Concurrency)

	extractClient := textextract.NewClient(&cfg.Extractor, s3Client)

	// Initialize services
	intakeSvc := service.NewIntakeService(therapistRepo, extractClient, pipeline, jobRepo)

	// Initialize handlers
	intakeH := handler.NewIntakeHandler(intakeSvc)
	clientH := handler.NewClientHandler(clientRepo)
	notesH := handler.NewNotesHandler(clientRepo, noteRepo)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(intakeH, clientH, notesH, healthH, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background import worker
	worker := service.NewImportQueueWorker(jobRepo, intakeSvc, service.ImportQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}

// buildUnderstander wires the configured providers behind the fallback chain.
func buildUnderstander(cfg *config.Config) (port.SessionUnderstander, error) {
	understanding.RegisterProvider("openai", func(c *config.UnderstandingProviderConfig) (port.SessionUnderstander, error) {
		return openai.NewUnderstander(c), nil
	})
	understanding.RegisterProvider("claude", func(c *config.UnderstandingProviderConfig) (port.SessionUnderstander, error) {
		return claude.NewUnderstander(c), nil
	})

	primary, err := understanding.NewUnderstander(&cfg.Understanding.Primary)
	if err != nil {
		return nil, err
	}

	understanders := []port.SessionUnderstander{primary}
	names := []string{cfg.Understanding.Primary.Provider}

	if secondary := cfg.Understanding.SecondaryConfig(); secondary != nil {
		u, err := understanding.NewUnderstander(secondary)
		if err != nil {
			return nil, err
		}
		understanders = append(understanders, u)
		names = append(names, secondary.Provider)
	}

	return understanding.NewFallbackUnderstander(understanders, names), nil
}
