// Command ingest runs the intake pipeline over one or more documents from
// the command line, without going through the HTTP server.
// Usage: go run ./cmd/ingest [-upload] <therapist-uuid> <file-path> [file-path...]
// With -upload, local files are first staged to the configured S3 bucket and
// processed from there.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"noteflow/internal/categorize"
	"noteflow/internal/config"
	"noteflow/internal/intake"
	"noteflow/internal/port"
	"noteflow/internal/repository/postgres"
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
	upload := flag.Bool("upload", false, "stage local files to S3 before processing")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		return fmt.Errorf("usage: ingest [-upload] <therapist-uuid> <file-path> [file-path...]")
	}
	therapistID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid therapist uuid: %w", err)
	}
	files := args[1:]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	therapistRepo := postgres.NewTherapistRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	appointmentRepo := postgres.NewAppointmentRepo(db)
	noteRepo := postgres.NewSessionNoteRepo(db)
	documentRepo := postgres.NewDocumentRepo(db)
	jobRepo := postgres.NewImportJobRepo(db)

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("initializing S3 client: %w", err)
		}
	}

	understanding.RegisterProvider("openai", func(c *config.UnderstandingProviderConfig) (port.SessionUnderstander, error) {
		return openai.NewUnderstander(c), nil
	})
	understanding.RegisterProvider("claude", func(c *config.UnderstandingProviderConfig) (port.SessionUnderstander, error) {
		return claude.NewUnderstander(c), nil
	})
	understander, err := understanding.NewUnderstander(&cfg.Understanding.Primary)
	if err != nil {
		return fmt.Errorf("initializing understanding provider: %w", err)
	}

	segmenter := intake.NewSegmenter(cfg.Intake.MinChunkChars)
	extractor := intake.NewExtractor(understander, cfg.Intake.MaxSectionChars)
	resolver := intake.NewResolver(cfg.Intake.FuzzyMatchThreshold)
	linker := intake.NewLinker(appointmentRepo, cfg.Intake.LinkWindow)
	materializer := intake.NewMaterializer(noteRepo, documentRepo, categorize.NewKeywordCategorizer())
	pipeline := intake.NewPipeline(segmenter, extractor, resolver, linker, materializer, clientRepo, cfg.Intake.Concurrency)

	extractClient := textextract.NewClient(&cfg.Extractor, storage)
	intakeSvc := service.NewIntakeService(therapistRepo, extractClient, pipeline, jobRepo)

	ctx := context.Background()

	if *upload {
		if storage == nil {
			return fmt.Errorf("-upload requires a configured S3 bucket")
		}
		files, err = stageToS3(ctx, storage, cfg.S3.Bucket, files)
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, file := range files {
		result, err := intakeSvc.ProcessDocument(ctx, &service.ProcessDocumentInput{
			TherapistID: therapistID,
			FilePath:    file,
		})
		if err != nil {
			log.Printf("FAILED %s: %v", file, err)
			failed++
			continue
		}

		log.Printf("%s: %d clients (%d matched), %d sessions, %d notes, %d documents, %d errors",
			file, result.TotalClients, result.SuccessfulMatches, result.TotalSessions,
			result.CreatedProgressNotes, result.StoredDocuments, len(result.Errors))
		for _, perr := range result.Errors {
			log.Printf("  [%s] %s: %s", perr.Stage, perr.Client, perr.Message)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(files))
	}
	return nil
}

// stageToS3 uploads each local file under imports/ in the bucket and returns
// the s3:// paths to process instead.
func stageToS3(ctx context.Context, storage port.ObjectStorage, bucket string, files []string) ([]string, error) {
	staged := make([]string, 0, len(files))
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", file, err)
		}

		key := "imports/" + filepath.Base(file)
		contentType := mime.TypeByExtension(filepath.Ext(file))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		out, err := storage.Upload(ctx, port.UploadInput{
			Bucket:      bucket,
			Key:         key,
			Body:        f,
			ContentType: contentType,
		})
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", file, err)
		}

		log.Printf("staged %s to %s", file, out.Location)
		staged = append(staged, fmt.Sprintf("s3://%s/%s", bucket, key))
	}
	return staged, nil
}
