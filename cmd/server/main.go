package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/contexthub/internal/config"
	"github.com/ahmednasr/contexthub/internal/database"
	"github.com/ahmednasr/contexthub/internal/github"
	"github.com/ahmednasr/contexthub/internal/handler"
	"github.com/ahmednasr/contexthub/internal/middleware"
	"github.com/ahmednasr/contexthub/internal/repository"
	"github.com/ahmednasr/contexthub/internal/service"
	"github.com/ahmednasr/contexthub/internal/smartsearch"
)

// main is the single entry-point for the REST API.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Database: %s", cfg.DBName)
	log.Printf("  - GitHub API: %s (token: %t)", cfg.GitHubAPIURL, cfg.GitHubToken != "")
	log.Printf("  - Indexing: max %d files, batches of %d", cfg.IndexMaxFiles, cfg.IndexBatchSize)

	// Connect to MongoDB
	mongoClient, err := database.NewMongo(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer database.Disconnect(mongoClient)
	log.Printf("Connected to MongoDB")

	db := mongoClient.Database(cfg.DBName)
	if err := database.EnsureIndexes(ctx, db, cfg.ProfileTTL, cfg.IssueCacheTTL); err != nil {
		log.Printf("Warning: failed to create indexes: %v", err)
	}

	// Initialize repositories
	indexRepo := repository.NewIndexRepository(db)
	profileRepo := repository.NewProfileRepository(db, cfg.ProfileTTL)
	issueCache := repository.NewIssueCacheRepository(db, cfg.IssueCacheTTL)

	// GitHub client
	gh := github.NewClient(cfg.GitHubToken,
		github.WithBaseURL(cfg.GitHubAPIURL),
		github.WithRequestsPerSecond(cfg.GitHubRPS, cfg.IndexBatchSize),
	)
	if !gh.HasToken() {
		log.Printf("Warning: GITHUB_TOKEN not set, GitHub allows 60 requests/hour")
	}

	// Vertex AI for summaries, optional
	llm := service.NewDummyLLM()
	if cfg.AIEnabled() {
		vertex, err := service.NewVertexLLM(ctx, cfg.ProjectID, cfg.Location)
		if err != nil {
			log.Printf("Warning: Vertex AI unavailable, summaries disabled: %v", err)
		} else {
			defer vertex.Close()
			llm = vertex
		}
	}

	// Initialize services
	indexer := smartsearch.NewIndexer(gh,
		smartsearch.WithMaxFiles(cfg.IndexMaxFiles),
		smartsearch.WithBatchSize(cfg.IndexBatchSize),
		smartsearch.WithKeepContent(cfg.IndexKeepContent),
	)
	state := service.NewAppState()
	repoSvc := service.NewRepoService(gh, indexRepo, indexer, state, llm)
	prSvc := service.NewPRService(gh)
	issueSvc := service.NewIssueService(gh, profileRepo, issueCache, llm)

	// Create Fiber app
	app := handler.NewApp(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(middleware.RequestID(), middleware.Logging(), middleware.Recover())

	// Register routes
	handler.RegisterRoutes(app, handler.Services{
		Repos:  repoSvc,
		Pulls:  prSvc,
		Issues: issueSvc,
		DB:     mongoClient,
		GitHub: gh,
	})

	go func() {
		<-ctx.Done()
		log.Printf("Shutting down")
		repoSvc.ClearRepo()
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		repoSvc.ClearRepo()
		repoSvc.Wait()
		return fmt.Errorf("server failed to start: %w", err)
	}
	repoSvc.Wait()
	return nil
}
