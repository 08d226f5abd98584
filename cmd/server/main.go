package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quizverse_backend/internal/bootstrap"
	"quizverse_backend/internal/config"
	"quizverse_backend/internal/handler"
	"quizverse_backend/internal/llm"
	"quizverse_backend/internal/middleware"
	"quizverse_backend/internal/repository"
	"quizverse_backend/internal/search"
	"quizverse_backend/internal/service"
	"quizverse_backend/internal/sweep"
	"quizverse_backend/pkg/database"
	"quizverse_backend/pkg/storage"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.Seed(db); err != nil {
		log.Fatalf("failed to seed default catalog: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	themeRepo := repository.NewThemeRepository(db)
	llmRepo := repository.NewLLMRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	missionRepo := repository.NewMissionRepository(db)

	// External collaborators
	ctx := context.Background()
	var provider llm.Provider
	if cfg.LLMProvider == "ollama" {
		provider = llm.NewOllamaProvider(cfg.OllamaHost, cfg.OllamaModel, cfg.LLMTimeout)
	} else {
		provider, err = llm.NewGeminiProvider(ctx, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("failed to initialize gemini provider: %v", err)
		}
	}
	defer provider.Close()

	nlpClient := llm.NewNLPClient(cfg.NLPHost, cfg.LLMTimeout)

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := search.NewSearchService(meiliClient)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, contributor cache disabled")
	}

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary not configured, profile image uploads disabled: %v", err)
		imageStorage = nil
	}

	// Services
	presence := service.NewPresenceTracker(cfg.SessionTimeout)
	scoringSvc := service.NewScoringService(scoreRepo, answerRepo, themeRepo)
	missionSvc := service.NewMissionService(missionRepo, scoreRepo)
	authSvc := service.NewAuthService(userRepo, missionRepo, presence, cfg.JWTSecret)
	questionSvc := service.NewQuestionService(questionRepo, answerRepo, llmRepo, themeRepo, scoringSvc, missionSvc, provider, nlpClient, searchSvc)
	statsSvc := service.NewStatsService(userRepo, questionRepo, themeRepo, presence, redisClient)
	profileSvc := service.NewProfileService(userRepo, answerRepo, missionRepo, imageStorage)

	// Background sweeps
	schedule := "@every " + cfg.SweepInterval.String()
	scheduler := sweep.NewScheduler()
	scheduler.Register(sweep.NewLifecycleJob(questionRepo, userRepo, scoringSvc, schedule))
	scheduler.Register(sweep.NewExpiryJob(missionRepo, schedule))
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP surface
	authMW := middleware.NewAuthMiddleware(presence, cfg.JWTSecret)
	router := handler.SetupRouter(handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, presence),
		Question: handler.NewQuestionHandler(questionSvc, searchSvc),
		Mission:  handler.NewMissionHandler(missionSvc),
		Profile:  handler.NewProfileHandler(profileSvc),
		Home:     handler.NewHomeHandler(statsSvc, themeRepo, llmRepo, presence, scheduler),
	}, authMW, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server exited with error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
	if err := database.Close(); err != nil {
		log.Printf("database close: %v", err)
	}
}
