package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyhub/internal/cache"
	"surveyhub/internal/config"
	"surveyhub/internal/repository"
	"surveyhub/internal/service"
	"surveyhub/internal/transport/rest"
	"surveyhub/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// WebSocket hub for the live results feed
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories
	surveyRepo := repository.NewSurveyRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	optionRepo := repository.NewOptionRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	itemRepo := repository.NewResponseItemRepo(db)
	userRepo := repository.NewUserRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// Caches
	surveyCache := cache.NewSurveyCache(rdb)
	statsCache := cache.NewStatsCache(rdb)

	// Services
	auditor := service.NewAuditor(auditRepo)
	authSvc := service.NewAuthService(userRepo, profileRepo, roleRepo, auditor, cfg.JWTSecret)
	surveySvc := service.NewSurveyService(surveyRepo, questionRepo, optionRepo, responseRepo, itemRepo, surveyCache, statsCache, auditor)
	collectorSvc := service.NewCollectorService(surveyRepo, questionRepo, optionRepo, responseRepo, itemRepo, surveyCache, statsCache, auditor)
	resultsSvc := service.NewResultsService(surveyRepo, questionRepo, optionRepo, responseRepo, itemRepo, userRepo)
	adminSvc := service.NewAdminService(userRepo, profileRepo, roleRepo, auditRepo, auditor)

	// wsHub implements service.Broadcaster
	collectorSvc.SetBroadcaster(wsHub)
	surveySvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		SurveyService:    surveySvc,
		CollectorService: collectorSvc,
		ResultsService:   resultsSvc,
		AdminService:     adminSvc,
		WSHub:            wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
