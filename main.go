package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"case-management-tool/auth"
	"case-management-tool/config"
	"case-management-tool/consumer"
	"case-management-tool/handlers"
	"case-management-tool/middleware"
	"case-management-tool/models"
	"case-management-tool/monitoring"
	"case-management-tool/ranker"
	"case-management-tool/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	logger := log.New(os.Stdout, "CASE-MGMT: ", log.LstdFlags|log.Lshortfile)

	config.Load()

	if dsn := config.AppConfig.SentryDSN; dsn != "" {
		if err := utils.InitSentry(dsn); err != nil {
			logger.Printf("Sentry disabled: %v", err)
		}
	}

	monitoring.Init()

	// Connect to Redis with retries
	var redisClient utils.RedisClient
	var err error
	maxRetries := 5
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		redisClient, err = utils.NewRedisClient()
		if err == nil {
			break
		}
		logger.Printf("Attempt %d: Failed to connect to Redis: %v", i+1, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		logger.Fatalf("Failed to initialize Redis after %d attempts: %v", maxRetries, err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Printf("Error closing Redis connection: %v", err)
		}
	}()

	repo, err := models.NewPostgresRepository(config.DBConnString())
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Printf("Error closing database connection: %v", err)
		}
	}()

	if err := auth.SeedAdmin(repo, config.AppConfig.SeedAdminPass, config.AppConfig.SeedAdminEmail); err != nil {
		logger.Fatalf("Failed to seed admin user: %v", err)
	}

	kafkaProducer, err := utils.NewKafkaProducer()
	if err != nil {
		logger.Printf("Kafka disabled: %v", err)
		kafkaProducer = nil
	} else {
		defer kafkaProducer.Close()
	}

	esClient, err := utils.NewElasticsearchClient()
	if err != nil {
		logger.Printf("Elasticsearch disabled: %v", err)
		esClient = nil
	}

	mailer, err := utils.NewMailer()
	if err != nil {
		logger.Printf("Email notifications disabled: %v", err)
		mailer = nil
	}

	// Build the in-memory outcome table from whatever the last import left in
	// Postgres, so rankings survive restarts.
	rows, err := repo.LoadOutcomes()
	if err != nil {
		logger.Fatalf("Failed to load outcome table: %v", err)
	}
	table := ranker.BuildTable(rows)
	store := ranker.NewStore(table)
	registry := ranker.NewRegistry()
	monitoring.OutcomeTableSize.Set(float64(table.Size()))
	logger.Printf("Loaded %d outcome rows", table.Size())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if kafkaProducer != nil {
		clientConsumer := consumer.NewClientConsumer(repo, redisClient, esClient, mailer)
		clientConsumer.Start(ctx)
		defer clientConsumer.Stop()
	}

	issuer := auth.NewTokenIssuer(config.AppConfig.JWTSecret, config.AppConfig.TokenExpiry)

	clientHandler := handlers.NewClientHandler(repo, kafkaProducer, redisClient)
	queryHandler := handlers.NewQueryHandler(repo, esClient)
	caseHandler := handlers.NewCaseHandler(repo, kafkaProducer, store, registry)
	userHandler := handlers.NewUserHandler(repo, issuer)
	recommendHandler := handlers.NewRecommendHandler(repo, store, registry, redisClient)
	outcomeHandler := handlers.NewOutcomeHandler(repo, store)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.PrometheusMetrics())

	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			hctx, hcancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer hcancel()

			if err := redisClient.SetToCache(hctx, "healthcheck", "ping", 10*time.Second); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "degraded",
					"details": gin.H{"redis": "unavailable"},
					"error":   err.Error(),
				})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"details": gin.H{"redis": "available"},
			})
		})

		api.POST("/auth/login", userHandler.Login)

		authed := api.Group("")
		authed.Use(auth.RequireAuth(issuer))
		{
			authed.POST("/users", auth.RequireAdmin(), userHandler.CreateUser)

			authed.POST("/clients", clientHandler.CreateClient)
			authed.GET("/clients", clientHandler.ListClients)
			authed.GET("/clients/search", queryHandler.SearchClients)
			authed.GET("/clients/by-criteria", queryHandler.GetClientsByCriteria)
			authed.GET("/clients/by-services", queryHandler.GetClientsByServices)
			authed.GET("/clients/by-success-rate", queryHandler.GetClientsBySuccessRate)
			authed.GET("/clients/by-case-worker/:id", queryHandler.GetClientsByCaseWorker)
			authed.GET("/clients/:id", clientHandler.GetClient)
			authed.PUT("/clients/:id", clientHandler.UpdateClient)
			authed.DELETE("/clients/:id", clientHandler.DeleteClient)

			authed.GET("/clients/:id/services", caseHandler.GetClientServices)
			authed.PUT("/clients/:id/services/:worker_id", caseHandler.UpdateClientServices)
			authed.POST("/case-assignments", caseHandler.CreateCaseAssignment)

			authed.GET("/clients/:id/recommendations", recommendHandler.GetRecommendations)
			authed.GET("/models", recommendHandler.ListModels)
			authed.GET("/models/current", recommendHandler.CurrentModel)
			authed.POST("/models/switch/:name", recommendHandler.SwitchModel)

			authed.POST("/outcomes/upload", outcomeHandler.UploadOutcomes)
		}
	}

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: router,
	}

	go func() {
		logger.Printf("Server is running on port %s", config.AppConfig.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Forced shutdown: %v", err)
	}
}
