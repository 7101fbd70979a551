package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arsdatascience/customer-engine/internal/infra/database"
	"github.com/arsdatascience/customer-engine/internal/infra/http/handlers"
	"github.com/arsdatascience/customer-engine/internal/infra/http/middleware"
	"github.com/arsdatascience/customer-engine/internal/infra/queue"
	"github.com/arsdatascience/customer-engine/internal/infra/worker"
	"github.com/arsdatascience/customer-engine/internal/logger"
	"github.com/arsdatascience/customer-engine/internal/usecase"
)

func main() {
	godotenv.Load()

	log, err := logger.New(os.Getenv("SERVICE_ENVIRONMENT"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("falha ao conectar no Postgres", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal("falha ao aplicar schema", zap.Error(err))
	}

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal("falha ao conectar no RabbitMQ", zap.Error(err))
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	customerRepo := database.NewCustomerRepository(db)
	identityRepo := database.NewIdentityRepository(db)
	interactionRepo := database.NewInteractionRepository(db)
	journeyRepo := database.NewJourneyRepository(db)
	conversionRepo := database.NewConversionRepository(db)
	statsRepo := database.NewStatsRepository(db)

	// 2. Fila
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. Workers
	journeyWorker := queue.NewWorker(rabbitMQ.Ch, journeyRepo, log)
	go journeyWorker.Start(queue.QueueName)

	rollupWorker := worker.NewRollupReconciliationWorker(db, log)
	go rollupWorker.Start(ctx)

	// 4. UseCases
	resolveUC := usecase.NewResolveCustomerUseCase(customerRepo, identityRepo, log)
	trackInteractionUC := usecase.NewTrackInteractionUseCase(customerRepo, interactionRepo, log)
	journeyUC := usecase.NewJourneyUseCase(customerRepo, journeyRepo, log)
	trackConversionUC := usecase.NewTrackConversionUseCase(customerRepo, conversionRepo, producer, log)
	statsUC := usecase.NewStatsUseCase(statsRepo)

	// 5. Handlers
	customerHandler := handlers.NewCustomerHandler(resolveUC, statsUC, customerRepo)
	interactionHandler := handlers.NewInteractionHandler(trackInteractionUC)
	journeyHandler := handlers.NewJourneyHandler(journeyUC)
	conversionHandler := handlers.NewConversionHandler(trackConversionUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/customers/resolve", customerHandler.HandleResolve)
	r.Get("/customers/{id}", customerHandler.HandleGet)
	r.Put("/customers/{id}/stage", journeyHandler.HandleUpdateStage)
	r.Post("/interactions", interactionHandler.Handle)
	r.Post("/journeys", journeyHandler.HandleStart)
	r.Post("/journeys/{id}/advance", journeyHandler.HandleAdvance)
	r.Post("/journeys/{id}/abandon", journeyHandler.HandleAbandon)
	r.Post("/conversions", conversionHandler.Handle)
	r.Get("/stats/journey", customerHandler.HandleJourneyStats)
	r.Get("/stats/channel-mix", customerHandler.HandleChannelMix)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Info("🔥 Customer engine rodando", zap.String("port", port))
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal("servidor encerrou", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
