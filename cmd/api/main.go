package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/outflowhq/engage-api/internal/infra/database"
	"github.com/outflowhq/engage-api/internal/infra/http/handlers"
	"github.com/outflowhq/engage-api/internal/infra/http/middleware"
	"github.com/outflowhq/engage-api/internal/infra/integration/crm"
	"github.com/outflowhq/engage-api/internal/infra/mail"
	"github.com/outflowhq/engage-api/internal/infra/queue"
	"github.com/outflowhq/engage-api/internal/infra/worker"
	"github.com/outflowhq/engage-api/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	userRepo := database.NewUserRepository(db)
	cadenceRepo := database.NewCadenceRepository(db)
	linkRepo := database.NewLeadCadenceRepository(db)
	fieldMapRepo := database.NewFieldMapRepository(db)

	// 2. Gateways e Adapters
	crmClient := crm.NewClient(os.Getenv("CRM_CONNECT_URL"))
	notifier := queue.NewNotifier(rabbitMQ.Ch)
	recomputeProducer := queue.NewRecomputeProducer(rabbitMQ.Ch)

	var mailSender usecase.EmailService
	if os.Getenv("MAIL_HOST") != "" {
		mailSender = mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		)
	}

	// 3. Workers (recompute da visão de tarefas + varredura periódica)
	recomputeWorker := queue.NewRecomputeWorker(rabbitMQ.Ch, linkRepo)
	go recomputeWorker.Start(queue.RecomputeQueueName)

	refreshWorker := worker.NewCadenceRefreshWorker(db, recomputeProducer)
	go refreshWorker.Start(context.Background())

	// 4. UseCase
	importUC := usecase.NewImportLeadsUseCase(
		leadRepo, userRepo, cadenceRepo, linkRepo, fieldMapRepo,
		crmClient, notifier, recomputeProducer, mailSender,
	)
	if w, err := strconv.Atoi(os.Getenv("IMPORT_WINDOW_SIZE")); err == nil && w > 0 {
		importUC.WindowSize = w
	}
	if m, err := strconv.Atoi(os.Getenv("CADENCE_MAX_ORDER")); err == nil && m > 0 {
		importUC.MaxOrder = m
	}

	// 5. Handlers
	importHandler := handlers.NewImportHandler(importUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/cadences/{cadenceID}/import", importHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🔥 Engage API rodando na porta :%s", port)
	http.ListenAndServe(":"+port, r)
}
