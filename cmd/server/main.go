// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/webasthetic/leadmailer-backend/internal/config"
	"github.com/webasthetic/leadmailer-backend/internal/controller"
	"github.com/webasthetic/leadmailer-backend/internal/db"
	"github.com/webasthetic/leadmailer-backend/internal/handler"
	"github.com/webasthetic/leadmailer-backend/internal/mailer"
	"github.com/webasthetic/leadmailer-backend/internal/queue"
	"github.com/webasthetic/leadmailer-backend/internal/repository"
	"github.com/webasthetic/leadmailer-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration:", err)
	}

	conn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatal("❌", err)
	}
	defer conn.Close()

	leadRepo := &repository.LeadRepository{DB: conn}

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatal("❌", err)
	}

	dispatcher := service.NewDispatcher(leadRepo, smtpMailer, cfg.Dispatch)
	notifier := service.NewCallbackNotifier()

	q := queue.NewInMemoryQueue()
	queue.StartDispatchSubscriber(q, dispatcher, notifier)

	dispatchController := &controller.DispatchController{
		Dispatcher: dispatcher,
		Queue:      q,
	}

	leadHandler := &handler.LeadHandler{
		Repo: leadRepo,
	}

	r := chi.NewRouter()

	// Dispatch routes
	r.Post("/dispatch", dispatchController.StartDispatch)
	r.Post("/dispatch/sync", dispatchController.RunDispatch)

	// Lead routes
	r.Post("/leads", leadHandler.CreateLeadHandler)
	r.Get("/leads/stats", leadHandler.GetLeadStatsHandler)
	r.Get("/leads/{id}", leadHandler.GetLeadHandler)

	log.Println("🚀 Server running on", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
