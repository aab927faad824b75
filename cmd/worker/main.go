package main

import (
    "context"
    "encoding/json"
    "log"

    "github.com/joho/godotenv"
    "github.com/streadway/amqp"

    "github.com/webasthetic/leadmailer-backend/internal/config"
    "github.com/webasthetic/leadmailer-backend/internal/db"
    appErrors "github.com/webasthetic/leadmailer-backend/internal/errors"
    "github.com/webasthetic/leadmailer-backend/internal/mailer"
    "github.com/webasthetic/leadmailer-backend/internal/repository"
    "github.com/webasthetic/leadmailer-backend/internal/service"
)

// QueueJob is published by the scheduler (n8n cron node) to trigger one
// dispatch batch.
type QueueJob struct {
    CallbackURL string `json:"callback_url,omitempty"`
}

func main() {
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

    // Connect to RabbitMQ
    mq, err := amqp.Dial(cfg.AMQPURL)
    if err != nil {
        log.Fatal("Failed to connect to RabbitMQ:", err)
    }
    defer mq.Close()

    ch, err := mq.Channel()
    if err != nil {
        log.Fatal("Failed to open a channel:", err)
    }
    defer ch.Close()

    q, err := ch.QueueDeclare(
        "email_dispatch", // name
        true,             // durable
        false,            // delete when unused
        false,            // exclusive
        false,            // no-wait
        nil,              // arguments
    )
    if err != nil {
        log.Fatal("Failed to declare queue:", err)
    }

    msgs, err := ch.Consume(
        q.Name,
        "",
        false, // autoAck = false for reliability
        false,
        false,
        false,
        nil,
    )
    if err != nil {
        log.Fatal("Failed to register consumer:", err)
    }

    forever := make(chan bool)

    go func() {
        for d := range msgs {
            var job QueueJob
            if err := json.Unmarshal(d.Body, &job); err != nil {
                log.Println("Invalid job:", err)
                d.Ack(false)
                continue
            }

            summary, err := dispatcher.RunBatch(context.Background())
            notifier.NotifyComplete(job.CallbackURL, summary, err)

            if err != nil && !appErrors.IsAuth(err) {
                log.Println("Dispatch batch failed:", err)
                // Retry logic: requeue up to 3 times. Already-sent leads are
                // marked, so a rerun only touches what is still eligible.
                var retryCount int
                if d.Headers["x-retry-count"] != nil {
                    retryCount = d.Headers["x-retry-count"].(int)
                }
                if retryCount < 3 {
                    d.Nack(false, true) // requeue
                    continue
                }
            }
            if err != nil && appErrors.IsAuth(err) {
                // Requeueing with the same bad credentials cannot succeed
                log.Println("Dispatch aborted on auth failure, not requeueing:", err)
            }

            d.Ack(false)
        }
    }()

    log.Println("Worker running, waiting for dispatch triggers...")
    <-forever
}
