package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Cyril-dot/billionBackend/internal/chat"
	"github.com/Cyril-dot/billionBackend/internal/config"
	"github.com/Cyril-dot/billionBackend/internal/email"
	"github.com/Cyril-dot/billionBackend/internal/logger"
	"github.com/Cyril-dot/billionBackend/internal/notify"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Log.Sync() }()

	smtp := email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}

	var webhook *notify.Webhook
	if cfg.NotifyWebhookURL != "" {
		webhook = notify.NewWebhook(cfg.NotifyWebhookURL)
	}

	// NewQueue declares the main/retry/dlq topology before we consume.
	queue, err := notify.NewQueue(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		logger.Log.Fatal("rabbit connect", zap.Error(err))
	}
	defer func() { _ = queue.Close() }()

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Log.Fatal("rabbit dial", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatal("rabbit channel", zap.Error(err))
	}
	defer ch.Close()

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		logger.Log.Fatal("qos", zap.Error(err))
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Log.Fatal("consume", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("notification worker started",
		zap.String("queue", cfg.RabbitQueue),
		zap.Int("concurrency", concurrency),
	)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var n notify.Notification
				if err := json.Unmarshal(d.Body, &n); err != nil || n.ToEmail == "" {
					logger.Log.Warn("bad notification message",
						zap.Int("worker", workerID),
						zap.Error(err),
					)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleNotification(ctx, smtp, webhook, n); err != nil {
					logger.Log.Error("notification failed",
						zap.Int("worker", workerID),
						zap.String("job_id", n.JobID),
						zap.Uint64("room_id", n.RoomID),
						zap.Duration("cost", time.Since(start)),
						zap.Error(err),
					)
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					logger.Log.Error("ack failed",
						zap.Int("worker", workerID),
						zap.String("job_id", n.JobID),
						zap.Error(err),
					)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				logger.Log.Warn("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

func handleNotification(ctx context.Context, smtp email.SMTPConfig, webhook *notify.Webhook, n notify.Notification) error {
	var subject, body string
	switch n.ToRole {
	case chat.RoleMerchant:
		subject, body = email.MerchantAlert(n.ToName, n.FromName, n.ProductName, n.Content, n.RoomID)
	default:
		subject, body = email.CustomerReply(n.ToName, n.FromName, n.ProductName, n.Content, n.RoomID)
	}

	if err := email.SendText(smtp, n.ToEmail, subject, body); err != nil {
		return err
	}

	// the ops mirror is best-effort
	if webhook != nil {
		if err := webhook.Post(ctx, n); err != nil {
			logger.Log.Warn("ops webhook failed",
				zap.String("job_id", n.JobID),
				zap.Error(err),
			)
		}
	}

	return nil
}
