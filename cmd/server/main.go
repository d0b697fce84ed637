package main

import (
	"context"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"air-alert-monitor/internal/alerts"
	"air-alert-monitor/internal/cache"
	"air-alert-monitor/internal/config"
	"air-alert-monitor/internal/handlers"
	"air-alert-monitor/internal/metrics"
	"air-alert-monitor/internal/mq"
	"air-alert-monitor/internal/notify"
	"air-alert-monitor/internal/ping"
	"air-alert-monitor/internal/scheduler"
)

func main() {
	// Load .env if present.
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.AlertsAPIToken == "" {
		log.Println("ALERTS_API_TOKEN is empty; the provider will likely reject requests")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector()

	// --- Notification dispatchers ---
	telegram, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	senders := []notify.Sender{telegram}
	if cfg.RabbitMQURL != "" {
		publisher, err := mq.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("rabbitmq publisher: %v", err)
		}
		defer publisher.Close()
		senders = append(senders, mq.NewAlertNotifier(publisher))
		log.Println("rabbitmq connected")
	}
	notifier := notify.NewFanout(senders...)

	// --- Redis (optional capital status memory) ---
	var store scheduler.CapitalStore
	if cfg.RedisURL != "" {
		redisCache, err := cache.New(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisCache.Close()
		store = redisCache
		log.Println("redis connected")
	}

	// --- Provider reachability probe ---
	var prober *ping.Prober
	if target := probeTarget(cfg); target != "" {
		prober = ping.NewProber(target, cfg.ProbeInterval, collector.SetProviderReachable)
		go prober.Start(ctx)
	}

	// --- Scheduler ---
	client := alerts.NewClient(cfg.AlertsAPIURL, cfg.AlertsAPIToken, cfg.RequestTimeout, cfg.MaxRetries, cfg.RetryAuthErrors)
	sched := scheduler.New(client, notifier, collector, store, cfg.UpdateInterval, cfg.MaxFailures)
	sched.Start(ctx)
	defer sched.Stop()

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New())

	h := &handlers.Handlers{
		Scheduler: sched,
		Notifier:  notifier,
		Prober:    prober,
		Metrics:   collector,
	}
	app.Use(h.MetricsMiddleware)
	h.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	// --- Graceful shutdown ---
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	log.Printf("server starting on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// probeTarget picks the host to ICMP-probe: explicit override, otherwise the
// alerts API host.
func probeTarget(cfg *config.Config) string {
	if cfg.ProbeTarget != "" {
		return cfg.ProbeTarget
	}
	u, err := url.Parse(cfg.AlertsAPIURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
