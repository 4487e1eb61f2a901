package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/workers"
	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/mailer"
	"github.com/inkwell/inkwell/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting Inkwell notifier worker...")

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Activity, "notifier-group")

	mail := mailer.NewMailer(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.From,
		cfg.Mail.Sender,
	)

	worker := workers.NewNotifierWorker(consumer, mail, logger)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := worker.Start(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Notifier worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down notifier worker...")
	cancel()

	if err := worker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop notifier worker")
	}

	logger.Info("Notifier worker exited")
}
