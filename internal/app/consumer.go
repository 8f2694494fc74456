package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pacs-portal/internal/employee"
	"pacs-portal/internal/events"
	"pacs-portal/internal/messaging/kafka/consumer"
	"pacs-portal/internal/shared/connection"
	"pacs-portal/internal/shared/counter"
	"pacs-portal/internal/ticket"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	ticketRepo := ticket.NewRepository(gormDB)
	// Assign does not publish events, the outbox stays on the HTTP path.
	ticketService := ticket.NewService(sqlDB, ticketRepo, counterRepo, nil)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.TicketLifecycleTopic,
		GroupID:        "pacs-portal-urgent-tickets",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeTicketLifecycle(ctx, reader, ticketService, ticketRepo, employeeRepo, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
