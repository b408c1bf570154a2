package main

import (
	"context"
	"time"

	"slotwise/internal/bookings/events"
	"slotwise/internal/bookings/handler"
	"slotwise/internal/bookings/repository"
	"slotwise/internal/bookings/service"
	"slotwise/internal/bookings/validator"
	catalogrepo "slotwise/internal/catalog/repository"
	"slotwise/pkg/app"
	"slotwise/pkg/config"
	"slotwise/pkg/kafka"
	kafka_config "slotwise/pkg/kafka/config"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const ServiceName = "bookings"

func main() {
	// Missing .env is fine in containerized deployments; env vars win.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	bookingService, lockRepo := initServices(cfg, publisher)

	sweeper := startLockSweeper(cfg, lockRepo)
	defer sweeper.Stop()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) (service.BookingService, repository.BookingLockRepository) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	catalogRepo := catalogrepo.NewMongoCatalogRepository(cfg)
	engine := service.NewEngine(catalogRepo, bookingRepo)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		catalogRepo,
		engine,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, lockRepo
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking event publishing disabled")
		return events.NopPublisher{}
	}

	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Booking event publisher initialized", "topic", cfg.BookingTopic, "brokers", kafkaCfg.Brokers)
	return events.NewKafkaPublisher(producer, cfg)
}

// startLockSweeper schedules periodic cleanup of expired advisory slot locks
// so a crashed request cannot wedge its slot past the TTL.
func startLockSweeper(cfg *config.Config, lockRepo repository.BookingLockRepository) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(cfg.LockSweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		deleted, err := lockRepo.DeleteExpired(ctx)
		if err != nil {
			cfg.Log.Error("Booking lock sweep failed", "error", err)
			return
		}
		if deleted > 0 {
			cfg.Log.Info("Swept expired booking locks", "deleted", deleted)
		}
	})
	if err != nil {
		cfg.Log.Fatal("Failed to schedule booking lock sweep", "spec", cfg.LockSweepSpec, "error", err)
	}

	c.Start()
	cfg.Log.Info("Booking lock sweeper started", "spec", cfg.LockSweepSpec)
	return c
}
