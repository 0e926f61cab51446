package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-reservation/internal/api/server"
	"github.com/sanosuguru/go-table-reservation/internal/application"
	"github.com/sanosuguru/go-table-reservation/internal/config"
	"github.com/sanosuguru/go-table-reservation/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-table-reservation/internal/infrastructure/rabbitmq"
	redisinfra "github.com/sanosuguru/go-table-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-table-reservation/internal/worker"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "API サーバーを起動する",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "起動時にマイグレーションを実行する")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrateUp bool) error {
	log := logger.Get()
	m := metrics.Init()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("データベースに接続しました", zap.String("host", cfg.Database.Host))

	if migrateUp {
		if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
			return err
		}
		log.Info("マイグレーション完了")
	}

	restaurantRepo := postgres.NewRestaurantRepository(db)
	tableRepo := postgres.NewTableRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	idem := application.NewIdempotencyCoordinator(postgres.NewIdempotencyRepository(db), reservationRepo)

	reservationOpts := []application.ReservationOption{application.WithReservationMetrics(m)}
	availabilityOpts := []application.AvailabilityOption{application.WithAvailabilityMetrics(m)}

	// Redis と RabbitMQ は任意。接続できなければその機能なしで起動する
	if cfg.Redis.Enabled {
		redisClient, err := redisinfra.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn("Redisに接続できないため、スロットロックとキャッシュを無効にします", zap.Error(err))
		} else {
			defer redisClient.Close()
			cache := redisinfra.NewAvailabilityCache(redisClient)
			reservationOpts = append(reservationOpts,
				application.WithSlotLock(redisinfra.NewLockManager(redisClient),
					cfg.Reservation.SlotLockTTL, cfg.Reservation.SlotLockRetries, cfg.Reservation.SlotLockRetryDelay),
				application.WithCacheInvalidation(cache),
			)
			availabilityOpts = append(availabilityOpts,
				application.WithAvailabilityCache(cache, cfg.Reservation.AvailabilityCacheTTL))
			log.Info("Redisに接続しました", zap.String("addr", cfg.Redis.Addr()))
		}
	}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			log.Warn("RabbitMQに接続できないため、イベント配信を無効にします", zap.Error(err))
		} else {
			defer publisher.Close()
			reservationOpts = append(reservationOpts, application.WithEventPublisher(publisher))
			log.Info("RabbitMQに接続しました", zap.String("queue", cfg.RabbitMQ.Queue))
		}
	}

	reservationService := application.NewReservationService(
		postgres.NewTxManager(db), restaurantRepo, tableRepo, reservationRepo, idem, reservationOpts...)
	availabilityService := application.NewAvailabilityService(restaurantRepo, tableRepo, reservationRepo, availabilityOpts...)
	restaurantService := application.NewRestaurantService(restaurantRepo, tableRepo)

	collector := worker.NewActiveReservationsCollector(reservationService, m, cfg.Reservation.GaugeInterval)
	go collector.Start(ctx)
	defer collector.Stop()

	e := server.New(server.Dependencies{
		Reservations: reservationService,
		Availability: availabilityService,
		Restaurants:  restaurantService,
		DB:           db,
		Metrics:      m,
		MetricsAuth:  cfg.Metrics,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		log.Info("サーバーを起動します", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("サーバーをシャットダウンしています...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("サーバーが正常にシャットダウンしました")
	return nil
}
