package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/medplus/clinic-scheduler/internal/audit"
	"github.com/medplus/clinic-scheduler/internal/auth"
	"github.com/medplus/clinic-scheduler/internal/config"
	dbpkg "github.com/medplus/clinic-scheduler/internal/db"
	"github.com/medplus/clinic-scheduler/internal/handlers"
	"github.com/medplus/clinic-scheduler/internal/infra/lock"
	"github.com/medplus/clinic-scheduler/internal/infra/repository"
	"github.com/medplus/clinic-scheduler/internal/logger"
	"github.com/medplus/clinic-scheduler/internal/notification"
	"github.com/medplus/clinic-scheduler/internal/reminder"
	"github.com/medplus/clinic-scheduler/internal/routes"
	"github.com/medplus/clinic-scheduler/internal/timezone"
	"github.com/medplus/clinic-scheduler/internal/validators"
)

const serviceName = "clinic-scheduler"

func main() {
	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "Clinic appointment scheduling API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and the slot indexes, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(serviceName, cfg.Env, cfg.LogLevel)
	return cfg, log, nil
}

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	// ======================================================
	// 🌍 TIMEZONE
	// ======================================================
	loc := timezone.Location(cfg.Timezone)
	timezone.UseLocation(loc)

	// ======================================================
	// 🗄️ DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	validators.Register()

	users := repository.NewUserGormRepository(db)
	auditLogs := audit.New(db)

	auditDispatcher := audit.NewDispatcher(auditLogs, logger.Component(log, "audit"))
	defer auditDispatcher.Close()

	health := map[string]handlers.Check{
		"database": dbCheck(db),
	}

	// ======================================================
	// 🔒 SLOT LOCK
	// ======================================================
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		locker = lock.NewRedisLocker(client, cfg.LockTTL, logger.Component(log, "lock"))
		health["redis"] = redisCheck(client)
	}

	// ======================================================
	// ✉️ NOTIFICATIONS
	// ======================================================
	var sender notification.Sender = notification.NewLogSender(logger.Component(log, "mail"))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSender := notification.NewKafkaSender(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaSender.Close()
		sender = kafkaSender
	}

	notifier := notification.NewDispatcher(sender, cfg.NotifyQueueSize, logger.Component(log, "notification"))
	defer notifier.Close()

	clock := timezone.SystemClock(loc)
	appointments := repository.NewAppointmentGormRepository(db)

	reminders := reminder.NewScheduler(appointments, notifier, clock, loc, logger.Component(log, "reminder"))
	if err := reminders.Start(cfg.ReminderCron); err != nil {
		return err
	}
	defer reminders.Stop()

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	router := routes.NewRouter(routes.Deps{
		Parties:      users,
		Users:        users,
		Appointments: appointments,
		Slots:        repository.NewAvailabilityGormRepository(db),
		AuditLogs:    auditLogs,

		Audit:    auditDispatcher,
		Notifier: notifier,
		Locker:   locker,
		Tokens:   auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL),

		Location:       loc,
		Clock:          clock,
		EmailCheck:     validators.NewEmailCheck(cfg.VerifyEmailDomain),
		OnlineLinkBase: cfg.OnlineLinkBase,
		CORSOrigins:    cfg.CORSOrigins,
		Health:         health,

		Log: log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("timezone", loc.String()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

func dbCheck(db *gorm.DB) handlers.Check {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func redisCheck(client *redis.Client) handlers.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
