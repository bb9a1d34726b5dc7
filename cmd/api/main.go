package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
	"github.com/disnaker-asahan/letter-manager/backend/internal/database"
	"github.com/disnaker-asahan/letter-manager/backend/internal/handler"
	"github.com/disnaker-asahan/letter-manager/backend/internal/mailqueue"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
	"github.com/disnaker-asahan/letter-manager/backend/internal/seed"
	"github.com/disnaker-asahan/letter-manager/backend/internal/session"

	_ "time/tzdata"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", "error", err)
		return
	}

	/**********************************************
	 * database
	 **********************************************/
	dbpool, dialect, err := database.Open(cfg)
	if err != nil {
		logger.Error("cannot connect to database", "driver", cfg.Database.Driver, "error", err)
		return
	}
	defer dbpool.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.TransactionTimeout)*time.Second)
		applied, err := database.Migrate(ctx, dbpool, dialect)
		cancel()
		if err != nil {
			logger.Error("cannot apply migrations", "error", err)
			return
		}
		logger.Info("migrations applied", "versions", applied)
	}

	repo := repository.NewRepository(cfg, dbpool, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.QueryTimeout)*time.Second)
	err = seed.EnsureInitialAdmin(ctx, repo, cfg)
	cancel()
	if err != nil {
		logger.Error("cannot create initial admin", "error", err)
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("cannot connect to rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("cannot open channel", "error", err)
		return
	}
	defer ch.Close()

	if _, err := mailqueue.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		logger.Error("cannot declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
		return
	}

	publisher := mailqueue.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	/**********************************************
	 * redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	err = rdb.Ping(ctx).Err()
	cancel()
	if err != nil {
		logger.Error("cannot connect to redis", "error", err)
		return
	}

	sessions := session.NewStore(rdb, time.Duration(cfg.Redis.OperationTimeout)*time.Second)

	/**********************************************
	 * handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, repo, publisher, sessions)
	if err != nil {
		logger.Error("cannot create handler", "error", err)
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * http server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("cannot shut down server", "error", err)
	}
	logger.Info("server stopped")
}
