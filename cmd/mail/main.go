package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
	"github.com/disnaker-asahan/letter-manager/backend/internal/mailqueue"
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
	 * smtp client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
		mail.WithTimeout(time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second),
	)
	if err != nil {
		logger.Error("cannot create mail client", "error", err)
		return
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	err = client.DialWithContext(dialCtx)
	cancel()
	if err != nil {
		logger.Error("cannot connect to mail server", "host", cfg.Email.SMTP.Host, "error", err)
		return
	}
	// every send dials its own connection
	_ = client.Close()

	worker, err := mailqueue.NewWorker(cfg.Email.SMTP.Username, client, logger)
	if err != nil {
		logger.Error("cannot create mail worker", "error", err)
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

	q, err := mailqueue.DeclareQueue(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("cannot declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
		return
	}

	// one unacknowledged message at a time
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("cannot set prefetch", "error", err)
		return
	}

	deliveries, err := ch.Consume(
		q.Name, // queue
		"",     // consumer tag, assigned by the broker
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local, unsupported by rabbitmq
		false,  // no-wait
		nil,
	)
	if err != nil {
		logger.Error("cannot consume queue", "queue", q.Name, "error", err)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, stop := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx, deliveries)
	}()

	logger.Info("waiting for mail messages", "queue", q.Name)
	<-sigChan

	logger.Info("shutting down mail worker")
	stop()
	wg.Wait()
	logger.Info("mail worker stopped")
}
