package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/pedidoslab/pedidos-api/config"
	"github.com/pedidoslab/pedidos-api/pkg/helpers"
	"github.com/pedidoslab/pedidos-api/pkg/mailer"
)

// email_worker consumes email jobs from RabbitMQ and delivers them via
// Mailgun. A delivery failure nacks the message back onto the queue; a
// payload that does not decode is dropped, since requeueing it would loop
// forever.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	q, err := ch.QueueDeclare(
		cfg.RabbitMQEmailQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// One message at a time; Mailgun calls are slow compared to the queue.
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatalf("failed to set qos: %v", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infof("email worker consuming from queue %q", q.Name)
	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker shutting down")
			return
		case d, ok := <-msgs:
			if !ok {
				logger.Warn("consume channel closed, exiting")
				os.Exit(1)
			}
			handleDelivery(ctx, logger, mg, d)
		}
	}
}

func handleDelivery(ctx context.Context, logger *logrus.Logger, mg *mailer.Mailgun, d amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Warnf("dropping undecodable email job: %v", err)
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err := mg.Send(sendCtx, job.To, job.Subject, job.Text, job.HTML)
	cancel()
	if err != nil {
		logger.Warnf("failed to send email to %s: %v, requeueing", job.To, err)
		_ = d.Nack(false, true)
		return
	}
	logger.Infof("sent email to %s: %s", job.To, job.Subject)
	_ = d.Ack(false)
}
