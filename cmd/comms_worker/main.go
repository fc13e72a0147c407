package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/config"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
	"github.com/oksasatya/pulse-backoffice/pkg/mailer"
)

// comms_worker delivers communication jobs through Mailgun and reports the
// outcome of each one back to the API on the delivery queue.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-comms-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; communications worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQDispatchQueue, 16)
	if err != nil {
		log.Fatalf("amqp consumer: %v", err)
	}
	defer consumer.Close()

	reports, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQReportQueue)
	if err != nil {
		log.Fatalf("amqp publisher: %v", err)
	}
	defer reports.Close()

	w := &worker{
		mail:    mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		reports: reports,
		log:     logger.WithField("queue", cfg.RabbitMQDispatchQueue),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w.log.Info("communications worker listening")
	err = consumer.Run(ctx, w.handle, func(err error) { w.log.WithError(err).Warn("job failed") })
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consume: %v", err)
	}
	w.log.Info("shutting down")
}

type sender interface {
	Deliver(ctx context.Context, job mailer.EmailJob) error
}

type reporter interface {
	PublishJSON(ctx context.Context, body any) error
}

type worker struct {
	mail    sender
	reports reporter
	log     *logrus.Entry
}

// handle sends one job. A malformed job is dropped; a failed send is reported
// as failed and not requeued.
func (w *worker) handle(ctx context.Context, body []byte) (bool, error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return false, err
	}

	rep := mailer.DeliveryReport{
		CommunicationID: job.CommunicationID,
		Recipient:       job.Recipient,
		Status:          entity.DeliveryDelivered,
	}
	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	sendErr := w.mail.Deliver(sendCtx, job)
	cancel()
	if sendErr != nil {
		rep.Status = entity.DeliveryFailed
		rep.Error = sendErr.Error()
	}

	if err := w.reports.PublishJSON(ctx, rep); err != nil {
		// the send outcome is final either way; only the report is lost
		w.log.WithError(err).WithField("communication_id", job.CommunicationID).Error("publish delivery report failed")
	}
	if sendErr != nil {
		return false, sendErr
	}
	w.log.WithFields(logrus.Fields{"communication_id": job.CommunicationID, "recipient": job.Recipient}).Info("delivered")
	return false, nil
}
