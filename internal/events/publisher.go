package events

import (
	"context"
	"fmt"
	"log/slog"

	"unigo/internal/config"
	"unigo/internal/metrics"
)

// Broker drivers accepted by EVENTS_DRIVER.
const (
	DriverLog   = "log"
	DriverKafka = "kafka"
	DriverNATS  = "nats"
	DriverAMQP  = "amqp"
)

// NewPublisher builds the publisher selected by cfg.Driver and wraps it with
// metrics and failure logging.
func NewPublisher(cfg config.EventsConfig, log *slog.Logger, m *metrics.Collector) (Publisher, error) {
	var (
		p   Publisher
		err error
	)
	switch cfg.Driver {
	case "", DriverLog:
		p = NewLogPublisher(log)
	case DriverKafka:
		p = NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	case DriverNATS:
		p, err = NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, log)
	case DriverAMQP:
		p, err = NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(p, log, m), nil
}

type instrumented struct {
	next    Publisher
	log     *slog.Logger
	metrics *metrics.Collector
}

// Instrument records a metric for every publish and logs failures.
func Instrument(p Publisher, log *slog.Logger, m *metrics.Collector) Publisher {
	return &instrumented{next: p, log: log, metrics: m}
}

func (p *instrumented) Publish(ctx context.Context, event Event) error {
	err := p.next.Publish(ctx, event)
	p.metrics.EventPublished(string(event.Type), err)
	if err != nil {
		p.log.ErrorContext(ctx, "publish event failed",
			"event_id", event.ID,
			"type", event.Type,
			"key", event.Key,
			"error", err,
		)
	}
	return err
}

func (p *instrumented) Close() error { return p.next.Close() }
