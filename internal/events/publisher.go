package events

import (
	"context"
	"fmt"

	"github.com/planhub-app/reminder-planner/internal/config"
	"github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/retry"
)

// Publisher owns one AMQP channel on a direct exchange. Reminder events
// are routed per user so each client channel only sees its own reminders.
type Publisher struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	exchange      string
	contentType   string
	retryStrategy retry.Strategy
}

func NewPublisher(ctx context.Context, rabbitCfg config.RabbitMQConfig, strategy retry.Strategy) (*Publisher, error) {
	var conn *amqp091.Connection
	var err error

	err = retry.DoContext(ctx, strategy, func() error {
		conn, err = amqp091.Dial(fmt.Sprintf(
			"amqp://%s:%s@%s:%d/%s",
			rabbitCfg.User,
			rabbitCfg.Password,
			rabbitCfg.Host,
			rabbitCfg.Port,
			rabbitCfg.VHost,
		))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("error creating channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		rabbitCfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("error declaring exchange: %w", err)
	}

	return &Publisher{
		conn:          conn,
		channel:       ch,
		exchange:      rabbitCfg.Exchange,
		contentType:   "application/json",
		retryStrategy: strategy,
	}, nil
}

func (p *Publisher) PublishWithRetry(ctx context.Context, body []byte, routingKey string) error {
	return retry.DoContext(ctx, p.retryStrategy, func() error {
		return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp091.Publishing{
			ContentType: p.contentType,
			Body:        body,
		})
	})
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
