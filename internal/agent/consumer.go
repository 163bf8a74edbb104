package agent

import (
	"context"
	"fmt"

	"github.com/planhub-app/reminder-planner/internal/config"
	"github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/retry"
)

// Consumer is the agent's end of the event bus: one queue bound to the
// owner's routing key on the reminder exchange.
type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
}

func NewConsumer(ctx context.Context, rabbitCfg config.RabbitMQConfig, strategy retry.Strategy, routingKey string) (*Consumer, error) {
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

	err = retry.DoContext(ctx, strategy, func() error {
		_, errQ := ch.QueueDeclare(
			rabbitCfg.Queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if errQ == nil {
			errQ = ch.QueueBind(rabbitCfg.Queue, routingKey, rabbitCfg.Exchange, false, nil)
		}
		return errQ
	})
	if err != nil {
		return nil, fmt.Errorf("error declaring queue '%s': %w", rabbitCfg.Queue, err)
	}

	return &Consumer{
		conn:    conn,
		channel: ch,
		queue:   rabbitCfg.Queue,
	}, nil
}

func (c *Consumer) Consume(ctx context.Context) (<-chan amqp091.Delivery, error) {
	msgs, err := c.channel.ConsumeWithContext(
		ctx,
		c.queue,
		"",    // consumer tag
		true,  // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("error starting consumer: %w", err)
	}
	return msgs, nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
