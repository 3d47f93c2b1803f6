package mq

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"habitflow/pkg/config"
)

const (
	DefaultExchange  = "habit.events"
	defaultHeartbeat = 10 * time.Second
	connectionName   = "habitflow"
)

// exchangeName falls back to DefaultExchange when cfg leaves it empty.
func exchangeName(cfg config.MQConfig) string {
	if cfg.Exchange != "" {
		return cfg.Exchange
	}
	return DefaultExchange
}

// dialConfig names the connection so it is recognisable in the broker UI.
func dialConfig(cfg config.MQConfig) amqp091.Config {
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	props := amqp091.NewConnectionProperties()
	props.SetClientConnectionName(connectionName)
	return amqp091.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
	}
}

func NewConnection(cfg config.MQConfig) (*amqp091.Connection, error) {
	conn, err := amqp091.DialConfig(cfg.URL, dialConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// DeclareExchange declares the durable topic exchange events go to.
func DeclareExchange(ch *amqp091.Channel, name string) error {
	return ch.ExchangeDeclare(name, "topic", true, false, false, false, nil)
}
