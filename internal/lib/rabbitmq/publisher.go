package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/shop-admin/internal/models"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage сериализует message в JSON и публикует его как persistent-сообщение.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Notifier публикует запросы на отправку учётных данных.
type Notifier struct {
	mu sync.Mutex
	ch Channel
}

// NewNotifier создаёт Notifier поверх канала.
func NewNotifier(ch Channel) *Notifier {
	return &Notifier{ch: ch}
}

// NotifyCredentials ставит письмо с паролем в очередь CredentialsQueue.
func (n *Notifier) NotifyCredentials(ctx context.Context, msg models.CredentialsNotification) error {
	const op = "rabbitmq.NotifyCredentials"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := PublishMessage(n.ch, Exchange, CredentialsRoutingKey, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
