package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
)

// ErrDiscard помечает ошибку обработчика как окончательную: сообщение
// отбрасывается без возврата в очередь.
var ErrDiscard = errors.New("discard message")

// prefetch ограничивает и число неподтверждённых сообщений, и число параллельных обработчиков.
const prefetch = 10

// ConsumerMessage запускает потребителя очереди queueName.
//
// Каждое сообщение обрабатывается в отдельной горутине, одновременно не больше prefetch.
// Успешная обработка подтверждается Ack, ошибка возвращает сообщение в очередь через Nack.
// Ошибки, обёрнутые в ErrDiscard, не возвращаются в очередь.
// Потребитель останавливается при отмене ctx или закрытии канала доставки.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error, log *slog.Logger) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go consume(ctx, delivery, handler, log.With(slog.String("op", op), slog.String("queue", queueName)))
	return nil
}

func consume(ctx context.Context, delivery <-chan amqp.Delivery, handler func([]byte) error, log *slog.Logger) {
	sem := make(chan struct{}, prefetch)
	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handle(d, handler, log)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func handle(d amqp.Delivery, handler func([]byte) error, log *slog.Logger) {
	err := handler(d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
		return
	}

	requeue := !errors.Is(err, ErrDiscard)
	if requeue {
		log.Error("handler failed, message requeued", sl.Err(err))
	} else {
		log.Error("handler rejected message, dropped", sl.Err(err))
	}
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		log.Error("failed to nack message", sl.Err(nackErr))
	}
}
