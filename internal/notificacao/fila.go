package notificacao

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Fila publica os eventos em uma fila durável do RabbitMQ.
type Fila struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewFila(uri, queue string) (*Fila, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Fila{conn: conn, ch: ch, queue: queue}, nil
}

func (f *Fila) Notificar(ctx context.Context, ev Evento) (err error) {
	defer func() { contar("rabbitmq", err) }()

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return f.ch.PublishWithContext(
		ctx,
		"",      // exchange padrão
		f.queue, // routing key = nome da fila
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.Momento,
			Type:         ev.Tipo,
			Body:         body,
		},
	)
}

func (f *Fila) Close() error {
	var errCh, errConn error
	if f.ch != nil {
		errCh = f.ch.Close()
	}
	if f.conn != nil {
		errConn = f.conn.Close()
	}
	return errors.Join(errCh, errConn)
}
