package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "log/slog"
    "sync"
    "time"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends PaymentConfirmedEvent messages to a durable queue on the
// default exchange.  The connection is opened lazily and re-dialed after
// the broker drops it.
type Publisher struct {
    url   string
    queue string
    log   *slog.Logger

    mu   sync.Mutex
    conn *amqp.Connection
}

func NewPublisher(url, queue string, log *slog.Logger) *Publisher {
    return &Publisher{url: url, queue: queue, log: log}
}

func (p *Publisher) connection() (*amqp.Connection, error) {
    if p.conn != nil && !p.conn.IsClosed() {
        return p.conn, nil
    }
    conn, err := amqp.Dial(p.url)
    if err != nil {
        return nil, fmt.Errorf("dial: %w", err)
    }
    p.conn = conn
    return conn, nil
}

// PaymentConfirmed publishes ev as a persistent JSON message.  Errors are
// logged and returned; callers treat delivery as best effort.
func (p *Publisher) PaymentConfirmed(ctx context.Context, ev PaymentConfirmedEvent) error {
    if ev.MessageID == "" {
        ev.MessageID = uuid.NewString()
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    conn, err := p.connection()
    if err != nil {
        p.log.Error("rabbitmq publish failed", slog.String("stage", "dial"), slog.Any("error", err))
        return err
    }
    ch, err := conn.Channel()
    if err != nil {
        p.log.Error("rabbitmq publish failed", slog.String("stage", "channel"), slog.Any("error", err))
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.MessageID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
        p.log.Error("rabbitmq publish failed", slog.String("stage", "publish"), slog.Any("error", err))
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.conn == nil || p.conn.IsClosed() {
        return nil
    }
    return p.conn.Close()
}

// LogNotifier is used when RabbitMQ is disabled: confirmations are written
// straight to the notification log.
type LogNotifier struct {
    Writer *NotificationWriter
}

func (n LogNotifier) PaymentConfirmed(_ context.Context, ev PaymentConfirmedEvent) error {
    return n.Writer.Write(ev)
}
