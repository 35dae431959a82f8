package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationWriter appends one line per confirmation to
// <dir>/notifications.log.  It stands in for an email provider.
type NotificationWriter struct {
    dir string
    mu  sync.Mutex
}

func NewNotificationWriter(dir string) *NotificationWriter {
    if dir == "" {
        dir = "logs"
    }
    return &NotificationWriter{dir: dir}
}

// Path returns the log file the writer appends to.
func (w *NotificationWriter) Path() string { return filepath.Join(w.dir, "notifications.log") }

func (w *NotificationWriter) Write(ev PaymentConfirmedEvent) error {
    w.mu.Lock()
    defer w.mu.Unlock()

    if err := os.MkdirAll(w.dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", w.dir, err)
    }
    f, err := os.OpenFile(w.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] Payment confirmation sent | to=%s | reservation_id=%d | payment_id=%d | match=%q | stadium=%q | date=%s | tier=%s | tickets=%d | amount=%.2f | method=%s\n",
        ev.PaidAt.UTC().Format(time.RFC3339), ev.Email, ev.ReservationID, ev.PaymentID, ev.Match, ev.Stadium,
        ev.MatchDate.UTC().Format(time.RFC3339), ev.Tier, ev.TicketCount, ev.Amount, ev.Method)

    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// Consumer drains the confirmation queue into a NotificationWriter.
type Consumer struct {
    URL    string
    Queue  string
    Writer *NotificationWriter
    Log    *slog.Logger
}

// Run connects to the broker and consumes until ctx is cancelled.  Lost
// connections are re-dialed with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            c.Log.Warn("confirmation consumer: dial failed", slog.Any("error", err), slog.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.Log.Warn("confirmation consumer: consume loop ended, reconnecting", slog.Any("error", err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.Log.Warn("confirmation consumer: set QoS failed", slog.Any("error", err))
    }
    if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handle(d.Body); err != nil {
                c.Log.Error("confirmation consumer: handle message failed", slog.Any("error", err))
                _ = d.Nack(false, false) // no requeue
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handle(body []byte) error {
    var ev PaymentConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := c.Writer.Write(ev); err != nil {
        return err
    }
    c.Log.Info("payment confirmation delivered",
        slog.String("email", ev.Email),
        slog.Uint64("reservation_id", ev.ReservationID),
        slog.String("message_id", ev.MessageID))
    return nil
}
