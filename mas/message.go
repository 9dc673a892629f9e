package mas

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Performative string

const (
	Request Performative = "REQUEST"
	Propose Performative = "PROPOSE"
	Inform  Performative = "INFORM"
)

type Envelope struct {
	From    string
	To      string
	Type    Performative
	Payload any
	// Metadata дозволяє middleware додавати контекст (наприклад, TraceID)
	Metadata map[string]string
}

// Handler - функція, яка обробляє (доставляє) повідомлення
type Handler func(ctx context.Context, env Envelope) error

// Middleware - функція-обгортка (Higher-Order Function)
type Middleware func(next Handler) Handler

// Chain - допоміжна функція для об'єднання middleware.
// Перший у списку виконується першим.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// MetaMessageID - ключ Metadata з ідентифікатором повідомлення.
const MetaMessageID = "msg_id"

// Stamp дає кожному повідомленню унікальний ID і час відправки.
func Stamp() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, env Envelope) error {
			meta := make(map[string]string, len(env.Metadata)+2)
			for k, v := range env.Metadata {
				meta[k] = v
			}
			if meta[MetaMessageID] == "" {
				meta[MetaMessageID] = uuid.NewString()
			}
			meta["sent_at"] = time.Now().UTC().Format(time.RFC3339Nano)
			env.Metadata = meta
			return next(ctx, env)
		}
	}
}

// Logging пише кожну доставку в debug, невдачі - у warn.
func Logging(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, env Envelope) error {
			err := next(ctx, env)
			fields := []zap.Field{
				zap.String("from", env.From),
				zap.String("to", env.To),
				zap.String("type", string(env.Type)),
				zap.String("msg_id", env.Metadata[MetaMessageID]),
			}
			if err != nil {
				logger.Warn("delivery failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("delivered", fields...)
			}
			return err
		}
	}
}
