package mas

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Action - це команда, яку агент хоче виконати (наприклад: "Надіслати листа", "Змінити стан")
type Action func(agent Agent, sys *System) error

// Send створює дію відправки повідомлення
func Send(to string, payload any) Action {
	return SendCtx(context.Background(), to, payload)
}

// SendCtx - Send з контекстом обробки повідомлення (тайм-аут, скасування).
func SendCtx(ctx context.Context, to string, payload any) Action {
	return func(a Agent, sys *System) error {
		return sys.Send(ctx, a.ID(), to, payload)
	}
}

// SayLog пише в лог системи від імені агента.
func SayLog(format string, args ...any) Action {
	return func(a Agent, sys *System) error {
		sys.Logger().Info(fmt.Sprintf(format, args...), zap.String("agent", a.ID()))
		return nil
	}
}

// MutateState змінює стан агента під його блокуванням,
// якщо агент його має (BaseAgent має).
func MutateState(fn func(agent any)) Action {
	return func(a Agent, sys *System) error {
		if l, ok := a.(interface {
			Lock()
			Unlock()
		}); ok {
			l.Lock()
			defer l.Unlock()
		}
		fn(a)
		return nil
	}
}
