package mas

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// BaseAgent бере на себе всю рутину: канали, системні виклики, цикл.
type BaseAgent struct {
	// Експортовані поля для GOB
	IDVal string

	// Приватні (інфраструктура)
	sys    *System
	inbox  <-chan Envelope
	logger *zap.Logger
	mu     sync.RWMutex

	me Agent
}

func (b *BaseAgent) ID() string { return b.IDVal }

func (b *BaseAgent) Bind(sys *System, inbox <-chan Envelope, me Agent) {
	b.sys = sys
	b.inbox = inbox
	b.me = me
	b.logger = sys.Logger().With(zap.String("agent", b.IDVal))
}

// Sys повертає систему, до якої прив'язаний агент.
func (b *BaseAgent) Sys() *System {
	return b.sys
}

// Logger - логер агента (zap.NewNop до Bind).
func (b *BaseAgent) Logger() *zap.Logger {
	if b.logger == nil {
		return zap.NewNop()
	}
	return b.logger
}

// Lock/Unlock захищають стан агента: дії MutateState виконуються під Lock,
// UI читає знімки під RLock.
func (b *BaseAgent) Lock()    { b.mu.Lock() }
func (b *BaseAgent) Unlock()  { b.mu.Unlock() }
func (b *BaseAgent) RLock()   { b.mu.RLock() }
func (b *BaseAgent) RUnlock() { b.mu.RUnlock() }

// Run - стандартний цикл для всіх агентів
func (b *BaseAgent) Run(ctx context.Context) error {
	b.Logger().Debug("agent running")
	// Якщо у агента є метод OnWakeUp, кличемо його
	if hook, ok := b.me.(interface{ OnWakeUp() }); ok {
		hook.OnWakeUp()
	}

	for {
		select {
		case msg := <-b.inbox:
			b.processMessage(ctx, msg)
		case <-ctx.Done():
			b.drainInbox(ctx)
			b.Logger().Debug("agent done")
			return nil
		}
	}
}

// drainInbox вичитує залишки повідомлень без блокування
func (b *BaseAgent) drainInbox(ctx context.Context) {
	for {
		select {
		case msg := <-b.inbox:
			// Обробляємо навіть після Done: контекст передаємо як є,
			// щоб агент знав, що система зупиняється.
			b.processMessage(ctx, msg)
		default:
			return
		}
	}
}

func (b *BaseAgent) processMessage(ctx context.Context, msg Envelope) {
	actions, err := b.me.Plan(ctx, msg)
	if err != nil {
		b.Logger().Warn("planning error", zap.String("from", msg.From), zap.Error(err))
		return
	}

	for _, action := range actions {
		// Send може впасти, якщо система зупиняється. Це нормально.
		if err := action(b.me, b.sys); err != nil {
			b.Logger().Warn("action failed", zap.String("from", msg.From), zap.Error(err))
		}
	}
}
