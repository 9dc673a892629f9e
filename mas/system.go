package mas

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultInboxSize - розмір буфера вхідних повідомлень агента.
const DefaultInboxSize = 100

var (
	ErrAgentExists   = errors.New("agent already exists")
	ErrAgentNotFound = errors.New("agent not found")
	ErrShuttingDown  = errors.New("system is shutting down")
)

type System struct {
	mu       sync.RWMutex
	agents   map[string]Agent         // Тут живуть типи
	registry map[string]chan Envelope // Тут живуть канали (runtime)
	parent   *System
	children []*System

	filename   string // Куди зберігати dump
	inboxSize  int
	logger     *zap.Logger
	middleware []Middleware
	deliver    Handler // deliverLocal, обгорнутий middleware

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
}

// Option - функціональна опція для налаштування системи.
type Option func(*System)

// WithPersistence налаштовує шлях до файлу збереження стану.
func WithPersistence(filename string) Option {
	return func(s *System) {
		s.filename = filename
	}
}

// WithContext дозволяє передати батьківський контекст (наприклад, для тестів або signal.Notify).
func WithContext(ctx context.Context) Option {
	return func(s *System) {
		// Перестворюємо контекст з cancel, базуючись на батьківському
		s.cancel()
		s.ctx, s.cancel = context.WithCancel(ctx)
	}
}

// WithLogger задає логер системи і всіх її агентів.
func WithLogger(logger *zap.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMiddleware додає обгортки доставки повідомлень (у порядку виклику).
func WithMiddleware(mw ...Middleware) Option {
	return func(s *System) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithInboxSize змінює розмір буфера вхідних повідомлень.
func WithInboxSize(n int) Option {
	return func(s *System) {
		if n > 0 {
			s.inboxSize = n
		}
	}
}

// NewSystem створює новий екземпляр системи.
// Приймає список опцій для конфігурації.
func NewSystem(opts ...Option) *System {
	// 1. Значення за замовчуванням
	ctx, cancel := context.WithCancel(context.Background())
	s := &System{
		agents:    make(map[string]Agent),
		registry:  make(map[string]chan Envelope),
		inboxSize: DefaultInboxSize,
		logger:    zap.NewNop(),
		ctx:       ctx,
		cancel:    cancel,
	}

	// 2. Застосування опцій користувача
	for _, opt := range opts {
		opt(s)
	}
	s.deliver = Chain(s.middleware...)(s.deliverLocal)
	return s
}

// CreateSubsystem створює дочірню систему зі своїм реєстром агентів.
// Логер і middleware успадковуються, контекст похідний від батьківського;
// Shutdown батька спершу зупиняє дітей. Повідомлення невідомим адресатам
// підсистема пересилає батькові.
func (s *System) CreateSubsystem(opts ...Option) *System {
	base := []Option{
		WithContext(s.ctx),
		WithLogger(s.logger),
		WithMiddleware(s.middleware...),
		WithInboxSize(s.inboxSize),
	}
	child := NewSystem(append(base, opts...)...)
	child.parent = s

	s.mu.Lock()
	s.children = append(s.children, child)
	s.mu.Unlock()
	return child
}

func (s *System) Context() context.Context {
	return s.ctx
}

func (s *System) Logger() *zap.Logger {
	return s.logger
}

// Startup - завантаження світу
func (s *System) Startup() error {
	if len(s.filename) == 0 {
		return nil
	}

	agents, err := readSnapshot(s.filename)
	if os.IsNotExist(err) {
		return nil // Файлу немає, починаємо з чистого аркуша
	} else if err != nil {
		return fmt.Errorf("failed to restore %s: %w", s.filename, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("resurrection", zap.String("file", s.filename), zap.Int("agents", len(agents)))
	// Оживлення: створюємо інфраструктуру, яку GOB не зберіг
	for id, agent := range agents {
		if _, exists := s.agents[id]; exists {
			s.logger.Warn("restored agent shadows a live one", zap.String("agent", id))
			continue
		}
		s.start(id, agent)
	}
	return nil
}

// Shutdown - збереження світу
func (s *System) Shutdown() error {
	s.mu.RLock()
	children := append([]*System(nil), s.children...)
	s.mu.RUnlock()

	var errs []error
	for _, child := range children {
		if err := child.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Debug("system shutdown")
	// 1. Зупинка всіх процесів
	s.cancel()
	if err := s.group.Wait(); err != nil {
		errs = append(errs, err)
	}

	if len(s.filename) > 0 {
		s.mu.RLock()
		err := writeSnapshot(s.filename, s.agents)
		s.mu.RUnlock()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to save %s: %w", s.filename, err))
		}
	}
	return errors.Join(errs...)
}

func (s *System) GetAgent(id string) (Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, exists := s.agents[id]
	return agent, exists
}

// Agents повертає ID усіх зареєстрованих агентів.
func (s *System) Agents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.agents))
	for id := range s.agents {
		ids = append(ids, id)
	}
	return ids
}

// Spawn реєструє нового агента в системі та запускає його цикл обробки.
func (s *System) Spawn(agent Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := agent.ID()

	// Перевірка на унікальність ID: запобігає перезапису стану
	if _, exists := s.agents[id]; exists {
		return fmt.Errorf("spawn failed: %w: %q", ErrAgentExists, id)
	}
	if s.ctx.Err() != nil {
		return fmt.Errorf("spawn failed: %w", ErrShuttingDown)
	}
	s.start(id, agent)
	return nil
}

// start реєструє і запускає агента. Викликається під s.mu.
func (s *System) start(id string, agent Agent) {
	inbox := make(chan Envelope, s.inboxSize)

	// s.registry потрібен для маршрутизації (Send),
	// s.agents - для GOB-серіалізації (Shutdown) та GetAgent
	s.registry[id] = inbox
	s.agents[id] = agent

	// Впроваджуємо залежності в приватні поля, які GOB ігнорує.
	agent.Bind(s, inbox, agent)

	s.group.Go(func() error {
		// Якщо s.Shutdown() скасує контекст, агент отримає сигнал ctx.Done()
		if err := agent.Run(s.ctx); err != nil {
			s.logger.Error("agent crashed", zap.String("agent", id), zap.Error(err))
		}
		return nil
	})
}

// Send відправляє повідомлення від одного агента іншому.
// Ця операція є потокобезпечною. Повідомлення проходить через middleware.
//
// Аргументи:
//
//	ctx     - Контекст виконання (можна використати для тайм-ауту: context.WithTimeout).
//	fromID  - ID відправника.
//	toID    - ID отримувача.
//	payload - Корисне навантаження (суть задачі).
func (s *System) Send(ctx context.Context, fromID, toID string, payload any) error {
	return s.deliver(ctx, Envelope{
		From:    fromID,
		To:      toID,
		Type:    Inform,
		Payload: payload,
	})
}

// Request - як Send, але з перформативом REQUEST.
func (s *System) Request(ctx context.Context, fromID, toID string, payload any) error {
	return s.deliver(ctx, Envelope{
		From:    fromID,
		To:      toID,
		Type:    Request,
		Payload: payload,
	})
}

// deliverLocal кладе конверт у канал адресата з урахуванням backpressure.
func (s *System) deliverLocal(ctx context.Context, env Envelope) error {
	// RLock, бо це операція читання, яка відбувається дуже часто.
	s.mu.RLock()
	ch, exists := s.registry[env.To]
	s.mu.RUnlock()

	if !exists {
		if s.parent != nil {
			return s.parent.deliverLocal(ctx, env)
		}
		return fmt.Errorf("send failed: %w: %q", ErrAgentNotFound, env.To)
	}

	select {
	case ch <- env:
		return nil

	case <-ctx.Done():
		// Відправник скасував операцію або вийшов час
		return fmt.Errorf("send canceled by caller: %w", ctx.Err())

	case <-s.ctx.Done():
		return ErrShuttingDown
	}
}

// Kill примусово видаляє агента з системи (пам'яті та реєстру).
// Корисно для тимчасових агентів (GUI, Debug), які не треба зберігати.
// Горутина агента завершиться разом із системою.
func (s *System) Kill(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.agents, id)
	delete(s.registry, id)
}
