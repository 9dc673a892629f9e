// Package planner з'єднує розбір команди, компіляцію мети, пошук і рендер
// в одну операцію.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/youryharchenko/go-shrdlite/ai"
	"github.com/youryharchenko/go-shrdlite/config"
	"github.com/youryharchenko/go-shrdlite/logging"
	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/nlu"
	"github.com/youryharchenko/go-shrdlite/planning"
	"github.com/youryharchenko/go-shrdlite/render"
	"github.com/youryharchenko/go-shrdlite/world"
)

var (
	// ErrNoPlan - пошук не знайшов плану (вичерпано простір або час).
	// Обгортає ai.ErrNoSolution чи ai.ErrTimeout.
	ErrNoPlan = errors.New("no plan found")

	// ErrUnsatisfiable - порожня DNF, виконувати нічого.
	ErrUnsatisfiable = errors.New("goal is unsatisfiable")
)

var tracer = otel.Tracer("shrdlite.planner")

// Outcome - результат планування однієї команди.
type Outcome struct {
	ID       uuid.UUID
	Command  string // обране прочитання; порожньо для PlanGoal
	Goal     logic.DNF
	Actions  []planning.Action
	Messages []string // рендер плану
	Cost     float64
	Expanded int
	Elapsed  time.Duration
}

// Service планує команди у світі. Безпечний для одночасного використання:
// стану між викликами немає.
type Service struct {
	algorithm   string
	heuristic   logic.Heuristic
	timeout     time.Duration
	maxExpanded int
	logger      *zap.Logger
}

// New створює сервіс з налаштувань планувальника.
func New(cfg *config.Config, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{
		algorithm:   cfg.Planner.Algorithm,
		heuristic:   cfg.GetHeuristic(),
		timeout:     cfg.GetTimeout(),
		maxExpanded: cfg.Planner.MaxExpanded,
		logger:      logging.OrNop(logger).Named("planner"),
	}
}

// Plan розбирає текст, інтерпретує кожне прочитання і планує за першим успішним.
func (s *Service) Plan(ctx context.Context, w world.World, text string) (*Outcome, error) {
	id := uuid.New()
	ctx, span := tracer.Start(ctx, "Service.Plan", trace.WithAttributes(
		attribute.String("plan.id", id.String()),
		attribute.String("plan.world", w.Name),
		attribute.String("plan.text", text),
	))
	defer span.End()
	log := s.logger.With(zap.String("plan_id", id.String()))

	dnf, cmd, err := s.interpret(w, text, log)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Info("command not understood", zap.String("text", text), zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.String("plan.command", cmd.String()))

	out, err := s.search(ctx, id, w, dnf, span, log)
	if out != nil {
		out.Command = cmd.String()
	}
	return out, err
}

// PlanGoal планує вже готову DNF-мету.
func (s *Service) PlanGoal(ctx context.Context, w world.World, dnf logic.DNF) (*Outcome, error) {
	id := uuid.New()
	ctx, span := tracer.Start(ctx, "Service.PlanGoal", trace.WithAttributes(
		attribute.String("plan.id", id.String()),
		attribute.String("plan.world", w.Name),
	))
	defer span.End()
	return s.search(ctx, id, w, dnf, span, s.logger.With(zap.String("plan_id", id.String())))
}

// interpret повертає першу успішну інтерпретацію серед усіх прочитань.
// Якщо невдалі всі, перевага віддається ErrAmbiguous: тоді варто уточнити.
func (s *Service) interpret(w world.World, text string, log *zap.Logger) (logic.DNF, nlu.Command, error) {
	cmds, err := nlu.Parse(text)
	if err != nil {
		return nil, nlu.Command{}, err
	}

	var (
		dnf      logic.DNF
		chosen   nlu.Command
		found    bool
		firstErr error
	)
	for i, cmd := range cmds {
		d, err := nlu.Interpret(cmd, w)
		if err != nil {
			log.Debug("reading rejected", zap.Int("reading", i), zap.Stringer("command", cmd), zap.Error(err))
			if firstErr == nil || (errors.Is(err, nlu.ErrAmbiguous) && !errors.Is(firstErr, nlu.ErrAmbiguous)) {
				firstErr = err
			}
			continue
		}
		if found {
			log.Info("extra reading ignored", zap.Int("reading", i), zap.Stringer("command", cmd), zap.Stringer("goal", d))
			continue
		}
		dnf, chosen, found = d, cmd, true
	}
	if !found {
		return nil, nlu.Command{}, firstErr
	}
	return dnf, chosen, nil
}

func (s *Service) search(ctx context.Context, id uuid.UUID, w world.World, dnf logic.DNF, span trace.Span, log *zap.Logger) (*Outcome, error) {
	span.SetAttributes(
		attribute.String("plan.goal", dnf.String()),
		attribute.String("plan.algorithm", s.algorithm),
	)
	if len(dnf) == 0 {
		span.SetStatus(codes.Error, ErrUnsatisfiable.Error())
		return nil, ErrUnsatisfiable
	}

	goal, err := logic.Compile(dnf, logic.WithHeuristic(s.heuristic))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	opts := []ai.SearchOption{ai.WithTimeout(s.timeout), ai.WithMaxExpanded(s.maxExpanded)}
	g := w.Graph()
	var res *ai.Result[world.State]
	switch s.algorithm {
	case "bfs":
		res, err = ai.BreadthFirst(ctx, g, w.State, goal.Satisfied, opts...)
	default:
		res, err = ai.Search(ctx, g, w.State, goal.Satisfied, goal.Estimate, opts...)
	}

	span.SetAttributes(
		attribute.Int("plan.expanded", res.Expanded),
		attribute.String("plan.outcome", ai.Outcome(err)),
	)
	fields := []zap.Field{
		zap.Stringer("goal", dnf),
		zap.String("algorithm", s.algorithm),
		zap.String("heuristic", string(s.heuristic)),
		zap.Int("expanded", res.Expanded),
		zap.Duration("elapsed", res.Elapsed),
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Warn("no plan", append(fields, zap.Error(err))...)
		return &Outcome{ID: id, Goal: dnf, Expanded: res.Expanded, Elapsed: res.Elapsed}, fmt.Errorf("%w: %w", ErrNoPlan, err)
	}

	log.Info("plan found", append(fields, zap.Int("length", len(res.Actions)), zap.Float64("cost", res.Cost))...)
	return &Outcome{
		ID:       id,
		Goal:     dnf,
		Actions:  res.Actions,
		Messages: render.Plan(w, res.Actions),
		Cost:     res.Cost,
		Expanded: res.Expanded,
		Elapsed:  res.Elapsed,
	}, nil
}

// Domain - planning.Domain світу кубиків з DNF-метою:
// ребра дає world.Graph, мету і оцінку - скомпільований logic.Goal.
type Domain struct {
	*world.Graph
	Goal *logic.Goal
}

func (d Domain) IsGoal(s world.State) bool {
	return d.Goal.Satisfied(s)
}

func (d Domain) Heuristic(s world.State) float64 {
	return d.Goal.Estimate(s)
}

// Domain компілює мету в домен для покрокових політик (ai.PlanPolicy).
func (s *Service) Domain(w world.World, dnf logic.DNF) (Domain, error) {
	goal, err := logic.Compile(dnf, logic.WithHeuristic(s.heuristic))
	if err != nil {
		return Domain{}, err
	}
	return Domain{Graph: w.Graph(), Goal: goal}, nil
}
