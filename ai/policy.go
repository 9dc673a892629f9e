package ai

import (
	"context"

	"github.com/youryharchenko/go-shrdlite/planning"
)

// PlanPolicy перетворює повний план на покрокову політику:
// спершу будує план (або бере завантажений), далі віддає по одній дії.
type PlanPolicy[S planning.State] struct {
	Planner    planning.Planner[S]
	PathBuffer []planning.Action

	planned bool
}

// NewPlanPolicy створює політику над планувальником.
func NewPlanPolicy[S planning.State](p planning.Planner[S]) *PlanPolicy[S] {
	return &PlanPolicy[S]{Planner: p}
}

// Load встановлює готовий план (наприклад, від planner.Service).
func (p *PlanPolicy[S]) Load(plan []planning.Action) {
	p.PathBuffer = append([]planning.Action(nil), plan...)
	p.planned = true
}

// Pending - скільки дій плану ще не виконано.
func (p *PlanPolicy[S]) Pending() int {
	return len(p.PathBuffer)
}

func (p *PlanPolicy[S]) Decide(ctx context.Context, current S, domain planning.Domain[S], mem planning.Memory[S]) (planning.Action, error) {
	// 0. Ініціалізація: будуємо план, якщо його ще немає
	if !p.planned {
		mem.Remember(current)
		if domain.IsGoal(current) {
			return "", ErrGoalReached
		}
		if p.Planner == nil {
			return "", ErrNoSolution
		}
		plan, err := p.Planner.MakePlan(ctx, current, domain)
		if err != nil {
			return "", err
		}
		p.PathBuffer = plan
		p.planned = true
	}

	// 1. Виконання буфера (рух до цілі)
	if len(p.PathBuffer) == 0 {
		return "", ErrGoalReached
	}
	action := p.PathBuffer[0]
	p.PathBuffer = p.PathBuffer[1:]
	return action, nil
}

func (p *PlanPolicy[S]) Reset() {
	p.PathBuffer = nil
	p.planned = false
}
