package ai

import "errors"

var (
	// ErrNoSolution - відкритий список вичерпано, мета недосяжна.
	ErrNoSolution = errors.New("no solution found")

	// ErrTimeout - бюджет часу (або розкриттів) вичерпано до знаходження мети.
	ErrTimeout = errors.New("search timed out")

	// ErrGoalReached - політика повідомляє, що мета вже досягнута.
	ErrGoalReached = errors.New("goal reached")
)
