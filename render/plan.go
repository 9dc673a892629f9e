// Package render turns plans and worlds into text for people.
package render

import (
	"github.com/youryharchenko/go-shrdlite/planning"
	"github.com/youryharchenko/go-shrdlite/world"
)

const (
	// AlreadyTrue - повідомлення для порожнього плану.
	AlreadyTrue = "That is already true!"
	// DontKnow - відповідь, коли плану немає.
	DontKnow = "I don't know how to do that."
)

// Plan чергує повідомлення і літери дій. Повідомлення додається тільки
// перед дією, що відрізняється від попередньої (стиснення серій).
// Для pick/drop план програється від стану світу, щоб назвати об'єкт.
func Plan(w world.World, actions []planning.Action) []string {
	if len(actions) == 0 {
		return []string{AlreadyTrue}
	}

	out := make([]string, 0, len(actions)*2)
	state := w.State
	var prev planning.Action
	for _, a := range actions {
		if a != prev {
			out = append(out, message(w, state, a))
		}
		out = append(out, string(a))
		prev = a

		next, err := world.Apply(w.Objects, state, a)
		if err == nil {
			state = next
		}
	}
	return out
}

func message(w world.World, s world.State, a planning.Action) string {
	switch a {
	case world.Left:
		return "Moving left"
	case world.Right:
		return "Moving right"
	case world.Pick:
		if top := s.Top(s.Arm); top != "" {
			return "Picking up the " + w.Describe(top)
		}
		return "Picking up"
	case world.Drop:
		if s.Holding != "" {
			return "Dropping the " + w.Describe(s.Holding)
		}
		return "Dropping"
	}
	return "Doing " + string(a)
}

// Actions відфільтровує з рендереного плану тільки літери дій.
func Actions(rendered []string) []planning.Action {
	var actions []planning.Action
	for _, s := range rendered {
		switch planning.Action(s) {
		case world.Left, world.Right, world.Pick, world.Drop:
			actions = append(actions, planning.Action(s))
		}
	}
	return actions
}
