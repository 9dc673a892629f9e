package blocks

import (
	"encoding/gob"

	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/planning"
	"github.com/youryharchenko/go-shrdlite/world"
)

// Службові команди-рядки.
const (
	Tick    = "TICK"    // крок виконання плану
	Reset   = "RESET"   // світ - у початковий стан, рука - забути все
	Shuffle = "SHUFFLE" // світ - випадкова перестановка
	Policy  = "POLICY:" // POLICY:AStar або POLICY:BFS
)

// ActionRequest - запит на одну примітивну дію (від руки до світу).
type ActionRequest struct {
	Action planning.Action
}

// ActionResult - відповідь світу. Нелегальна дія: Success=false,
// State - незмінений стан, Message - причина.
type ActionResult struct {
	Action  planning.Action
	Success bool
	Message string
	State   world.State
}

// WorldUpdate - світ змінився не через руку (reset, shuffle, інший світ).
type WorldUpdate struct {
	World world.World
}

// LoadWorld просить світ завантажити вбудований світ за назвою.
type LoadWorld struct {
	Name string
}

// CommandRequest - англійська команда для руки.
type CommandRequest struct {
	Text string
}

// GoalRequest - готова DNF-мета для руки.
type GoalRequest struct {
	Goal logic.DNF
}

func init() {
	gob.Register(ActionRequest{})
	gob.Register(ActionResult{})
	gob.Register(WorldUpdate{})
	gob.Register(LoadWorld{})
	gob.Register(CommandRequest{})
	gob.Register(GoalRequest{})
	gob.Register(&WorldAgent{})
	gob.Register(&ArmAgent{})
}
