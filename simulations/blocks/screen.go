package blocks

import (
	"context"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/youryharchenko/go-shrdlite/config"
	"github.com/youryharchenko/go-shrdlite/logic"
	"github.com/youryharchenko/go-shrdlite/mas"
	"github.com/youryharchenko/go-shrdlite/ui"
	"github.com/youryharchenko/go-shrdlite/world"
)

const (
	WorldID = "world-1"
	ArmID   = "arm-1"
)

// Submit перетворює рядок вводу на повідомлення для руки:
// "goal <dnf>" - готова мета, інше - англійська команда.
func Submit(ctx context.Context, sys *mas.System, from, text string) error {
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "goal "); ok {
		dnf, err := logic.ParseDNF(rest)
		if err != nil {
			return err
		}
		return sys.Request(ctx, from, ArmID, GoalRequest{Goal: dnf})
	}
	return sys.Request(ctx, from, ArmID, CommandRequest{Text: text})
}

// Spawn запускає світ і руку в sys, якщо їх ще немає (наприклад, після Startup).
func Spawn(sys *mas.System, w world.World, cfg *config.Config) error {
	if _, ok := sys.GetAgent(WorldID); !ok {
		if err := sys.Spawn(NewWorldAgent(WorldID, w, ArmID)); err != nil {
			return err
		}
	}
	if _, ok := sys.GetAgent(ArmID); !ok {
		if err := sys.Spawn(NewArmAgent(ArmID, WorldID, w.State.Clone(), cfg)); err != nil {
			return err
		}
	}
	return nil
}

// NewScreen створює вміст вкладки та запускає підсистему
func NewScreen(parentSys *mas.System, cfg *config.Config) fyne.CanvasObject {
	if cfg == nil {
		cfg = config.Default()
	}
	log := parentSys.Logger().Named("blocks")

	// 1. Створюємо підсистему (зі своїм знімком)
	blocksSys := parentSys.CreateSubsystem(mas.WithPersistence(cfg.Lab.Snapshot))
	if err := blocksSys.Startup(); err != nil {
		log.Warn("snapshot ignored", zap.Error(err))
	}

	w, err := world.Builtin(cfg.World.Name)
	if err != nil {
		log.Warn("falling back to the small world", zap.Error(err))
		w, _ = world.Builtin("small")
	}
	if err := Spawn(blocksSys, w, cfg); err != nil {
		log.Error("spawn failed", zap.Error(err))
	}

	// 2. Графічний віджет
	board := NewBlocksBoard()
	ctx := blocksSys.Context()

	// UI LOOP: синхронізує стан агентів з віджетом
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond) // 10 FPS
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			aWorld, ok1 := blocksSys.GetAgent(WorldID)
			aArm, ok2 := blocksSys.GetAgent(ArmID)
			if !ok1 || !ok2 {
				continue
			}
			realWorld := aWorld.(*WorldAgent)
			realArm := aArm.(*ArmAgent)
			visited := 0
			if m := realArm.Memory(); m != nil {
				visited = m.Len()
			}
			board.UpdateState(realWorld.Snapshot(), visited)
		}
	}()

	// Глобальний таймер світу
	go func() {
		ticker := time.NewTicker(cfg.GetTick())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Пінаємо руку, щоб вона зробила крок
				_ = blocksSys.Send(ctx, "admin", ArmID, Tick)
			}
		}
	}()

	// Поле команд
	input := ui.NewHistoryEntry()
	input.PlaceHolder = "put the white ball in a box on the floor | goal ontop(f,floor)"
	input.OnSubmitted = func(text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		input.AddCommand(text)
		input.SetText("")
		if err := Submit(ctx, blocksSys, "gui", text); err != nil {
			_ = blocksSys.Send(ctx, "gui", "console", err.Error())
		}
	}

	worldSelect := widget.NewSelect(world.BuiltinNames(), func(name string) {
		_ = blocksSys.Send(ctx, "gui", WorldID, LoadWorld{Name: name})
	})
	worldSelect.PlaceHolder = w.Name

	btnReset := widget.NewButton("Reset", func() {
		_ = blocksSys.Send(ctx, "gui", WorldID, Reset)
		_ = blocksSys.Send(ctx, "gui", ArmID, Reset)
	})
	btnShuffle := widget.NewButton("Shuffle", func() {
		_ = blocksSys.Send(ctx, "gui", WorldID, Shuffle)
	})

	policySelect := widget.NewSelect([]string{"AStar", "BFS"}, func(selected string) {
		_ = blocksSys.Send(ctx, "gui", ArmID, Policy+selected)
	})
	if cfg.Planner.Algorithm == "bfs" {
		policySelect.SetSelected("BFS")
	} else {
		policySelect.SetSelected("AStar")
	}

	examples := widget.NewSelect(w.Examples, func(text string) {
		input.SetText(text)
	})
	examples.PlaceHolder = "Examples"

	toolbar := container.NewHBox(
		widget.NewLabel("World:"),
		worldSelect,
		btnReset,
		btnShuffle,
		widget.NewLabel("Planner:"),
		policySelect,
		examples,
	)

	// Board розтягується на весь вільний простір
	return container.NewBorder(
		toolbar, // Top
		input,   // Bottom
		nil,     // Left
		nil,     // Right
		board,   // Center
	)
}
