package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/youryharchenko/go-shrdlite/world"
)

// palette - кольори об'єктів для термінала.
var palette = map[string]lipgloss.Color{
	"red":    lipgloss.Color("#e74c3c"),
	"green":  lipgloss.Color("#2ecc71"),
	"blue":   lipgloss.Color("#3498db"),
	"yellow": lipgloss.Color("#f1c40f"),
	"white":  lipgloss.Color("#ecf0f1"),
	"black":  lipgloss.Color("#7f8c8d"),
}

var armStyle = lipgloss.NewStyle().Bold(true)

// WorldOptions керує текстовим рендером світу.
type WorldOptions struct {
	Color  bool // розфарбувати ідентифікатори кольорами об'єктів
	Legend bool // додати список об'єктів з описами
}

const cellWidth = 4

// World малює стовпчики знизу вгору, лінію підлоги і позицію руки.
func World(w world.World, opts WorldOptions) string {
	s := w.State
	height := 0
	for _, col := range s.Stacks {
		height = max(height, len(col))
	}

	var b strings.Builder

	// Рука і те, що вона тримає
	for c := range s.Stacks {
		cell := ""
		if c == s.Arm {
			cell = "\\_/"
			if s.Holding != "" {
				cell = s.Holding
			}
		}
		b.WriteString(pad(cell, opts, w, s.Holding))
	}
	b.WriteString("\n")

	for row := height - 1; row >= 0; row-- {
		for _, col := range s.Stacks {
			id := ""
			if row < len(col) {
				id = col[row]
			}
			b.WriteString(pad(id, opts, w, id))
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("-", cellWidth*len(s.Stacks)))
	b.WriteString("\n")
	for c := range s.Stacks {
		b.WriteString(fmt.Sprintf("%-*d", cellWidth, c))
	}
	b.WriteString("\n")

	if s.Holding != "" {
		b.WriteString(fmt.Sprintf("holding: %s (%s)\n", s.Holding, w.Describe(s.Holding)))
	}

	if opts.Legend {
		ids := make([]string, 0, len(w.Objects))
		for id := range w.Objects {
			if w.State.Exists(id) {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			b.WriteString(fmt.Sprintf("  %s: %s\n", id, w.Describe(id)))
		}
	}
	return b.String()
}

// pad вирівнює клітинку до cellWidth і за потреби розфарбовує.
func pad(text string, opts WorldOptions, w world.World, id string) string {
	padding := strings.Repeat(" ", max(cellWidth-len(text), 1))
	if !opts.Color || text == "" {
		return text + padding
	}
	if o, ok := w.Objects[id]; ok {
		if c, ok := palette[o.Color]; ok {
			return lipgloss.NewStyle().Foreground(c).Render(text) + padding
		}
	}
	if text == "\\_/" {
		return armStyle.Render(text) + padding
	}
	return text + padding
}
