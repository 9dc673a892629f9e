package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2/data/binding"

	"github.com/youryharchenko/go-shrdlite/mas"
)

// MaxLogLines - скільки рядків тримає консоль.
const MaxLogLines = 500

// LogWindowAgent - агент, який дописує всі свої повідомлення в текстове поле
type LogWindowAgent struct {
	mas.BaseAgent

	// GOB приватне поле ігнорує: GUI не зберігається
	output binding.String
}

func NewLogWindowAgent(id string, data binding.String) *LogWindowAgent {
	return &LogWindowAgent{
		BaseAgent: mas.BaseAgent{IDVal: id},
		output:    data,
	}
}

// Format - рядок консолі для повідомлення.
func Format(msg mas.Envelope, to string) string {
	if text, ok := msg.Payload.(string); ok {
		return fmt.Sprintf("[%s -> %s]: %s", msg.From, to, text)
	}
	return fmt.Sprintf("[%s -> %s]: %+v", msg.From, to, msg.Payload)
}

// Plan показує повідомлення і обрізає найстаріші рядки.
func (g *LogWindowAgent) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	current, _ := g.output.Get()
	lines := strings.Split(current, "\n")
	lines = append(lines, Format(msg, g.IDVal))
	if len(lines) > MaxLogLines {
		lines = lines[len(lines)-MaxLogLines:]
	}
	// binding потокобезпечний у Fyne
	return nil, g.output.Set(strings.Join(lines, "\n"))
}
