package ui

import (
	"context"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-shrdlite/mas"
)

func TestHistoryEntry(t *testing.T) {
	test.NewTempApp(t)
	e := NewHistoryEntry()

	_, ok := e.Prev()
	assert.False(t, ok, "empty history")

	e.AddCommand("take the white ball")
	e.AddCommand("")
	e.AddCommand("put it on the floor")
	e.AddCommand("put it on the floor")
	assert.Equal(t, []string{"take the white ball", "put it on the floor"}, e.History())

	text, ok := e.Prev()
	require.True(t, ok)
	assert.Equal(t, "put it on the floor", text)
	text, _ = e.Prev()
	assert.Equal(t, "take the white ball", text)
	_, ok = e.Prev()
	assert.False(t, ok, "stops at the oldest command")

	text, _ = e.Next()
	assert.Equal(t, "put it on the floor", text)
	text, ok = e.Next()
	assert.True(t, ok)
	assert.Empty(t, text, "past the newest command comes a blank line")
}

func TestHistoryEntryKeys(t *testing.T) {
	test.NewTempApp(t)
	e := NewHistoryEntry()
	e.AddCommand("take a blue object")

	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyUp})
	assert.Equal(t, "take a blue object", e.Text)
	assert.Equal(t, len("take a blue object"), e.CursorColumn)

	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyDown})
	assert.Empty(t, e.Text)
}

func TestHistoryEntryLimit(t *testing.T) {
	test.NewTempApp(t)
	e := NewHistoryEntry()
	for i := range MaxHistory + 10 {
		e.AddCommand(strings.Repeat("x", i+1))
	}
	h := e.History()
	require.Len(t, h, MaxHistory)
	assert.Equal(t, strings.Repeat("x", 11), h[0])
}

func TestLogEntryIsReadOnly(t *testing.T) {
	test.NewTempApp(t)
	e := NewLogEntry()
	e.SetText("plan found")

	e.TypedRune('x')
	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})
	e.TypedShortcut(&fyne.ShortcutPaste{})
	assert.Equal(t, "plan found", e.Text)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "[arm-1 -> console]: Done in 3 steps",
		Format(mas.Envelope{From: "arm-1", Payload: "Done in 3 steps"}, "console"))
	assert.Equal(t, "[world-1 -> console]: 42",
		Format(mas.Envelope{From: "world-1", Payload: 42}, "console"))
}

func TestLogWindowAgentTrims(t *testing.T) {
	test.NewTempApp(t)
	data := binding.NewString()
	agent := NewLogWindowAgent("console", data)

	for i := range MaxLogLines + 5 {
		_, err := agent.Plan(context.Background(), mas.Envelope{From: "arm-1", Payload: strings.Repeat("!", i%3)})
		require.NoError(t, err)
	}
	text, err := data.Get()
	require.NoError(t, err)
	lines := strings.Split(text, "\n")
	assert.Len(t, lines, MaxLogLines)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "[arm-1 -> console]: "))
}
