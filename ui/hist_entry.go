package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// MaxHistory - скільки команд пам'ятає поле вводу.
const MaxHistory = 200

// HistoryEntry - поле вводу, що пам'ятає історію команд (стрілки вгору/вниз)
type HistoryEntry struct {
	widget.Entry
	history []string
	pointer int // len(history) - порожній рядок після останньої команди
}

func NewHistoryEntry() *HistoryEntry {
	e := &HistoryEntry{}
	e.ExtendBaseWidget(e)
	e.PlaceHolder = "Enter command..."
	return e
}

// AddCommand додає команду в історію і скидає вказівник.
// Повтор останньої команди не дублюється.
func (e *HistoryEntry) AddCommand(cmd string) {
	if cmd == "" {
		return
	}
	if n := len(e.history); n == 0 || e.history[n-1] != cmd {
		e.history = append(e.history, cmd)
		if len(e.history) > MaxHistory {
			e.history = e.history[len(e.history)-MaxHistory:]
		}
	}
	e.pointer = len(e.history)
}

// History повертає копію історії, старші команди першими.
func (e *HistoryEntry) History() []string {
	return append([]string(nil), e.history...)
}

// Prev і Next рухають вказівник історії і повертають текст для поля.
func (e *HistoryEntry) Prev() (string, bool) {
	if e.pointer == 0 || len(e.history) == 0 {
		return "", false
	}
	e.pointer--
	return e.history[e.pointer], true
}

func (e *HistoryEntry) Next() (string, bool) {
	if len(e.history) == 0 {
		return "", false
	}
	if e.pointer < len(e.history)-1 {
		e.pointer++
		return e.history[e.pointer], true
	}
	// Дійшли до кінця: новий ввід
	e.pointer = len(e.history)
	return "", true
}

// TypedKey перехоплює стрілки
func (e *HistoryEntry) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyUp:
		if text, ok := e.Prev(); ok {
			e.setTextAndMoveCursor(text)
		}
	case fyne.KeyDown:
		if text, ok := e.Next(); ok {
			e.setTextAndMoveCursor(text)
		}
	default:
		e.Entry.TypedKey(key)
	}
}

// setTextAndMoveCursor ставить текст і переміщує курсор в кінець,
// бо SetText може лишати курсор на початку.
func (e *HistoryEntry) setTextAndMoveCursor(text string) {
	e.SetText(text)
	e.CursorColumn = len([]rune(text))
	e.Refresh()
}
