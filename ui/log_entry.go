package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// LogEntry - Entry тільки для читання: текст можна виділяти і копіювати,
// але не редагувати.
type LogEntry struct {
	widget.Entry
}

func NewLogEntry() *LogEntry {
	e := &LogEntry{}
	e.ExtendBaseWidget(e)
	e.MultiLine = true
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.Wrapping = fyne.TextWrapWord
	return e
}

// TypedRune ігнорує введення тексту.
func (e *LogEntry) TypedRune(r rune) {}

// TypedKey пропускає тільки навігацію, щоб можна було скролити клавіатурою.
func (e *LogEntry) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyDown, fyne.KeyUp, fyne.KeyLeft, fyne.KeyRight,
		fyne.KeyPageDown, fyne.KeyPageUp, fyne.KeyHome, fyne.KeyEnd:
		e.Entry.TypedKey(key)
	}
}

// TypedShortcut дозволяє тільки копіювання.
func (e *LogEntry) TypedShortcut(shortcut fyne.Shortcut) {
	if _, ok := shortcut.(*fyne.ShortcutCopy); ok {
		e.Entry.TypedShortcut(shortcut)
	}
}
