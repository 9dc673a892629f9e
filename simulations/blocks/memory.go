package blocks

import (
	"sync"

	"github.com/youryharchenko/go-shrdlite/world"
)

// BlocksMemory - потокобезпечна пам'ять руки.
// Використовує sync.Map, щоб UI міг читати її під час роботи агента.
// Ключ - State.Key(), бо State зі слайсами не годиться як ключ мапи.
type BlocksMemory struct {
	visited sync.Map
}

func NewBlocksMemory() *BlocksMemory {
	return &BlocksMemory{}
}

// Remember додає стан у пам'ять.
func (m *BlocksMemory) Remember(s world.State) {
	m.visited.Store(s.Key(), s.Clone())
}

// HasVisited перевіряє наявність стану.
func (m *BlocksMemory) HasVisited(s world.State) bool {
	_, exists := m.visited.Load(s.Key())
	return exists
}

// Clear очищає пам'ять. Об'єкт той самий, бо UI тримає на нього вказівник.
func (m *BlocksMemory) Clear() {
	m.visited.Clear()
}

func (m *BlocksMemory) Range(f func(key, value any) bool) {
	m.visited.Range(f)
}

// Len - кількість запам'ятованих станів.
func (m *BlocksMemory) Len() int {
	n := 0
	m.visited.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
