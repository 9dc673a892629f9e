package world

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// World - таблиця об'єктів плюс поточний стан.
// Таблиця об'єктів не змінюється; стан змінюють тільки виконавці плану.
type World struct {
	Name     string
	Objects  map[string]Object
	State    State
	Examples []string
}

// Describe повертає опис об'єкта ("large white ball") або сам id, якщо опису немає.
func (w World) Describe(id string) string {
	if id == FloorID {
		return "floor"
	}
	if o, ok := w.Objects[id]; ok {
		return o.String()
	}
	return id
}

// Object повертає дескриптор; для "floor" - Floor.
func (w World) Object(id string) (Object, bool) {
	if id == FloorID {
		return Floor, true
	}
	o, ok := w.Objects[id]
	return o, ok
}

// Graph повертає граф станів цього світу.
func (w World) Graph() *Graph {
	return NewGraph(w.Objects)
}

// Validate перевіряє дескриптори і стан.
func (w World) Validate() error {
	for id, o := range w.Objects {
		if o.Form == FloorForm || o.Form == AnyForm {
			return fmt.Errorf("%w: object %q has synthetic form %s", ErrInvalidWorld, id, o.Form)
		}
	}
	return w.State.Validate(w.Objects)
}

// File - формат файлу світу (YAML).
type File struct {
	Name     string            `yaml:"name" json:"name"`
	Arm      int               `yaml:"arm" json:"arm"`
	Holding  string            `yaml:"holding,omitempty" json:"holding,omitempty"`
	Stacks   [][]string        `yaml:"stacks" json:"stacks"`
	Objects  map[string]Object `yaml:"objects" json:"objects"`
	Examples []string          `yaml:"examples,omitempty" json:"examples,omitempty"`
}

//go:embed worlds/*.yaml
var worldFiles embed.FS

const schemaURL = "world.schema.json"

// Обмеження на ідентифікатори тут ті ж, що й у idPattern.
const schemaText = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "arm", "stacks", "objects"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "arm": {"type": "integer", "minimum": 0},
    "holding": {"type": "string", "pattern": "^[A-Za-z0-9_-]*$"},
    "stacks": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": ["array", "null"],
        "items": {"type": "string", "pattern": "^[A-Za-z0-9_-]+$"}
      }
    },
    "objects": {
      "type": "object",
      "patternProperties": {
        "^[A-Za-z0-9_-]+$": {
          "type": "object",
          "required": ["form"],
          "additionalProperties": false,
          "properties": {
            "form": {"enum": ["brick", "plank", "ball", "pyramid", "box", "table"]},
            "size": {"enum": ["small", "large", ""]},
            "color": {"type": "string"}
          }
        }
      },
      "additionalProperties": false
    },
    "examples": {"type": "array", "items": {"type": "string"}}
  }
}`

var worldSchema = jsonschema.MustCompileString(schemaURL, schemaText)

// Parse розбирає YAML, перевіряє його схемою та інваріантами стану.
func Parse(data []byte) (World, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return World{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}

	// Схема працює з JSON-значеннями, тому проганяємо файл через encoding/json.
	raw, err := json.Marshal(f)
	if err != nil {
		return World{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return World{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	if err := worldSchema.Validate(doc); err != nil {
		return World{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}

	stacks := make([][]string, len(f.Stacks))
	for i, col := range f.Stacks {
		stacks[i] = append([]string{}, col...)
	}
	w := World{
		Name:     f.Name,
		Objects:  f.Objects,
		State:    State{Stacks: stacks, Holding: f.Holding, Arm: f.Arm},
		Examples: f.Examples,
	}
	if err := w.Validate(); err != nil {
		return World{}, err
	}
	return w, nil
}

// Load читає світ з файлу.
func Load(filename string) (World, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return World{}, fmt.Errorf("failed to read world: %w", err)
	}
	return Parse(data)
}

// Builtin повертає вбудований світ за назвою.
func Builtin(name string) (World, error) {
	data, err := worldFiles.ReadFile(path.Join("worlds", name+".yaml"))
	if err != nil {
		return World{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownWorld, name, strings.Join(BuiltinNames(), ", "))
	}
	return Parse(data)
}

// BuiltinNames - назви вбудованих світів за абеткою.
func BuiltinNames() []string {
	entries, err := worldFiles.ReadDir("worlds")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// ToFile перетворює світ назад у формат файлу (для збереження поточного стану).
func (w World) ToFile() File {
	return File{
		Name:     w.Name,
		Arm:      w.State.Arm,
		Holding:  w.State.Holding,
		Stacks:   w.State.Clone().Stacks,
		Objects:  w.Objects,
		Examples: w.Examples,
	}
}
