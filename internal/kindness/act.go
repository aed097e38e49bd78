package kindness

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed acts.yaml
var builtinActsYAML []byte

// Act один вариант доброго дела из каталога
type Act struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IsCustom    bool   `json:"is_custom" yaml:"-"`
}

// SameAs акты равны по ID
func (a Act) SameAs(other Act) bool {
	return a.ID == other.ID
}

type actsFile struct {
	Acts []Act `yaml:"acts"`
}

// LoadBuiltin читает встроенный каталог
func LoadBuiltin() ([]Act, error) {
	return parseActs(builtinActsYAML)
}

func parseActs(data []byte) ([]Act, error) {
	var f actsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse acts: %w", err)
	}
	for i, a := range f.Acts {
		if a.ID == "" || a.Title == "" {
			return nil, fmt.Errorf("parse acts: act #%d has empty id or title", i+1)
		}
		f.Acts[i].IsCustom = false
	}
	return f.Acts, nil
}

// Catalog упорядоченный список актов, уникальный по ID.
// Значение неизменяемо: WithCustom возвращает новый каталог.
type Catalog struct {
	acts []Act
}

// NewCatalog встроенные акты идут первыми, пользовательские дописываются в конец
func NewCatalog(builtin, custom []Act) (Catalog, error) {
	acts := make([]Act, 0, len(builtin)+len(custom))
	seen := make(map[string]bool, cap(acts))

	for i, group := range [][]Act{builtin, custom} {
		for _, a := range group {
			if seen[a.ID] {
				return Catalog{}, fmt.Errorf("duplicate act id %q", a.ID)
			}
			seen[a.ID] = true
			a.IsCustom = i == 1
			acts = append(acts, a)
		}
	}
	return Catalog{acts: acts}, nil
}

func (c Catalog) WithCustom(act Act) (Catalog, error) {
	if _, ok := c.Find(act.ID); ok {
		return c, fmt.Errorf("duplicate act id %q", act.ID)
	}
	act.IsCustom = true
	acts := make([]Act, len(c.acts), len(c.acts)+1)
	copy(acts, c.acts)
	return Catalog{acts: append(acts, act)}, nil
}

func (c Catalog) Find(id string) (Act, bool) {
	for _, a := range c.acts {
		if a.ID == id {
			return a, true
		}
	}
	return Act{}, false
}

// Acts копия списка, порядок сохраняется
func (c Catalog) Acts() []Act {
	out := make([]Act, len(c.acts))
	copy(out, c.acts)
	return out
}

// Custom только пользовательские акты, в том виде, в котором они сохраняются
func (c Catalog) Custom() []Act {
	var out []Act
	for _, a := range c.acts {
		if a.IsCustom {
			out = append(out, a)
		}
	}
	return out
}

func (c Catalog) Len() int {
	return len(c.acts)
}
