// Package testdef loads the static test definitions embedded with the
// binary. Definitions are immutable after startup.
package testdef

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"personafeedback/internal/domain"
)

//go:embed definitions/*.yaml
var definitionFS embed.FS

// Registry holds the loaded test definitions, ordered by id.
type Registry struct {
	byID    map[string]*domain.TestDefinition
	ordered []*domain.TestDefinition
}

// Load parses every embedded definition file and validates its structure.
func Load() (*Registry, error) {
	entries, err := definitionFS.ReadDir("definitions")
	if err != nil {
		return nil, fmt.Errorf("read definitions dir: %w", err)
	}

	r := &Registry{byID: make(map[string]*domain.TestDefinition, len(entries))}
	for _, entry := range entries {
		raw, err := definitionFS.ReadFile("definitions/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		def := &domain.TestDefinition{}
		if err := yaml.Unmarshal(raw, def); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		if err := validate(def); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if _, dup := r.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate test id %q", def.ID)
		}
		r.byID[def.ID] = def
		r.ordered = append(r.ordered, def)
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].ID < r.ordered[j].ID })
	return r, nil
}

func validate(def *domain.TestDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("missing test id")
	}
	if len(def.Questions) == 0 {
		return fmt.Errorf("test %q has no questions", def.ID)
	}
	seen := make(map[string]struct{}, len(def.Questions))
	for _, q := range def.Questions {
		if q.ID == "" {
			return fmt.Errorf("test %q has a question without an id", def.ID)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("test %q has duplicate question id %q", def.ID, q.ID)
		}
		seen[q.ID] = struct{}{}
		switch q.Type {
		case domain.QuestionChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("choice question %q needs at least two options", q.ID)
			}
		case domain.QuestionScale:
			if q.Min >= q.Max {
				return fmt.Errorf("scale question %q has invalid bounds", q.ID)
			}
		default:
			return fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
		}
	}
	return nil
}

// Get returns the definition for testID.
func (r *Registry) Get(testID string) (*domain.TestDefinition, bool) {
	def, ok := r.byID[testID]
	return def, ok
}

// List returns all definitions ordered by id.
func (r *Registry) List() []*domain.TestDefinition {
	return r.ordered
}
