// Package definition loads declarative wizard definitions from YAML, so
// hosts can describe a flow (steps, access policy, navigation overrides,
// validation, persistence key) next to their other configuration instead
// of building it in code.
package definition

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/handrail"
	"github.com/aretw0/handrail/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Definition is the YAML shape of a wizard.
//
//	name: onboarding
//	save: true
//	key: "wizard:onboarding"
//	policy: firstOnly
//	navigation:
//	  next:
//	    nextStep: {canAccess: true}
//	steps:
//	  - name: account
//	  - name: profile
//	  - name: review
//	    isOptional: true
type Definition struct {
	Name       string                   `yaml:"name"`
	Save       bool                     `yaml:"save"`
	Key        string                   `yaml:"key"`
	Policy     string                   `yaml:"policy"`
	Navigation domain.NavigationConfig  `yaml:"navigation"`
	Validation *domain.ValidationConfig `yaml:"validation"`
	Steps      []domain.StepState       `yaml:"steps"`
}

// Parse decodes a definition from r. Unknown YAML fields are rejected,
// a typoed flag should fail loudly rather than silently configure
// nothing.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to decode wizard definition: %w", err)
	}
	if _, err := domain.ParseAccessPolicy(def.Policy); err != nil {
		return nil, fmt.Errorf("wizard definition %q: %w", def.Name, err)
	}
	return &def, nil
}

// LoadFile reads and parses a definition file.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wizard definition: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Config materializes the behavioral configuration described by the
// definition, filling unset sections with defaults.
func (d *Definition) Config() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Navigation = d.Navigation
	if d.Validation != nil {
		cfg.Validation = *d.Validation
	}
	// Parse already validated the spelling.
	policy, _ := domain.ParseAccessPolicy(d.Policy)
	cfg.Policy = policy
	return cfg
}

// StorageKey returns the persistence key: the explicit key if set, else
// one derived from the wizard name, else handrail.DefaultStateKey.
func (d *Definition) StorageKey() string {
	if d.Key != "" {
		return d.Key
	}
	if d.Name != "" {
		return "handrail:" + d.Name
	}
	return handrail.DefaultStateKey
}

// Options converts a definition into constructor options for a Stepper
// with payload type T. Persistence is the host's concern (add WithStore
// with d.StorageKey() when d.Save is set).
func Options[T any](d *Definition) []handrail.Option[T] {
	return []handrail.Option[T]{
		handrail.WithSteps[T](d.Steps),
		handrail.WithConfig[T](d.Config()),
	}
}
