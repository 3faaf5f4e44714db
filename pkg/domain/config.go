package domain

import (
	"fmt"
	"reflect"
)

// AccessPolicy controls which steps start out accessible when a step
// list is (re)initialized. Two policies exist in the wild, so the choice
// is explicit instead of baked in.
type AccessPolicy string

const (
	// AccessFirstOnly grants access to index 0 plus any step that was
	// explicitly flagged accessible. This is the default.
	AccessFirstOnly AccessPolicy = "firstOnly"

	// AccessAll grants access to every step regardless of input flags.
	AccessAll AccessPolicy = "allAccessible"
)

// ParseAccessPolicy converts the wire/YAML spelling into an AccessPolicy.
func ParseAccessPolicy(s string) (AccessPolicy, error) {
	switch AccessPolicy(s) {
	case AccessFirstOnly, AccessAll:
		return AccessPolicy(s), nil
	case "":
		return AccessFirstOnly, nil
	}
	return "", fmt.Errorf("unknown access policy %q", s)
}

// NextOverrides are the step patches applied on a forward transition:
// CurrentStep to the step being left, NextStep to the step being entered.
// An unset CurrentStep.IsCompleted behaves as true, leaving a step
// forward marks it completed unless the host says otherwise.
type NextOverrides struct {
	CurrentStep StepPatch `json:"currentStep" yaml:"currentStep"`
	NextStep    StepPatch `json:"nextStep" yaml:"nextStep"`
}

// PrevOverrides are the step patches applied on a backward transition.
type PrevOverrides struct {
	CurrentStep StepPatch `json:"currentStep" yaml:"currentStep"`
	PrevStep    StepPatch `json:"prevStep" yaml:"prevStep"`
}

// NavigationConfig bundles the per-direction field overrides. Overrides
// touch exactly the departed and the entered step; all other steps pass
// through a transition unchanged.
type NavigationConfig struct {
	Next NextOverrides `json:"next" yaml:"next"`
	Prev PrevOverrides `json:"prev" yaml:"prev"`
}

// GoToStepValidation gates jump navigation.
type GoToStepValidation struct {
	// CanAccess, when true, rejects forward jumps to steps whose
	// CanAccess flag is not already set.
	CanAccess bool `json:"canAccess" yaml:"canAccess"`
}

// ValidationConfig holds the recognized validation policies.
type ValidationConfig struct {
	GoToStep GoToStepValidation `json:"goToStep" yaml:"goToStep"`
}

// Config is the full behavioral configuration of a stepper.
type Config struct {
	Navigation NavigationConfig `json:"navigation" yaml:"navigation"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Policy     AccessPolicy     `json:"policy" yaml:"policy"`
}

// DefaultConfig returns the stock configuration: jump validation on,
// first-step-only access policy, no navigation overrides beyond the
// implicit "completed on leave forward".
func DefaultConfig() Config {
	return Config{
		Validation: ValidationConfig{GoToStep: GoToStepValidation{CanAccess: true}},
		Policy:     AccessFirstOnly,
	}
}

// ConfigPatch is a partial Config; nil sections are left untouched.
type ConfigPatch struct {
	Navigation *NavigationConfig
	Validation *ValidationConfig
	Policy     *AccessPolicy
}

// Merge returns c with every non-nil section of the patch replacing the
// corresponding section (shallow, section-wise).
func (c Config) Merge(p ConfigPatch) Config {
	if p.Navigation != nil {
		c.Navigation = *p.Navigation
	}
	if p.Validation != nil {
		c.Validation = *p.Validation
	}
	if p.Policy != nil {
		c.Policy = *p.Policy
	}
	return c
}

// Equal reports structural equality. The container uses it to
// short-circuit UpdateConfig calls that change nothing, avoiding
// redundant downstream notifications.
func (c Config) Equal(o Config) bool {
	return reflect.DeepEqual(c, o)
}
