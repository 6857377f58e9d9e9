package runner

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/judge/internal/execution"
)

var constructors = map[execution.LanguageID]func(LanguageSpec, Options) Runner{
	execution.Cpp:    NewCpp,
	execution.Python: NewPython,
	execution.Java:   NewJava,
}

// Registry maps language ids to runners. It is immutable once built.
type Registry struct {
	runners   map[execution.LanguageID]Runner
	specs     map[execution.LanguageID]LanguageSpec
	languages mapset.Set[execution.LanguageID]
}

// NewRegistry builds a registry from already constructed runners.
func NewRegistry(runners ...Runner) (*Registry, error) {
	reg := &Registry{
		runners:   make(map[execution.LanguageID]Runner, len(runners)),
		specs:     make(map[execution.LanguageID]LanguageSpec, len(runners)),
		languages: mapset.NewThreadUnsafeSet[execution.LanguageID](),
	}

	for _, r := range runners {
		if r == nil {
			return nil, fmt.Errorf("runner cannot be nil")
		}
		lang := r.Language()
		if !lang.Valid() {
			return nil, fmt.Errorf("runner for unknown language %q", lang)
		}
		if !reg.languages.Add(lang) {
			return nil, fmt.Errorf("duplicate runner for language %q", lang)
		}
		reg.runners[lang] = r
	}

	if len(reg.runners) == 0 {
		return nil, fmt.Errorf("at least one runner must be registered")
	}
	return reg, nil
}

// NewRegistryFromSpecs constructs the language-specific runner for each spec.
func NewRegistryFromSpecs(specs []LanguageSpec, opts Options) (*Registry, error) {
	runners := make([]Runner, 0, len(specs))
	for _, spec := range specs {
		if err := spec.validate(); err != nil {
			return nil, err
		}
		runners = append(runners, constructors[spec.ID](spec, opts))
	}
	reg, err := NewRegistry(runners...)
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		reg.specs[spec.ID] = spec
	}
	return reg, nil
}

// Lookup returns the runner for lang or an error wrapping
// execution.ErrValidation.
func (r *Registry) Lookup(lang execution.LanguageID) (Runner, error) {
	runner, ok := r.runners[lang]
	if !ok {
		return nil, fmt.Errorf("%w: no runner registered for language %q", execution.ErrValidation, lang)
	}
	return runner, nil
}

// Spec returns the command table a runner was built from, if known.
func (r *Registry) Spec(lang execution.LanguageID) (LanguageSpec, bool) {
	spec, ok := r.specs[lang]
	return spec, ok
}

func (r *Registry) Supports(lang execution.LanguageID) bool {
	return r.languages.Contains(lang)
}

// Languages returns a copy of the registered language set.
func (r *Registry) Languages() mapset.Set[execution.LanguageID] {
	return r.languages.Clone()
}
