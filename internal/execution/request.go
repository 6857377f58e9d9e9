package execution

import (
	"bytes"
	"fmt"
	"time"
)

// Limits bounds a single run. Zero values mean "use the configured default".
type Limits struct {
	TimeLimit        time.Duration
	MemoryLimitKiB   int64
	OutputLimitBytes int64
}

// WithDefaults fills every unset field of l from def.
func (l Limits) WithDefaults(def Limits) Limits {
	if l.TimeLimit <= 0 {
		l.TimeLimit = def.TimeLimit
	}
	if l.MemoryLimitKiB <= 0 {
		l.MemoryLimitKiB = def.MemoryLimitKiB
	}
	if l.OutputLimitBytes <= 0 {
		l.OutputLimitBytes = def.OutputLimitBytes
	}
	return l
}

type Request struct {
	Language LanguageID
	Source   []byte
	Stdin    []byte
	Limits   Limits
}

// Validate checks the parts of a request that do not depend on which
// runners are registered.
func (r Request) Validate() error {
	if !r.Language.Valid() {
		return fmt.Errorf("%w: unsupported language %q", ErrValidation, r.Language)
	}
	if len(bytes.TrimSpace(r.Source)) == 0 {
		return fmt.Errorf("%w: source code is empty", ErrValidation)
	}
	return nil
}

// TestCase is one (input, expected output) pair of a problem.
type TestCase struct {
	Input          []byte
	ExpectedOutput []byte
	IsSample       bool
}
