package execution

import (
	"fmt"
	"strings"
)

// LanguageID identifies a supported programming language.
type LanguageID string

const (
	Cpp    LanguageID = "cpp"
	Python LanguageID = "python"
	Java   LanguageID = "java"
)

// Languages lists every language the engine knows about.
var Languages = []LanguageID{Cpp, Python, Java}

func (l LanguageID) Valid() bool {
	switch l {
	case Cpp, Python, Java:
		return true
	}
	return false
}

func (l LanguageID) String() string {
	return string(l)
}

// ParseLanguage accepts a canonical language id or one of its aliases.
func ParseLanguage(s string) (LanguageID, error) {
	id := LanguageID(strings.ToLower(strings.TrimSpace(s)))
	switch id {
	case "py", "python3":
		return Python, nil
	case "c++", "cpp17":
		return Cpp, nil
	}
	if !id.Valid() {
		return "", fmt.Errorf("%w: unsupported language %q", ErrValidation, s)
	}
	return id, nil
}
