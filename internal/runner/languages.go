package runner

import (
	"fmt"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/judge/internal/execution"
)

// LanguageSpec is the command table of one language. Commands run with the
// box directory as working directory.
type LanguageSpec struct {
	ID           execution.LanguageID `toml:"id"`
	Name         string               `toml:"name"`
	SourceFile   string               `toml:"source_file"`
	CompileCmd   []string             `toml:"compile_cmd"`
	CompiledFile string               `toml:"compiled_file"`
	ExecCmd      []string             `toml:"exec_cmd"`
	HelloWorld   string               `toml:"hello_world"`
}

func (s LanguageSpec) Compiled() bool {
	return len(s.CompileCmd) > 0
}

func (s LanguageSpec) validate() error {
	if !s.ID.Valid() {
		return fmt.Errorf("unknown language id %q", s.ID)
	}
	if s.SourceFile == "" {
		return fmt.Errorf("language %s: source_file is required", s.ID)
	}
	if len(s.ExecCmd) == 0 {
		return fmt.Errorf("language %s: exec_cmd is required", s.ID)
	}
	if s.CompiledFile != "" && len(s.CompileCmd) == 0 {
		return fmt.Errorf("language %s: compiled_file without compile_cmd", s.ID)
	}
	return nil
}

// DefaultLanguages returns the built-in command table.
func DefaultLanguages() []LanguageSpec {
	return []LanguageSpec{
		{
			ID:           execution.Cpp,
			Name:         "C++17 (GCC)",
			SourceFile:   "main.cpp",
			CompileCmd:   []string{"g++", "-std=c++17", "-O2", "-pipe", "-o", "main", "main.cpp"},
			CompiledFile: "main",
			ExecCmd:      []string{"./main"},
			HelloWorld:   "#include <iostream>\nint main() { std::cout << \"Hello, World!\" << std::endl; }\n",
		},
		{
			ID:         execution.Python,
			Name:       "Python 3",
			SourceFile: "main.py",
			ExecCmd:    []string{"python3", "main.py"},
			HelloWorld: "print(\"Hello, World!\")\n",
		},
		{
			ID:           execution.Java,
			Name:         "Java",
			SourceFile:   "Main.java",
			CompileCmd:   []string{"javac", "-encoding", "UTF-8", "-d", ".", "Main.java"},
			CompiledFile: "Main.class",
			ExecCmd:      []string{"java", "-Xss64m", "-cp", ".", "Main"},
			HelloWorld:   "public class Main {\n    public static void main(String[] args) {\n        System.out.println(\"Hello, World!\");\n    }\n}\n",
		},
	}
}

type languagesFile struct {
	Languages []LanguageSpec `toml:"languages"`
}

// LoadLanguages returns the default command table with the overrides from
// the TOML file at path applied. Only non-empty fields override.
func LoadLanguages(path string) ([]LanguageSpec, error) {
	specs := DefaultLanguages()
	if path == "" {
		return specs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read languages file: %w", err)
	}
	var file languagesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse languages file %s: %w", path, err)
	}

	for _, o := range file.Languages {
		idx := slices.IndexFunc(specs, func(s LanguageSpec) bool { return s.ID == o.ID })
		if idx < 0 {
			return nil, fmt.Errorf("languages file %s: unknown language id %q", path, o.ID)
		}
		specs[idx] = overlay(specs[idx], o)
	}
	for _, s := range specs {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

func overlay(s, o LanguageSpec) LanguageSpec {
	if o.Name != "" {
		s.Name = o.Name
	}
	if o.SourceFile != "" {
		s.SourceFile = o.SourceFile
	}
	if len(o.CompileCmd) > 0 {
		s.CompileCmd = o.CompileCmd
	}
	if o.CompiledFile != "" {
		s.CompiledFile = o.CompiledFile
	}
	if len(o.ExecCmd) > 0 {
		s.ExecCmd = o.ExecCmd
	}
	if o.HelloWorld != "" {
		s.HelloWorld = o.HelloWorld
	}
	return s
}
