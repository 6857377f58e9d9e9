package problems

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/puzpuzpuz/xsync/v3"
)

const manifestName = "problem.toml"

var problemIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

type manifest struct {
	Name       string            `toml:"name"`
	Difficulty string            `toml:"difficulty"`
	Statement  string            `toml:"statement"`
	Solutions  map[string]string `toml:"solutions"`
	Tests      []manifestTest    `toml:"tests"`
}

type manifestTest struct {
	Input  string `toml:"input"`
	Answer string `toml:"answer"`
	Sample bool   `toml:"sample"`
}

type loadedProblem struct {
	dir       string
	problem   Problem
	solutions map[execution.LanguageID]string
	tests     []manifestTest
}

// DirStore reads problems from a directory tree:
//
//	<root>/<id>/problem.toml
//	<root>/<id>/tests/1.in, tests/1.ans.zst, ...
//
// Files whose name ends in .zst are zstd-compressed. Manifests are parsed
// once and cached; test files are read on every request.
type DirStore struct {
	root    string
	cache   *xsync.MapOf[string, *loadedProblem]
	decoder *zstd.Decoder
	logger  *slog.Logger
}

func NewDirStore(root string, logger *slog.Logger) (*DirStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open problem directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("problem directory %s is not a directory", root)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	return &DirStore{
		root:    root,
		cache:   xsync.NewMapOf[string, *loadedProblem](),
		decoder: decoder,
		logger:  logger,
	}, nil
}

func (s *DirStore) Close() {
	s.decoder.Close()
}

// List returns the ids of every problem directory that has a manifest.
func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() || !problemIDPattern.MatchString(e.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), manifestName)); err == nil {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

func (s *DirStore) FindProblemByID(_ context.Context, id string) (*Problem, error) {
	lp, err := s.load(id)
	if err != nil {
		return nil, err
	}
	p := lp.problem
	p.Solutions = slices.Clone(p.Solutions)
	return &p, nil
}

func (s *DirStore) FindReferenceSolution(_ context.Context, id string, lang execution.LanguageID) ([]byte, error) {
	lp, err := s.load(id)
	if err != nil {
		return nil, err
	}
	rel, ok := lp.solutions[lang]
	if !ok {
		return nil, fmt.Errorf("%w: problem %s has none in %s", execution.ErrNoReferenceSolution, id, lang)
	}
	src, err := s.readFile(lp.dir, rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s is missing", execution.ErrNoReferenceSolution, rel)
	}
	return src, err
}

func (s *DirStore) FindTestCases(_ context.Context, id string) ([]execution.TestCase, error) {
	lp, err := s.load(id)
	if err != nil {
		return nil, err
	}
	tests := make([]execution.TestCase, 0, len(lp.tests))
	for i, t := range lp.tests {
		in, err := s.readFile(lp.dir, t.Input)
		if err != nil {
			return nil, fmt.Errorf("problem %s test %d input: %w", id, i+1, err)
		}
		ans, err := s.readFile(lp.dir, t.Answer)
		if err != nil {
			return nil, fmt.Errorf("problem %s test %d answer: %w", id, i+1, err)
		}
		tests = append(tests, execution.TestCase{Input: in, ExpectedOutput: ans, IsSample: t.Sample})
	}
	return tests, nil
}

func (s *DirStore) load(id string) (*loadedProblem, error) {
	if !problemIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: invalid id %q", ErrProblemNotFound, id)
	}
	if lp, ok := s.cache.Load(id); ok {
		return lp, nil
	}

	dir := filepath.Join(s.root, id)
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest of %s: %w", id, err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest of %s: %w", id, err)
	}

	lp := &loadedProblem{
		dir: dir,
		problem: Problem{
			ID:         id,
			Name:       m.Name,
			Difficulty: m.Difficulty,
		},
		solutions: make(map[execution.LanguageID]string, len(m.Solutions)),
		tests:     m.Tests,
	}
	for key, rel := range m.Solutions {
		lang, err := execution.ParseLanguage(key)
		if err != nil {
			return nil, fmt.Errorf("manifest of %s: %w", id, err)
		}
		lp.solutions[lang] = rel
		lp.problem.Solutions = append(lp.problem.Solutions, lang)
	}
	slices.Sort(lp.problem.Solutions)
	if m.Statement != "" {
		statement, err := s.readFile(dir, m.Statement)
		if err != nil {
			return nil, fmt.Errorf("statement of %s: %w", id, err)
		}
		lp.problem.Statement = string(statement)
	}

	actual, loaded := s.cache.LoadOrStore(id, lp)
	if !loaded {
		s.logger.Debug("loaded problem", "problem", id, "tests", len(m.Tests))
	}
	return actual, nil
}

// readFile reads rel relative to dir, falling back to rel+".zst".
func (s *DirStore) readFile(dir, rel string) ([]byte, error) {
	if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(filepath.Clean(rel), "..") {
		return nil, fmt.Errorf("invalid problem file path %q", rel)
	}
	path := filepath.Join(dir, rel)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !strings.HasSuffix(path, ".zst") {
		if _, zerr := os.Stat(path + ".zst"); zerr == nil {
			path += ".zst"
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != ".zst" {
		return data, nil
	}
	out, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", rel, err)
	}
	return out, nil
}
