package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/programme-lv/judge/internal/engine"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer/respbuilder"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/programme-lv/judge/internal/problems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The python entry is replaced by sh so the tests do not need a real
// interpreter.
const shellLanguages = `
[[languages]]
id = "python"
source_file = "main.sh"
exec_cmd = ["sh", "main.sh"]
`

const greeter = "read name; echo \"Hello, $name\"\n"

func newEngine(t *testing.T, store problems.Store) *engine.Engine {
	t.Helper()
	langs := filepath.Join(t.TempDir(), "languages.toml")
	require.NoError(t, os.WriteFile(langs, []byte(shellLanguages), 0o644))

	e, err := engine.New(engine.Config{
		WorkDir:       t.TempDir(),
		LanguagesFile: langs,
		Limits: execution.Limits{
			TimeLimit:        5 * time.Second,
			MemoryLimitKiB:   512 * 1024,
			OutputLimitBytes: 1 << 20,
		},
	}, store, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Close()) })
	return e
}

func helloStore() *problems.MemStore {
	store := problems.NewMemStore()
	store.Put(problems.Problem{ID: "hello", Name: "Hello"},
		map[execution.LanguageID][]byte{execution.Python: []byte(greeter)},
		[]execution.TestCase{
			{Input: []byte("World\n"), ExpectedOutput: []byte("Hello, World\n"), IsSample: true},
			{Input: []byte("Goodbye\n"), ExpectedOutput: []byte("Hello, Goodbye\n")},
		})
	store.Put(problems.Problem{ID: "empty"}, nil, nil)
	return store
}

func TestExecute(t *testing.T) {
	e := newEngine(t, nil)

	res := e.Execute(context.Background(), execution.Request{
		Language: execution.Python,
		Source:   []byte(greeter),
		Stdin:    []byte("World\n"),
	})
	require.Equal(t, execution.OutcomeSuccess, res.Outcome, res.Summary())
	assert.Equal(t, "Hello, World\n", res.Stdout)
}

func TestJudgeStoredProblem(t *testing.T) {
	e := newEngine(t, helloStore())
	ctx := context.Background()

	v, err := e.Judge(ctx, judge.Submission{Language: execution.Python, Source: []byte(greeter)}, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, judge.Accepted, v.Outcome)

	v, err = e.Judge(ctx, judge.Submission{Language: execution.Python, Source: []byte("echo 'Goodbye, World'\n")}, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, judge.WrongAnswer, v.Outcome)
	assert.Equal(t, 1, v.FailingIndex)

	_, err = e.Judge(ctx, judge.Submission{Language: execution.Python, Source: []byte(greeter)}, "missing", nil)
	require.ErrorIs(t, err, problems.ErrProblemNotFound)

	_, err = e.Judge(ctx, judge.Submission{Language: execution.Python, Source: []byte(greeter)}, "empty", nil)
	require.ErrorIs(t, err, execution.ErrNoTestCases)
}

func TestJudgeUnknownProblemReachesGatherer(t *testing.T) {
	e := newEngine(t, helloStore())
	rb := respbuilder.New("job-1")

	_, err := e.Judge(context.Background(), judge.Submission{Language: execution.Python, Source: []byte(greeter)}, "missing", rb)
	require.ErrorIs(t, err, problems.ErrProblemNotFound)

	resp, ok := rb.Response()
	assert.False(t, ok)
	assert.Contains(t, resp.Message, "missing")
}

func TestProbe(t *testing.T) {
	e := newEngine(t, helloStore())
	ctx := context.Background()

	res, err := e.Probe(ctx, "hello", execution.Python, []byte("Alice\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Alice\n", res.Stdout)

	_, err = e.Probe(ctx, "hello", execution.Cpp, nil)
	require.ErrorIs(t, err, execution.ErrNoReferenceSolution)
}

func TestWithoutStore(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	_, err := e.Judge(ctx, judge.Submission{Language: execution.Python, Source: []byte(greeter)}, "hello", nil)
	require.ErrorIs(t, err, engine.ErrNoStore)
	_, err = e.Probe(ctx, "hello", execution.Python, nil)
	require.ErrorIs(t, err, engine.ErrNoStore)
}

func TestLanguages(t *testing.T) {
	e := newEngine(t, nil)
	specs := e.Languages()
	require.Len(t, specs, 3)
	assert.Equal(t, execution.Cpp, specs[0].ID)
	assert.Equal(t, "main.sh", specs[1].SourceFile)
}
