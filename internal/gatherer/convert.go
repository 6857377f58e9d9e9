package gatherer

import (
	"strings"
	"unicode/utf8"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/judge"
)

// TrimStrToRect cuts s down to at most maxHeight lines of at most maxWidth
// bytes each without splitting a rune, marking every cut with "[...]".
func TrimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if len(line) > maxWidth {
			cut := maxWidth
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			b.WriteString(line[:cut])
			b.WriteString("[...]")
		} else {
			b.WriteString(line)
		}
	}
	return b.String()
}

func trim(s string) string {
	return TrimStrToRect(s, api.MaxRuntimeDataHeight, api.MaxRuntimeDataWidth)
}

// TrimmedPtr trims s for streaming and returns nil when nothing is left.
func TrimmedPtr(s []byte) *string {
	t := trim(string(s))
	if t == "" {
		return nil
	}
	return &t
}

// ExecResponse converts a result to its wire form.
func ExecResponse(res execution.Result) api.ExecResponse {
	out := api.ExecResponse{
		Outcome:     api.Outcome(res.Outcome),
		Stdout:      res.Stdout,
		Stderr:      res.Stderr,
		ExitCode:    res.ExitCode,
		WallMillis:  res.WallTime.Milliseconds(),
		Diagnostics: res.Diagnostics,
	}
	if res.Cause != nil {
		out.Error = res.Cause.Error()
	}
	return out
}

// RuntimeData converts a result to its streaming form. Long outputs are
// trimmed when trimmed is set.
func RuntimeData(res execution.Result, trimmed bool) *api.RuntimeData {
	resp := ExecResponse(res)
	data := &api.RuntimeData{
		Stdout:      resp.Stdout,
		Stderr:      resp.Stderr,
		ExitCode:    resp.ExitCode,
		WallMillis:  resp.WallMillis,
		Outcome:     resp.Outcome,
		Diagnostics: resp.Diagnostics,
		Error:       resp.Error,
	}
	if trimmed {
		data.Stdout = trim(data.Stdout)
		data.Stderr = trim(data.Stderr)
		data.Diagnostics = trim(data.Diagnostics)
	}
	return data
}

func VerdictStatus(v judge.Verdict) api.VerdictStatus {
	return api.VerdictStatus(v.Outcome)
}
