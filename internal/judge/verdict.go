package judge

import "fmt"

type Outcome string

const (
	Accepted     Outcome = "accepted"
	WrongAnswer  Outcome = "wrong_answer"
	RuntimeError Outcome = "runtime_error"
	CompileError Outcome = "compile_error"
)

// Verdict is the result of judging a submission. FailingIndex is the
// 1-based position of the first failing test case and 0 when accepted.
type Verdict struct {
	Outcome           Outcome
	FailingIndex      int
	TimeLimitExceeded bool
	Detail            string
}

func (v Verdict) Accepted() bool {
	return v.Outcome == Accepted
}

// Message is the human readable summary shown to the submitter.
func (v Verdict) Message() string {
	switch v.Outcome {
	case Accepted:
		return "All test cases passed!"
	case WrongAnswer:
		return fmt.Sprintf("Wrong Answer on test case #%d", v.FailingIndex)
	case CompileError:
		return fmt.Sprintf("Compilation Error on test case #%d", v.FailingIndex)
	case RuntimeError:
		if v.TimeLimitExceeded {
			return fmt.Sprintf("Time Limit Exceeded on test case #%d", v.FailingIndex)
		}
		if v.Detail != "" {
			return fmt.Sprintf("Runtime Error on test case #%d: %s", v.FailingIndex, v.Detail)
		}
		return fmt.Sprintf("Runtime Error on test case #%d", v.FailingIndex)
	}
	return string(v.Outcome)
}
