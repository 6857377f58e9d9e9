package api

import "time"

// MsgType is a message type for streaming responses
type MsgType string

// Streaming message type constants
const (
	StartJobMsg   MsgType = "job_start"
	ReachTestMsg  MsgType = "test_reach"
	IgnoreTestMsg MsgType = "test_ignore"
	FinishTestMsg MsgType = "test_finish"
	FinishJobMsg  MsgType = "job_finish"
)

// Runtime data size constraints for streaming
const (
	MaxRuntimeDataHeight = 40
	MaxRuntimeDataWidth  = 80
)

// Header is the common header for all streaming response messages
type Header struct {
	JobUuid string  `json:"job_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartJob message sent when judging begins
type StartJob struct {
	Header
	Language    string `json:"language"`
	TestCount   int    `json:"test_count"`
	StartedTime string `json:"started_time"`
}

// ReachTest message sent when a test is reached
type ReachTest struct {
	Header
	TestId int     `json:"test_id"`
	Input  *string `json:"input"`
	Answer *string `json:"answer"`
}

// IgnoreTest message sent for tests skipped after the first failure
type IgnoreTest struct {
	Header
	TestId int `json:"test_id"`
}

// FinishTest message sent when a test completes
type FinishTest struct {
	Header
	TestId int          `json:"test_id"`
	Passed bool         `json:"passed"`
	Run    *RuntimeData `json:"run"`
}

// FinishJob message sent when judging completes
type FinishJob struct {
	Header
	Verdict       VerdictStatus `json:"verdict,omitempty"`
	FailingTest   int           `json:"failing_test,omitempty"`
	Message       string        `json:"message"`
	InternalError bool          `json:"internal_error"`
}

func NewHeader(jobUuid string, msgType MsgType) Header {
	return Header{
		JobUuid: jobUuid,
		MsgType: msgType,
	}
}

func NewStartJob(jobUuid, language string, testCount int) StartJob {
	return StartJob{
		Header:      NewHeader(jobUuid, StartJobMsg),
		Language:    language,
		TestCount:   testCount,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewReachTest(jobUuid string, testId int, input, answer *string) ReachTest {
	return ReachTest{
		Header: NewHeader(jobUuid, ReachTestMsg),
		TestId: testId,
		Input:  input,
		Answer: answer,
	}
}

func NewIgnoreTest(jobUuid string, testId int) IgnoreTest {
	return IgnoreTest{
		Header: NewHeader(jobUuid, IgnoreTestMsg),
		TestId: testId,
	}
}

func NewFinishTest(jobUuid string, testId int, passed bool, run *RuntimeData) FinishTest {
	return FinishTest{
		Header: NewHeader(jobUuid, FinishTestMsg),
		TestId: testId,
		Passed: passed,
		Run:    run,
	}
}

func NewFinishJob(jobUuid string, verdict VerdictStatus, failingTest int, message string) FinishJob {
	return FinishJob{
		Header:      NewHeader(jobUuid, FinishJobMsg),
		Verdict:     verdict,
		FailingTest: failingTest,
		Message:     message,
	}
}

func NewInternalErrorJob(jobUuid string, message string) FinishJob {
	return FinishJob{
		Header:        NewHeader(jobUuid, FinishJobMsg),
		Message:       message,
		InternalError: true,
	}
}
