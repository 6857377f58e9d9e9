package sqsgath_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer/sqsgath"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSender) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sqs.SendMessageOutput{}, f.err
}

func TestSendsOneMessagePerEvent(t *testing.T) {
	sender := &fakeSender{}
	queue := "https://sqs.eu-central-1.amazonaws.com/1/results"
	g := sqsgath.New(sender, "job-7", queue, nil)

	g.StartJob(execution.Java, 1)
	g.ReachTest(1, []byte("in"), []byte("ans"))
	g.FinishTest(1, execution.TimedOut(0), false)
	g.FinishJob(judge.Verdict{Outcome: judge.RuntimeError, FailingIndex: 1, TimeLimitExceeded: true})

	require.Len(t, sender.inputs, 4)
	for _, in := range sender.inputs {
		assert.Equal(t, queue, aws.ToString(in.QueueUrl))
		assert.Nil(t, in.MessageGroupId)
	}

	var reach api.ReachTest
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(sender.inputs[1].MessageBody)), &reach))
	assert.Equal(t, api.ReachTestMsg, reach.MsgType)
	require.NotNil(t, reach.Input)
	assert.Equal(t, "in", *reach.Input)

	var last api.FinishJob
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(sender.inputs[3].MessageBody)), &last))
	assert.Equal(t, api.FinishJobMsg, last.MsgType)
	assert.Equal(t, "job-7", last.JobUuid)
	assert.Equal(t, api.RuntimeError, last.Verdict)
	assert.Equal(t, "Time Limit Exceeded on test case #1", last.Message)
}

func TestFifoQueuesGetGroupAndDedupIDs(t *testing.T) {
	sender := &fakeSender{}
	g := sqsgath.New(sender, "job-8", "https://sqs.eu-central-1.amazonaws.com/1/results.fifo", nil)

	g.IgnoreTest(2)
	g.InternalError("boom")

	require.Len(t, sender.inputs, 2)
	assert.Equal(t, "job-8", aws.ToString(sender.inputs[0].MessageGroupId))
	assert.NotEqual(t,
		aws.ToString(sender.inputs[0].MessageDeduplicationId),
		aws.ToString(sender.inputs[1].MessageDeduplicationId))
}

func TestSendFailuresAreNotFatal(t *testing.T) {
	sender := &fakeSender{err: errors.New("throttled")}
	g := sqsgath.New(sender, "job-9", "https://example/q", nil)

	g.FinishJob(judge.Verdict{Outcome: judge.Accepted})

	assert.Len(t, sender.inputs, 1)
}
