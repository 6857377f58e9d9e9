package sqsgath

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

const sendTimeout = 10 * time.Second

func (s *sqsResQueueGatherer) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal message", "job", s.jobUuid, "err", err)
		return
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
	}
	if s.fifo {
		// one group per job keeps its messages ordered
		s.seq++
		input.MessageGroupId = aws.String(s.jobUuid)
		input.MessageDeduplicationId = aws.String(fmt.Sprintf("%s-%d", s.jobUuid, s.seq))
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if _, err := s.sqsClient.SendMessage(ctx, input); err != nil {
		s.logger.Warn("failed to send message to SQS", "job", s.jobUuid, "queue", s.queueUrl, "err", err)
	}
}
