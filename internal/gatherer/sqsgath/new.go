package sqsgath

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Sender is the part of the SQS client the gatherer uses.
type Sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// NewClient loads the default AWS configuration. An empty region keeps
// whatever the environment specifies.
func NewClient(ctx context.Context, region string) (*sqs.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

// New creates a gatherer that sends the progress messages of one job to
// the queue at queueUrl.
func New(client Sender, jobUuid string, queueUrl string, logger *slog.Logger) *sqsResQueueGatherer {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqsResQueueGatherer{
		sqsClient: client,
		queueUrl:  queueUrl,
		jobUuid:   jobUuid,
		fifo:      strings.HasSuffix(queueUrl, ".fifo"),
		logger:    logger,
	}
}
