package natsgath

import (
	"log/slog"

	"github.com/nats-io/nats.go"
)

// New creates a new NATS gatherer that streams progress messages of one
// job to the given inbox subject.
func New(nc *nats.Conn, jobUuid string, inbox string, logger *slog.Logger) *natsGatherer {
	if logger == nil {
		logger = slog.Default()
	}
	return &natsGatherer{
		nc:      nc,
		inbox:   inbox,
		jobUuid: jobUuid,
		logger:  logger,
	}
}
