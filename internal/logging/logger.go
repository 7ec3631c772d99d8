package logging

import (
	"io"
	"log/slog"

	"github.com/finchtui/finch/internal/pubsub"
)

// NewLogger constructs Logger, a slog wrapper with additional functionality.
func NewLogger(opts Options) *Logger {
	logger := &Logger{}
	broker := pubsub.NewBroker[Message]()
	writer := &writer{broker: broker}

	handler := slog.NewTextHandler(
		io.MultiWriter(append(opts.AdditionalWriters, writer)...),
		&slog.HandlerOptions{
			Level: levels[opts.Level],
		},
	)

	logger.Logger = slog.New(handler)
	logger.Broker = broker
	logger.writer = writer

	return logger
}

// Logger wraps slog, providing further functionality such as emitting log
// records as events and retaining them for listing.
type Logger struct {
	*slog.Logger

	writer *writer

	*pubsub.Broker[Message]
}

// Messages lists the log messages received thus far.
func (l *Logger) Messages() []Message {
	return l.writer.messages()
}

// Discard returns a logger that logs to nowhere, for tests.
func Discard() *Logger {
	return NewLogger(Options{Level: "error", AdditionalWriters: []io.Writer{io.Discard}})
}
