package logging

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/finchtui/finch/internal/pubsub"
	"github.com/go-logfmt/logfmt"
)

// writer decodes logfmt records written by the slog handler back into
// structured messages, retaining them and publishing them as events.
type writer struct {
	broker *pubsub.Broker[Message]

	mu     sync.Mutex
	msgs   []Message
	serial uint
}

func (w *writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := logfmt.NewDecoder(bytes.NewReader(p))
	for d.ScanRecord() {
		msg := Message{Serial: w.serial}
		for d.ScanKeyval() {
			switch string(d.Key()) {
			case "time":
				parsed, err := time.Parse(time.RFC3339, string(d.Value()))
				if err != nil {
					return 0, fmt.Errorf("parsing time: %w", err)
				}
				msg.Time = parsed
			case "level":
				msg.Level = strings.ToUpper(string(d.Value()))
			case "msg":
				msg.Message = string(d.Value())
			default:
				msg.Attributes = append(msg.Attributes, Attr{
					Key:   string(d.Key()),
					Value: string(d.Value()),
				})
			}
		}
		w.msgs = append(w.msgs, msg)
		w.broker.Publish(pubsub.CreatedEvent, msg)
		w.serial++
	}
	if d.Err() != nil {
		return 0, d.Err()
	}
	return len(p), nil
}

func (w *writer) messages() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	msgs := make([]Message, len(w.msgs))
	copy(msgs, w.msgs)
	return msgs
}
