// Package notify holds reply sink implementations for the gateway
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"raidcall/internal/services/confirm/domain"
)

// Log is a reply sink that writes to the log
// it stands in until a real chat transport is attached
type Log struct {
	log zerolog.Logger
}

// NewLog constructs the logging sink
func NewLog(log zerolog.Logger) *Log { return &Log{log: log} }

// Reply logs the outbound text and offered choices
func (l *Log) Reply(_ context.Context, messageRef, text string, choices []domain.Action) error {
	ev := l.log.Info().Str("ref", messageRef).Str("text", text)
	if len(choices) > 0 {
		cs := make([]string, 0, len(choices))
		for _, c := range choices {
			cs = append(cs, string(c))
		}
		ev = ev.Strs("choices", cs)
	}
	ev.Msg("reply")
	return nil
}

// Expire logs that a confirmation lapsed
func (l *Log) Expire(_ context.Context, messageRef string) error {
	l.log.Info().Str("ref", messageRef).Msg("confirmation expired")
	return nil
}

var _ domain.Notifier = (*Log)(nil)
