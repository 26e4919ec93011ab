package email

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// FakeSender is the development sender. FailMode simulates failures:
// "" or "none" succeeds, "transient" and "permanent" return the matching error.
type FakeSender struct {
	lg       zerolog.Logger
	FailMode string

	mu   sync.Mutex
	Sent []SentMail
}

type SentMail struct {
	To      string
	Subject string
	Link    string
}

func NewFakeSender(lg zerolog.Logger, failMode string) *FakeSender {
	return &FakeSender{
		lg:       lg.With().Str("component", "fake_sender").Logger(),
		FailMode: strings.ToLower(strings.TrimSpace(failMode)),
	}
}

func (s *FakeSender) SendNotification(ctx context.Context, to, subject, text, link string) error {
	s.lg.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("FAKE send notification email")

	switch s.FailMode {
	case "transient":
		return TemporaryError{msg: fmt.Sprintf("fake transient failure (%s)", to)}
	case "permanent":
		return PermanentError{msg: fmt.Sprintf("fake permanent failure (%s)", to)}
	}

	s.mu.Lock()
	s.Sent = append(s.Sent, SentMail{To: to, Subject: subject, Link: link})
	s.mu.Unlock()
	return nil
}
