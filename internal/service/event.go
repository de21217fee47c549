package service

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/plantops/opsboard/internal/infra"
	"github.com/plantops/opsboard/internal/model"
)

type RunPublisher interface {
	PublishRun(evt model.RunEvent)
}

// Event publishes completed runs to the run event stream. A nil JetStream context disables it.
type Event struct {
	js      nats.JetStreamContext
	timeout time.Duration
}

func NewEvent(js nats.JetStreamContext) *Event {
	return &Event{js: js, timeout: time.Millisecond * 500}
}

// PublishRun sends evt without blocking the caller. Failures are logged only.
func (s *Event) PublishRun(evt model.RunEvent) {
	if s == nil || s.js == nil {
		return
	}
	go func() {
		if err := s.publish(evt); err != nil {
			log.Warn().
				Err(err).
				Str("evt.name", "event.run.publish_failed").
				Str("runId", evt.RunID).
				Msg("failed to publish run event")
		}
	}()
}

func (s *Event) publish(evt model.RunEvent) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	pub, err := s.js.PublishAsync(infra.RunEventSubject, b, nats.MsgId(evt.RunID))
	if err != nil {
		return err
	}

	select {
	case err := <-pub.Err():
		return err
	case <-pub.Ok():
		return nil
	case <-time.After(s.timeout):
		return errors.New("timeout waiting for NATS response")
	}
}
