// Package events publishes run lifecycle events.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubjectPrefix is prepended to every event name
const SubjectPrefix = "clouddoctor.run."

// Event names
const (
	StageChanged   = "stage"
	ActionProposed = "action.proposed"
	ActionDecided  = "action.decided"
	ActionExecuted = "action.executed"
	RunFinished    = "finished"
	RunFailed      = "failed"
)

// NATSPublisher sends events to a NATS server. Failures are logged and
// never returned to the pipeline.
type NATSPublisher struct {
	nc     *nats.Conn
	logger zerolog.Logger
}

func NewNATSPublisher(url string, logger zerolog.Logger) (*NATSPublisher, error) {
	logger = logger.With().Str("component", "events").Logger()
	opts := []nats.Option{
		nats.Name("cloud-doctor"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

func (p *NATSPublisher) Publish(event string, payload any) {
	if p.nc == nil || p.nc.IsClosed() {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}
	if err := p.nc.Publish(SubjectPrefix+event, data); err != nil {
		p.logger.Warn().Err(err).Str("event", event).Msg("failed to publish event")
	}
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) {}

func (NopPublisher) Close() {}
