package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/metrics"
	"github.com/ppaulojr/stockanalisys/pkg/model"
)

// jetStream is the slice of nats.JetStreamContext we actually use.
// Keeping it narrow lets tests inject a fake without a broker.
type jetStream interface {
	PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher emits dashboard snapshot events to JetStream.
type Publisher struct {
	js      jetStream
	logger  *zap.Logger
	subject string
	service string
}

func New(nc *nats.Conn, logger *zap.Logger, subject, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	return newWithJetStream(js, logger, subject, service), nil
}

func newWithJetStream(js jetStream, logger *zap.Logger, subject, service string) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{js: js, logger: logger, subject: subject, service: service}
}

// PublishSnapshot wraps the snapshot in a versioned envelope and
// publishes it. The envelope ID doubles as the JetStream dedup ID.
func (p *Publisher) PublishSnapshot(snap *model.DashboardSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		metrics.IncNATSPublish(p.subject, "error")
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	env := model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		Topic:         p.subject,
		EventType:     "dashboard.snapshot",
		Version:       "1.0",
		Service:       p.service,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
	}

	body, err := json.Marshal(env)
	if err != nil {
		metrics.IncNATSPublish(p.subject, "error")
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = body
	msg.Header.Set(nats.MsgIdHdr, env.ID.String())
	msg.Header.Set("event-type", env.EventType)

	if _, err := p.js.PublishMsg(msg); err != nil {
		metrics.IncNATSPublish(p.subject, "error")
		p.logger.Error("publisher.publish_failed",
			zap.String("subject", p.subject),
			zap.Error(err))
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}

	metrics.IncNATSPublish(p.subject, "ok")
	return nil
}
