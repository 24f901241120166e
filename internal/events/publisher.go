// Package events publishes build lifecycle events to NATS so downstream
// consumers (deploy hooks, cache purgers) can react to site publishes.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// BuildEvent is the JSON payload published per completed build.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"` // success|failed
	Posts      int       `json:"posts"`
	SiteHash   string    `json:"site_hash,omitempty"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Publisher sends build events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS using the events configuration.
func NewPublisher(cfg *config.EventsConfig) (*Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("event publishing is disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("blogbuilder"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS event publisher connected", logfields.URL(cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends one build event. Publish failures are reported but are not
// build failures: the site is already on disk when events go out.
func (p *Publisher) Publish(event BuildEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.EventPublishError(p.subject, err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return apperrors.EventPublishError(p.subject, err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		slog.Debug("NATS drain failed", logfields.Error(err))
	}
}
