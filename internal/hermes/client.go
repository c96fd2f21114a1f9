package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectRegistered announces this agent joining the swarm.
const SubjectRegistered = "swarm.agent.lure.registered"

// SubjectScamDetected is emitted the first time a session is classified as a
// scam, so peer agents can correlate the same operator across honeypots.
const SubjectScamDetected = "swarm.lure.scam.detected"

// SubjectPurge carries remote termination commands, letting the swarm retire
// a conversation another agent has identified as burned.
const SubjectPurge = "swarm.lure.session.purge"

// ScamSignal carries the first-detection snapshot of an engaged session.
type ScamSignal struct {
	SessionRef   string  `json:"session_ref"`
	AgentID      string  `json:"agent_id"`
	ScamType     string  `json:"scam_type"`
	Confidence   float64 `json:"confidence"`
	PersonaKey   string  `json:"persona_key"`
	MessageCount int     `json:"message_count"`
}

// RegistrationSignal identifies the agent to the rest of the swarm at boot.
type RegistrationSignal struct {
	AgentID string `json:"agent_id"`
	ModelID string `json:"model_id"`
	Role    string `json:"role"`
}

// PurgeSignal names a session the swarm wants terminated.
type PurgeSignal struct {
	SessionRef string `json:"session_ref"`
	Reason     string `json:"reason"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
