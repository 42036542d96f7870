package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired = errors.New("NATS URL is required")
)

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Drain() error
}

// NATSPublisher publishes events as JSON messages on a NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
}

// NewNATSPublisher connects to url and publishes on subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		return nil, ErrNATSURLRequired
	}

	if subject == "" {
		subject = constants.DefaultAuditSubject
	}

	natsConn, err := nats.Connect(url,
		nats.Name(constants.UserAgent),
		nats.Timeout(constants.DefaultHTTPTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return newNATSPublisher(natsConn, subject), nil
}

func newNATSPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject}
}

// PublishDeletion publishes event on the configured subject.
func (p *NATSPublisher) PublishDeletion(ctx context.Context, event DeletionEvent) error {
	return p.publish(ctx, p.subject, event)
}

// PublishSummary publishes event on the summary subject.
func (p *NATSPublisher) PublishSummary(ctx context.Context, event SummaryEvent) error {
	return p.publish(ctx, p.subject+constants.AuditSummarySuffix, event)
}

// Close flushes buffered events and drains the connection.
func (p *NATSPublisher) Close() error {
	flushErr := p.conn.FlushTimeout(constants.AuditFlushTimeout)
	drainErr := p.conn.Drain()

	return errors.Join(flushErr, drainErr)
}

func (p *NATSPublisher) publish(ctx context.Context, subject string, event interface{}) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding audit event: %w", err)
	}

	err = p.conn.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("publishing audit event on %s: %w", subject, err)
	}

	return nil
}
