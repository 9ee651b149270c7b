package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// conn es el subset de *nats.Conn que usa el Publisher.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// Publisher implementa notify.Publisher sobre NATS core (JSON, subject con prefijo).
type Publisher struct {
	nc     conn
	closer func()
	prefix string
}

func Connect(url, prefix string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("plant-disease-history"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{nc: nc, closer: nc.Close, prefix: strings.Trim(prefix, ".")}, nil
}

func (p *Publisher) Subject(subject string) string {
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(p.Subject(subject), data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close hace flush de lo pendiente y cierra la conexión.
func (p *Publisher) Close(ctx context.Context) {
	if p == nil || p.nc == nil {
		return
	}
	_ = p.nc.FlushWithContext(ctx)
	if p.closer != nil {
		p.closer()
	}
}
