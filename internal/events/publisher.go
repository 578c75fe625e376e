package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher fans refresh notifications out to other services.
type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

// ChainsRefreshed is published after a new aggregate is stored.
type ChainsRefreshed struct {
	Chains      int       `json:"chains"`
	Upserted    bool      `json:"upserted"`
	Modified    bool      `json:"modified"`
	RefreshedAt time.Time `json:"refreshedAt"`
	DurationMs  int64     `json:"durationMs"`
}

type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

type NATSPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// Connect dials url. The connection retries in the background, so a broker
// that is down at start-up does not block the service.
func Connect(url, name string, logger *zap.Logger) (*NATSPublisher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("nats url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	if p == nil || p.nc == nil {
		return errors.New("nats publisher not connected")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *NATSPublisher) Ready() bool {
	return p != nil && p.nc != nil && p.nc.Status() == nats.CONNECTED
}

func (p *NATSPublisher) Close() error {
	if p == nil || p.nc == nil || p.nc.IsClosed() {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return fmt.Errorf("drain nats: %w", err)
	}
	return nil
}
