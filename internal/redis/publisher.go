package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

const (
	publishTimeout = 2 * time.Second
	eventQueueSize = 16
)

// RefreshEvent is the message published on every dashboard state change.
type RefreshEvent struct {
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Loading     bool       `json:"loading"`
	Failed      []string   `json:"failed,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	AQI         *int       `json:"aqi,omitempty"`
	Alerts      int        `json:"alerts"`
}

// EventFromSnapshot summarizes a snapshot for other processes.
func EventFromSnapshot(snap service.Snapshot) RefreshEvent {
	event := RefreshEvent{
		LastUpdated: snap.LastUpdated,
		Loading:     snap.Loading,
		Alerts:      len(snap.Alerts),
	}
	for _, slice := range model.AllSlices {
		if snap.Stale(slice) {
			event.Failed = append(event.Failed, string(slice))
		}
	}
	if snap.Current != nil {
		t := snap.Current.Temperature
		event.Temperature = &t
	}
	if snap.AirQuality != nil {
		aqi := format.Round(snap.AirQuality.AQI)
		event.AQI = &aqi
	}
	return event
}

// Publisher fans dashboard refresh events out over a redis channel.
type Publisher struct {
	client  *redisv9.Client
	channel string
	logger  *zap.SugaredLogger
}

// NewPublisher uses the shared client and configured channel unless a client is given.
func NewPublisher(c ...*redisv9.Client) *Publisher {
	var rc *redisv9.Client
	if len(c) > 0 && c[0] != nil {
		rc = c[0]
	} else {
		rc = GetClient()
	}
	return &Publisher{
		client:  rc,
		channel: config.GetRedisChannel(),
		logger:  config.GetLogger(),
	}
}

func (p *Publisher) Channel() string {
	return p.channel
}

func (p *Publisher) Publish(ctx context.Context, event RefreshEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal refresh event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Listen returns a snapshot listener suitable for DashboardService.Subscribe.
// Events are queued and published by a single goroutine until ctx is done, so
// a slow or hung server never delays a refresh cycle. When the queue is full
// the event is dropped; the next state change supersedes it.
func (p *Publisher) Listen(ctx context.Context) func(service.Snapshot) {
	events := make(chan RefreshEvent, eventQueueSize)
	go p.drain(ctx, events)
	return func(snap service.Snapshot) {
		select {
		case events <- EventFromSnapshot(snap):
		default:
			p.logger.Warnw("Dropping refresh event, publisher is behind", "channel", p.channel)
		}
	}
}

func (p *Publisher) drain(ctx context.Context, events <-chan RefreshEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := p.Publish(pubCtx, event); err != nil {
				p.logger.Warnw("Failed to publish refresh event", "channel", p.channel, "error", err)
			}
			cancel()
		}
	}
}
