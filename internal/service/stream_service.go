package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/land-registry/internal/events"
)

// StreamService appends every ledger event to a Redis stream, giving
// external consumers (document store sync, UI live-update) an ordered,
// append-only log. Delivery is at-least-once; entries carry the entity key
// so consumers can keep per-entity ordering and dedupe on event id.
type StreamService struct {
	client     *redis.Client
	stream     string
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewStreamService creates the service.
func NewStreamService(client *redis.Client, stream string, dispatcher events.Dispatcher, logger *zap.Logger) *StreamService {
	return &StreamService{
		client:     client,
		stream:     stream,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes the stream appender to every ledger event.
func (s *StreamService) RegisterHandlers() {
	if s.dispatcher == nil || s.client == nil {
		return
	}
	events.SubscribeAll(s.dispatcher, s.append)
}

func (s *StreamService) append(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("event marshal failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return nil
	}

	entity := event.Identity
	if event.PropertyID != 0 {
		entity = "property:" + strconv.FormatUint(event.PropertyID, 10)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"event_id": event.ID,
			"type":     string(event.Type),
			"entity":   entity,
			"payload":  string(payload),
		},
	}).Err()
	if err != nil {
		s.logger.Warn("stream append failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return nil
}
