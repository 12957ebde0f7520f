// Package notifier publishes the events returned by committed operations.
package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"
	"stayops/config"
	"stayops/infras/kafka"
	"stayops/infras/otel"
	"stayops/shared/constant"
	"stayops/shared/deadline"
	"stayops/shared/event"

	"github.com/rs/zerolog/log"
)

const dependencyKafka = "kafka"

type Notifier interface {
	// Dispatch returns immediately. Publishing happens in the background and its
	// failures are only logged.
	Dispatch(ctx context.Context, events ...event.Event)
}

type notifierImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (n *notifierImpl) Dispatch(ctx context.Context, events ...event.Event) {
	if len(events) == 0 {
		return
	}

	go n.publish(context.WithoutCancel(ctx), events)
}

func (n *notifierImpl) publish(ctx context.Context, events []event.Event) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	messages := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		messages = append(messages, kafka.Message{Key: e.Key(), Value: e})
	}

	scope.SetAttributes(map[string]any{
		"event.count": len(events),
		"event.first": string(events[0].Type),
	})

	_, degraded, err := deadline.WithFallback(ctx, deadline.Millis(n.cfg.App.Upstream.EventPublishMs), dependencyKafka, struct{}{},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.client.SendMessages(ctx, n.cfg.Kafka.Topic, messages...) //nolint:wrapcheck
		})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("count", len(events)).Str("type", string(events[0].Type)).Msg("failed to publish events, dropping them")

		return
	}

	if degraded {
		log.Warn().Int("count", len(events)).Str("type", string(events[0].Type)).Msg("event publish timed out, events dropped")
	}
}
