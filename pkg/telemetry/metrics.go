package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/ghuser/bazaar"

// Metrics holds the marketplace's domain instruments.
type Metrics struct {
	denials     metric.Int64Counter
	transitions metric.Int64Counter
	cacheReads  metric.Int64Counter
}

// NewMetrics registers the instruments on the global meter provider, so call
// it after Setup.
func NewMetrics() (*Metrics, error) {
	return newMetrics(otel.Meter(meterName))
}

// NopMetrics returns Metrics that record nothing.
func NopMetrics() *Metrics {
	m, _ := newMetrics(noop.NewMeterProvider().Meter(meterName))
	return m
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	denials, err := meter.Int64Counter("bazaar.authorization.denials",
		metric.WithDescription("Mutations refused by the role policy"))
	if err != nil {
		return nil, fmt.Errorf("authorization denials counter: %w", err)
	}
	transitions, err := meter.Int64Counter("bazaar.lifecycle.transitions",
		metric.WithDescription("Committed active/inactive transitions"))
	if err != nil {
		return nil, fmt.Errorf("lifecycle transitions counter: %w", err)
	}
	cacheReads, err := meter.Int64Counter("bazaar.item_cache.reads",
		metric.WithDescription("Item read-model lookups by result"))
	if err != nil {
		return nil, fmt.Errorf("item cache counter: %w", err)
	}
	return &Metrics{denials: denials, transitions: transitions, cacheReads: cacheReads}, nil
}

// AuthorizationDenied counts a refused action such as "item.disable".
func (m *Metrics) AuthorizationDenied(ctx context.Context, action string) {
	m.denials.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// LifecycleTransition counts a committed transition.
func (m *Metrics) LifecycleTransition(ctx context.Context, entity, event string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("event", event),
	))
}

// ItemCacheRead counts a read-model lookup as hit, miss or error.
func (m *Metrics) ItemCacheRead(ctx context.Context, result string) {
	m.cacheReads.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
