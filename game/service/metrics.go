package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/wricardo/mcp-training/autodrive/game/service"

// simulationMetrics holds the counters recorded by the service
type simulationMetrics struct {
	runs          metric.Int64Counter
	collisions    metric.Int64Counter
	registrations metric.Int64Counter
	steps         metric.Int64Histogram
}

func newSimulationMetrics(meter metric.Meter) *simulationMetrics {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	m, err := buildMetrics(meter)
	if err != nil {
		log.WithError(err).Warn("simulation metrics disabled")
		m, _ = buildMetrics(noop.NewMeterProvider().Meter(meterName))
	}
	return m
}

func buildMetrics(meter metric.Meter) (*simulationMetrics, error) {
	runs, err1 := meter.Int64Counter("autodrive.runs",
		metric.WithDescription("Completed simulation runs"))
	collisions, err2 := meter.Int64Counter("autodrive.collisions",
		metric.WithDescription("Collision events detected during runs"))
	registrations, err3 := meter.Int64Counter("autodrive.registrations",
		metric.WithDescription("Vehicle registration attempts"))
	steps, err4 := meter.Int64Histogram("autodrive.run.steps",
		metric.WithDescription("Number of steps executed per run"))
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return nil, err
	}
	return &simulationMetrics{
		runs:          runs,
		collisions:    collisions,
		registrations: registrations,
		steps:         steps,
	}, nil
}

func (m *simulationMetrics) recordRun(ctx context.Context, steps, events, survivors int) {
	outcome := "clean"
	if events > 0 {
		outcome = "collided"
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.collisions.Add(ctx, int64(events))
	m.steps.Record(ctx, int64(steps), metric.WithAttributes(attribute.Int("survivors", survivors)))
}

func (m *simulationMetrics) recordRegistration(ctx context.Context, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
