// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"context"
	"time"

	"github.com/jeffhu1/cs244b-project37m/internal/psg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "stmsim/sweep"

// tracedTask runs taskFunc inside a span with the given name and attributes.
func tracedTask[T any](
	operationName string,
	attrs []attribute.KeyValue,
	taskFunc psg.TaskFunc[T],
) psg.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		ctx, span := otel.Tracer(instrumentationName).Start(ctx, operationName, trace.WithAttributes(attrs...))
		defer span.End()

		result, err := taskFunc(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return result, err
	}
}

// loggedTask logs the start and end of taskFunc, with its wall-clock
// duration.
func loggedTask[T any](
	logger *zap.Logger,
	taskFunc psg.TaskFunc[T],
) psg.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		logger.Debug("starting run")

		startTime := time.Now()
		result, err := taskFunc(ctx)
		elapsed := time.Since(startTime)

		if err != nil {
			logger.Error("run failed",
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
		} else {
			logger.Debug("run completed",
				zap.Duration("elapsed", elapsed))
		}
		return result, err
	}
}

type instruments struct {
	runs          metric.Int64Counter
	errors        metric.Int64Counter
	rollbacks     metric.Int64Counter
	simulatedTime metric.Float64Histogram
}

func newInstruments() *instruments {
	meter := otel.GetMeterProvider().Meter(instrumentationName)
	runs, _ := meter.Int64Counter("sweep.runs.count")
	failures, _ := meter.Int64Counter("sweep.runs.errors")
	rollbacks, _ := meter.Int64Counter("sweep.rollbacks")
	simulatedTime, _ := meter.Float64Histogram("sweep.simulated_time")
	return &instruments{
		runs:          runs,
		errors:        failures,
		rollbacks:     rollbacks,
		simulatedTime: simulatedTime,
	}
}

// meteredGather records the outcome of each run before passing it on.
func (in *instruments) meteredGather(
	attrs []attribute.KeyValue,
	gatherFunc psg.GatherFunc[outcome],
) psg.GatherFunc[outcome] {
	opt := metric.WithAttributes(attrs...)
	return func(ctx context.Context, o outcome, err error) error {
		in.runs.Add(ctx, 1, opt)
		if err != nil {
			in.errors.Add(ctx, 1, opt)
		} else {
			in.rollbacks.Add(ctx, int64(o.Stats.Rollbacks), opt)
			in.simulatedTime.Record(ctx, o.Time, opt)
		}
		return gatherFunc(ctx, o, err)
	}
}
