// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	stmsim "github.com/jeffhu1/cs244b-project37m"
	"github.com/jeffhu1/cs244b-project37m/graph"
	"github.com/jeffhu1/cs244b-project37m/internal/psg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Point is one cell of the sweep grid.
type Point struct {
	TimePolicy      stmsim.TimePolicyKind
	SelectionPolicy stmsim.SelectionPolicyKind
	Parallelism     int
	Trial           int
	// Seeds for the randomized policies, derived from the sweep seed and the
	// point's position in the grid.
	TimeSeed      uint64
	SelectionSeed uint64
}

func (p *Point) Name() string {
	return stmsim.RunName(p.TimePolicy, p.SelectionPolicy)
}

func (p *Point) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("run", p.Name()),
		attribute.Int("parallelism", p.Parallelism),
		attribute.Int("trial", p.Trial),
	}
}

type outcome struct {
	Time  float64
	Stats stmsim.Stats
}

// Runner executes sweeps described by a Config.
type Runner struct {
	config      Config
	points      []Point
	logger      *zap.Logger
	instruments *instruments
}

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner validates config and plans its grid.
func NewRunner(config Config, opts ...Option) (*Runner, error) {
	config = config.Clone()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		config:      config,
		logger:      zap.L(),
		instruments: newInstruments(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.points = r.plan()
	return r, nil
}

// Seeds depend only on the grid position, so results do not depend on
// concurrency or completion order.
func (r *Runner) plan() []Point {
	times, selections, _ := r.config.policies()
	base := uint64(r.config.Seed)
	var points []Point
	for _, t := range times {
		for _, s := range selections {
			for _, p := range r.config.Parallelism {
				for trial := range r.config.Trials {
					i := uint64(len(points))
					points = append(points, Point{
						TimePolicy:      t,
						SelectionPolicy: s,
						Parallelism:     p,
						Trial:           trial,
						TimeSeed:        base + 2*i,
						SelectionSeed:   base + 2*i + 1,
					})
				}
			}
		}
	}
	return points
}

// Points returns the grid in the order it is scattered.
func (r *Runner) Points() []Point {
	return r.points
}

// Run simulates every point of the grid on g. The first failed simulation
// cancels the rest and is returned.
func (r *Runner) Run(ctx context.Context, g *graph.Graph) (*Results, error) {
	id := uuid.NewString()
	logger := r.logger.With(zap.String("sweep_id", id))
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "sweep", trace.WithAttributes(
		attribute.String("sweep_id", id),
		attribute.Int("nodes", g.Len()),
		attribute.Int("edges", g.EdgeCount()),
		attribute.Int("runs", len(r.points)),
	))
	defer span.End()

	results, err := r.run(ctx, g, newResults(id), logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return results, nil
}

func (r *Runner) run(ctx context.Context, g *graph.Graph, results *Results, logger *zap.Logger) (*Results, error) {
	concurrency := r.config.concurrency()
	pool := psg.NewPool(concurrency)
	job := psg.NewJob(ctx, pool)
	defer job.CancelAndWait()

	sim := stmsim.NewSimulator(g,
		stmsim.WithRollbackPenalty(r.config.RollbackPenalty),
		stmsim.WithLogger(logger.Named("engine")),
	)

	logger.Info("starting sweep",
		zap.Int("nodes", g.Len()),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("runs", len(r.points)),
		zap.Int("concurrency", concurrency))
	startTime := time.Now()

	for _, point := range r.points {
		attrs := point.attributes()
		runLogger := logger.With(
			zap.String("run", point.Name()),
			zap.Int("parallelism", point.Parallelism),
			zap.Int("trial", point.Trial))
		task := tracedTask("simulate", attrs, loggedTask(runLogger, r.simulate(sim, point)))
		gather := r.instruments.meteredGather(attrs, func(ctx context.Context, o outcome, err error) error {
			if err != nil {
				return fmt.Errorf("%s with parallelism %d (trial %d): %w", point.Name(), point.Parallelism, point.Trial, err)
			}
			results.add(point.TimePolicy, point.SelectionPolicy, Sample{
				Parallelism: point.Parallelism,
				Trial:       point.Trial,
				Time:        o.Time,
				Rollbacks:   o.Stats.Rollbacks,
			})
			return nil
		})
		if err := psg.Scatter(ctx, pool, task, gather); err != nil {
			return nil, err
		}
	}
	if err := job.GatherAll(ctx); err != nil {
		return nil, err
	}

	logger.Info("sweep complete", zap.Duration("elapsed", time.Since(startTime)))
	return results, nil
}

func (r *Runner) simulate(sim *stmsim.Simulator, point Point) psg.TaskFunc[outcome] {
	return func(ctx context.Context) (outcome, error) {
		if err := ctx.Err(); err != nil {
			return outcome{}, err
		}
		run, err := sim.Start(
			point.Parallelism,
			stmsim.NewSelectionPolicy(point.SelectionPolicy, point.SelectionSeed),
			stmsim.NewTimePolicy(point.TimePolicy, point.TimeSeed),
		)
		if err != nil {
			return outcome{}, err
		}
		t, err := run.Finish()
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Float64("time", t),
			attribute.Int("rollbacks", run.Stats().Rollbacks))
		return outcome{Time: t, Stats: run.Stats()}, err
	}
}
