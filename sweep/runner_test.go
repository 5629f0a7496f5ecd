// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package sweep_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/TudorHulban/go-errors"
	stmsim "github.com/jeffhu1/cs244b-project37m"
	"github.com/jeffhu1/cs244b-project37m/graph"
	"github.com/jeffhu1/cs244b-project37m/internal/gen"
	"github.com/jeffhu1/cs244b-project37m/sweep"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func smallConfig() sweep.Config {
	config := sweep.DefaultConfig.Clone()
	config.Parallelism = []int{1, 2, 4}
	config.TimePolicies = []string{"constant_estimate", "gas_estimate", "random_estimate"}
	config.Trials = 2
	config.Concurrency = 3
	config.OutputDir = "unused"
	return config
}

// Every edge of the fan-out graph goes from a smaller to a larger identifier.
func fanout() *graph.Graph {
	g := graph.New()
	for i := 1; i < 12; i++ {
		g.AddEdge(gen.ID(i/3), gen.ID(i))
	}
	return g
}

func TestRunnerChain(t *testing.T) {
	defer goleak.VerifyNone(t)
	chk := require.New(t)
	runner, err := sweep.NewRunner(smallConfig(), sweep.WithLogger(zaptest.NewLogger(t)))
	chk.NoError(err)
	chk.Len(runner.Points(), 3*3*3*2)

	results, err := runner.Run(context.Background(), gen.Chain(3))
	chk.NoError(err)
	chk.NotEmpty(results.ID)
	chk.Len(results.Series(), 9)

	for _, s := range results.Series() {
		chk.Len(s.Samples, 6)
		for _, r := range s.Ranges() {
			chk.Equal(2, r.Trials)
			chk.LessOrEqual(r.Min, r.Med)
			chk.LessOrEqual(r.Med, r.Max)
		}
	}

	serial := results.Lookup(stmsim.TimeConstant, stmsim.SelectNextID)
	chk.NotNil(serial)
	for _, sample := range serial.Samples {
		chk.InDelta(3*stmsim.DefaultConstantDuration, sample.Time, 1e-12)
	}
	for _, sample := range results.Lookup(stmsim.TimeGas, stmsim.SelectGreedyMaxDepthWidth).Samples {
		chk.Equal(3.0, sample.Time)
		chk.Zero(sample.Rollbacks)
	}
	chk.Nil(results.Lookup(stmsim.TimeRandom, stmsim.SelectionPolicyKind(7)))
}

func TestRunnerIsIndependentOfConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)
	chk := require.New(t)
	g := fanout()

	var runs [][]*sweep.Series
	for _, concurrency := range []int{1, 4, 16} {
		config := smallConfig()
		config.Concurrency = concurrency
		config.Seed = 99
		runner, err := sweep.NewRunner(config)
		chk.NoError(err)
		results, err := runner.Run(context.Background(), g)
		chk.NoError(err)
		runs = append(runs, results.Series())
	}
	for _, other := range runs[1:] {
		chk.Equal(len(runs[0]), len(other))
		for i := range runs[0] {
			chk.Equal(runs[0][i].Name(), other[i].Name())
			chk.Equal(runs[0][i].Samples, other[i].Samples)
		}
	}
}

func TestRunnerStopsOnStall(t *testing.T) {
	defer goleak.VerifyNone(t)
	chk := require.New(t)
	runner, err := sweep.NewRunner(smallConfig(), sweep.WithLogger(zap.NewNop()))
	chk.NoError(err)
	_, err = runner.Run(context.Background(), gen.Cycle(3))
	chk.ErrorIs(err, stmsim.ErrNoProgress)
}

func TestRunnerCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)
	chk := require.New(t)
	runner, err := sweep.NewRunner(smallConfig())
	chk.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, fanout())
	chk.ErrorIs(err, context.Canceled)
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	config := smallConfig()
	config.Parallelism = []int{-1}
	_, err := sweep.NewRunner(config)
	var inputErr goerrors.ErrInvalidInput
	require.True(t, errors.As(err, &inputErr), "%v", err)
	require.ErrorIs(t, inputErr.Issue, stmsim.ErrInvalidParallelism)
}

func TestRunnerTraces(t *testing.T) {
	defer goleak.VerifyNone(t)
	chk := require.New(t)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(previous)
	defer tp.Shutdown(context.Background())

	config := smallConfig()
	config.TimePolicies = []string{"gas_estimate"}
	config.SelectionPolicies = []string{"next_txn_id_node"}
	config.Trials = 1
	runner, err := sweep.NewRunner(config)
	chk.NoError(err)
	_, err = runner.Run(context.Background(), gen.Chain(2))
	chk.NoError(err)

	counts := make(map[string]int)
	var sweepSpan sdktrace.ReadOnlySpan
	for _, span := range recorder.Ended() {
		counts[span.Name()]++
		if span.Name() == "sweep" {
			sweepSpan = span
		}
	}
	chk.Equal(map[string]int{"sweep": 1, "simulate": 3}, counts)
	for _, span := range recorder.Ended() {
		if span.Name() == "simulate" {
			chk.Equal(sweepSpan.SpanContext().SpanID(), span.Parent().SpanID())
		}
	}
}

func TestWriteDir(t *testing.T) {
	defer goleak.VerifyNone(t)
	chk := require.New(t)
	config := smallConfig()
	config.TimePolicies = []string{"constant_estimate"}
	runner, err := sweep.NewRunner(config)
	chk.NoError(err)
	results, err := runner.Run(context.Background(), fanout())
	chk.NoError(err)

	dir := filepath.Join(t.TempDir(), "simulations")
	chk.NoError(results.WriteDir(dir))
	entries, err := os.ReadDir(dir)
	chk.NoError(err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	chk.Equal([]string{
		"constant_estimate-greedy_max_depth_width.csv",
		"constant_estimate-next_txn_id_node.csv",
		"constant_estimate-random_node.csv",
	}, names)

	f, err := os.Open(filepath.Join(dir, "constant_estimate-random_node.csv"))
	chk.NoError(err)
	defer f.Close()
	samples, err := sweep.ReadCSV(f)
	chk.NoError(err)
	series := results.Lookup(stmsim.TimeConstant, stmsim.SelectRandom)
	chk.Len(samples, len(series.Samples))
	for i, sample := range samples {
		chk.Equal(series.Samples[i].Parallelism, sample.Parallelism)
		chk.Equal(series.Samples[i].Trial, sample.Trial)
		chk.Equal(series.Samples[i].Time, sample.Time)
	}
}
