// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

// Command stmsim sweeps a transaction dependency graph across execution
// policies and parallelism levels and writes the simulated completion times
// as CSV files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jeffhu1/cs244b-project37m/graph"
	"github.com/jeffhu1/cs244b-project37m/sweep"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	opts, shouldExit, err := parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(opts.logLevel)
	logger, err := loggerConfig.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer zap.ReplaceGlobals(logger)()

	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	if opts.trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return err
		}
		tp := trace.NewTracerProvider(
			trace.WithSampler(trace.AlwaysSample()),
			trace.WithBatcher(exporter),
		)
		previous := otel.GetTracerProvider()
		otel.SetTracerProvider(tp)
		defer otel.SetTracerProvider(previous)
		defer tp.Shutdown(context.Background())
	}

	g, err := graph.LoadAdjList(opts.config.Graph)
	if err != nil {
		return err
	}
	logger.Info("loaded graph",
		zap.String("path", opts.config.Graph),
		zap.Int("nodes", g.Len()),
		zap.Int("edges", g.EdgeCount()))

	runner, err := sweep.NewRunner(opts.config, sweep.WithLogger(logger))
	if err != nil {
		return err
	}
	results, err := runner.Run(ctx, g)
	if err != nil {
		return err
	}
	if err := results.WriteDir(opts.config.OutputDir); err != nil {
		return err
	}
	logger.Info("wrote results", zap.String("dir", opts.config.OutputDir))

	if opts.print {
		return printSummary(out, results)
	}
	return nil
}

func printSummary(out io.Writer, results *sweep.Results) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "run\tparallelism\tmin\tmedian\tmax\t")
	for _, s := range results.Series() {
		for _, r := range s.Ranges() {
			fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t\n", s.Name(), r.Parallelism, r.Min, r.Med, r.Max)
		}
	}
	return tw.Flush()
}
