// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/jeffhu1/cs244b-project37m/sweep"
	"go.uber.org/zap/zapcore"
)

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	config   sweep.Config
	logLevel zapcore.Level
	timeout  time.Duration
	trace    bool
	print    bool
}

// parse processes command-line arguments. It reports true if the program
// should exit without running, for instance after printing help.
func parse(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("stmsim", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
stmsim - simulate speculative parallel execution of a transaction dependency graph.

Usage:
  stmsim [options] [GRAPH_PATH]

Runs every combination of execution-time policy, node selection policy and
parallelism level over the graph and writes one CSV per policy combination.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL sweep configuration file.")
	graphFlag := flagSet.String("graph", "", "Path to the adjacency-list graph file.")
	outFlag := flagSet.String("out", "", "Directory for the result CSV files.")
	seedFlag := flagSet.Int64("seed", 0, "Seed for the randomized policies.")
	trialsFlag := flagSet.Int("trials", 0, "Simulations per grid point.")
	concurrencyFlag := flagSet.Int("concurrency", 0, "Simulations run at once (default GOMAXPROCS).")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level: debug, info, warn or error.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Abort the sweep after this long. 0 means no limit.")
	traceFlag := flagSet.Bool("trace", false, "Print OpenTelemetry spans to the output.")
	printFlag := flagSet.Bool("print", false, "Print a summary table of the results.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "at most one graph path may be given"}
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(*logLevelFlag)); err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config := sweep.DefaultConfig.Clone()
	if *configFlag != "" {
		loaded, err := sweep.LoadConfig(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		config = *loaded
	}

	// Flags given explicitly override the configuration file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "graph":
			config.Graph = *graphFlag
		case "out":
			config.OutputDir = *outFlag
		case "seed":
			config.Seed = *seedFlag
		case "trials":
			config.Trials = *trialsFlag
		case "concurrency":
			config.Concurrency = *concurrencyFlag
		}
	})
	if flagSet.NArg() == 1 {
		config.Graph = flagSet.Arg(0)
	}
	if err := config.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return &options{
		config:   config,
		logLevel: level,
		timeout:  *timeoutFlag,
		trace:    *traceFlag,
		print:    *printFlag,
	}, false, nil
}
