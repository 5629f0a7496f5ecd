// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"slices"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	stmsim "github.com/jeffhu1/cs244b-project37m"
)

// DefaultConfig reproduces the reference sweep: two execution-time policies,
// all three selection policies, and fifteen parallelism levels from 1 to 32.
var DefaultConfig = Config{
	Graph:             "graph.adjlist",
	OutputDir:         "simulations",
	Parallelism:       []int{1, 2, 3, 4, 5, 6, 7, 8, 10, 12, 14, 16, 20, 24, 32},
	TimePolicies:      []string{"constant_estimate", "random_estimate"},
	SelectionPolicies: []string{"greedy_max_depth_width", "random_node", "next_txn_id_node"},
	RollbackPenalty:   stmsim.DefaultRollbackPenalty,
	Seed:              1,
	Trials:            1,
}

// Config describes a sweep. Attributes omitted from a configuration file keep
// their DefaultConfig values.
type Config struct {
	Graph             string   `hcl:"graph,optional"`
	OutputDir         string   `hcl:"output_dir,optional" valid:"required"`
	Parallelism       []int    `hcl:"parallelism,optional"`
	TimePolicies      []string `hcl:"time_policies,optional" valid:"required"`
	SelectionPolicies []string `hcl:"selection_policies,optional" valid:"required"`
	RollbackPenalty   float64  `hcl:"rollback_penalty,optional"`
	Seed              int64    `hcl:"seed,optional"`
	Trials            int      `hcl:"trials,optional"`
	// Number of simulations run at once; zero means GOMAXPROCS.
	Concurrency int `hcl:"concurrency,optional"`
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Parallelism = slices.Clone(c.Parallelism)
	c.TimePolicies = slices.Clone(c.TimePolicies)
	c.SelectionPolicies = slices.Clone(c.SelectionPolicies)
	return c
}

// LoadConfig reads an HCL sweep configuration from path on top of
// DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(src, path)
}

// ParseConfig is LoadConfig for configuration already in memory. The
// filename is used only in diagnostics.
func ParseConfig(src []byte, filename string) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}
	config := DefaultConfig.Clone()
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if _, errValidation := govalidator.ValidateStruct(c); errValidation != nil {
		return goerrors.ErrServiceValidation{
			ServiceName: "sweep",
			Caller:      "Validate",
			Issue:       errValidation,
		}
	}
	if len(c.Parallelism) == 0 {
		return goerrors.ErrValidation{
			Caller: "Validate",
			Issue:  goerrors.ErrNilInput{InputName: "Parallelism"},
		}
	}
	for _, p := range c.Parallelism {
		if p <= 0 {
			return goerrors.ErrInvalidInput{
				Caller:     "Validate",
				InputName:  "Parallelism",
				InputValue: p,
				Issue:      stmsim.ErrInvalidParallelism,
			}
		}
	}
	if c.RollbackPenalty < 0 {
		return goerrors.ErrValidation{
			Caller: "Validate",
			Issue:  goerrors.ErrNegativeInput{InputName: "RollbackPenalty"},
		}
	}
	if math.IsNaN(c.RollbackPenalty) || math.IsInf(c.RollbackPenalty, 0) {
		return goerrors.ErrInvalidInput{
			Caller:     "Validate",
			InputName:  "RollbackPenalty",
			InputValue: c.RollbackPenalty,
			Issue:      errors.New("must be finite"),
		}
	}
	if c.Trials <= 0 {
		return goerrors.ErrInvalidInput{
			Caller:     "Validate",
			InputName:  "Trials",
			InputValue: c.Trials,
			Issue:      errors.New("must be positive"),
		}
	}
	if c.Concurrency < 0 {
		return goerrors.ErrValidation{
			Caller: "Validate",
			Issue:  goerrors.ErrNegativeInput{InputName: "Concurrency"},
		}
	}
	if _, _, err := c.policies(); err != nil {
		return err
	}
	return nil
}

func (c *Config) policies() ([]stmsim.TimePolicyKind, []stmsim.SelectionPolicyKind, error) {
	times := make([]stmsim.TimePolicyKind, 0, len(c.TimePolicies))
	for _, name := range c.TimePolicies {
		k, err := stmsim.ParseTimePolicyKind(name)
		if err != nil {
			return nil, nil, goerrors.ErrInvalidInput{
				Caller:     "Validate",
				InputName:  "TimePolicies",
				InputValue: name,
				Issue:      err,
			}
		}
		times = append(times, k)
	}
	selections := make([]stmsim.SelectionPolicyKind, 0, len(c.SelectionPolicies))
	for _, name := range c.SelectionPolicies {
		k, err := stmsim.ParseSelectionPolicyKind(name)
		if err != nil {
			return nil, nil, goerrors.ErrInvalidInput{
				Caller:     "Validate",
				InputName:  "SelectionPolicies",
				InputValue: name,
				Issue:      err,
			}
		}
		selections = append(selections, k)
	}
	return times, selections, nil
}

func (c *Config) concurrency() int {
	if c.Concurrency == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Concurrency
}
