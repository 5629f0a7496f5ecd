// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package sweep_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/TudorHulban/go-errors"
	stmsim "github.com/jeffhu1/cs244b-project37m"
	"github.com/jeffhu1/cs244b-project37m/sweep"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	chk := require.New(t)
	config := sweep.DefaultConfig.Clone()
	chk.NoError(config.Validate())
	chk.Len(config.Parallelism, 15)
	chk.Equal(stmsim.DefaultRollbackPenalty, config.RollbackPenalty)

	config.Parallelism[0] = 99
	chk.Equal(1, sweep.DefaultConfig.Parallelism[0], "Clone copies slices")
}

func TestParseConfig(t *testing.T) {
	chk := require.New(t)
	config, err := sweep.ParseConfig([]byte(`
graph              = "blocks/17.adjlist"
parallelism        = [1, 4, 16]
selection_policies = ["next_txn_id_node"]
rollback_penalty   = 0.25
trials             = 5
concurrency        = 2
`), "sweep.hcl")
	chk.NoError(err)
	chk.Equal("blocks/17.adjlist", config.Graph)
	chk.Equal([]int{1, 4, 16}, config.Parallelism)
	chk.Equal([]string{"next_txn_id_node"}, config.SelectionPolicies)
	chk.Equal(0.25, config.RollbackPenalty)
	chk.Equal(5, config.Trials)
	chk.Equal(2, config.Concurrency)

	// Omitted attributes keep their defaults.
	chk.Equal(sweep.DefaultConfig.OutputDir, config.OutputDir)
	chk.Equal(sweep.DefaultConfig.TimePolicies, config.TimePolicies)
	chk.Equal(sweep.DefaultConfig.Seed, config.Seed)
}

func TestLoadConfig(t *testing.T) {
	chk := require.New(t)
	path := filepath.Join(t.TempDir(), "sweep.hcl")
	chk.NoError(os.WriteFile(path, []byte("seed = 7\noutput_dir = \"out\"\n"), 0o644))
	config, err := sweep.LoadConfig(path)
	chk.NoError(err)
	chk.Equal(int64(7), config.Seed)
	chk.Equal("out", config.OutputDir)

	chk.NoError(os.WriteFile(path, []byte("unknown_attribute = 1\n"), 0o644))
	_, err = sweep.LoadConfig(path)
	chk.Error(err)

	chk.NoError(os.WriteFile(path, []byte("parallelism = [1, \n"), 0o644))
	_, err = sweep.LoadConfig(path)
	chk.ErrorContains(err, "failed to parse HCL file "+path)

	_, err = sweep.LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	chk.ErrorIs(err, os.ErrNotExist)
}

func TestLoadConfigMatchesParseConfig(t *testing.T) {
	chk := require.New(t)
	src := []byte(`
parallelism        = [1, 4]
selection_policies = ["random_node"]
trials             = 3
`)
	path := filepath.Join(t.TempDir(), "sweep.hcl")
	chk.NoError(os.WriteFile(path, src, 0o644))

	loaded, err := sweep.LoadConfig(path)
	chk.NoError(err)
	parsed, err := sweep.ParseConfig(src, path)
	chk.NoError(err)
	chk.Equal(parsed, loaded)

	chk.NoError(os.WriteFile(path, []byte("trials = 0\n"), 0o644))
	_, loadErr := sweep.LoadConfig(path)
	_, parseErr := sweep.ParseConfig([]byte("trials = 0\n"), path)
	chk.Error(loadErr)
	chk.Equal(parseErr.Error(), loadErr.Error())
}

func TestConfigValidation(t *testing.T) {
	chk := require.New(t)
	check := func(mutate func(*sweep.Config)) error {
		config := sweep.DefaultConfig.Clone()
		mutate(&config)
		return config.Validate()
	}

	err := check(func(c *sweep.Config) { c.OutputDir = "" })
	var serviceErr goerrors.ErrServiceValidation
	chk.True(errors.As(err, &serviceErr), "%v", err)

	err = check(func(c *sweep.Config) { c.SelectionPolicies = nil })
	chk.True(errors.As(err, &serviceErr), "%v", err)

	err = check(func(c *sweep.Config) { c.Parallelism = nil })
	var validationErr goerrors.ErrValidation
	chk.True(errors.As(err, &validationErr), "%v", err)

	err = check(func(c *sweep.Config) { c.Parallelism = []int{1, 0} })
	var inputErr goerrors.ErrInvalidInput
	chk.True(errors.As(err, &inputErr), "%v", err)
	chk.Equal("Parallelism", inputErr.InputName)

	err = check(func(c *sweep.Config) { c.RollbackPenalty = -1 })
	chk.True(errors.As(err, &validationErr), "%v", err)

	err = check(func(c *sweep.Config) { c.Trials = 0 })
	chk.True(errors.As(err, &inputErr), "%v", err)
	chk.Equal("Trials", inputErr.InputName)

	err = check(func(c *sweep.Config) { c.Concurrency = -2 })
	chk.True(errors.As(err, &validationErr), "%v", err)

	err = check(func(c *sweep.Config) { c.TimePolicies = []string{"wall_clock"} })
	chk.True(errors.As(err, &inputErr), "%v", err)
	chk.Equal("TimePolicies", inputErr.InputName)

	_, err = sweep.ParseConfig([]byte(`trials = 0`), "sweep.hcl")
	chk.Error(err)
}
