// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	stmsim "github.com/jeffhu1/cs244b-project37m"
)

// Sample is the outcome of one simulation.
type Sample struct {
	Parallelism int
	Trial       int
	Time        float64
	Rollbacks   int
}

func compareSamples(a, b Sample) int {
	if c := cmp.Compare(a.Parallelism, b.Parallelism); c != 0 {
		return c
	}
	return cmp.Compare(a.Trial, b.Trial)
}

// Series holds the samples of one policy combination ordered by parallelism
// and then trial.
type Series struct {
	TimePolicy      stmsim.TimePolicyKind
	SelectionPolicy stmsim.SelectionPolicyKind
	Samples         []Sample
}

// Name is the series' RunName, which is also its CSV file's base name.
func (s *Series) Name() string {
	return stmsim.RunName(s.TimePolicy, s.SelectionPolicy)
}

func (s *Series) add(sample Sample) {
	i, _ := slices.BinarySearchFunc(s.Samples, sample, compareSamples)
	s.Samples = slices.Insert(s.Samples, i, sample)
}

// Range summarizes the trials run at one parallelism.
type Range struct {
	Parallelism int
	Trials      int
	Min         float64
	Med         float64
	Max         float64
}

// Ranges returns one Range per parallelism, in ascending order.
func (s *Series) Ranges() []Range {
	var ranges []Range
	for start := 0; start < len(s.Samples); {
		p := s.Samples[start].Parallelism
		end := start
		var times []float64
		for end < len(s.Samples) && s.Samples[end].Parallelism == p {
			times = append(times, s.Samples[end].Time)
			end++
		}
		slices.Sort(times)
		n := len(times)
		med := times[n/2]
		if n%2 == 0 {
			med = (times[n/2-1] + times[n/2]) / 2
		}
		ranges = append(ranges, Range{
			Parallelism: p,
			Trials:      n,
			Min:         times[0],
			Med:         med,
			Max:         times[n-1],
		})
		start = end
	}
	return ranges
}

// Results collects the series of one sweep.
type Results struct {
	// ID identifies the sweep in logs and traces.
	ID     string
	series map[string]*Series
}

func newResults(id string) *Results {
	return &Results{
		ID:     id,
		series: make(map[string]*Series),
	}
}

func (r *Results) add(t stmsim.TimePolicyKind, s stmsim.SelectionPolicyKind, sample Sample) {
	name := stmsim.RunName(t, s)
	series := r.series[name]
	if series == nil {
		series = &Series{TimePolicy: t, SelectionPolicy: s}
		r.series[name] = series
	}
	series.add(sample)
}

// Series returns every series ordered by name.
func (r *Results) Series() []*Series {
	out := make([]*Series, 0, len(r.series))
	for _, name := range slices.Sorted(maps.Keys(r.series)) {
		out = append(out, r.series[name])
	}
	return out
}

// Lookup returns the series of a policy combination, or nil if it was not
// part of the sweep.
func (r *Results) Lookup(t stmsim.TimePolicyKind, s stmsim.SelectionPolicyKind) *Series {
	return r.series[stmsim.RunName(t, s)]
}

// WriteDir writes each series to dir/<name>.csv, creating dir if needed.
func (r *Results) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range r.Series() {
		path := filepath.Join(dir, s.Name()+".csv")
		if err := writeFile(path, s.WriteCSV); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var csvHeader = []string{"parallelism", "time"}

// WriteCSV writes the samples with a "parallelism,time" header, one row per
// sample.
func (s *Series) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, sample := range s.Samples {
		err := cw.Write([]string{
			strconv.Itoa(sample.Parallelism),
			strconv.FormatFloat(sample.Time, 'g', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV. Rows with the same parallelism are
// numbered as consecutive trials; rollback counts are not recorded.
func ReadCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, csvHeader) {
		return nil, fmt.Errorf("unexpected header %q", header)
	}
	trials := make(map[int]int)
	var samples []Sample
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, err
		}
		p, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("parsing parallelism: %w", err)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing time: %w", err)
		}
		samples = append(samples, Sample{Parallelism: p, Trial: trials[p], Time: t})
		trials[p]++
	}
}
