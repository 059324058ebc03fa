package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes how one type column is distributed across countries. All
// values are percents rounded to two decimals.
type Stats struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Median     float64 `json:"median"`
	Q25        float64 `json:"q25"`
	Q75        float64 `json:"q75"`
	Min        float64 `json:"min"`
	MinCountry string  `json:"min_country"`
	Max        float64 `json:"max"`
	MaxCountry string  `json:"max_country"`
}

// Describe computes distribution statistics for column.
func Describe(ds *dataset.Dataset, column string) (*Stats, error) {
	if err := check(ds, column); err != nil {
		return nil, err
	}
	s := &Stats{Column: column, Min: math.Inf(1), Max: math.Inf(-1)}
	var vals []float64
	for _, r := range ds.Records {
		v, ok := r.Shares[column]
		if !ok || math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
		if v < s.Min {
			s.Min, s.MinCountry = v, r.Country
		}
		if v > s.Max {
			s.Max, s.MaxCountry = v, r.Country
		}
	}
	s.Count = len(vals)
	if s.Count == 0 {
		return nil, &ColumnError{Column: column, Err: ErrNonNumericColumn}
	}

	mean, std := stat.MeanStdDev(vals, nil)
	if s.Count < 2 {
		std = 0
	}
	median, err := stats.Median(vals)
	if err != nil {
		return nil, fmt.Errorf("median %s: %w", column, err)
	}
	// Empirical quantiles are defined for any non-empty sample.
	sort.Float64s(vals)
	q25 := stat.Quantile(0.25, stat.Empirical, vals, nil)
	q75 := stat.Quantile(0.75, stat.Empirical, vals, nil)

	s.Mean = Percent(mean)
	s.StdDev = Percent(std)
	s.Median = Percent(median)
	s.Q25 = Percent(q25)
	s.Q75 = Percent(q75)
	s.Min = Percent(s.Min)
	s.Max = Percent(s.Max)
	return s, nil
}
