// Package ranking selects and summarizes the countries with the largest share
// of a personality type.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/montanaflynn/stats"
)

// DefaultN is the number of rows a ranking returns when n <= 0.
const DefaultN = 10

var (
	ErrMissingColumn       = errors.New("column not found")
	ErrMissingCountryField = errors.New("dataset has no Country field")
	ErrEmptyDataset        = errors.New("dataset has no records")
	ErrNonNumericColumn    = errors.New("column is not numeric")
)

// ColumnError names the column a ranking failed on.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string { return fmt.Sprintf("%s: %v", e.Column, e.Err) }

func (e *ColumnError) Unwrap() error { return e.Err }

// Entry is one ranked country with its share expressed in percent.
type Entry struct {
	Country string  `json:"country"`
	Percent float64 `json:"percent"`
}

// Result is an ordered ranking, largest share first.
type Result struct {
	Dataset string  `json:"dataset"`
	Column  string  `json:"column"`
	N       int     `json:"n"`
	Entries []Entry `json:"entries"`
}

// Top returns the first entry, or false when the ranking is empty.
func (r *Result) Top() (Entry, bool) {
	if r == nil || len(r.Entries) == 0 {
		return Entry{}, false
	}
	return r.Entries[0], true
}

// Percent converts a fraction to a percent rounded to two decimals.
func Percent(fraction float64) float64 {
	return roundPercent(fraction * 100)
}

// roundPercent rounds to two decimals with exact halves going up (0.125 ->
// 0.13), unlike the round-half-to-even of numpy and pandas.
func roundPercent(p float64) float64 {
	r, err := stats.Round(p, 2)
	if err != nil {
		return math.NaN()
	}
	return r
}

// TopN returns the n records with the largest value in column. Ties keep
// their original row order. Missing (NaN) cells are skipped, so the result
// holds min(n, rows with a value) entries.
func TopN(ds *dataset.Dataset, column string, n int) (*Result, error) {
	if err := check(ds, column); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultN
	}

	idx := make([]int, 0, ds.Len())
	for i, r := range ds.Records {
		if v, ok := r.Shares[column]; ok && !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return ds.Records[idx[a]].Shares[column] > ds.Records[idx[b]].Shares[column]
	})
	if len(idx) > n {
		idx = idx[:n]
	}

	res := &Result{Dataset: ds.Name, Column: column, N: n, Entries: make([]Entry, 0, len(idx))}
	for _, i := range idx {
		r := ds.Records[i]
		res.Entries = append(res.Entries, Entry{Country: r.Country, Percent: Percent(r.Shares[column])})
	}
	return res, nil
}

func check(ds *dataset.Dataset, column string) error {
	if !ds.HasCountry() {
		return ErrMissingCountryField
	}
	if !ds.HasColumn(column) {
		return &ColumnError{Column: column, Err: ErrMissingColumn}
	}
	if ds.Len() == 0 {
		return ErrEmptyDataset
	}
	if !ds.IsNumeric(column) {
		return &ColumnError{Column: column, Err: ErrNonNumericColumn}
	}
	return nil
}
