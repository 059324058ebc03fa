package dataset

import (
	"math"
	"strings"
)

// CountryField is the header that identifies the country column.
const CountryField = "Country"

// MBTITypes lists the sixteen personality-type codes in the order the bundled
// file uses.
var MBTITypes = []string{
	"INFJ", "ISFJ", "INTP", "ISFP", "ENFP", "ENTP", "INFP", "ISTP",
	"ENFJ", "ESFJ", "ENTJ", "ESTJ", "INTJ", "ISTJ", "ESFP", "ESTP",
}

// IsMBTIType reports whether s is one of the sixteen type codes (case-insensitive).
func IsMBTIType(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, t := range MBTITypes {
		if t == s {
			return true
		}
	}
	return false
}

// Record is one country row. Shares holds the fraction of the population per
// type column; missing or unparsable cells are NaN.
type Record struct {
	Country string
	Shares  map[string]float64
}

// Dataset is the in-memory table loaded from one file. It is never mutated
// after loading.
type Dataset struct {
	Name string
	// Country is the header name of the country column as found in the
	// file; empty when the dataset has no country field.
	Country string
	// Columns are the selectable type columns in header order.
	Columns []string
	Records []Record
	// Warnings collects non-fatal load notes (skipped columns and the like).
	Warnings []string

	numeric map[string]bool
}

// New builds a dataset from already-parsed records. A column counts as
// numeric when at least one record carries a non-NaN value for it.
func New(name string, columns []string, records []Record) *Dataset {
	d := &Dataset{
		Name:    name,
		Country: CountryField,
		Columns: append([]string(nil), columns...),
		Records: records,
		numeric: make(map[string]bool, len(columns)),
	}
	for _, c := range columns {
		for _, r := range records {
			if v, ok := r.Shares[c]; ok && !math.IsNaN(v) {
				d.numeric[c] = true
				break
			}
		}
	}
	return d
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// HasCountry reports whether the dataset carries a country field.
func (d *Dataset) HasCountry() bool { return d != nil && d.Country != "" }

// HasColumn reports whether name is one of the selectable columns.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the column held numeric data at load time.
func (d *Dataset) IsNumeric(name string) bool {
	if d == nil || d.numeric == nil {
		return false
	}
	return d.numeric[name]
}

// Values returns the non-NaN values of a column in row order.
func (d *Dataset) Values(column string) []float64 {
	if d == nil {
		return nil
	}
	out := make([]float64, 0, len(d.Records))
	for _, r := range d.Records {
		v, ok := r.Shares[column]
		if !ok || math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DefaultColumn returns the column preselected in pickers: the first one.
func (d *Dataset) DefaultColumn() string {
	if d == nil || len(d.Columns) == 0 {
		return ""
	}
	return d.Columns[0]
}
