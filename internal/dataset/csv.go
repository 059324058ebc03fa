package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Options controls how input files are parsed.
type Options struct {
	// Delimiter for CSV. If 0, picks tab for .tsv names and comma otherwise.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// XLSX sheet selection. SheetName wins over SheetIndex; SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for loading.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvLoader) Load(r io.Reader, name string, opt Options) (*Dataset, error) {
	return LoadCSV(r, name, opt)
}

// LoadCSV reads a delimited file with a header row into a Dataset.
func LoadCSV(r io.Reader, name string, opt Options) (*Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, readErr(name, ErrNoHeader)
		}
		return nil, readErr(name, fmt.Errorf("read header: %w", err))
	}
	b, err := newBuilder(name, header, opt)
	if err != nil {
		return nil, err
	}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, readErr(name, fmt.Errorf("read row %d: %w", row, err))
		}
		b.add(rec)
	}
	return b.finish(), nil
}

// builder turns header + string rows into a Dataset. Shared by the CSV and
// XLSX loaders.
type builder struct {
	ds         *Dataset
	opt        Options
	countryIdx int
	colIdx     []int
	numCnt     map[string]int
	txtCnt     map[string]int
}

func newBuilder(name string, header []string, opt Options) (*builder, error) {
	if len(header) == 0 {
		return nil, readErr(name, ErrNoHeader)
	}
	b := &builder{
		ds:         &Dataset{Name: filepath.Base(name)},
		opt:        opt,
		countryIdx: -1,
		numCnt:     map[string]int{},
		txtCnt:     map[string]int{},
	}
	seen := map[string]bool{}
	for i, h := range header {
		hn := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if strings.EqualFold(hn, CountryField) && b.countryIdx < 0 {
			b.countryIdx = i
			b.ds.Country = hn
			continue
		}
		if hn == "" {
			b.ds.Warnings = append(b.ds.Warnings, fmt.Sprintf("skipped unnamed column %d", i+1))
			continue
		}
		if seen[hn] {
			return nil, &SchemaError{Name: b.ds.Name, Reason: fmt.Sprintf("duplicate column %q", hn)}
		}
		seen[hn] = true
		b.ds.Columns = append(b.ds.Columns, hn)
		b.colIdx = append(b.colIdx, i)
	}
	if b.countryIdx < 0 {
		return nil, &SchemaError{Name: b.ds.Name, Reason: fmt.Sprintf("missing required %q column", CountryField)}
	}
	return b, nil
}

func (b *builder) add(rec []string) {
	if isBlankRow(rec) {
		return
	}
	r := Record{Shares: make(map[string]float64, len(b.colIdx))}
	if b.countryIdx < len(rec) {
		r.Country = strings.TrimSpace(rec[b.countryIdx])
	}
	for j, idx := range b.colIdx {
		col := b.ds.Columns[j]
		v := ""
		if idx < len(rec) {
			v = strings.TrimSpace(rec[idx])
		}
		if v == "" {
			r.Shares[col] = math.NaN()
			continue
		}
		x, ok := parseNumeric(v, b.opt)
		if !ok {
			b.txtCnt[col]++
			r.Shares[col] = math.NaN()
			continue
		}
		// "12.5%" is already a percent; keep the fraction contract.
		if strings.Contains(v, "%") {
			x /= 100
		}
		b.numCnt[col]++
		r.Shares[col] = x
	}
	b.ds.Records = append(b.ds.Records, r)
}

func (b *builder) finish() *Dataset {
	b.ds.numeric = make(map[string]bool, len(b.ds.Columns))
	for _, c := range b.ds.Columns {
		// Predominant parsed type decides the column kind.
		if n := b.numCnt[c]; n > 0 && n >= b.txtCnt[c] {
			b.ds.numeric[c] = true
		}
		if t := b.txtCnt[c]; t > 0 && b.ds.numeric[c] {
			b.ds.Warnings = append(b.ds.Warnings, fmt.Sprintf("column %s: %d non-numeric value(s) ignored", c, t))
		}
	}
	return b.ds
}

func isBlankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
