package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/spf13/cobra"
)

// datasetFlags are the input selection and parsing flags shared by commands
// that read a dataset.
type datasetFlags struct {
	file       string
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "dataset file (.csv, .tsv, .xlsx); defaults to data_file or the bundled sample")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (f *datasetFlags) options() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	return opt, nil
}

// path returns the dataset path: --file, then the configured data_file.
// Empty means the bundled sample.
func (f *datasetFlags) path() string {
	if f.file != "" {
		return f.file
	}
	return currentConfig().DataFile
}

// load reads the selected dataset and reports load warnings on stderr.
func (f *datasetFlags) load() (*dataset.Dataset, error) {
	opt, err := f.options()
	if err != nil {
		return nil, err
	}
	var ds *dataset.Dataset
	if p := f.path(); p != "" {
		ds, err = dataset.LoadFile(p, opt)
	} else {
		ds, err = dataset.Sample()
	}
	if err != nil {
		return nil, err
	}
	for _, w := range ds.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s: %s\n", ds.Name, w)
	}
	return ds, nil
}

// resolveColumn matches a type argument against the dataset columns, falling
// back to the upper-case spelling so "infj" finds INFJ.
func resolveColumn(ds *dataset.Dataset, arg string) string {
	arg = strings.TrimSpace(arg)
	if ds.HasColumn(arg) {
		return arg
	}
	if up := strings.ToUpper(arg); ds.HasColumn(up) {
		return up
	}
	return arg
}
