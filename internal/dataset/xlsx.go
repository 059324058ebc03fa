package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxLoader) Load(r io.Reader, name string, opt Options) (*Dataset, error) {
	return LoadXLSX(r, name, opt)
}

// LoadXLSX reads one worksheet of a workbook into a Dataset. The sheet is
// chosen by opt.SheetName, else by the 1-based opt.SheetIndex, else the first.
func LoadXLSX(r io.Reader, name string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, readErr(name, fmt.Errorf("open xlsx: %w", err))
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt)
	if err != nil {
		return nil, readErr(name, err)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, readErr(name, fmt.Errorf("read sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, readErr(name, ErrNoHeader)
	}
	b, err := newBuilder(name, rows[0], opt)
	if err != nil {
		return nil, err
	}
	for _, rec := range rows[1:] {
		b.add(rec)
	}
	return b.finish(), nil
}

func pickSheet(sheets []string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", opt.SheetName, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}
