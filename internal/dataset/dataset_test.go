package dataset

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const smallCSV = "Country,INFJ,ENTP\n" +
	"A,0.20,0.10\n" +
	"B,0.15,0.30\n" +
	"C,0.30,0.05\n"

func TestLoadCSV_Basic(t *testing.T) {
	ds, err := LoadCSV(strings.NewReader(smallCSV), "small.csv", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "small.csv", ds.Name)
	assert.Equal(t, "Country", ds.Country)
	assert.Equal(t, []string{"INFJ", "ENTP"}, ds.Columns)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "C", ds.Records[2].Country)
	assert.InDelta(t, 0.30, ds.Records[2].Shares["INFJ"], 1e-12)
	assert.True(t, ds.IsNumeric("INFJ"))
	assert.Equal(t, "INFJ", ds.DefaultColumn())
}

func TestLoadCSV_CountryNotFirstAndCaseInsensitive(t *testing.T) {
	in := "INFJ,country,ENTP\n0.2,Peru,0.1\n"
	ds, err := LoadCSV(strings.NewReader(in), "x.csv", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"INFJ", "ENTP"}, ds.Columns)
	assert.Equal(t, "Peru", ds.Records[0].Country)
}

func TestLoadCSV_EmptyFile(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""), "empty.csv", DefaultOptions())
	require.Error(t, err)

	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
	assert.ErrorIs(t, err, ErrNoHeader)
	assert.Equal(t, "empty.csv", fre.Name)
}

func TestLoadCSV_MissingCountry(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("Nation,INFJ\nA,0.1\n"), "bad.csv", DefaultOptions())
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "Country")
}

func TestLoadCSV_DuplicateColumn(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("Country,INFJ,INFJ\nA,0.1,0.2\n"), "dup.csv", DefaultOptions())
	var se *SchemaError
	require.ErrorAs(t, err, &se)
}

func TestLoadCSV_Malformed(t *testing.T) {
	in := "Country,INFJ\nA,\"0.1\n"
	_, err := LoadCSV(strings.NewReader(in), "broken.csv", DefaultOptions())
	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	ds, err := LoadCSV(strings.NewReader("Country,INFJ\n"), "h.csv", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, []string{"INFJ"}, ds.Columns)
}

func TestLoadCSV_MissingAndTextCells(t *testing.T) {
	in := "Country,INFJ,Note\nA,,x\nB,0.4,y\nC,n/a,z\n"
	ds, err := LoadCSV(strings.NewReader(in), "m.csv", DefaultOptions())
	require.NoError(t, err)

	assert.True(t, math.IsNaN(ds.Records[0].Shares["INFJ"]))
	assert.True(t, math.IsNaN(ds.Records[2].Shares["INFJ"]))
	assert.Equal(t, []float64{0.4}, ds.Values("INFJ"))
	assert.False(t, ds.IsNumeric("Note"))
	assert.NotEmpty(t, ds.Warnings)
}

func TestLoadCSV_PercentAndLocale(t *testing.T) {
	in := "Country;INFJ;ENTP\nA;12,5%;0,25\n"
	opt := DefaultOptions()
	opt.Delimiter = ';'
	ds, err := LoadCSV(strings.NewReader(in), "locale.csv", opt)
	require.NoError(t, err)
	assert.InDelta(t, 0.125, ds.Records[0].Shares["INFJ"], 1e-12)
	assert.InDelta(t, 0.25, ds.Records[0].Shares["ENTP"], 1e-12)
}

func TestLoadCSV_TSVByName(t *testing.T) {
	in := "Country\tINFJ\nA\t0.1\n"
	ds, err := Load(strings.NewReader(in), "data.tsv", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"INFJ"}, ds.Columns)
}

func TestLoadCSV_BOMAndBlankRows(t *testing.T) {
	in := "\ufeffCountry,INFJ\nA,0.1\n,\nB,0.2\n"
	ds, err := LoadCSV(strings.NewReader(in), "bom.csv", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.1234", 0.1234, true},
		{"1.000,5", 1000.5, true},
		{"1,000.5", 1000.5, true},
		{"3e-2", 0.03, true},
		{"abc", 0, false},
		{"NaN", 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, Options{})
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-12, c.in)
		}
	}
}

func xlsxFixture(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadXLSX_BySheetName(t *testing.T) {
	b := xlsxFixture(t, map[string][][]any{
		"shares": {
			{"Country", "INFJ", "ENTP"},
			{"A", 0.2, 0.1},
			{"B", 0.3, 0.2},
		},
	})
	opt := DefaultOptions()
	opt.SheetName = "Shares"
	ds, err := Load(bytes.NewReader(b), "book.xlsx", opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"INFJ", "ENTP"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.InDelta(t, 0.3, ds.Records[1].Shares["INFJ"], 1e-12)
}

func TestLoadXLSX_UnknownSheet(t *testing.T) {
	b := xlsxFixture(t, map[string][][]any{"data": {{"Country", "INFJ"}}})
	opt := DefaultOptions()
	opt.SheetName = "nope"
	_, err := LoadXLSX(bytes.NewReader(b), "book.xlsx", opt)
	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
	assert.Contains(t, err.Error(), "Available sheets: data")
}

func TestLoadXLSX_NotAWorkbook(t *testing.T) {
	_, err := LoadXLSX(strings.NewReader("not a zip"), "junk.xlsx", DefaultOptions())
	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSample(t *testing.T) {
	ds, err := Sample()
	require.NoError(t, err)
	assert.Equal(t, SampleName, ds.Name)
	assert.Equal(t, MBTITypes, ds.Columns)
	assert.GreaterOrEqual(t, ds.Len(), 10)
	for _, c := range ds.Columns {
		assert.True(t, ds.IsNumeric(c), c)
	}
}

func TestIsMBTIType(t *testing.T) {
	assert.True(t, IsMBTIType("infj"))
	assert.True(t, IsMBTIType(" ESTP "))
	assert.False(t, IsMBTIType("XXXX"))
}

func TestNew_NumericDetection(t *testing.T) {
	ds := New("mem", []string{"INFJ", "ENTP"}, []Record{
		{Country: "A", Shares: map[string]float64{"INFJ": 0.1, "ENTP": math.NaN()}},
	})
	assert.True(t, ds.IsNumeric("INFJ"))
	assert.False(t, ds.IsNumeric("ENTP"))
	assert.True(t, ds.HasCountry())
	assert.True(t, ds.HasColumn("ENTP"))
	assert.False(t, ds.HasColumn("Country"))
}

func TestCache_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(smallCSV), 0o644))

	c := NewCache(DefaultOptions())
	first, err := c.Load(p)
	require.NoError(t, err)
	again, err := c.Load(p)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, os.WriteFile(p, []byte(smallCSV+"D,0.9,0.9\n"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(p, later, later))
	changed, err := c.Load(p)
	require.NoError(t, err)
	assert.NotSame(t, first, changed)
	assert.Equal(t, 4, changed.Len())

	c.Invalidate(p)
	assert.Equal(t, 0, c.Len())
}

func TestCache_EmptyPathUsesSample(t *testing.T) {
	c := NewCache(DefaultOptions())
	ds, err := c.Load("")
	require.NoError(t, err)
	assert.Equal(t, SampleName, ds.Name)
}

func TestCache_LoadErrorNotCached(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(p, []byte("Nation,INFJ\n"), 0o644))
	c := NewCache(DefaultOptions())
	_, err := c.Load(p)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, c.Len())
}
