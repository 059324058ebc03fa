package ranking

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(pairs ...any) []dataset.Record {
	var out []dataset.Record
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, dataset.Record{
			Country: pairs[i].(string),
			Shares:  map[string]float64{"INFJ": pairs[i+1].(float64)},
		})
	}
	return out
}

func TestTopN_Scenario(t *testing.T) {
	ds := dataset.New("s", []string{"INFJ"}, rows("A", 0.20, "B", 0.15, "C", 0.30))
	res, err := TopN(ds, "INFJ", 2)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "C", res.Entries[0].Country)
	assert.InDelta(t, 30.0, res.Entries[0].Percent, 1e-9)
	assert.Equal(t, "A", res.Entries[1].Country)
	assert.InDelta(t, 20.0, res.Entries[1].Percent, 1e-9)
}

func TestTopN_LengthIsMinOfNAndRows(t *testing.T) {
	for _, size := range []int{1, 5, 10, 11, 40} {
		var recs []dataset.Record
		for i := 0; i < size; i++ {
			recs = append(recs, dataset.Record{
				Country: fmt.Sprintf("C%02d", i),
				Shares:  map[string]float64{"INFJ": float64(i%7) / 100},
			})
		}
		ds := dataset.New("gen", []string{"INFJ"}, recs)
		res, err := TopN(ds, "INFJ", 10)
		require.NoError(t, err)
		assert.Len(t, res.Entries, min(10, size), "size=%d", size)
		for i := 1; i < len(res.Entries); i++ {
			assert.GreaterOrEqual(t, res.Entries[i-1].Percent, res.Entries[i].Percent)
		}
	}
}

func TestTopN_TiesKeepRowOrder(t *testing.T) {
	ds := dataset.New("t", []string{"INFJ"}, rows("A", 0.1, "B", 0.2, "C", 0.1, "D", 0.2, "E", 0.1))
	res, err := TopN(ds, "INFJ", 4)
	require.NoError(t, err)
	var got []string
	for _, e := range res.Entries {
		got = append(got, e.Country)
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, got)
}

func TestTopN_Rounding(t *testing.T) {
	ds := dataset.New("r", []string{"INFJ"}, rows("A", 0.1234, "B", 0.056789))
	res, err := TopN(ds, "INFJ", 10)
	require.NoError(t, err)
	assert.InDelta(t, 12.34, res.Entries[0].Percent, 1e-9)
	assert.InDelta(t, 5.68, res.Entries[1].Percent, 1e-9)
}

func TestTopN_DefaultN(t *testing.T) {
	ds, err := dataset.Sample()
	require.NoError(t, err)
	res, err := TopN(ds, "ENFP", 0)
	require.NoError(t, err)
	assert.Len(t, res.Entries, DefaultN)
	assert.Equal(t, DefaultN, res.N)
}

func TestTopN_Idempotent(t *testing.T) {
	ds, err := dataset.Sample()
	require.NoError(t, err)
	a, err := TopN(ds, "INTJ", 10)
	require.NoError(t, err)
	b, err := TopN(ds, "INTJ", 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTopN_SkipsMissing(t *testing.T) {
	ds := dataset.New("m", []string{"INFJ"}, rows("A", math.NaN(), "B", 0.2, "C", 0.1))
	res, err := TopN(ds, "INFJ", 10)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "B", res.Entries[0].Country)
}

func TestTopN_Errors(t *testing.T) {
	good := dataset.New("g", []string{"INFJ"}, rows("A", 0.2))

	_, err := TopN(good, "XXXX", 10)
	assert.ErrorIs(t, err, ErrMissingColumn)
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "XXXX", ce.Column)

	_, err = TopN(good, "Country", 10)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = TopN(nil, "INFJ", 10)
	assert.ErrorIs(t, err, ErrMissingCountryField)

	noCountry := &dataset.Dataset{Name: "nc", Columns: []string{"INFJ"}}
	_, err = TopN(noCountry, "INFJ", 10)
	assert.ErrorIs(t, err, ErrMissingCountryField)

	empty := dataset.New("e", []string{"INFJ"}, nil)
	_, err = TopN(empty, "INFJ", 10)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestTopN_NonNumericColumn(t *testing.T) {
	ds, err := dataset.LoadCSV(strings.NewReader("Country,INFJ,Region\nA,0.1,EU\n"), "x.csv", dataset.DefaultOptions())
	require.NoError(t, err)
	_, err = TopN(ds, "Region", 10)
	assert.ErrorIs(t, err, ErrNonNumericColumn)
}

func TestResultTop(t *testing.T) {
	var r *Result
	_, ok := r.Top()
	assert.False(t, ok)

	r = &Result{Entries: []Entry{{Country: "X", Percent: 1}}}
	e, ok := r.Top()
	assert.True(t, ok)
	assert.Equal(t, "X", e.Country)
}

func TestDescribe(t *testing.T) {
	ds := dataset.New("d", []string{"INFJ"}, rows("A", 0.10, "B", 0.20, "C", 0.30, "D", math.NaN()))
	s, err := Describe(ds, "INFJ")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 20.0, s.Mean, 1e-9)
	assert.InDelta(t, 20.0, s.Median, 1e-9)
	assert.InDelta(t, 10.0, s.StdDev, 1e-9)
	assert.InDelta(t, 10.0, s.Min, 1e-9)
	assert.Equal(t, "A", s.MinCountry)
	assert.InDelta(t, 30.0, s.Max, 1e-9)
	assert.Equal(t, "C", s.MaxCountry)
}

func TestDescribe_SmallSamples(t *testing.T) {
	tests := []struct {
		name     string
		recs     []dataset.Record
		median   float64
		q25, q75 float64
		stdDev   float64
		count    int
	}{
		{"one row", rows("A", 0.20), 20, 20, 20, 0, 1},
		{"two rows", rows("A", 0.20, "B", 0.10), 15, 10, 20, 7.07, 2},
		{"three rows", rows("A", 0.20, "B", 0.15, "C", 0.30), 20, 15, 30, 7.64, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Describe(dataset.New("d", []string{"INFJ"}, tt.recs), "INFJ")
			require.NoError(t, err)
			assert.Equal(t, tt.count, s.Count)
			assert.InDelta(t, tt.median, s.Median, 1e-9)
			assert.InDelta(t, tt.q25, s.Q25, 1e-9)
			assert.InDelta(t, tt.q75, s.Q75, 1e-9)
			assert.InDelta(t, tt.stdDev, s.StdDev, 1e-9)
			assert.LessOrEqual(t, s.Q25, s.Median)
			assert.LessOrEqual(t, s.Median, s.Q75)
		})
	}
}

func TestRoundPercent_HalvesGoUp(t *testing.T) {
	assert.Equal(t, 0.13, roundPercent(0.125))
	assert.Equal(t, 0.38, roundPercent(0.375))
	assert.Equal(t, 12.34, roundPercent(12.3449))
}

func TestDescribe_MissingColumn(t *testing.T) {
	ds := dataset.New("d", []string{"INFJ"}, rows("A", 0.1))
	_, err := Describe(ds, "ENTP")
	assert.ErrorIs(t, err, ErrMissingColumn)
}
