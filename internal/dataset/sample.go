package dataset

import (
	"bytes"
	_ "embed"
	"sync"
)

// SampleName is the file name of the bundled dataset.
const SampleName = "countriesMBTI_16types.csv"

//go:embed data/countriesMBTI_16types.csv
var sampleCSV []byte

var loadSample = sync.OnceValues(func() (*Dataset, error) {
	return LoadCSV(bytes.NewReader(sampleCSV), SampleName, DefaultOptions())
})

// Sample returns the bundled dataset. It is parsed once per process.
func Sample() (*Dataset, error) {
	return loadSample()
}
