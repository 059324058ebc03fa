package dataset

import (
	"fmt"
	"io"
	"os"
)

// Loader turns one input format into a Dataset.
type Loader interface {
	CanLoad(filename string) bool
	Load(r io.Reader, name string, opt Options) (*Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoaderFor selects a loader by file name. Unknown extensions fall back to CSV.
func LoaderFor(name string) Loader {
	for _, l := range registry {
		if l.CanLoad(name) {
			return l
		}
	}
	return csvLoader{}
}

// Supported reports whether a registered loader recognizes the file name.
func Supported(name string) bool {
	for _, l := range registry {
		if l.CanLoad(name) {
			return true
		}
	}
	return false
}

// Load reads r with the loader matching name.
func Load(r io.Reader, name string, opt Options) (*Dataset, error) {
	return LoaderFor(name).Load(r, name, opt)
}

// LoadFile opens path and loads it with the matching loader.
func LoadFile(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, readErr(path, fmt.Errorf("open: %w", err))
	}
	defer f.Close()
	return Load(f, path, opt)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
