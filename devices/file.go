package devices

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileSource serves a static catalogue, e.g. for environments without a device service
type FileSource struct {
	catalogue Catalogue
}

var _ Source = &FileSource{}

func LoadCatalogueFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read device catalogue: %w", err)
	}
	return ParseCatalogue(data)
}

func ParseCatalogue(data []byte) (*FileSource, error) {
	source := &FileSource{}
	if err := toml.Unmarshal(data, &source.catalogue); err != nil {
		return nil, fmt.Errorf("unable to parse device catalogue: %w", err)
	}
	return source, nil
}

func NewStaticSource(catalogue Catalogue) *FileSource {
	return &FileSource{catalogue: catalogue}
}

func (f *FileSource) Catalogue(_ context.Context) (*Catalogue, error) {
	catalogue := f.catalogue
	return &catalogue, nil
}
