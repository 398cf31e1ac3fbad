package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datasculpt/datasculpt/internal/dataset"
	"github.com/datasculpt/datasculpt/internal/ingest"
)

// loadDataset ingests a file by extension: .geojson/.json go through the
// geographic path, everything else through the tabular one.
func loadDataset(path string) (*dataset.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	opts := ingest.Options{
		Name:   filepath.Base(path),
		Logger: logger,
	}
	if cfg != nil {
		opts.MaxRows = cfg.IngestMaxRows
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".geojson") || strings.HasSuffix(lower, ".json") {
		return ingest.Geographic(raw, opts)
	}
	if debug {
		opts.Progress = func(done, total int64) {
			fmt.Fprintf(os.Stderr, "… %d/%d bytes\n", done, total)
		}
	}
	res := <-ingest.TabularAsync(raw, opts)
	return res.Dataset, res.Err
}
