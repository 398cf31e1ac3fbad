// Package ingest turns raw tabular or geographic bytes into a Dataset,
// recovering a usable schema from ill-structured exports along the way.
package ingest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

// ParseError indicates unrecoverable structural corruption in raw input.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse failed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProgressFunc receives monotonically increasing byte counts while large
// inputs are consumed. done never exceeds total.
type ProgressFunc func(done, total int64)

// Options controls ingestion behavior.
type Options struct {
	// Name labels the resulting dataset (typically the source filename).
	Name string
	// Delimiter for tabular input. 0 sniffs among ',' ';' '\t' '|'.
	Delimiter rune
	// MaxRows caps processed data rows; 0 means unlimited.
	MaxRows int
	// HeaderScanRows bounds the header search window; 0 uses the default of 20.
	HeaderScanRows int
	// Progress, when set, is invoked as input is consumed.
	Progress ProgressFunc
	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Result is the single completion value delivered by TabularAsync.
type Result struct {
	Dataset *dataset.Dataset
	Err     error
}
