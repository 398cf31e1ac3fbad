package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/datasculpt/datasculpt/internal/analysis"
	"github.com/datasculpt/datasculpt/internal/dataset"
)

const (
	defaultHeaderScanRows = 20
	progressEveryLines    = 500
)

// Tabular parses a delimited text grid into a Dataset. The header row is
// chosen from the first scan window as the row with the most non-empty
// textual cells, which recovers from banner and preamble rows common in
// exported spreadsheets; every row before it, blank lines included, is
// counted as dropped.
//
// Ingestion is atomic from the caller's perspective: it yields either a
// complete Dataset or an error, never a partial result. Progress reporting is
// monotonically increasing over the input byte count.
//
// Parsing is line-based so that preamble structure is preserved exactly;
// multi-line quoted fields are not supported, a trade-off accepted for
// predictable recovery on messy exports.
func Tabular(raw []byte, opts Options) (*dataset.Dataset, error) {
	log := opts.logger()
	total := int64(len(raw))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ParseError{Reason: "empty input"}
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(raw)
	}
	log.Debug("ingesting tabular input",
		zap.String("name", opts.Name),
		zap.Int64("bytes", total),
		zap.String("delimiter", string(delim)))

	lines := splitLines(raw)
	// drop a single trailing blank produced by a final newline
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return nil, &ParseError{Reason: "no rows"}
	}

	var consumed int64
	report := func() {
		if opts.Progress != nil {
			opts.Progress(consumed, total)
		}
	}

	records := make([][]string, len(lines))
	for i, line := range lines {
		consumed += int64(len(line)) + 1
		if consumed > total {
			consumed = total
		}
		if strings.TrimSpace(line) == "" {
			records[i] = nil
			continue
		}
		rec, err := splitRecord(line, delim)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("row %d", i+1), Err: err}
		}
		records[i] = rec
		if (i+1)%progressEveryLines == 0 {
			report()
		}
	}

	headerIdx := findHeaderRow(records, opts.HeaderScanRows)
	header := buildHeader(records[headerIdx])

	rows := make([]dataset.Row, 0, len(records)-headerIdx-1)
	dropped := headerIdx
	for i := headerIdx + 1; i < len(records); i++ {
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			break
		}
		rec := records[i]
		if len(rec) == 0 {
			dropped++
			continue
		}
		row := dataset.NewRow(len(rows))
		for j, name := range header {
			if j < len(rec) {
				row.Set(name, dataset.Parse(rec[j]))
			} else {
				row.Set(name, dataset.Missing())
			}
		}
		rows = append(rows, row)
	}

	ds := dataset.New(opts.Name, "", rows, analysis.Columns(rows))
	ds.Stats.DroppedRows = dropped
	if opts.Progress != nil {
		opts.Progress(total, total)
	}
	log.Debug("tabular ingestion complete",
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(ds.Columns)),
		zap.Int("dropped", dropped))
	return ds, nil
}

// TabularAsync runs Tabular off the caller's goroutine. The returned channel
// delivers exactly one Result and is then closed; there is no cancelable
// mid-state.
func TabularAsync(raw []byte, opts Options) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ds, err := Tabular(raw, opts)
		ch <- Result{Dataset: ds, Err: err}
	}()
	return ch
}

// splitRecord parses one physical line with the standard CSV quoting rules.
func splitRecord(line string, delim rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rec, err := r.Read()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rec))
	copy(out, rec)
	return out, nil
}

func splitLines(raw []byte) []string {
	s := strings.ReplaceAll(string(raw), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// findHeaderRow scores each row in the scan window by its count of non-empty
// textual (non-numeric) cells and picks the earliest maximum.
func findHeaderRow(records [][]string, scanRows int) int {
	if scanRows <= 0 {
		scanRows = defaultHeaderScanRows
	}
	if scanRows > len(records) {
		scanRows = len(records)
	}
	best, bestScore := 0, -1
	for i := 0; i < scanRows; i++ {
		score := 0
		for _, cell := range records[i] {
			s := strings.TrimSpace(cell)
			if s == "" {
				continue
			}
			if _, err := strconv.ParseFloat(s, 64); err == nil {
				continue
			}
			score++
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func buildHeader(rec []string) []string {
	names := make([]string, len(rec))
	for i, cell := range rec {
		s := strings.TrimSpace(cell)
		if s == "" {
			s = fmt.Sprintf("Column_%d", i+1)
		}
		names[i] = s
	}
	return dataset.DedupeNames(names)
}

// sniffDelimiter counts candidate separators across the first few lines and
// picks the most frequent, defaulting to comma.
func sniffDelimiter(raw []byte) rune {
	window := raw
	if len(window) > 8192 {
		window = window[:8192]
	}
	lines := bytes.Split(window, []byte("\n"))
	if len(lines) > 10 {
		lines = lines[:10]
	}
	counts := map[rune]int{}
	for _, line := range lines {
		for _, c := range []rune{',', ';', '\t', '|'} {
			counts[c] += bytes.Count(line, []byte(string(c)))
		}
	}
	best, bestN := ',', counts[',']
	for _, c := range []rune{';', '\t', '|'} {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}
