package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

const maxSampleRows = 5

// Suggestion is one proposed cleaning or visualization step returned by the
// advisory service. Only its shape is validated; whether and how to apply it
// is up to the caller.
type Suggestion struct {
	Operation string `json:"operation"`
	Column    string `json:"column"`
	Reason    string `json:"reason"`
}

const suggestSystemPrompt = `You are a data-cleaning assistant. Given a dataset schema and sample rows,
propose concrete cleaning or visualization steps. Respond with a JSON array of
objects, each with "operation", "column", and "reason" fields. Respond with
JSON only.`

const explainSystemPrompt = `You are a data analysis assistant. Given a dataset schema and sample rows,
explain in plain language what the dataset appears to contain and what might
be worth exploring. Be concise.`

// Suggest asks the advisory service for structured cleaning suggestions. The
// payload carries column metadata and at most five sample rows.
func (c *Client) Suggest(ctx context.Context, d *dataset.Dataset) ([]Suggestion, error) {
	raw, err := c.complete(ctx, suggestSystemPrompt, describe(d))
	if err != nil {
		return nil, err
	}
	var out []Suggestion
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &out); err != nil {
		return nil, fmt.Errorf("advisory response is not a suggestion list: %w", err)
	}
	return out, nil
}

// Explain asks the advisory service for a free-text description of the
// dataset.
func (c *Client) Explain(ctx context.Context, d *dataset.Dataset) (string, error) {
	return c.complete(ctx, explainSystemPrompt, describe(d))
}

// describe serializes column metadata (name, type, missing count) and a small
// row sample. Full datasets are never sent.
func describe(d *dataset.Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset %q: %d rows, %d columns\n\nColumns:\n", d.Name, len(d.Rows), len(d.Columns))
	for _, c := range d.Columns {
		fmt.Fprintf(&b, "- %s (%s, %d missing, %d unique)\n", c.Name, c.Type, c.MissingCount, c.UniqueCount)
	}
	b.WriteString("\nSample rows:\n")
	lim := maxSampleRows
	if len(d.Rows) < lim {
		lim = len(d.Rows)
	}
	names := d.ColumnNames()
	b.WriteString(strings.Join(names, " | ") + "\n")
	for _, r := range d.Rows[:lim] {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = r.Get(name).String()
		}
		b.WriteString(strings.Join(cells, " | ") + "\n")
	}
	return b.String()
}

// extractJSONArray tolerates models that wrap their JSON in prose or fences.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
