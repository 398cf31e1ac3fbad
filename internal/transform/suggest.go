package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

// Suggestion proposes one pipeline operation for a column. Suggestions are
// advisory only and never mutate a dataset.
type Suggestion struct {
	Config Config
	Reason string
}

const suggestSampleRows = 20

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var splitCandidates = []string{",", ";", "|", "/", "-"}

// Suggest inspects a small sample of each text column for delimiter
// characters and email-like shapes and proposes matching split or extract
// operations.
func Suggest(d *dataset.Dataset) []Suggestion {
	lim := suggestSampleRows
	if len(d.Rows) < lim {
		lim = len(d.Rows)
	}
	var out []Suggestion
	for _, col := range d.Columns {
		if col.Type != dataset.TypeString {
			continue
		}
		var sample []string
		for _, r := range d.Rows[:lim] {
			v := r.Get(col.Name)
			if !v.IsMissing() && v.Kind == dataset.KindText {
				sample = append(sample, v.Str)
			}
		}
		if len(sample) == 0 {
			continue
		}
		if delim, ok := dominantDelimiter(sample); ok {
			out = append(out,
				Suggestion{
					Config: Config{Kind: OpSplitCount, Target: col.Name, Params: map[string]string{"delimiter": delim}},
					Reason: fmt.Sprintf("values in %q look %q-separated", col.Name, delim),
				},
				Suggestion{
					Config: Config{Kind: OpSplitExtract, Target: col.Name, Params: map[string]string{"delimiter": delim, "index": "0"}},
					Reason: fmt.Sprintf("extract the first %q-separated part of %q", delim, col.Name),
				})
			continue
		}
		if looksLikeEmail(sample) {
			out = append(out, Suggestion{
				Config: Config{Kind: OpRegexExtract, Target: col.Name, Params: map[string]string{"pattern": `@([^@\s]+)$`}},
				Reason: fmt.Sprintf("values in %q look like email addresses; extract the domain", col.Name),
			})
		}
	}
	return out
}

// dominantDelimiter returns the candidate present in at least 60% of the
// sampled values, preferring earlier candidates on ties.
func dominantDelimiter(sample []string) (string, bool) {
	threshold := (len(sample)*6 + 9) / 10
	for _, delim := range splitCandidates {
		hits := 0
		for _, s := range sample {
			if strings.Contains(s, delim) {
				hits++
			}
		}
		if hits >= threshold {
			return delim, true
		}
	}
	return "", false
}

func looksLikeEmail(sample []string) bool {
	hits := 0
	for _, s := range sample {
		if emailRe.MatchString(strings.TrimSpace(s)) {
			hits++
		}
	}
	return hits*10 >= len(sample)*6
}
