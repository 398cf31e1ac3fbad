package analysis

import (
	"sort"
	"strings"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

// NumSummary aggregates one numeric column within a group.
type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// GroupResult captures aggregated metrics for one group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary
}

// GroupBy aggregates the dataset's numeric columns per group, keyed by the
// given columns. When by is empty the dataset's hierarchy definition is used.
// Unknown key columns are skipped; no usable key yields a nil result.
func GroupBy(d *dataset.Dataset, by []string) []GroupResult {
	if len(by) == 0 {
		by = d.Hierarchy
	}
	var keys []string
	for _, name := range by {
		if d.HasColumn(name) {
			keys = append(keys, name)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	numeric := d.ActiveNumericColumns()

	type acc struct {
		size int
		sum  map[string]float64
		cnt  map[string]int
		min  map[string]float64
		max  map[string]float64
	}
	groups := map[string]*acc{}
	for _, r := range d.Rows {
		parts := make([]string, 0, len(keys))
		for _, name := range keys {
			parts = append(parts, name+"="+r.Get(name).String())
		}
		gkey := strings.Join(parts, " | ")
		ga := groups[gkey]
		if ga == nil {
			ga = &acc{sum: map[string]float64{}, cnt: map[string]int{}, min: map[string]float64{}, max: map[string]float64{}}
			groups[gkey] = ga
		}
		ga.size++
		for _, name := range numeric {
			v := r.Get(name)
			if v.IsMissing() {
				continue
			}
			x := v.FloatOrZero()
			ga.sum[name] += x
			ga.cnt[name]++
			if _, ok := ga.min[name]; !ok || x < ga.min[name] {
				ga.min[name] = x
			}
			if _, ok := ga.max[name]; !ok || x > ga.max[name] {
				ga.max[name] = x
			}
		}
	}

	out := make([]GroupResult, 0, len(groups))
	for k, ga := range groups {
		gr := GroupResult{Key: k, Size: ga.size, Metrics: map[string]NumSummary{}}
		for _, name := range numeric {
			if ga.cnt[name] == 0 {
				continue
			}
			gr.Metrics[name] = NumSummary{
				Count: ga.cnt[name],
				Min:   ga.min[name],
				Max:   ga.max[name],
				Mean:  ga.sum[name] / float64(ga.cnt[name]),
			}
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	return out
}
