package ingest

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/datasculpt/datasculpt/internal/analysis"
	"github.com/datasculpt/datasculpt/internal/dataset"
)

// Reserved geographic column names.
const (
	ColLatitude     = "Latitude"
	ColLongitude    = "Longitude"
	ColGeometryType = "GeometryType"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Geographic flattens a GeoJSON-style feature collection into a Dataset. Each
// feature's property bag becomes a row; point geometries populate the
// reserved latitude/longitude columns. Polygon and multi-polygon geometries
// record only their geometry-type tag — no centroid is computed, a documented
// limitation of this engine.
func Geographic(raw []byte, opts Options) (*dataset.Dataset, error) {
	log := opts.logger()
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, &ParseError{Reason: "invalid feature collection", Err: err}
	}
	if fc.Type != "FeatureCollection" {
		return nil, &ParseError{Reason: "not a feature collection: type=" + fc.Type}
	}

	// Union of property keys across all features, so every row carries a
	// uniform key set in a stable order.
	keySet := map[string]struct{}{}
	hasPoint, hasOther := false, false
	for _, f := range fc.Features {
		for k := range f.Properties {
			keySet[k] = struct{}{}
		}
		if f.Geometry != nil {
			if f.Geometry.Type == "Point" {
				hasPoint = true
			} else {
				hasOther = true
			}
		}
	}
	propKeys := make([]string, 0, len(keySet))
	for k := range keySet {
		propKeys = append(propKeys, k)
	}
	sort.Strings(propKeys)

	rows := make([]dataset.Row, 0, len(fc.Features))
	for _, f := range fc.Features {
		row := dataset.NewRow(len(rows))
		for _, k := range propKeys {
			row.Set(k, dataset.FromAny(f.Properties[k]))
		}
		if hasPoint {
			lat, lon := dataset.Missing(), dataset.Missing()
			if f.Geometry != nil && f.Geometry.Type == "Point" {
				var coords []float64
				if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err == nil && len(coords) >= 2 {
					lon = dataset.Number(coords[0])
					lat = dataset.Number(coords[1])
				}
			}
			row.Set(ColLatitude, lat)
			row.Set(ColLongitude, lon)
		}
		if hasOther {
			tag := dataset.Missing()
			if f.Geometry != nil && f.Geometry.Type != "Point" {
				tag = dataset.Text(f.Geometry.Type)
			}
			row.Set(ColGeometryType, tag)
		}
		rows = append(rows, row)
	}

	ds := dataset.New(opts.Name, "", rows, analysis.Columns(rows))
	log.Debug("geographic ingestion complete",
		zap.Int("features", len(fc.Features)),
		zap.Int("columns", len(ds.Columns)))
	return ds, nil
}
