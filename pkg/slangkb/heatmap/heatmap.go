// Package heatmap reduces a category x category matrix to a bounded size.
package heatmap

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/cognicore/slangkb/internal/rawjson"
	"github.com/cognicore/slangkb/pkg/slangkb/scale"
)

// DefaultMaxTerms bounds the rendered matrix when no limit is configured.
const DefaultMaxTerms = 40

// Triple is one non-zero matrix cell.
type Triple struct {
	X     int
	Y     int
	Value float64
}

// MarshalJSON encodes the triple as [x, y, value].
func (t Triple) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{float64(t.X), float64(t.Y), t.Value})
}

// Result is the reduced matrix.
type Result struct {
	Categories []string `json:"categories"`
	Triples    []Triple `json:"triples"`
}

// Legend is the color scale of a rendered heatmap. Max is in display units
// (log intensity); MaxValue is the raw value it stands for.
type Legend struct {
	Max      float64 `json:"max"`
	MaxValue int64   `json:"maxValue"`
}

// Legend computes the color scale over the result's cells.
func (r Result) Legend() Legend {
	var peak float64
	for _, t := range r.Triples {
		if d := scale.Intensity(t.Value); d > peak {
			peak = d
		}
	}
	return Legend{Max: peak, MaxValue: scale.Inverse(peak)}
}

// Reduce keeps the maxTerms categories with the largest row plus column
// sums, in their original order, and remaps the triples onto them. When
// len(categories) <= maxTerms the input is returned unchanged.
func Reduce(categories []string, triples []Triple, maxTerms int) Result {
	n := len(categories)
	if n <= maxTerms {
		return Result{Categories: categories, Triples: triples}
	}
	if maxTerms < 0 {
		maxTerms = 0
	}

	scores := make([]float64, n)
	for _, t := range triples {
		if !valid(t, n) {
			continue
		}
		scores[t.X] += t.Value
		scores[t.Y] += t.Value
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	kept := order[:maxTerms]
	sort.Ints(kept)

	remap := make(map[int]int, len(kept))
	out := Result{
		Categories: make([]string, len(kept)),
		Triples:    []Triple{},
	}
	for newIdx, oldIdx := range kept {
		remap[oldIdx] = newIdx
		out.Categories[newIdx] = categories[oldIdx]
	}
	for _, t := range triples {
		if !valid(t, n) {
			continue
		}
		x, okX := remap[t.X]
		y, okY := remap[t.Y]
		if okX && okY {
			out.Triples = append(out.Triples, Triple{X: x, Y: y, Value: t.Value})
		}
	}
	return out
}

func valid(t Triple, n int) bool {
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n &&
		!math.IsNaN(t.Value) && !math.IsInf(t.Value, 0)
}

// ParseRaw decodes {categories, data} where each data entry is [x, y, value]
// or {x, y, value}. Undecodable documents yield an empty heatmap; unusable
// entries are skipped.
func ParseRaw(data []byte) ([]string, []Triple) {
	doc, ok := rawjson.Parse(data)
	if !ok {
		return nil, nil
	}

	names, _ := doc.List("categories", "terms")
	categories := make([]string, 0, len(names))
	for _, v := range names {
		s, _ := rawjson.Scalar(v)
		categories = append(categories, s)
	}

	cells, _ := doc.List("data", "triples")
	triples := make([]Triple, 0, len(cells))
	for _, v := range cells {
		if t, ok := parseTriple(v); ok {
			triples = append(triples, t)
		}
	}
	return categories, triples
}

func parseTriple(v gjson.Result) (Triple, bool) {
	if v.IsArray() {
		arr := v.Array()
		if len(arr) < 3 {
			return Triple{}, false
		}
		for _, e := range arr[:3] {
			if e.Type != gjson.Number {
				return Triple{}, false
			}
		}
		return tripleOf(arr[0].Num, arr[1].Num, arr[2].Num)
	}

	obj, ok := rawjson.ObjectOf(v)
	if !ok {
		return Triple{}, false
	}
	x, okX := obj.Float("x")
	y, okY := obj.Float("y")
	val, okV := obj.Float("value", "v", "weight")
	if !okX || !okY || !okV {
		return Triple{}, false
	}
	return tripleOf(x, y, val)
}

func tripleOf(x, y, v float64) (Triple, bool) {
	if x != math.Trunc(x) || y != math.Trunc(y) {
		return Triple{}, false
	}
	return Triple{X: int(x), Y: int(y), Value: v}, true
}
