// Package analytics aggregates assets for the Live Insights view: a score
// histogram, volume per channel and a visual-vs-compliance scatter.
package analytics

import (
	"fmt"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/score"
)

// DefaultBins is the number of histogram buckets over [0,100].
const DefaultBins = 10

// Bin is one histogram bucket covering [Lower, Upper). The last bucket includes 100.
type Bin struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
	Count int `json:"count"`
}

// Label renders the bucket range for chart axes.
func (b Bin) Label() string {
	return fmt.Sprintf("%d-%d", b.Lower, b.Upper)
}

// TypeCount is the number of assets of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Point is one asset on the scatter plot.
type Point struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	Content    string       `json:"content"`
	Visual     int          `json:"visual"`
	Compliance int          `json:"compliance"`
	Composite  int          `json:"composite"`
	Status     model.Status `json:"status"`
}

// Report is the full analytics view.
type Report struct {
	Total     int            `json:"total"`
	Mean      float64        `json:"mean_composite"`
	Histogram []Bin          `json:"histogram"`
	ByType    []TypeCount    `json:"by_type"`
	ByStatus  map[string]int `json:"by_status"`
	Points    []Point        `json:"points"`
}

// Empty reports whether there is nothing to chart.
func (r Report) Empty() bool {
	return r.Total == 0
}

// Build aggregates assets. bins <= 0 uses DefaultBins.
func Build(assets []model.Asset, bins int) Report {
	if bins <= 0 {
		bins = DefaultBins
	}
	r := Report{
		Total:     len(assets),
		Histogram: newBins(bins),
		ByType:    []TypeCount{},
		ByStatus:  map[string]int{},
		Points:    make([]Point, 0, len(assets)),
	}

	typeIdx := map[string]int{}
	sum := 0
	for _, a := range assets {
		c := score.Of(a)
		sum += c
		r.Histogram[binIndex(c, bins)].Count++

		i, ok := typeIdx[a.Type]
		if !ok {
			i = len(r.ByType)
			typeIdx[a.Type] = i
			r.ByType = append(r.ByType, TypeCount{Type: a.Type})
		}
		r.ByType[i].Count++
		r.ByStatus[string(a.Status)]++

		r.Points = append(r.Points, Point{
			ID:         a.ID,
			Type:       a.Type,
			Content:    a.Content,
			Visual:     a.VisualScore,
			Compliance: a.ComplianceScore,
			Composite:  c,
			Status:     a.Status,
		})
	}
	if len(assets) > 0 {
		r.Mean = float64(sum) / float64(len(assets))
	}
	return r
}

func newBins(n int) []Bin {
	out := make([]Bin, n)
	for i := range out {
		out[i] = Bin{
			Lower: i * model.MaxScore / n,
			Upper: (i + 1) * model.MaxScore / n,
		}
	}
	return out
}

func binIndex(composite, n int) int {
	if composite >= model.MaxScore {
		return n - 1
	}
	if composite < 0 {
		return 0
	}
	return composite * n / model.MaxScore
}
