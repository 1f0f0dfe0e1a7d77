// Package score computes the composite Brand Integrity Score (BIS) of an asset.
package score

import "github.com/yangwenmai/bis/internal/model"

// Composite returns the floor of the mean of the visual and compliance
// sub-scores. Inputs are expected in [0,100].
func Composite(visual, compliance int) int {
	return (visual + compliance) / 2
}

// Of returns the composite score of a.
func Of(a model.Asset) int {
	return Composite(a.VisualScore, a.ComplianceScore)
}

// Band is the colour bucket a composite score falls in.
type Band string

// Band constants
const (
	BandGreen  Band = "green"
	BandOrange Band = "orange"
	BandRed    Band = "red"
)

// Band thresholds (inclusive lower bounds).
const (
	GreenThreshold  = 90
	OrangeThreshold = 70
)

// BandOf buckets a composite score.
func BandOf(composite int) Band {
	switch {
	case composite >= GreenThreshold:
		return BandGreen
	case composite >= OrangeThreshold:
		return BandOrange
	default:
		return BandRed
	}
}
