package store

import (
	"slices"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/score"
)

// Visible returns the assets of pending whose composite score is at least
// minScore and whose type is in allowedTypes, preserving order. An empty
// allowedTypes matches nothing.
func Visible(pending []model.Asset, minScore int, allowedTypes []string) []model.Asset {
	out := []model.Asset{}
	for _, a := range pending {
		if score.Of(a) < minScore {
			continue
		}
		if !slices.Contains(allowedTypes, a.Type) {
			continue
		}
		out = append(out, a.Clone())
	}
	return out
}
