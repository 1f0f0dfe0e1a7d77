package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yangwenmai/bis/internal/model"
)

func TestComposite(t *testing.T) {
	tests := []struct {
		name       string
		visual     int
		compliance int
		want       int
	}{
		{"A001 hype post", 98, 40, 69},
		{"A002 odd sum floors", 100, 95, 97},
		{"both zero", 0, 0, 0},
		{"both max", 100, 100, 100},
		{"odd low", 0, 1, 0},
		{"A004", 99, 100, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Composite(tt.visual, tt.compliance))
		})
	}
}

func TestComposite_Properties(t *testing.T) {
	for v := 0; v <= 100; v++ {
		for c := 0; c <= 100; c++ {
			got := Composite(v, c)
			if got != Composite(c, v) {
				t.Fatalf("Composite(%d,%d) not symmetric", v, c)
			}
			if got < 0 || got > 100 {
				t.Fatalf("Composite(%d,%d) = %d out of range", v, c, got)
			}
			// floor((v+c)/2): 2*got <= v+c < 2*got+2
			if 2*got > v+c || v+c >= 2*got+2 {
				t.Fatalf("Composite(%d,%d) = %d is not the floor of the mean", v, c, got)
			}
		}
	}
}

func TestOf(t *testing.T) {
	a := model.NewAsset("A003", "Instagram Ad", "synergy", 60, 50)
	assert.Equal(t, 55, Of(a))
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		score int
		want  Band
	}{
		{100, BandGreen},
		{90, BandGreen},
		{89, BandOrange},
		{70, BandOrange},
		{69, BandRed},
		{0, BandRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandOf(tt.score), "BandOf(%d)", tt.score)
	}
}
