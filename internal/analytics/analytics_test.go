package analytics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/seed"
	"github.com/yangwenmai/bis/internal/store"
)

func TestBuild_DefaultSeed(t *testing.T) {
	r := Build(seed.Default(), 0)

	assert.Equal(t, 6, r.Total)
	require.Len(t, r.Histogram, DefaultBins)
	// composites: 69, 97, 55, 99, 82, 94
	want := map[string]int{"50-60": 1, "60-70": 1, "80-90": 1, "90-100": 3}
	total := 0
	for _, b := range r.Histogram {
		assert.Equal(t, want[b.Label()], b.Count, "bin %s", b.Label())
		total += b.Count
	}
	assert.Equal(t, 6, total)
	assert.InDelta(t, 82.666, r.Mean, 0.01)

	assert.Equal(t, []TypeCount{
		{Type: "LinkedIn Post", Count: 2},
		{Type: "Email Subject", Count: 1},
		{Type: "Instagram Ad", Count: 1},
		{Type: "Blog Header", Count: 1},
		{Type: "Email Body", Count: 1},
	}, r.ByType)

	require.Len(t, r.Points, 6)
	assert.Equal(t, Point{
		ID: "A001", Type: "LinkedIn Post", Content: "Our new feature is a game-changer for the industry! #Tech",
		Visual: 98, Compliance: 40, Composite: 69, Status: model.StatusPending,
	}, r.Points[0])
	assert.Equal(t, map[string]int{"Pending": 6}, r.ByStatus)
}

func TestBuild_IncludesHistory(t *testing.T) {
	s, err := store.New(seed.Default())
	require.NoError(t, err)
	_, err = s.MoveToHistory("A001", model.StatusApproved, time.Now())
	require.NoError(t, err)
	_, err = s.MoveToHistory("A003", model.StatusRewritten, time.Now())
	require.NoError(t, err)

	r := Build(s.All(), DefaultBins)
	assert.Equal(t, 6, r.Total)
	assert.Equal(t, map[string]int{"Pending": 4, "Approved": 1, "Rewritten": 1}, r.ByStatus)
}

func TestBuild_Empty(t *testing.T) {
	r := Build(nil, 5)
	assert.True(t, r.Empty())
	assert.Len(t, r.Histogram, 5)
	assert.Zero(t, r.Mean)
	assert.NotNil(t, r.ByType)
	assert.NotNil(t, r.Points)
}

func TestBinIndex(t *testing.T) {
	tests := []struct {
		score int
		bins  int
		want  int
	}{
		{0, 10, 0},
		{9, 10, 0},
		{10, 10, 1},
		{99, 10, 9},
		{100, 10, 9},
		{50, 4, 2},
		{100, 4, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, binIndex(tt.score, tt.bins), "binIndex(%d,%d)", tt.score, tt.bins)
	}
}

func TestNewBins_CoverRange(t *testing.T) {
	bins := newBins(3)
	assert.Equal(t, 0, bins[0].Lower)
	assert.Equal(t, 100, bins[2].Upper)
	for i := 1; i < len(bins); i++ {
		assert.Equal(t, bins[i-1].Upper, bins[i].Lower)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(seed.Default(), 0)))

	html := buf.String()
	assert.Contains(t, html, "<html")
	for _, title := range []string{TitleHistogram, TitleByType, TitleScatter} {
		assert.Contains(t, html, title)
	}
	assert.Contains(t, html, "LinkedIn Post")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(nil, 0)))
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, NoDataMessage)
	assert.NotContains(t, html, TitleHistogram)
}
