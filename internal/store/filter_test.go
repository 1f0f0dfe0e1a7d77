package store

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/score"
)

func TestVisible(t *testing.T) {
	pending := seedAssets() // composites: A001=69, A002=97, A003=55, A005=82
	all := []string{"LinkedIn Post", "Email Subject", "Instagram Ad"}

	tests := []struct {
		name     string
		minScore int
		types    []string
		want     []string
	}{
		{"everything", 0, all, []string{"A001", "A002", "A003", "A005"}},
		{"threshold is inclusive", 69, all, []string{"A001", "A002", "A005"}},
		{"threshold above all", 98, all, []string{}},
		{"single type keeps order", 0, []string{"LinkedIn Post"}, []string{"A001", "A005"}},
		{"score and type combined", 70, []string{"LinkedIn Post"}, []string{"A005"}},
		{"no types allowed", 0, nil, []string{}},
		{"unknown type", 0, []string{"Billboard"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(pending, tt.minScore, tt.types)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestVisible_IsStableSubsequence(t *testing.T) {
	pending := seedAssets()
	for min := 0; min <= 100; min += 5 {
		got := Visible(pending, min, []string{"LinkedIn Post", "Instagram Ad"})

		j := 0
		for _, a := range got {
			for j < len(pending) && pending[j].ID != a.ID {
				j++
			}
			require.Less(t, j, len(pending), "result is not a subsequence for min=%d", min)
			assert.GreaterOrEqual(t, score.Of(a), min)
			assert.Contains(t, []string{"LinkedIn Post", "Instagram Ad"}, a.Type)
		}
		for _, a := range pending {
			match := score.Of(a) >= min && (a.Type == "LinkedIn Post" || a.Type == "Instagram Ad")
			assert.Equal(t, match, slices.Contains(ids(got), a.ID), "asset %s min=%d", a.ID, min)
		}
	}
}

// Single-asset walkthrough: A001 scores 69, hidden at 70, shown at 0, then approved.
func TestScenario_SingleAsset(t *testing.T) {
	a := model.NewAsset("A001", "LinkedIn Post", "game-changer", 98, 40)
	s, err := New([]model.Asset{a})
	require.NoError(t, err)

	assert.Equal(t, 69, score.Of(a))
	assert.Empty(t, s.Visible(70, []string{"LinkedIn Post"}))
	assert.Equal(t, []string{"A001"}, ids(s.Visible(0, []string{"LinkedIn Post"})))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	_, err = s.MoveToHistory("A001", model.ActionApprove.Status(), at)
	require.NoError(t, err)

	assert.Empty(t, s.ListPending())
	history := s.ListHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "A001", history[0].ID)
	assert.Equal(t, model.StatusApproved, history[0].Status)
	assert.True(t, at.Equal(*history[0].ActionTimestamp))
}
