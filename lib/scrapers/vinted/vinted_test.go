package vinted

import (
	"context"
	"os"
	"testing"
	"time"

	"resaleradar/lib/scoring"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractSearchPage(t *testing.T) {
	body, err := os.ReadFile("testdata/search.html")
	require.NoError(t, err)

	listings := NewDefault().Extract(context.Background(), string(body))

	// card 102 has no parsable price and must be skipped
	require.Len(t, listings, 3)

	marketEst := 40.0
	posted := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	want := scoring.Listing{
		Title:           "Air Max 90",
		URL:             "https://marketplace.test/items/101",
		Brand:           "Nike",
		AskingPrice:     20,
		MarketPriceEst:  &marketEst,
		PostedAt:        &posted,
		Likes:           10,
		Views:           100,
		BrandPopularity: 0.95,
		PhotoQuality:    1.0,
	}
	if diff := cmp.Diff(want, listings[0]); diff != "" {
		t.Fatalf("first listing mismatch (-want +got):\n%s", diff)
	}

	// unknown brand, unparsable datetime, single photo
	robe := listings[1]
	require.Equal(t, "Robe d'été", robe.Title)
	require.Equal(t, 12.50, robe.AskingPrice)
	require.Nil(t, robe.MarketPriceEst)
	require.Nil(t, robe.PostedAt)
	require.False(t, robe.AmbiguousBrand)
	require.Equal(t, 0.5, robe.BrandPopularity)
	require.InDelta(t, 1.0/3.0, robe.PhotoQuality, 1e-9)

	// misspelled brand close to a known one: attributed but ambiguous,
	// and the bargain-basement price trips the suspect flag
	sneakers := listings[2]
	require.True(t, sneakers.AmbiguousBrand)
	require.Equal(t, 0.95, sneakers.BrandPopularity)
	require.True(t, sneakers.SuspectLowPrice)
	require.Equal(t, 1200, sneakers.Likes)
	require.Equal(t, 0.0, sneakers.PhotoQuality)
}

func TestExtractEmptyAndAlienPages(t *testing.T) {
	e := NewDefault()
	require.Empty(t, e.Extract(context.Background(), ""))
	require.Empty(t, e.Extract(context.Background(), "<html><body><h1>404</h1></body></html>"))
	require.Empty(t, e.Extract(context.Background(), "not html at all {{{"))
}

func TestBrandIndexLookup(t *testing.T) {
	ix := DefaultBrandIndex()

	pop, ambiguous := ix.Lookup("Nike")
	require.Equal(t, 0.95, pop)
	require.False(t, ambiguous)

	// normalization: case and whitespace are irrelevant
	pop, ambiguous = ix.Lookup("  THE NORTH face ")
	require.Equal(t, 0.85, pop)
	require.False(t, ambiguous)

	_, ambiguous = ix.Lookup("Nkie")
	require.True(t, ambiguous)

	pop, ambiguous = ix.Lookup("Atelier Quelconque")
	require.Equal(t, 0.5, pop)
	require.False(t, ambiguous)

	_, ambiguous = ix.Lookup("")
	require.True(t, ambiguous)
}
