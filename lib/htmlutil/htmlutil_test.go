package htmlutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<p>Veste <b>en <i>cuir</i></b> noire</p>`))
	require.NoError(t, err)
	require.Equal(t, "Veste en cuir noire", CleanText(GetText(doc)))
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12,50 €", 12.50, true},
		{"1 234,56 €", 1234.56, true},
		{"$12.50", 12.50, true},
		{"45 €", 45, true},
		{"prix : 8,00", 8, true},
		{"gratuit", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParsePrice(c.in)
		require.Equal(t, c.ok, ok, c.in)
		if ok {
			require.Equal(t, c.want, got, c.in)
		}
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"345", 345, true},
		{"1,2 k", 1200, true},
		{"3.4M", 3400000, true},
		{"12 vues", 12, true},
		{"aucune", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseCount(c.in)
		require.Equal(t, c.ok, ok, c.in)
		if ok {
			require.Equal(t, c.want, got, c.in)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2026-08-30T12:00:00Z")
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("2026-08-30T12:00:00+02:00")
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), ts)

	// naive timestamps are assumed UTC
	ts, ok = ParseTimestamp("2026-08-30T12:00:00")
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), ts)

	_, ok = ParseTimestamp("il y a 3 jours")
	require.False(t, ok)
	_, ok = ParseTimestamp("")
	require.False(t, ok)
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Nike Air Max 90", CleanText("  Nike\n   Air Max\t 90 "))
}
