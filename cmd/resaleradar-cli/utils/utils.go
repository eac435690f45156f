package utils

import (
	"fmt"
	"io"
	"os"

	"resaleradar/services/scanner"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// RenderRanked prints scan results as a ranked table, capped at top rows
// (0 means everything).
func RenderRanked(ranked []scanner.Ranked, top int) {
	renderRanked(os.Stdout, ranked, top)
}

func renderRanked(out io.Writer, ranked []scanner.Ranked, top int) {
	if len(ranked) == 0 {
		fmt.Fprintln(out, "0 results")
		return
	}
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	t := NewTable(out)
	t.AppendHeader(table.Row{"#", "Score", "Net profit", "Velocity", "Risk", "Asking", "Market est", "Title", "URL"})
	for i, r := range ranked {
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2f", r.Result.Score),
			money(r.Result.NetProfit),
			fmt.Sprintf("%.2f", r.Result.Velocity),
			fmt.Sprintf("%.2f", r.Result.Risk),
			fmt.Sprintf("%.2f", r.Listing.AskingPrice),
			money(r.Result.MarketPriceEst),
			r.Listing.Title,
			r.Listing.URL,
		})
	}
	t.Render()
}

func money(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *v)
}
