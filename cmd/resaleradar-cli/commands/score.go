package commands

import (
	"log/slog"
	"os"
	"sort"
	"time"

	"resaleradar/cmd/resaleradar-cli/utils"
	"resaleradar/lib/configutil"
	"resaleradar/lib/htmlutil"
	"resaleradar/lib/scoring"
	"resaleradar/services/scanner"

	"github.com/spf13/cobra"
)

var scoreFile *string

func init() {
	scoreFile = scoreCmd.Flags().String("file", "listings.json5", "The listings file to score.")
	rootCmd.AddCommand(scoreCmd)
}

// hand-entered listing, with the looser defaults of manual entry:
// unspecified brand popularity is a coin flip, unspecified photo quality
// assumes the seller's photos are fine
type listingInput struct {
	Title            string    `json:"title"`
	URL              string    `json:"url"`
	Brand            string    `json:"brand"`
	AskingPrice      float64   `json:"asking_price"`
	MarketPriceEst   *float64  `json:"market_price_est"`
	HistoricalPrices []float64 `json:"historical_prices"`
	PostedAt         string    `json:"posted_at"`
	Likes            int       `json:"likes"`
	Views            int       `json:"views"`
	BrandPopularity  *float64  `json:"brand_popularity"`
	PhotoQuality     *float64  `json:"photo_quality"`
	AmbiguousBrand   bool      `json:"ambiguous_brand"`
	SuspectLowPrice  bool      `json:"suspect_low_price"`
}

func (in listingInput) toListing() scoring.Listing {
	l := scoring.Listing{
		Title:            in.Title,
		URL:              in.URL,
		Brand:            in.Brand,
		AskingPrice:      in.AskingPrice,
		MarketPriceEst:   in.MarketPriceEst,
		HistoricalPrices: in.HistoricalPrices,
		Likes:            in.Likes,
		Views:            in.Views,
		BrandPopularity:  0.5,
		PhotoQuality:     1.0,
		AmbiguousBrand:   in.AmbiguousBrand,
		SuspectLowPrice:  in.SuspectLowPrice,
	}
	if in.BrandPopularity != nil {
		l.BrandPopularity = *in.BrandPopularity
	}
	if in.PhotoQuality != nil {
		l.PhotoQuality = *in.PhotoQuality
	}
	if posted, ok := htmlutil.ParseTimestamp(in.PostedAt); ok {
		l.PostedAt = &posted
	}
	return l
}

var scoreCmd = &cobra.Command{
	Use:   "score [--file <path/to/listings.json5>]",
	Short: "Scores hand-assembled listings from a file, no fetching involved.",
	Run: func(cmd *cobra.Command, args []string) {
		inputs, err := configutil.ReadConfig[[]listingInput](*scoreFile)
		if err != nil {
			slog.Error("failed to read listings", "path", *scoreFile, "err", err)
			os.Exit(1)
		}

		cfg := scoring.DefaultConfig()
		now := time.Now().UTC()

		ranked := make([]scanner.Ranked, len(inputs))
		for i, in := range inputs {
			l := in.toListing()
			ranked[i] = scanner.Ranked{Listing: l, Result: scoring.Score(l, now, cfg)}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Result.Score > ranked[j].Result.Score
		})

		utils.RenderRanked(ranked, 0)
	},
}
