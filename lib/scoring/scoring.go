// Package scoring turns a listing's raw attributes into a bounded,
// comparable resale score. Every function here is pure: no clock reads,
// no logging, no state across calls. The evaluation instant is always an
// explicit argument so two calls with the same input produce bit-identical
// results.
package scoring

import (
	"math"
	"sort"
	"time"
)

// Listing is one marketplace item as extracted from a search page.
// It is constructed once and never mutated afterwards.
type Listing struct {
	Title string
	URL   string
	Brand string

	AskingPrice float64
	// nil when the card did not supply an estimate; the engine then
	// falls back to the median of HistoricalPrices.
	MarketPriceEst   *float64
	HistoricalPrices []float64

	// nil when absent or unparsable, there is no error case
	PostedAt *time.Time
	Likes    int
	Views    int

	BrandPopularity float64
	PhotoQuality    float64
	AmbiguousBrand  bool
	SuspectLowPrice bool
}

// Config holds the economic constants and combination weights.
// All fields are overridable through the scanner configuration file.
type Config struct {
	FeesPct      float64 `json:"fees_pct"`
	ShippingCost float64 `json:"shipping_cost"`
	RefurbCost   float64 `json:"refurb_cost"`

	MinProfit float64 `json:"min_profit"`
	MaxProfit float64 `json:"max_profit"`

	WeightProfit   float64 `json:"weight_profit"`
	WeightVelocity float64 `json:"weight_velocity"`
	WeightRisk     float64 `json:"weight_risk"`
}

func DefaultConfig() Config {
	return Config{
		FeesPct:        0.10,
		ShippingCost:   5.0,
		RefurbCost:     3.0,
		MinProfit:      5.0,
		MaxProfit:      200.0,
		WeightProfit:   0.40,
		WeightVelocity: 0.55,
		WeightRisk:     0.15,
	}
}

// Result is the scored view of one listing. NetProfit is nil exactly when
// no market price estimate could be made.
type Result struct {
	Score          float64
	MarketPriceEst *float64
	NetProfit      *float64

	ProfitNormalized float64
	Velocity         float64
	Risk             float64

	// unrounded values kept for diagnostics
	RawVelocity  float64
	RawRisk      float64
	RawNetProfit *float64
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func roundTo(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

// Median returns the median of nums, averaging the two central values for
// even-length input. The second return is false for an empty slice. The
// input slice is never mutated.
func Median(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	s := make([]float64, len(nums))
	copy(s, nums)
	sort.Float64s(s)

	n := len(s)
	if n%2 == 1 {
		return s[n/2], true
	}
	return (s[n/2-1] + s[n/2]) / 2, true
}

// EstimateMarketPrice resolves the expected resale value of a listing:
// a supplied estimate wins, otherwise the median of historical comparable
// prices. false means no estimate is available at all.
func EstimateMarketPrice(l Listing) (float64, bool) {
	if l.MarketPriceEst != nil {
		return *l.MarketPriceEst, true
	}
	return Median(l.HistoricalPrices)
}

// NetProfit is the expected proceeds after marketplace fees, shipping and
// refurbishment, rounded to cents.
func NetProfit(asking, marketEst float64, cfg Config) float64 {
	gross := marketEst - asking
	fees := marketEst * cfg.FeesPct
	return roundTo(gross-fees-cfg.ShippingCost-cfg.RefurbCost, 2)
}

// VelocityScore estimates how quickly a listing is likely to resell, in
// [0,1]. It is defined as 0 whenever no market estimate exists (estOk
// false): without a reference price the price factor is meaningless and a
// fast flip cannot be argued.
func VelocityScore(l Listing, marketEst float64, estOk bool, now time.Time) float64 {
	if !estOk {
		return 0
	}

	priceRatio := 1.0
	if marketEst > 0 {
		priceRatio = l.AskingPrice / marketEst
	}
	priceFactor := clamp(1.5-priceRatio, 0, 1.5) / 1.5

	recencyFactor := 0.0
	if l.PostedAt != nil {
		hours := math.Max(0, now.Sub(*l.PostedAt).Hours())
		// linear decay to zero over one week
		recencyFactor = clamp(1-hours/(24*7), 0, 1)
	}

	socialFactor := clamp(math.Log(1+float64(l.Likes)+float64(l.Views)/20)/5, 0, 1)
	brandFactor := clamp(l.BrandPopularity, 0, 1)

	score := 0.50*priceFactor + 0.30*recencyFactor + 0.15*socialFactor + 0.05*brandFactor
	return clamp(score, 0, 1)
}

// RiskPenalty accumulates listing-quality red flags, capped at 1.
func RiskPenalty(l Listing) float64 {
	r := 0.0
	if l.PhotoQuality < 0.5 {
		r += 0.25
	}
	if l.AmbiguousBrand {
		r += 0.35
	}
	if l.SuspectLowPrice {
		r += 0.25
	}
	return clamp(r, 0, 1)
}

// Score runs the full pipeline over one listing: market estimate, net
// profit, velocity, risk, weighted combination. Absent data never raises,
// it degrades the corresponding component toward its least favorable
// defined value.
func Score(l Listing, now time.Time, cfg Config) Result {
	marketEst, estOk := EstimateMarketPrice(l)

	var netProfit *float64
	if estOk {
		np := NetProfit(l.AskingPrice, marketEst, cfg)
		netProfit = &np
	}

	velocity := VelocityScore(l, marketEst, estOk, now)
	risk := RiskPenalty(l)

	profitNorm := 0.0
	if netProfit != nil {
		profitNorm = clamp((*netProfit-cfg.MinProfit)/(cfg.MaxProfit-cfg.MinProfit), 0, 1)
	}

	raw := cfg.WeightProfit*profitNorm + cfg.WeightVelocity*velocity - cfg.WeightRisk*risk
	raw = clamp(raw, 0, 1)

	var est *float64
	if estOk {
		est = &marketEst
	}
	return Result{
		Score:            roundTo(raw*100, 2),
		MarketPriceEst:   est,
		NetProfit:        netProfit,
		ProfitNormalized: roundTo(profitNorm, 4),
		Velocity:         roundTo(velocity, 4),
		Risk:             roundTo(risk, 4),
		RawVelocity:      velocity,
		RawRisk:          risk,
		RawNetProfit:     netProfit,
	}
}
