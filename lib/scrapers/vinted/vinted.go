// Package vinted extracts listing records from marketplace search-result
// pages. It is a best-effort adapter: the selector mapping tracks the
// target site's markup and individual malformed cards are skipped, never
// fatal.
package vinted

import (
	"context"
	"log/slog"
	"strings"

	"resaleradar/lib/htmlutil"
	"resaleradar/lib/scoring"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/vinted")

// asking prices this far below the card's own comparable price smell like
// a scam or a listing error
const suspectPriceRatio = 0.25

// cards with at least this many photos get full photo quality
const goodPhotoCount = 3

type Extractor struct {
	selectors Selectors
	brands    *BrandIndex
}

func New(selectors Selectors, brands *BrandIndex) *Extractor {
	if selectors == (Selectors{}) {
		selectors = DefaultSelectors()
	}
	if brands == nil {
		brands = DefaultBrandIndex()
	}
	return &Extractor{selectors: selectors, brands: brands}
}

func NewDefault() *Extractor {
	return New(DefaultSelectors(), DefaultBrandIndex())
}

// Extract parses one raw page body into zero or more listings. A page
// with no recognizable cards yields an empty slice, an unparsable card is
// skipped and extraction continues with the next one.
func (e *Extractor) Extract(ctx context.Context, body string) []scoring.Listing {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		slog.WarnContext(ctx, "failed to parse page", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unparsable page")
		return nil
	}

	var listings []scoring.Listing
	skipped := 0
	doc.Find(e.selectors.Item).Each(func(i int, card *goquery.Selection) {
		listing, ok := e.extractCard(card)
		if !ok {
			skipped++
			return
		}
		listings = append(listings, listing)
	})

	if skipped > 0 {
		slog.WarnContext(ctx, "skipped malformed listing cards", "skipped", skipped)
	}
	span.SetAttributes(
		attribute.Int("listings", len(listings)),
		attribute.Int("skipped", skipped),
	)
	return listings
}

// text of the first node matched by the selection, cleaned up
func textOf(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	return htmlutil.CleanText(htmlutil.GetText(sel.Nodes[0]))
}

func (e *Extractor) extractCard(card *goquery.Selection) (scoring.Listing, bool) {
	sel := e.selectors

	// a card without a parsable asking price is useless to the engine
	asking, ok := htmlutil.ParsePrice(textOf(card.Find(sel.Price)))
	if !ok {
		return scoring.Listing{}, false
	}

	listing := scoring.Listing{
		Title:       textOf(card.Find(sel.Title)),
		URL:         card.Find(sel.Link).First().AttrOr(sel.LinkAttr, ""),
		Brand:       textOf(card.Find(sel.Brand)),
		AskingPrice: asking,
	}

	if est, ok := htmlutil.ParsePrice(textOf(card.Find(sel.MarketPrice))); ok {
		listing.MarketPriceEst = &est
		listing.SuspectLowPrice = est > 0 && asking < est*suspectPriceRatio
	}

	if likes, ok := htmlutil.ParseCount(textOf(card.Find(sel.Likes))); ok {
		listing.Likes = likes
	}
	if views, ok := htmlutil.ParseCount(textOf(card.Find(sel.Views))); ok {
		listing.Views = views
	}

	raw := card.Find(sel.PostedAt).First().AttrOr(sel.PostedAtAttr, "")
	if posted, ok := htmlutil.ParseTimestamp(raw); ok {
		listing.PostedAt = &posted
	}

	photos := card.Find(sel.Photos).Length()
	listing.PhotoQuality = float64(photos) / goodPhotoCount
	if listing.PhotoQuality > 1 {
		listing.PhotoQuality = 1
	}

	listing.BrandPopularity, listing.AmbiguousBrand = e.brands.Lookup(listing.Brand)

	return listing, true
}
