package vinted

// Selectors maps listing fields to the target site's markup. The mapping
// is expected to rot as the site changes; swap in a new value here (or
// through the scanner config) instead of touching extraction logic.
type Selectors struct {
	// container of one listing card
	Item string

	Link     string
	LinkAttr string

	Title string
	Brand string
	Price string
	// optional comparable-price element on the card, absent on most markups
	MarketPrice string

	Likes string
	Views string

	PostedAt     string
	PostedAtAttr string

	// photo nodes, their count proxies photo quality
	Photos string
}

// DefaultSelectors matches the current search-grid markup of the target
// marketplace.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:         "div.feed-grid__item",
		Link:         "a.new-item-box__overlay",
		LinkAttr:     "href",
		Title:        "p[data-testid$='--description-title']",
		Brand:        "p[data-testid$='--description-subtitle']",
		Price:        "p[data-testid$='--price-text']",
		MarketPrice:  "span[data-testid$='--market-price']",
		Likes:        "span[data-testid$='--favourite-count']",
		Views:        "span[data-testid$='--view-count']",
		PostedAt:     "time",
		PostedAtAttr: "datetime",
		Photos:       "img.web_ui__Image__content",
	}
}
