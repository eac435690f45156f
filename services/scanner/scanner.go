// Package scanner orchestrates the collection pipeline: fan out page
// fetches under the shared concurrency gate, extract listings from each
// body, score everything and return it ranked. Partial failure is the
// normal case, a URL that cannot be fetched simply contributes zero
// listings.
package scanner

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"resaleradar/lib/fetch"
	"resaleradar/lib/scoring"
	"resaleradar/lib/scrapers/vinted"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/scanner")

// Config is the recognized scanner configuration surface. The scoring
// constants are inlined so a config file stays flat:
// {concurrency: 6, timeout_s: 15, fees_pct: 0.1, ...}
type Config struct {
	// max simultaneous fetches
	Concurrency int `json:"concurrency"`
	// per-request timeout
	TimeoutS       float64 `json:"timeout_s"`
	UserAgent      string  `json:"user_agent"`
	AcceptLanguage string  `json:"accept_language"`
	// extra headers sent with every fetch
	Headers map[string]string `json:"headers"`
	// display cap applied by the caller, carried here so one file
	// configures a whole scan
	TopN int `json:"top_n"`

	// selector overrides for the extractor, the zero value means the
	// built-in mapping for the current site markup
	Selectors vinted.Selectors `json:"selectors"`

	scoring.Config
}

func DefaultConfig() Config {
	return Config{
		Concurrency: fetch.DefaultConcurrency,
		TimeoutS:    fetch.DefaultTimeout.Seconds(),
		TopN:        20,
		Config:      scoring.DefaultConfig(),
	}
}

// Ranked is one listing together with its score.
type Ranked struct {
	Listing scoring.Listing
	Result  scoring.Result
}

// Scanner owns the fetcher for its lifetime; Close must be called once
// when done, on every exit path including cancellation.
type Scanner struct {
	fetcher   *fetch.Fetcher
	extractor *vinted.Extractor
	scoring   scoring.Config
}

func New(cfg Config) (*Scanner, error) {
	fetcher, err := fetch.New(fetch.Options{
		Concurrency:    cfg.Concurrency,
		Timeout:        time.Duration(cfg.TimeoutS * float64(time.Second)),
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		Headers:        cfg.Headers,
	})
	if err != nil {
		return nil, err
	}
	return &Scanner{
		fetcher:   fetcher,
		extractor: vinted.New(cfg.Selectors, nil),
		scoring:   cfg.Config,
	}, nil
}

func (s *Scanner) Close() {
	s.fetcher.Close()
}

// Scan runs the pipeline over a set of search-page URLs and returns every
// extracted listing ordered by descending score. It never returns an
// error: fetch and extraction failures degrade to fewer listings, and a
// cancelled context drains in-flight fetches and returns what it has.
func (s *Scanner) Scan(ctx context.Context, urls []string) []Ranked {
	ctx, span := tracer.Start(ctx, "Scan")
	defer span.End()
	span.SetAttributes(attribute.Int("urls", len(urls)))

	// one slot per URL keeps collection order equal to input order, so
	// the final tie-break is reproducible across runs; no locking needed
	// beyond the fetcher's gate
	perURL := make([][]scoring.Listing, len(urls))

	wg := sync.WaitGroup{}
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()

			body, ok := s.fetcher.Fetch(ctx, url)
			if !ok {
				return
			}
			perURL[i] = s.extractor.Extract(ctx, body)
		}(i, url)
	}
	wg.Wait()

	var listings []scoring.Listing
	for _, l := range perURL {
		listings = append(listings, l...)
	}

	now := time.Now().UTC()
	ranked := make([]Ranked, len(listings))
	for i, l := range listings {
		ranked[i] = Ranked{
			Listing: l,
			Result:  scoring.Score(l, now, s.scoring),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Result, ranked[j].Result
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return netProfitLess(b.NetProfit, a.NetProfit)
	})

	slog.InfoContext(ctx, "scan complete", "urls", len(urls), "listings", len(ranked))
	span.SetAttributes(attribute.Int("listings", len(ranked)))
	return ranked
}

// descending order with nil (no market estimate) sorted last
func netProfitLess(a, b *float64) bool {
	if b == nil {
		return false
	}
	if a == nil {
		return true
	}
	return *a < *b
}
