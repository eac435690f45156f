package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resaleradar/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func card(id int, price, marketPrice string) string {
	return fmt.Sprintf(`
  <div class="feed-grid__item">
    <a class="new-item-box__overlay" href="https://marketplace.test/items/%d"></a>
    <p data-testid="item-%d--description-title">Article %d</p>
    <p data-testid="item-%d--description-subtitle">Nike</p>
    <p data-testid="item-%d--price-text">%s</p>
    <span data-testid="item-%d--market-price">%s</span>
    <img class="web_ui__Image__content" src="a.jpg">
    <img class="web_ui__Image__content" src="b.jpg">
    <img class="web_ui__Image__content" src="c.jpg">
  </div>`, id, id, id, id, id, price, id, marketPrice)
}

func page(cards ...string) string {
	body := `<html><body><div class="feed-grid">`
	for _, c := range cards {
		body += c
	}
	return body + `</div></body></html>`
}

func TestScanRanksAcrossPages(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/scanner")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/search1", func(w http.ResponseWriter, r *http.Request) {
		// a mediocre deal and a great one
		fmt.Fprint(w, page(
			card(1, "55 €", "60 €"),
			card(2, "10 €", "60 €"),
		))
	})
	mux.HandleFunc("/search2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page(card(3, "30 €", "60 €")))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	defer s.Close()

	ranked := s.Scan(context.Background(), []string{
		server.URL + "/search1",
		server.URL + "/missing",
		server.URL + "/search2",
	})

	// the 404 URL contributes nothing, both live pages contribute
	require.Len(t, ranked, 3)

	// cheapest against the same market price ranks first
	require.Equal(t, "Article 2", ranked[0].Listing.Title)
	require.Equal(t, "Article 3", ranked[1].Listing.Title)
	require.Equal(t, "Article 1", ranked[2].Listing.Title)

	for i := 1; i < len(ranked); i++ {
		require.GreaterOrEqual(t, ranked[i-1].Result.Score, ranked[i].Result.Score)
	}
	for _, r := range ranked {
		require.NotNil(t, r.Result.NetProfit)
		require.GreaterOrEqual(t, r.Result.Score, 0.0)
		require.LessOrEqual(t, r.Result.Score, 100.0)
	}
}

func TestScanAllURLsFailing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	defer s.Close()

	ranked := s.Scan(context.Background(), []string{server.URL, server.URL + "/other"})
	require.Empty(t, ranked)
}

func TestScanStableTieBreak(t *testing.T) {
	// identical cards score identically; input order must be preserved
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page(card(10, "20 €", "40 €")))
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page(card(11, "20 €", "40 €")))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	defer s.Close()

	for try := 0; try < 3; try++ {
		ranked := s.Scan(context.Background(), []string{server.URL + "/a", server.URL + "/b"})
		require.Len(t, ranked, 2)
		require.Equal(t, "Article 10", ranked[0].Listing.Title)
		require.Equal(t, "Article 11", ranked[1].Listing.Title)
	}
}

func TestScanCancellation(t *testing.T) {
	stall := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-stall
	}))
	defer server.Close()
	defer close(stall)

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())

	urls := make([]string, 20)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/%d", server.URL, i)
	}

	done := make(chan []Ranked, 1)
	go func() {
		done <- s.Scan(ctx, urls)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case ranked := <-done:
		require.Empty(t, ranked)
	case <-time.After(3 * time.Second):
		t.Fatal("scan did not drain after cancellation")
	}
}
