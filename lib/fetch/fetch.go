// Package fetch retrieves raw marketplace pages under a shared concurrency
// gate. Failures never escape as errors: a page either fetched or it
// didn't, and the pipeline moves on either way.
package fetch

import (
	"context"
	"log/slog"
	"net/http/cookiejar"
	"time"

	"resaleradar/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"
)

var tracer = otel.Tracer("lib/fetch")

const (
	DefaultConcurrency    = 6
	DefaultTimeout        = 15 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (compatible; ResaleRadarBot/1.0; +https://example.com/bot)"
	DefaultAcceptLanguage = "fr-FR,fr;q=0.9,en;q=0.8"
)

type Options struct {
	// max simultaneous in-flight requests, gate capacity
	Concurrency int
	// per-request timeout
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	// extra headers sent with every request
	Headers map[string]string
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.AcceptLanguage == "" {
		o.AcceptLanguage = DefaultAcceptLanguage
	}
	return o
}

// Fetcher owns one connection-pooled HTTP client for its lifetime and a
// counting permit gate bounding in-flight requests. Close must be called
// exactly once when the fetcher is no longer needed.
type Fetcher struct {
	http *resty.Client
	gate *semaphore.Weighted
}

func New(opts Options) (*Fetcher, error) {
	opts = opts.withDefaults()

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept-language", opts.AcceptLanguage)
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "lib/fetch/http")

	return &Fetcher{
		http: client,
		gate: semaphore.NewWeighted(int64(opts.Concurrency)),
	}, nil
}

// Fetch GETs one URL and returns its body. ok is false on any non-200
// status, transport error, timeout or context cancellation; no raw network
// error ever propagates to the caller. The permit is held for exactly one
// request/response cycle.
func (f *Fetcher) Fetch(ctx context.Context, url string) (body string, ok bool) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	if err := f.gate.Acquire(ctx, 1); err != nil {
		// context ended while queued for a permit
		span.SetStatus(codes.Error, err.Error())
		return "", false
	}
	defer f.gate.Release(1)

	res, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		slog.WarnContext(ctx, "fetch failed", "url", url, "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return "", false
	}
	if res.StatusCode() != 200 {
		slog.WarnContext(ctx, "fetch returned non-200", "url", url, "status", res.StatusCode())
		span.SetStatus(codes.Error, "unexpected status")
		return "", false
	}

	return res.String(), true
}

// Close releases the client's pooled connections.
func (f *Fetcher) Close() {
	f.http.GetClient().CloseIdleConnections()
}
