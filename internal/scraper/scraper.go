package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const maxBodySize = 8 << 20

type Options struct {
	Origin         string
	UserAgent      string
	CurrencySymbol string
	Supermarket    string
	Timeout        time.Duration
	RatePerSecond  float64
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// Scraper resolves a search phrase into a product from the retailer's
// search results page.
type Scraper struct {
	client    *http.Client
	origin    *url.URL
	userAgent string
	parser    Parser
	limiter   *rate.Limiter
	cb        *gobreaker.CircuitBreaker[[]byte]
	intn      func(n int) int
	log       *slog.Logger
}

func New(opts Options, log *slog.Logger) (*Scraper, error) {
	if log == nil {
		log = slog.Default()
	}
	origin, err := url.Parse(strings.TrimRight(opts.Origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("scraper: invalid origin %q: %w", opts.Origin, err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("scraper: origin %q must be absolute", opts.Origin)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	s := &Scraper{
		client:    client,
		origin:    origin,
		userAgent: opts.UserAgent,
		parser: Parser{
			Origin:         origin,
			CurrencySymbol: opts.CurrencySymbol,
			Supermarket:    opts.Supermarket,
		},
		limiter: rate.NewLimiter(limit, 1),
		intn:    rand.IntN,
		log:     log.With(slog.String("component", "scraper")),
	}

	s.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "retailer-search",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return s, nil
}

// Scrape returns the first product on the results page for query, annotated
// with cookSeconds. domain.ErrScrapeMiss is returned when the page has none.
func (s *Scraper) Scrape(ctx context.Context, query string, cookSeconds int) (*domain.ProductRecord, error) {
	records, err := s.search(ctx, query)
	if err != nil {
		return nil, err
	}

	record := records[0]
	record.CookSeconds = cookSeconds
	return &record, nil
}

// ScrapeLucky picks a uniformly random product from the results page.
func (s *Scraper) ScrapeLucky(ctx context.Context, query string, cookSeconds int) (*domain.ProductRecord, error) {
	records, err := s.search(ctx, query)
	if err != nil {
		return nil, err
	}

	record := records[s.intn(len(records))]
	record.CookSeconds = cookSeconds
	return &record, nil
}

func (s *Scraper) search(ctx context.Context, query string) ([]domain.ProductRecord, error) {
	const op = "scraper.search"
	log := s.log.With(slog.String("op", op), slog.String("query", query))

	body, err := s.fetch(ctx, query)
	if err != nil {
		metrics.ScrapeRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	records, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		metrics.ScrapeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(records) == 0 {
		metrics.ScrapeRequests.WithLabelValues("miss").Inc()
		log.Debug("no products on page")
		return nil, fmt.Errorf("%s: %q: %w", op, query, domain.ErrScrapeMiss)
	}

	metrics.ScrapeRequests.WithLabelValues("hit").Inc()
	log.Debug("products scraped", slog.Int("count", len(records)))
	return records, nil
}

func (s *Scraper) fetch(ctx context.Context, query string) ([]byte, error) {
	const op = "scraper.fetch"

	searchURL := s.origin.JoinPath("search")
	searchURL.RawQuery = "query=" + url.QueryEscape(query)
	target := searchURL.String()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	body, err := s.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", s.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, &domain.NetworkError{Op: op, URL: target, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
			return nil, &domain.NetworkError{Op: op, URL: target, StatusCode: resp.StatusCode}
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, &domain.NetworkError{Op: op, URL: target, Err: err}
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.NetworkError{Op: op, URL: target, Err: err}
		}
		return nil, err
	}

	return body, nil
}
