package coinafrique

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coinafrique-scraper/metrics"
	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
)

// Options configure the pagination loop.
type Options struct {
	BaseURL string
	// SafetyCap bounds the pages fetched per category, whatever was requested.
	SafetyCap int
	// Delay is slept between two page fetches of the same category.
	Delay time.Duration
}

// Scraper drives page fetching and extraction across a category's pages.
type Scraper struct {
	opts    Options
	fetcher Fetcher
	logger  *utils.Logger
}

// New creates a Scraper. fetcher is typically an *HTTPFetcher or a
// *BrowserFetcher.
func New(opts Options, fetcher Fetcher, logger *utils.Logger) *Scraper {
	if opts.SafetyCap <= 0 {
		opts.SafetyCap = 1
	}
	return &Scraper{opts: opts, fetcher: fetcher, logger: logger}
}

// PageLimit is the number of pages a scrape may fetch: maxPages when it is
// positive and below the safety cap, the safety cap otherwise.
func (s *Scraper) PageLimit(maxPages int) int {
	if maxPages > 0 && maxPages < s.opts.SafetyCap {
		return maxPages
	}
	return s.opts.SafetyCap
}

// ScrapeCategory fetches pages 1, 2, ... of cat until a page fails or has no
// listings, or the page limit is reached. maxPages <= 0 requests all pages.
// Failures end the loop and the records gathered so far are returned.
func (s *Scraper) ScrapeCategory(ctx context.Context, cat models.Category, maxPages int) (*models.ScrapeResult, error) {
	categoryURL, err := CategoryURL(s.opts.BaseURL, cat)
	if err != nil {
		return nil, err
	}

	res := &models.ScrapeResult{
		RunID:    uuid.New(),
		Category: cat,
		Listings: make([]*models.RawListing, 0),
	}
	limit := s.PageLimit(maxPages)

	s.logger.Info("[coinafrique] run %s — %s: up to %d pages", res.RunID, cat, limit)

	for page := 1; ; page++ {
		url := PageURL(categoryURL, page)
		s.logger.Debug("[coinafrique] %s page %d — %s", cat, page, url)

		html, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			s.logger.Warn("[coinafrique] %s page %d unavailable — stopping: %v", cat, page, err)
			res.StopReason = models.StopFetchFailed
			break
		}

		records, err := Extract(html, cat)
		if err != nil {
			s.logger.Warn("[coinafrique] %s page %d unreadable — stopping: %v", cat, page, err)
			res.StopReason = models.StopFetchFailed
			break
		}
		if len(records) == 0 {
			s.logger.Info("[coinafrique] %s page %d returned 0 listings — stopping", cat, page)
			res.StopReason = models.StopEmptyPage
			break
		}

		res.Listings = append(res.Listings, records...)
		res.Pages = page
		metrics.PagesFetched.WithLabelValues(string(cat)).Inc()
		metrics.RecordsExtracted.WithLabelValues(string(cat)).Add(float64(len(records)))

		s.logger.Info("[coinafrique] %s page %d done — %d listings so far", cat, page, len(res.Listings))

		if page >= limit {
			if maxPages > 0 && maxPages <= s.opts.SafetyCap {
				res.StopReason = models.StopMaxPages
			} else {
				res.StopReason = models.StopSafetyCap
			}
			break
		}

		if !s.wait(ctx) {
			res.StopReason = models.StopFetchFailed
			break
		}
	}

	metrics.ScrapeStops.WithLabelValues(string(cat), string(res.StopReason)).Inc()
	s.logger.Info("[coinafrique] %s complete — %d listings from %d pages (%s)",
		cat, len(res.Listings), res.Pages, res.StopReason)
	return res, nil
}

// ScrapeCategories scrapes each category in turn and returns one result per
// category, in the order given.
func (s *Scraper) ScrapeCategories(ctx context.Context, cats []models.Category, maxPages int) ([]*models.ScrapeResult, error) {
	results := make([]*models.ScrapeResult, 0, len(cats))
	for _, cat := range cats {
		res, err := s.ScrapeCategory(ctx, cat, maxPages)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Combine concatenates the listings of several results in result order.
func Combine(results []*models.ScrapeResult) []*models.RawListing {
	var out []*models.RawListing
	for _, r := range results {
		out = append(out, r.Listings...)
	}
	return out
}

func (s *Scraper) wait(ctx context.Context) bool {
	if s.opts.Delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(s.opts.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
