package topic

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/yudhis/autopress/internal/metrics"
	"github.com/yudhis/autopress/internal/scraper"
	"github.com/yudhis/autopress/internal/storage"
)

// FeedsConfig is the YAML feed list:
//
//	feeds:
//	  - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the headline feed URLs from a YAML file.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("feed list %s is empty", path)
	}
	return cfg.Feeds, nil
}

// FeedSource implements the provider-search strategy: fetch a batch of
// headlines, drop used titles, pick uniformly at random among the rest.
type FeedSource struct {
	feeds   []string
	query   string
	store   storage.TitleStore
	scraper *scraper.Scraper
	parser  *gofeed.Parser
	logger  *slog.Logger

	// pickIndex selects from n remaining candidates; swapped in tests.
	pickIndex func(n int) int
}

var _ Source = (*FeedSource)(nil)

func NewFeedSource(feeds []string, query string, store storage.TitleStore, sc *scraper.Scraper, logger *slog.Logger) *FeedSource {
	return &FeedSource{
		feeds:     feeds,
		query:     strings.ToLower(strings.TrimSpace(query)),
		store:     store,
		scraper:   sc,
		parser:    gofeed.NewParser(),
		logger:    logger,
		pickIndex: rand.Intn,
	}
}

func (f *FeedSource) Pick(ctx context.Context) (*Candidate, error) {
	items := f.fetchAll(ctx)
	if len(items) == 0 {
		return nil, fmt.Errorf("no feed items fetched")
	}

	fresh, skipped := f.filterFresh(items)
	metrics.Global.DuplicateSkipped(skipped)
	if len(fresh) == 0 {
		return nil, fmt.Errorf("%w: all %d candidates already used", ErrExhaustedCandidates, len(items))
	}

	item := fresh[f.pickIndex(len(fresh))]
	f.logger.Info("topic candidate selected",
		"title", item.Title, "link", item.Link, "pool", len(fresh), "skipped", skipped)

	return f.buildCandidate(item), nil
}

func (f *FeedSource) fetchAll(ctx context.Context) []*gofeed.Item {
	var items []*gofeed.Item
	ok := 0
	for _, url := range f.feeds {
		feed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			f.logger.Warn("feed fetch failed", "url", url, "error", err)
			continue
		}
		items = append(items, feed.Items...)
		ok++
	}
	f.logger.Debug("feeds fetched", "ok", ok, "total", len(f.feeds), "items", len(items))
	return items
}

// filterFresh removes items matching neither the topic query nor the
// duplicate invariant. It returns the survivors and how many were dropped
// as already used.
func (f *FeedSource) filterFresh(items []*gofeed.Item) (fresh []*gofeed.Item, skipped int) {
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" || !f.matchesQuery(item) {
			continue
		}
		if f.store.Contains(title) {
			skipped++
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh, skipped
}

func (f *FeedSource) matchesQuery(item *gofeed.Item) bool {
	if f.query == "" {
		return true
	}
	haystack := strings.ToLower(item.Title + " " + item.Description)
	for _, word := range strings.Fields(f.query) {
		if strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}

// buildCandidate prefers the scraped article body over the feed blurb.
func (f *FeedSource) buildCandidate(item *gofeed.Item) *Candidate {
	body := strings.TrimSpace(item.Description)
	if item.Content != "" && len(item.Content) > len(body) {
		body = strings.TrimSpace(item.Content)
	}

	if f.scraper != nil && item.Link != "" {
		article, err := f.scraper.ExtractArticle(item.Link)
		if err != nil {
			f.logger.Warn("article extraction failed, using feed summary", "link", item.Link, "error", err)
		} else if len(article.Content) > len(body) {
			body = article.Content
		}
	}

	return &Candidate{
		Title:     strings.TrimSpace(item.Title),
		Body:      body,
		SourceURL: item.Link,
	}
}
