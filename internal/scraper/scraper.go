// Package scraper pulls the readable text of an article page so the rewrite
// prompt gets more than the feed's one-line description.
package scraper

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ArticleContent is the extracted article text.
type ArticleContent struct {
	Title   string
	Content string
	URL     string
}

// Scraper fetches and extracts article pages.
type Scraper struct {
	client *http.Client
}

func New(client *http.Client) *Scraper {
	if client == nil {
		client = http.DefaultClient
	}
	return &Scraper{client: client}
}

// ExtractArticle downloads the page and extracts the body text.
func (s *Scraper) ExtractArticle(url string) (*ArticleContent, error) {
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	content := cleanContent(extractBody(doc))
	if content == "" {
		return nil, fmt.Errorf("no article content found")
	}

	return &ArticleContent{
		Title:   extractTitle(doc),
		Content: content,
		URL:     url,
	}, nil
}

// extractBody walks common article selectors and collects paragraph text.
func extractBody(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".entry-content p",
		".post-content p",
		".content p",
		"main p",
	}

	for _, selector := range selectors {
		var paragraphs []string
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 10 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			return strings.Join(paragraphs, "\n")
		}
	}

	// Last resort: every paragraph on the page.
	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 40 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n")
}

func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1",
		".article-title",
		".headline",
		".entry-title",
		"title",
	}

	for _, selector := range selectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}

	return ""
}

// cleanContent drops boilerplate lines and normalizes whitespace.
func cleanContent(content string) string {
	if content == "" {
		return ""
	}

	junkIndicators := []string{
		"cookie", "gdpr", "advertisement", "subscribe to", "sign up",
		"read more", "click here", "follow us", "share this", "newsletter",
		"log in", "privacy policy",
	}

	var clean []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 8 {
			continue
		}

		lower := strings.ToLower(line)
		junk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				junk = true
				break
			}
		}
		if junk {
			continue
		}

		clean = append(clean, strings.Join(strings.Fields(line), " "))
	}

	result := strings.Join(clean, "\n\n")

	// Keep the prompt payload bounded, cutting on paragraph boundaries.
	const maxLen = 8000
	if len(result) > maxLen {
		paragraphs := strings.Split(result, "\n\n")
		var kept []string
		total := 0
		for _, p := range paragraphs {
			if total+len(p) > maxLen {
				break
			}
			kept = append(kept, p)
			total += len(p) + 2
		}
		if len(kept) > 0 {
			result = strings.Join(kept, "\n\n")
		} else {
			result = result[:maxLen]
		}
	}

	return strings.TrimSpace(result)
}
