// Package scraper extracts book candidates from web pages so a catalog
// entry can be prefilled from a pasted URL.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// ParsedBookInfo is a best-effort candidate extracted from a page. Only
// SourceURL is guaranteed to be set; everything else is optional.
type ParsedBookInfo struct {
	Title       string   `json:"title,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	SourceURL   string   `json:"sourceUrl"`
}

// Scraper fetches and parses book pages.
type Scraper struct {
	httpClient *http.Client
}

// NewScraper creates a scraper with the given request timeout.
func NewScraper(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads pageURL and extracts a book candidate. Parse misses are
// not errors: an unrecognized page yields a candidate with only SourceURL.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*ParsedBookInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return Parse(doc, pageURL), nil
}

// Parse extracts a candidate from an already parsed document.
func Parse(doc *html.Node, pageURL string) *ParsedBookInfo {
	info := &ParsedBookInfo{SourceURL: pageURL}

	meta := collectMeta(doc)

	if title := meta["og:title"]; title != "" {
		info.Title = cleanText(title)
	}
	if desc := meta["og:description"]; desc != "" {
		info.Description = cleanText(desc)
	} else if desc := meta["description"]; desc != "" {
		info.Description = cleanText(desc)
	}
	if img := meta["og:image"]; img != "" {
		info.ImageURL = img
	}
	if author := meta["books:author"]; author != "" {
		info.Authors = appendUnique(info.Authors, cleanText(author))
	}

	// Goodreads pages carry richer markup than their OG tags.
	if strings.Contains(pageURL, "goodreads.com") {
		parseGoodreads(doc, info)
	}

	if info.Title == "" {
		if t := findTitleTag(doc); t != "" {
			info.Title = cleanText(t)
		}
	}

	return info
}

// collectMeta returns name/property -> content for every <meta> tag.
func collectMeta(doc *html.Node) map[string]string {
	meta := make(map[string]string)
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return
		}
		key := attr(n, "property")
		if key == "" {
			key = attr(n, "name")
		}
		content := attr(n, "content")
		if key != "" && content != "" {
			if _, seen := meta[key]; !seen {
				meta[key] = content
			}
		}
	})
	return meta
}

func parseGoodreads(doc *html.Node, info *ParsedBookInfo) {
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case n.Data == "h1" && (attr(n, "id") == "bookTitle" || attr(n, "data-testid") == "bookTitle"):
			if t := cleanText(textOf(n)); t != "" {
				info.Title = t
			}
		case n.Data == "a" && hasClass(n, "authorName"):
			info.Authors = appendUnique(info.Authors, cleanText(textOf(n)))
		case n.Data == "span" && hasClass(n, "ContributorLink__name"):
			info.Authors = appendUnique(info.Authors, cleanText(textOf(n)))
		case n.Data == "a" && hasClass(n, "bookPageGenreLink") && len(info.Genres) < 3:
			info.Genres = appendUnique(info.Genres, cleanText(textOf(n)))
		case n.Data == "a" && hasClass(n, "Button--tag") && len(info.Genres) < 3:
			info.Genres = appendUnique(info.Genres, cleanText(textOf(n)))
		case n.Data == "img" && attr(n, "id") == "coverImage":
			if src := attr(n, "src"); src != "" {
				info.ImageURL = src
			}
		}
	})
}

func findTitleTag(doc *html.Node) string {
	var title string
	walk(doc, func(n *html.Node) {
		if title == "" && n.Type == html.ElementNode && n.Data == "title" {
			title = textOf(n)
		}
	})
	return title
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func appendUnique(list []string, item string) []string {
	if item == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, item) {
			return list
		}
	}
	return append(list, item)
}
