// Package web provides the internet-facing tools available to agents:
// web_search (DuckDuckGo HTML results) and scrape_website (page text).
// Both are built on gocolly/colly; page text extraction uses goquery.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/tool"
)

// DefaultSearchURL is the DuckDuckGo HTML endpoint queried by web_search.
const DefaultSearchURL = "https://html.duckduckgo.com/html/"

// Options configure the web tools.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxResults int
	// MaxChars truncates scraped page text; 0 disables truncation.
	MaxChars  int
	SearchURL string
}

func defaultOptions() Options {
	return Options{
		UserAgent:  "agentnet/1.0 (+https://github.com/hupe1980/agentnet)",
		Timeout:    20 * time.Second,
		MaxResults: 5,
		MaxChars:   8000,
		SearchURL:  DefaultSearchURL,
	}
}

// SearchResult is one web_search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Page is the result of scrape_website.
type Page struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated,omitempty"`
}

type searchArgs struct {
	Query string `json:"query" jsonschema:"description=The search query"`
}

type scrapeArgs struct {
	URL string `json:"url" jsonschema:"description=Absolute http(s) URL of the page to read"`
}

// Tools returns web_search and scrape_website configured with optFns.
func Tools(optFns ...func(o *Options)) []tool.Tool {
	return []tool.Tool{NewSearchTool(optFns...), NewScrapeTool(optFns...)}
}

// NewSearchTool returns the web_search tool.
func NewSearchTool(optFns ...func(o *Options)) tool.Tool {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return tool.NewTypedTool("web_search", "Search the internet and return the top results with title, link and snippet.",
		func(tc *core.ToolContext, in searchArgs) (any, error) {
			if strings.TrimSpace(in.Query) == "" {
				return nil, tool.NewToolError("web_search", "query must not be empty", tool.CodeValidation)
			}
			return Search(tc.Context(), in.Query, opts)
		})
}

// NewScrapeTool returns the scrape_website tool.
func NewScrapeTool(optFns ...func(o *Options)) tool.Tool {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return tool.NewTypedTool("scrape_website", "Read a web page and return its visible text content.",
		func(tc *core.ToolContext, in scrapeArgs) (any, error) {
			u, err := url.Parse(in.URL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, tool.NewToolError("scrape_website", fmt.Sprintf("invalid url %q", in.URL), tool.CodeValidation)
			}
			return Scrape(tc.Context(), u.String(), opts)
		})
}

func newCollector(ctx context.Context, opts Options) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(opts.Timeout)

	return c
}

// Search queries the configured search endpoint and parses the result list.
func Search(ctx context.Context, query string, opts Options) ([]SearchResult, error) {
	c := newCollector(ctx, opts)

	var (
		results []SearchResult
		visitErr error
	)

	c.OnHTML(".result", func(e *colly.HTMLElement) {
		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			return
		}

		title := strings.TrimSpace(e.ChildText(".result__a"))
		link := resolveLink(e.ChildAttr(".result__a", "href"))
		if title == "" || link == "" {
			return
		}

		results = append(results, SearchResult{
			Title:   title,
			Link:    link,
			Snippet: collapseSpace(e.ChildText(".result__snippet")),
		})
	})

	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	target := opts.SearchURL + "?q=" + url.QueryEscape(query)
	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	c.Wait()

	if visitErr != nil {
		return nil, fmt.Errorf("search %q: %w", query, visitErr)
	}

	return results, nil
}

// resolveLink unwraps DuckDuckGo redirect links (/l/?uddg=<target>).
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	if target := u.Query().Get("uddg"); target != "" {
		return target
	}

	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}

	return href
}

// Scrape downloads rawURL and extracts the visible page text.
func Scrape(ctx context.Context, rawURL string, opts Options) (*Page, error) {
	c := newCollector(ctx, opts)

	var (
		page     *Page
		parseErr error
		visitErr error
	)

	c.OnResponse(func(r *colly.Response) {
		page, parseErr = extractText(r.Body, opts.MaxChars)
		if page != nil {
			page.URL = r.Request.URL.String()
		}
	})

	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("scrape %s: %w", rawURL, err)
	}

	c.Wait()

	switch {
	case visitErr != nil:
		return nil, fmt.Errorf("scrape %s: %w", rawURL, visitErr)
	case parseErr != nil:
		return nil, fmt.Errorf("scrape %s: %w", rawURL, parseErr)
	case page == nil:
		return nil, fmt.Errorf("scrape %s: empty response", rawURL)
	}

	return page, nil
}

func extractText(body []byte, maxChars int) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript, nav, footer, svg").Remove()

	page := &Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Text:  collapseSpace(doc.Find("body").Text()),
	}

	if maxChars > 0 && len(page.Text) > maxChars {
		page.Text = strings.ToValidUTF8(page.Text[:maxChars], "")
		page.Truncated = true
	}

	return page, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
