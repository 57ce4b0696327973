// Package fetch retrieves remote markup for analysis and reads document
// summary information out of it.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; A11yChecker/1.0)"

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes int64 = 2 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
	Truncated   bool
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// URL retrieves markup from an http or https URL. Bodies larger than
// opts.MaxBytes are cut off and flagged as truncated.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("invalid URL: unsupported scheme %q", parsedURL.Scheme),
		}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// One extra byte tells a body of exactly maxBytes apart from a longer one
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	truncated := int64(len(bodyBytes)) > maxBytes
	if truncated {
		bodyBytes = bodyBytes[:maxBytes]
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Truncated:   truncated,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// Summary describes the structure of a document. It is informational only and
// never feeds the compliance score.
type Summary struct {
	Title    string `json:"title,omitempty"`
	Lang     string `json:"lang,omitempty"`
	Images   int    `json:"images"`
	Links    int    `json:"links"`
	Headings int    `json:"headings"`
	Forms    int    `json:"forms"`
}

// Summarize parses html leniently and counts the elements a reviewer usually
// looks at first.
func Summarize(html string) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	lang, _ := doc.Find("html").First().Attr("lang")

	return &Summary{
		Title:    cleanWhitespace(doc.Find("title").First().Text()),
		Lang:     strings.TrimSpace(lang),
		Images:   doc.Find("img").Length(),
		Links:    doc.Find("a[href]").Length(),
		Headings: doc.Find("h1, h2, h3, h4, h5, h6").Length(),
		Forms:    doc.Find("form").Length(),
	}, nil
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
