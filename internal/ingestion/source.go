// Package ingestion reads markup from files, streams and URLs and attaches
// provenance metadata to it.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonathan/a11y-checker/internal/fetch"
)

// StdinSource is the source name used for markup read from standard input.
const StdinSource = "-"

var (
	// ErrNotFound is returned when an input file does not exist
	ErrNotFound = errors.New("input not found")
	// ErrTooLarge is returned when an input exceeds the configured size limit
	ErrTooLarge = errors.New("input too large")
)

// Error describes a failure to ingest a single source.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingestion error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingestion error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Document is markup ready for analysis.
type Document struct {
	HTML     string
	Metadata *Metadata
}

// Options bounds how much markup is accepted and how URLs are fetched.
type Options struct {
	MaxBytes int64
	Fetch    *fetch.Options
	Logger   *slog.Logger
}

func (o *Options) maxBytes() int64 {
	if o == nil || o.MaxBytes <= 0 {
		return fetch.DefaultMaxBytes
	}
	return o.MaxBytes
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// FromFile reads markup from a file on disk.
func FromFile(path string, opts *Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Source: path, Message: "file not found", Cause: errors.Join(ErrNotFound, err)}
		}
		return nil, &Error{Source: path, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	return FromReader(path, f, opts)
}

// FromReader reads markup from r. The whole input must fit in the size limit.
func FromReader(source string, r io.Reader, opts *Options) (*Document, error) {
	limit := opts.maxBytes()

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &Error{Source: source, Message: "failed to read input", Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &Error{
			Source:  source,
			Message: fmt.Sprintf("exceeds %d bytes", limit),
			Cause:   ErrTooLarge,
		}
	}

	html := string(data)
	doc := &Document{HTML: html, Metadata: NewMetadata(html, source)}
	attachSummary(doc, opts.logger())
	return doc, nil
}

// FromURL fetches markup over HTTP. Responses over the size limit are
// analyzed truncated and flagged in the metadata.
func FromURL(ctx context.Context, urlStr string, opts *Options) (*Document, error) {
	fetchOpts := fetch.DefaultOptions()
	if opts != nil && opts.Fetch != nil {
		copied := *opts.Fetch
		fetchOpts = &copied
	}
	fetchOpts.MaxBytes = opts.maxBytes()

	logger := opts.logger()
	logger.Debug("fetching markup", "url", urlStr)

	result, err := fetch.URL(ctx, urlStr, fetchOpts)
	if err != nil {
		return nil, &Error{Source: urlStr, Message: "fetch failed", Cause: err}
	}
	if result.Truncated {
		logger.Warn("response truncated", "url", urlStr, "max_bytes", fetchOpts.MaxBytes)
	}

	doc := &Document{HTML: result.HTML, Metadata: NewMetadata(result.HTML, urlStr)}
	doc.Metadata.URL = urlStr
	doc.Metadata.Truncated = result.Truncated
	attachSummary(doc, logger)
	return doc, nil
}

func attachSummary(doc *Document, logger *slog.Logger) {
	summary, err := fetch.Summarize(doc.HTML)
	if err != nil {
		// Summary is informational, analysis proceeds without it
		logger.Debug("summary unavailable", "source", doc.Metadata.Source, "error", err)
		return
	}
	doc.Metadata.Summary = summary
}
