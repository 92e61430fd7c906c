package domain

import (
	"context"
	"errors"
	"fmt"
)

// ProbeEntry is a single resolvable item inside a collection. A nil entry
// in ProbeResult.Entries marks an item the extractor reported as
// unavailable (deleted or private).
type ProbeEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ProbeResult is the outcome of an information-only query against a URL.
// No media bytes have been fetched when one of these exists.
type ProbeResult struct {
	Title        string
	IsCollection bool
	Entries      []*ProbeEntry
}

// DisplayTitle returns the title, or "Unknown" when the extractor did not
// resolve one.
func (r *ProbeResult) DisplayTitle() string {
	if r.Title == "" {
		return "Unknown"
	}
	return r.Title
}

// TotalEntries returns the declared number of items, unavailable ones
// included.
func (r *ProbeResult) TotalEntries() int {
	return len(r.Entries)
}

// AvailableEntries returns the number of items that resolved to a usable
// descriptor.
func (r *ProbeResult) AvailableEntries() int {
	n := 0
	for _, e := range r.Entries {
		if e != nil {
			n++
		}
	}
	return n
}

// UnavailableEntries returns the number of items that will be skipped.
func (r *ProbeResult) UnavailableEntries() int {
	return r.TotalEntries() - r.AvailableEntries()
}

// Extractor is the contract with the external extraction service. Probe
// and Fetch are expected to be called on the same configured value so any
// session state the service keeps carries over between the two calls.
type Extractor interface {
	// Probe performs an information-only query; no media is downloaded.
	Probe(ctx context.Context, url string) (*ProbeResult, error)

	// Fetch performs the actual retrieval and transcode. Per-item failures
	// within a collection are absorbed by the extractor's ignore-errors
	// policy and do not surface here.
	Fetch(ctx context.Context, url string) error
}

// ToolChecker reports whether the external transcoding tools are present
// on the search path.
type ToolChecker interface {
	Check() bool
	InstallHints() []string
}

// ExtractionError marks a download-class failure: one originating from the
// extraction/retrieval layer itself, as opposed to any other unexpected
// fault. Diagnostics label the two differently.
type ExtractionError struct {
	Stage   string // "probe" or "fetch"
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// IsExtractionError reports whether err is, or wraps, a download-class
// failure.
func IsExtractionError(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}
