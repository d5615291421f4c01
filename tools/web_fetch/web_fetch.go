package web_fetch

import (
	"context"
	"time"

	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_fetch/chromedp"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_fetch/httpfetch"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_fetch/models"
)

const (
	DefaultTimeout  = 20 * time.Second
	DefaultAttempts = 3
	DefaultBackoff  = 2 * time.Second
)

// WebFetcher retrieves the HTML of a page. Transient failures are retried
// inside the implementation; an exhausted retry budget surfaces as an error.
type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	HTTPFetcherType     FetcherType = "http"
	ChromedpFetcherType FetcherType = "chromedp"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func NewWebFetcher(fetcherType FetcherType, timeout time.Duration, attempts int, backoff time.Duration) (WebFetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}

	switch fetcherType {
	case HTTPFetcherType:
		return &httpfetch.Fetch{Timeout: timeout, Attempts: attempts, Backoff: backoff}, nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: timeout}, nil
	default:
		return nil, &Error{"unsupported fetcher type"}
	}
}
