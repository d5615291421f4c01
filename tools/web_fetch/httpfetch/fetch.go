package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_fetch/models"
)

// maxBodyBytes caps how much HTML is pulled into memory per page.
const maxBodyBytes = 2 << 20

// Fetch retrieves pages with plain net/http. Timeouts, connection errors and
// retryable HTTP statuses are retried with a fixed backoff.
type Fetch struct {
	Timeout  time.Duration
	Attempts int
	Backoff  time.Duration
}

func (f *Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	client := &http.Client{Timeout: f.Timeout}

	var lastErr error
	for attempt := 1; attempt <= f.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return models.Result{URL: url}, ctx.Err()
			case <-time.After(f.Backoff):
			}
		}

		res, err := f.once(ctx, client, url)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !retryable(res.Status, err) {
			break
		}
	}
	return models.Result{URL: url}, lastErr
}

func (f *Fetch) once(ctx context.Context, client *http.Client, url string) (models.Result, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return models.Result{URL: url}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return models.Result{URL: url}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.Result{URL: url, Status: resp.StatusCode},
			fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.Result{URL: url, Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}
	return models.Result{URL: url, Status: resp.StatusCode, HTML: string(body)}, nil
}

// retryable treats network-level failures (status 0) and throttling or
// server-side statuses as transient.
func retryable(status int, err error) bool {
	if status == 0 && err != nil {
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500
}
