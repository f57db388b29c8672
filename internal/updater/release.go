package updater

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Release feed defaults
const (
	DefaultFeedURL      = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"
	DefaultUserAgent    = "yt-grabber"
	DefaultCheckTimeout = 30 * time.Second
	maxFeedBody         = 4 << 20
)

// Asset is one downloadable file of a release.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

// Release is the subset of the GitHub release document used for updates.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset returns the asset whose name matches exactly.
func (r *Release) Asset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Feed fetches the latest release document. It is queried fresh on every call.
type Feed struct {
	URL       string
	UserAgent string
	Client    *http.Client
}

// NewFeed creates a Feed whose requests are bounded by timeout.
func NewFeed(url string, timeout time.Duration) *Feed {
	if url == "" {
		url = DefaultFeedURL
	}
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Feed{
		URL:       url,
		UserAgent: DefaultUserAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Latest performs one GET against the feed.
func (f *Feed) Latest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, &NetworkError{URL: f.URL, Err: err}
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: f.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: f.URL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBody))
	if err != nil {
		return nil, &NetworkError{URL: f.URL, Err: err}
	}

	var rel Release
	if err := json.Unmarshal(data, &rel); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &rel, nil
}
