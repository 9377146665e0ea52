package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

// MaxDetailBatch is the upstream limit on IDs per videos.list call.
const MaxDetailBatch = 50

// Requester is the credential-rotating HTTP layer the client calls through.
type Requester interface {
	Request(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)
}

// Client wraps the YouTube Data API search and videos endpoints, pacing
// calls so a run never bursts against the quota.
type Client struct {
	pool           Requester
	limiter        *rate.Limiter
	resultsPerPage int
	lookbackDays   int
}

// Config configures a Client.
type Config struct {
	ResultsPerPage int // default 50
	LookbackDays   int // publishedAfter lower bound; default 14
	CallsPerSecond float64
}

// New creates a Client over the given requester.
func New(pool Requester, cfg Config) *Client {
	if cfg.ResultsPerPage <= 0 {
		cfg.ResultsPerPage = 50
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 14
	}
	if cfg.CallsPerSecond <= 0 {
		cfg.CallsPerSecond = 2
	}
	return &Client{
		pool:           pool,
		limiter:        rate.NewLimiter(rate.Limit(cfg.CallsPerSecond), 1),
		resultsPerPage: cfg.ResultsPerPage,
		lookbackDays:   cfg.LookbackDays,
	}
}

// SearchPage is one page of search results: video IDs plus the opaque token
// for the next page, empty when exhausted.
type SearchPage struct {
	VideoIDs      []string
	NextPageToken string
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// Search fetches one page of recent videos matching the query, ordered by
// publish date and bounded below by the lookback window.
func (c *Client) Search(ctx context.Context, query, pageToken string) (*SearchPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	after := time.Now().UTC().AddDate(0, 0, -c.lookbackDays).Format(time.RFC3339)
	params := url.Values{
		"part":           {"snippet"},
		"type":           {"video"},
		"maxResults":     {strconv.Itoa(c.resultsPerPage)},
		"q":              {query},
		"order":          {"date"},
		"publishedAfter": {after},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	raw, err := c.pool.Request(ctx, "search", params)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("search %q: parse response: %w", query, err)
	}

	page := &SearchPage{NextPageToken: resp.NextPageToken}
	for _, it := range resp.Items {
		if it.ID.VideoID == "" {
			continue
		}
		page.VideoIDs = append(page.VideoIDs, it.ID.VideoID)
	}
	return page, nil
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			Tags         []string `json:"tags"`
			ChannelID    string   `json:"channelId"`
			ChannelTitle string   `json:"channelTitle"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Videos fetches statistics and snippets for up to MaxDetailBatch IDs.
// Malformed records (missing id, unparsable or non-positive view count) are
// skipped, not fatal: one bad record must never sink a run.
func (c *Client) Videos(ctx context.Context, ids []string) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxDetailBatch {
		return nil, fmt.Errorf("videos: batch of %d exceeds limit of %d", len(ids), MaxDetailBatch)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"part": {"statistics,snippet"},
		"id":   {strings.Join(ids, ",")},
	}

	raw, err := c.pool.Request(ctx, "videos", params)
	if err != nil {
		return nil, fmt.Errorf("videos: %w", err)
	}

	var resp videosResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("videos: parse response: %w", err)
	}

	items := make([]model.Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID == "" {
			log.Printf("youtube: skipping record with empty id")
			continue
		}
		views, err := strconv.ParseInt(it.Statistics.ViewCount, 10, 64)
		if err != nil || views <= 0 {
			log.Printf("youtube: skipping %s: bad view count %q", it.ID, it.Statistics.ViewCount)
			continue
		}
		items = append(items, model.Item{
			VideoID:      it.ID,
			Title:        it.Snippet.Title,
			Tags:         it.Snippet.Tags,
			Description:  it.Snippet.Description,
			ChannelID:    it.Snippet.ChannelID,
			ChannelTitle: it.Snippet.ChannelTitle,
			ViewCount:    views,
		})
	}
	return items, nil
}
