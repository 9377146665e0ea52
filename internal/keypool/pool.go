package keypool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/jonghyochu-star/shots-radar/pkg/mask"
)

// DefaultBaseURL is the YouTube Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// DefaultFailureThreshold is how many consecutive quota failures a credential
// takes before it enters cooldown.
const DefaultFailureThreshold = 2

const maxErrorBodyLen = 300

// credential is one API key plus its rotation state. Owned exclusively by
// the pool; mutated only during request handling.
type credential struct {
	key           string
	failures      int
	cooldownUntil time.Time
}

// Config configures a Pool.
type Config struct {
	Keys             []string
	FailureThreshold int            // consecutive quota failures before cooldown; default 2
	Cooldown         CooldownPolicy // default FixedCooldown(time.Hour)
	RotateOnSuccess  bool           // advance past a working key instead of sticking with it
	BaseURL          string         // default DefaultBaseURL
	HTTPClient       *http.Client
}

// Pool rotates API credentials across requests, benching keys that keep
// hitting quota limits. It is built for a single sequential run: there is no
// concurrent access, so no locking.
type Pool struct {
	creds     []*credential
	cursor    int
	threshold int
	cooldown  CooldownPolicy
	rotate    bool
	baseURL   string
	client    *http.Client

	now func() time.Time
}

// New creates a credential pool. Empty key entries are dropped; at least one
// usable key is required.
func New(cfg Config) (*Pool, error) {
	var creds []*credential
	for _, k := range cfg.Keys {
		if k == "" {
			continue
		}
		creds = append(creds, &credential{key: k})
	}
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}

	p := &Pool{
		creds:     creds,
		threshold: cfg.FailureThreshold,
		cooldown:  cfg.Cooldown,
		rotate:    cfg.RotateOnSuccess,
		baseURL:   cfg.BaseURL,
		client:    cfg.HTTPClient,
		now:       time.Now,
	}
	if p.threshold <= 0 {
		p.threshold = DefaultFailureThreshold
	}
	if p.cooldown == nil {
		p.cooldown = FixedCooldown(time.Hour)
	}
	if p.baseURL == "" {
		p.baseURL = DefaultBaseURL
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: 30 * time.Second}
	}
	return p, nil
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	return len(p.creds)
}

// outcome classifies a single attempt. Exactly one of the three drives the
// retry loop: success returns, quota rotates, hard aborts.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeQuota
	outcomeHard
)

// Request performs one logical GET against baseURL/endpoint with the given
// params, rotating credentials on quota failures. At most one attempt is
// made per known credential; if all of them fail retriably the call ends
// with ErrExhaustedCredentials. A hard upstream error (*APIError) aborts
// immediately without rotation.
func (p *Pool) Request(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	n := len(p.creds)
	if n == 0 {
		return nil, ErrNoCredentials
	}

	tried := make(map[*credential]bool, n)
	var lastErr error

	for attempt := 0; attempt < n; attempt++ {
		cred := p.pick(tried)
		if cred == nil {
			break
		}
		tried[cred] = true

		body, out, err := p.attempt(ctx, cred.key, endpoint, params)
		switch out {
		case outcomeSuccess:
			cred.failures = 0
			if p.rotate {
				p.cursor = (p.indexOf(cred) + 1) % n
			} else {
				p.cursor = p.indexOf(cred)
			}
			return body, nil

		case outcomeQuota:
			cred.failures++
			if cred.failures >= p.threshold {
				cred.cooldownUntil = p.cooldown.Until(p.now())
				log.Printf("keypool: key %s benched until %s after %d quota failures",
					mask.Key(cred.key), cred.cooldownUntil.Format(time.RFC3339), cred.failures)
			} else {
				log.Printf("keypool: quota failure on key %s, rotating", mask.Key(cred.key))
			}
			p.cursor = (p.indexOf(cred) + 1) % n
			lastErr = err

		case outcomeHard:
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w (last: %v)", ErrExhaustedCredentials, lastErr)
	}
	return nil, ErrExhaustedCredentials
}

// pick selects the next untried credential starting at the cursor, skipping
// any still in cooldown. When every remaining candidate is in cooldown the
// skip is waived and one is picked anyway (forced fallback): a run is better
// served by one optimistic attempt than by aborting without trying.
func (p *Pool) pick(tried map[*credential]bool) *credential {
	n := len(p.creds)
	now := p.now()

	for step := 0; step < n; step++ {
		c := p.creds[(p.cursor+step)%n]
		if tried[c] || now.Before(c.cooldownUntil) {
			continue
		}
		return c
	}

	// Forced fallback: everything usable is in cooldown.
	for step := 0; step < n; step++ {
		c := p.creds[(p.cursor+step)%n]
		if tried[c] {
			continue
		}
		log.Printf("keypool: all keys in cooldown, forcing attempt with %s", mask.Key(c.key))
		return c
	}
	return nil
}

func (p *Pool) indexOf(cred *credential) int {
	for i, c := range p.creds {
		if c == cred {
			return i
		}
	}
	return 0
}

// attempt issues one GET with the given key embedded in the query string and
// classifies the response.
func (p *Pool) attempt(ctx context.Context, key, endpoint string, params url.Values) (json.RawMessage, outcome, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("key", key)

	reqURL := p.baseURL + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, outcomeHard, fmt.Errorf("keypool: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// Transport errors rotate like quota failures: the next key may go
		// out through a different connection.
		return nil, outcomeQuota, fmt.Errorf("keypool: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, outcomeQuota, fmt.Errorf("keypool: read %s response: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Some quota responses come back 200 with an error payload.
		if isQuotaBody(body) {
			return nil, outcomeQuota, fmt.Errorf("keypool: %s: quota error payload", endpoint)
		}
		return json.RawMessage(body), outcomeSuccess, nil

	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return nil, outcomeQuota, fmt.Errorf("keypool: %s: HTTP %d", endpoint, resp.StatusCode)

	default:
		if isQuotaBody(body) {
			return nil, outcomeQuota, fmt.Errorf("keypool: %s: HTTP %d quota payload", endpoint, resp.StatusCode)
		}
		return nil, outcomeHard, &APIError{Status: resp.StatusCode, Body: truncate(string(body), maxErrorBodyLen)}
	}
}

var (
	quotaReasonRe  = regexp.MustCompile(`(?i)quota|dailyLimitExceeded|rateLimitExceeded|quotaExceeded`)
	quotaMessageRe = regexp.MustCompile(`(?i)quota|exceed(ed)?|daily\s*limit`)
)

// quotaErrorBody is the subset of the upstream error envelope needed to spot
// quota-shaped payloads.
type quotaErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// isQuotaBody reports whether the payload carries a quota-style error,
// regardless of HTTP status.
func isQuotaBody(body []byte) bool {
	var e quotaErrorBody
	if err := json.Unmarshal(body, &e); err != nil {
		return false
	}
	for _, item := range e.Error.Errors {
		if quotaReasonRe.MatchString(item.Reason + " " + item.Message) {
			return true
		}
	}
	return e.Error.Message != "" && quotaMessageRe.MatchString(e.Error.Message)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
