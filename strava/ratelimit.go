package strava

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	rateLimitUsageHeader = "X-RateLimit-Usage"
	rateLimitLimitHeader = "X-RateLimit-Limit"
)

// RateUsage is a snapshot of the application's request budget. Strava counts
// requests in a 15 minute window and a daily window.
type RateUsage struct {
	ShortTermUsage int
	DailyUsage     int
	ShortTermLimit int
	DailyLimit     int
	UpdatedAt      time.Time
}

// ShortTermPercent is the share of the 15 minute limit used, or 0 if no limit
// has been seen yet.
func (u RateUsage) ShortTermPercent() float64 {
	return percent(u.ShortTermUsage, u.ShortTermLimit)
}

func (u RateUsage) DailyPercent() float64 {
	return percent(u.DailyUsage, u.DailyLimit)
}

func percent(used, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return float64(used) * 100 / float64(limit)
}

// RateLimit holds the latest usage reported by Strava.
type RateLimit struct {
	mu    sync.RWMutex
	usage RateUsage
}

func (r *RateLimit) Usage() RateUsage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usage
}

// record reads both headers from h. Missing or malformed headers leave the
// previous values in place.
func (r *RateLimit) record(h http.Header, now time.Time) bool {
	shortUsage, dailyUsage, usageOK := parsePair(h.Get(rateLimitUsageHeader))
	shortLimit, dailyLimit, limitOK := parsePair(h.Get(rateLimitLimitHeader))
	if !usageOK && !limitOK {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if usageOK {
		r.usage.ShortTermUsage = shortUsage
		r.usage.DailyUsage = dailyUsage
	}
	if limitOK {
		r.usage.ShortTermLimit = shortLimit
		r.usage.DailyLimit = dailyLimit
	}
	r.usage.UpdatedAt = now
	return true
}

// parsePair parses a "15-minute,daily" header value.
func parsePair(v string) (int, int, bool) {
	if v == "" {
		return 0, 0, false
	}
	first, second, ok := strings.Cut(v, ",")
	if !ok {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

type rateLimitTransport struct {
	base   http.RoundTripper
	limits *RateLimit
	logger Logger
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if t.limits.record(resp.Header, time.Now()) {
		usage := t.limits.Usage()
		if usage.ShortTermPercent() >= 90 || usage.DailyPercent() >= 90 {
			t.logger.Printf("strava: rate limit nearly exhausted (15-min %d/%d, daily %d/%d)",
				usage.ShortTermUsage, usage.ShortTermLimit, usage.DailyUsage, usage.DailyLimit)
		}
	}
	return resp, nil
}
