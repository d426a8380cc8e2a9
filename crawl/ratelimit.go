package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/docsum"
	"golang.org/x/time/rate"
)

var _ docsum.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps page loads on one host at least an interval apart.
// Each host gets its own token bucket with a burst of one.
type DomainLimiter struct {
	interval time.Duration

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter with the given spacing. A zero or
// negative interval never blocks.
func NewDomainLimiter(interval time.Duration) *DomainLimiter {
	return &DomainLimiter{interval: interval, hosts: make(map[string]*rate.Limiter)}
}

// Wait blocks until a request to host may start, or ctx ends.
// Host names are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.limiterFor(strings.ToLower(host)).Wait(ctx)
}

func (d *DomainLimiter) limiterFor(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l, ok := d.hosts[host]; ok {
		return l
	}
	every := rate.Inf
	if d.interval > 0 {
		every = rate.Every(d.interval)
	}
	l := rate.NewLimiter(every, 1)
	d.hosts[host] = l
	return l
}
