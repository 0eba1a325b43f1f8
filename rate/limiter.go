// Package rate throttles the SDK's own outbound requests per endpoint path
// so bursts of page loads cannot hammer the remote API.
package rate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Throttle struct {
	Expiry    int
	Burst     int
	LimitRPS  float64
	endpoints map[string]*endpointLimiter
	mu        sync.Mutex
}

type endpointLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewThrottle(burst int, expiry int, limitRPS float64) *Throttle {
	endpoints := make(map[string]*endpointLimiter)
	th := &Throttle{
		Expiry:    expiry,
		LimitRPS:  limitRPS,
		Burst:     burst,
		endpoints: endpoints,
	}
	go th.refresh()
	return th
}

func (t *Throttle) get(endpoint string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	el, ok := t.endpoints[endpoint]
	if !ok {
		el = &endpointLimiter{limiter: rate.NewLimiter(rate.Limit(t.LimitRPS), t.Burst)}
		t.endpoints[endpoint] = el
	}
	el.lastAccess = time.Now()
	return el.limiter
}

// Allow reports whether a request to the endpoint may fire now.
func (t *Throttle) Allow(endpoint string) bool {
	return t.get(endpoint).Allow()
}

// Wait blocks until the endpoint's limiter grants a slot or ctx is done.
func (t *Throttle) Wait(ctx context.Context, endpoint string) error {
	return t.get(endpoint).Wait(ctx)
}

func (t *Throttle) refresh() {
	for {
		time.Sleep(time.Minute)

		t.mu.Lock()
		for endpoint, v := range t.endpoints {
			if time.Since(v.lastAccess) > time.Duration(t.Expiry)*time.Minute {
				delete(t.endpoints, endpoint)
			}
		}
		t.mu.Unlock()
	}
}

func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}
