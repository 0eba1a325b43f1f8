package rate

import (
	"context"
	"testing"
	"time"
)

func TestThrottle(t *testing.T) {
	burst := 1

	interval := 10 * time.Millisecond
	lim := Every(interval)
	th := NewThrottle(burst, 100, lim)

	tooshort := 1 * time.Millisecond

	endpoint := "/courses"
	expected := []bool{true, false, true, true, false, false}
	waits := []time.Duration{tooshort, interval, interval, tooshort, tooshort, tooshort}
	for i, exp := range expected {
		if got := th.Allow(endpoint); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestThrottlePerEndpoint(t *testing.T) {
	burst := 1

	interval := time.Minute
	th := NewThrottle(burst, 100, Every(interval))

	if got := th.Allow("/courses"); !got {
		t.Fatal("first request on /courses should pass")
	}
	if got := th.Allow("/courses"); got {
		t.Fatal("second request on /courses should be throttled")
	}

	if got := th.Allow("/posts"); !got {
		t.Fatal("endpoints must not share limiters")
	}
}

func TestThrottleWait(t *testing.T) {
	th := NewThrottle(1, 100, Every(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := th.Wait(ctx, "/cart"); err != nil {
		t.Fatalf("first wait should not block: %v", err)
	}
	if err := th.Wait(ctx, "/cart"); err == nil {
		t.Fatal("second wait should fail once the context expires")
	}
}
