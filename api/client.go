// Package api is the shared HTTP client for the engpro remote API. Every
// call goes out with credentials (cookie jar), an X-Request-Id header and
// the outbound throttle, and every response is normalized from the server
// envelope {data, code, message} into data bytes or an apierr error.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/engpro/engpro-go/apierr"
	"github.com/engpro/engpro-go/random"
	"github.com/engpro/engpro-go/rate"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

const RequestIDHeader = "X-Request-Id"

// maxResponseSize bounds how much of a response body is read. The API's
// largest list pages are a few hundred KB; anything past this is a broken
// or hostile response, reported instead of truncated.
const maxResponseSize = 16 << 20

var reqID int64

var reqPrefix = random.String(10)

func nextRequestID() string {
	return fmt.Sprintf("%s-%d", reqPrefix, atomic.AddInt64(&reqID, 1))
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Log     logrus.FieldLogger

	// Outbound throttle per endpoint path; zero RPS disables it.
	RPS   float64
	Burst int

	DisableBreaker bool
}

type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

type Client struct {
	base     *url.URL
	http     *http.Client
	log      logrus.FieldLogger
	breaker  *gobreaker.CircuitBreaker[reply]
	throttle *rate.Throttle
}

type reply struct {
	status int
	body   []byte
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", cfg.BaseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("building cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	c := &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: timeout},
		log:  log,
	}

	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst == 0 {
			burst = 5
		}
		c.throttle = rate.NewThrottle(burst, 10, cfg.RPS)
	}

	if !cfg.DisableBreaker {
		c.breaker = gobreaker.NewCircuitBreaker[reply](gobreaker.Settings{
			Name:        "engpro-api",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < 10 {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state change")
			},
		})
	}

	return c, nil
}

// Do issues one request and returns the envelope's data bytes. Errors are
// always apierr values; transport failures and breaker rejections collapse
// to NetworkOrServer.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx, endpointOf(path)); err != nil {
			return nil, apierr.Network(fmt.Errorf("throttled %s %s: %w", method, path, err))
		}
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, apierr.Network(fmt.Errorf("marshaling request body: %w", err))
		}
	}

	rid := nextRequestID()
	log := c.log.WithFields(logrus.Fields{
		"req_id": rid,
		"method": method,
		"path":   path,
	})

	log.Info("started")
	startTime := time.Now().UTC()

	rep, err := c.send(ctx, method, path, query, payload, rid)

	log = log.WithField("since", time.Since(startTime).Nanoseconds())
	if err != nil {
		log.WithField("message", err).Info("completed")
		return nil, apierr.Network(fmt.Errorf("%s %s: %w", method, path, err))
	}
	log.WithField("statuscode", rep.status).Info("completed")

	return normalize(rep)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, rid string) (reply, error) {
	run := func() (reply, error) {
		u := *c.base
		u.Path = strings.TrimRight(u.Path, "/") + path
		if query != nil {
			u.RawQuery = query.Encode()
		}

		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
		if err != nil {
			return reply{}, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set(RequestIDHeader, rid)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return reply{}, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
		if err != nil {
			return reply{}, fmt.Errorf("reading response body: %w", err)
		}
		if len(b) > maxResponseSize {
			return reply{}, fmt.Errorf("response body exceeds %d bytes", maxResponseSize)
		}

		rep := reply{status: resp.StatusCode, body: b}

		// Only transport failures and 5xx count against the breaker;
		// enveloped client errors are healthy responses.
		if resp.StatusCode >= http.StatusInternalServerError {
			return rep, fmt.Errorf("server responded %s", resp.Status)
		}
		return rep, nil
	}

	var rep reply
	var err error
	if c.breaker == nil {
		rep, err = run()
	} else {
		rep, err = c.breaker.Execute(run)
	}

	if err != nil && rep.status >= http.StatusInternalServerError {
		// a 5xx still carries an envelope worth normalizing
		return rep, nil
	}
	return rep, err
}

func normalize(rep reply) (json.RawMessage, error) {
	var env Envelope
	if len(rep.body) > 0 {
		if err := json.Unmarshal(rep.body, &env); err != nil {
			return nil, apierr.Network(fmt.Errorf("decoding response envelope: %w", err))
		}
	}

	if env.Code != "" {
		msg := env.Message
		if msg == "" {
			msg = env.Code
		}
		return nil, apierr.FromCode(env.Code, fmt.Errorf("server error: %s", msg))
	}

	if rep.status < http.StatusOK || rep.status >= http.StatusMultipleChoices {
		return nil, fromStatus(rep.status)
	}

	return env.Data, nil
}

// fromStatus covers responses where the server skipped the envelope code,
// e.g. a proxy-level 502.
func fromStatus(status int) error {
	err := fmt.Errorf("unexpected status %d", status)
	switch status {
	case http.StatusUnauthorized:
		return apierr.NotAuthenticated(err)
	case http.StatusForbidden:
		return apierr.NotPermitted(err)
	case http.StatusNotFound:
		return apierr.Missing(err)
	case http.StatusConflict:
		return apierr.New(apierr.Conflict, err)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return apierr.Invalid(err)
	}
	return apierr.Network(err)
}

// endpointOf collapses a concrete path onto its first segment so all calls
// of one resource share a throttle bucket.
func endpointOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return "/" + trimmed[:i]
	}
	return "/" + trimmed
}
