package websuite

import (
	"context"
	"net/http"
	"time"

	"github.com/golang/glog"
)

// Reachability probe timing.
const (
	ProbeQuantum = 5 * time.Second
	ProbeCeiling = 15 * time.Second
)

// prober checks that a Selenium server answers HTTP before a session is
// started.
type prober struct {
	client  *http.Client
	quantum time.Duration
	ceiling time.Duration
	now     func() time.Time
	sleep   func(time.Duration)
}

func newProber() *prober {
	return &prober{
		client:  &http.Client{},
		quantum: ProbeQuantum,
		ceiling: ProbeCeiling,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// probe requests url once per quantum until the server answers with a status
// that proves it is a live Selenium server, or the ceiling is reached. An
// attempt never outlives its quantum or the ceiling.
func (p *prober) probe(addr, url string) error {
	attempts := 0
	var lastErr error
	deadline := p.now().Add(p.ceiling)
	for start := p.now(); start.Before(deadline); start = p.now() {
		attempts++
		next := start.Add(p.quantum)
		if next.After(deadline) {
			next = deadline
		}
		alive, err := p.attempt(url, next.Sub(start))
		if alive {
			glog.Infof("-- SUCCESS      : Selenium Server is alive !")
			return nil
		}
		lastErr = err
		if wait := next.Sub(p.now()); wait > 0 {
			p.sleep(wait)
		}
	}
	return &ConnectionError{Addr: addr, Attempts: attempts, Err: lastErr}
}

// attempt sends one request bounded by timeout. The error is the transport
// error, nil when the server answered with a status that does not count.
func (p *prober) attempt(url string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		debugLog("probe %s: %v", url, err)
		return false, err
	}
	resp.Body.Close()
	debugLog("probe %s: %s", url, resp.Status)
	switch {
	// Selenium 2 answers the probe path with Forbidden or NotFound; a
	// reverse proxy in front of a stopped server answers BadGateway.
	case resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound,
		resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	}
	return false, nil
}
