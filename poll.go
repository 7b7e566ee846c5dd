package websuite

import (
	"time"
)

// Poller evaluates a condition once per Interval until it reaches a target
// value or the wait counter passes MaxSeconds.
//
// The counter starts at one and is bumped after every miss, so a ceiling of
// N allows N evaluations separated by N-1 sleeps.
type Poller struct {
	MaxSeconds int
	Interval   time.Duration

	sleep func(time.Duration)
}

// NewPoller returns a Poller with a one second interval.
func NewPoller(maxSeconds int) *Poller {
	return &Poller{MaxSeconds: maxSeconds, Interval: time.Second, sleep: time.Sleep}
}

// Until polls cond until it returns target. An error from cond ends the poll
// and is returned as is. desc names what is being waited for in the
// *TimeoutError.
func (p *Poller) Until(desc string, target bool, cond func() (bool, error)) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	elapsed := 1
	for {
		got, err := cond()
		if err != nil {
			return err
		}
		if got == target {
			return nil
		}
		elapsed++
		if elapsed > p.MaxSeconds {
			return &TimeoutError{Elapsed: elapsed, Description: desc}
		}
		sleep(p.Interval)
	}
}

// WaitUntilPresent polls until cond is true.
func (p *Poller) WaitUntilPresent(desc string, cond func() (bool, error)) error {
	return p.Until(desc+" to appear", true, cond)
}

// WaitUntilAbsent polls until cond is false.
func (p *Poller) WaitUntilAbsent(desc string, cond func() (bool, error)) error {
	return p.Until(desc+" to disappear", false, cond)
}
