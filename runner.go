package websuite

import (
	"fmt"
	"path/filepath"

	"github.com/golang/glog"
)

// Test is one end-to-end test.
type Test interface {
	Name() string
	Run(s *Session) error
}

// Setupper is implemented by tests that prepare state before Run.
type Setupper interface {
	Setup(s *Session) error
}

// TearDowner is implemented by tests that clean up after Run. Teardown runs
// whether or not Setup and Run succeeded.
type TearDowner interface {
	Teardown(s *Session) error
}

// Describer is implemented by tests that describe themselves in the log.
type Describer interface {
	Description() string
}

type funcTest struct {
	name string
	fn   func(*Session) error
}

func (t funcTest) Name() string         { return t.name }
func (t funcTest) Run(s *Session) error { return t.fn(s) }

// NewTest returns a Test that runs fn.
func NewTest(name string, fn func(*Session) error) Test {
	return funcTest{name: name, fn: fn}
}

// Run opens a session, runs the test and shuts the session down. Teardown and
// shutdown happen on every path, including panics. A session that cannot be
// opened yields the failed outcome.
func Run(cfg *Config, t Test, opts ...SessionOption) Outcome {
	glog.Infof(":: {BEGIN} [%s] ++++++++++++++++++", t.Name())
	s, err := NewSession(cfg, opts...)
	if err != nil {
		glog.Errorf("-- ERROR: %v", err)
		glog.Infof("-- FAILED !")
		return Outcome{Passed: false, ExitCode: cfg.StatusFailed}
	}
	return s.CleanShutdown(runTest(s, t))
}

func runTest(s *Session, t Test) (passed bool) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(t.Name(), fmt.Errorf("panic: %v", r))
			passed = false
		}
		if err := teardown(s, t); err != nil {
			glog.Errorf("-- teardown failed: %v", err)
			passed = false
		}
	}()

	glog.Infof(":: [SETUP]")
	if d, ok := t.(Describer); ok && d.Description() != "" {
		glog.Infof("   [description] : %s", d.Description())
	}
	if su, ok := t.(Setupper); ok {
		if err := su.Setup(s); err != nil {
			s.fail(t.Name(), err)
			return false
		}
	}
	if err := t.Run(s); err != nil {
		s.fail(t.Name(), err)
		return false
	}
	return true
}

func teardown(s *Session, t Test) (err error) {
	td, ok := t.(TearDowner)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	glog.Infof(":: [TEARDOWN]")
	return td.Teardown(s)
}

// fail logs a test failure and saves the diagnostics: a screenshot in the
// reports directory, and the browser log when it is collected.
func (s *Session) fail(name string, err error) {
	glog.Errorf("FAILED: %v", err)
	s.dumpBrowserLog()
	if s.cfg.ReportsDir == "" {
		return
	}
	glog.Infof("-- CAPTURE SCREENSHOT ::")
	path := filepath.Join(s.cfg.ReportsDir, name+".png")
	if err := s.CaptureScreenshot(path); err != nil {
		glog.Errorf("FAILED TO CAPTURE SCREENSHOT: %v", err)
		return
	}
	glog.Infof("-- SCREENSHOT CAPTURED TO: {%s}", path)
}
