package websuite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium/log"
)

// BodyTextRetryDelay is how long BodyText waits before its single retry.
const BodyTextRetryDelay = 3 * time.Second

// State is the lifecycle state of a Session.
type State int

// Session states.
const (
	StateConnecting State = iota
	StateVerified
	StateReady
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateVerified:
		return "verified"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is the result of a finished run. ExitCode is the configured
// STATUS_PASSED or STATUS_FAILED value.
type Outcome struct {
	Passed   bool
	ExitCode int
}

// DialFunc opens a backend of the given kind (KindSelenium or
// KindWebDriver).
type DialFunc func(cfg *Config, kind, baseURL string) (Driver, error)

// SessionOption configures a Session.
type SessionOption func(*Session) error

// WithDialer replaces the function that opens the backend.
func WithDialer(dial DialFunc) SessionOption {
	return func(s *Session) error {
		s.dial = dial
		return nil
	}
}

// WithProbe replaces the reachability probe. probe receives the server
// address and the URL to request.
func WithProbe(probe func(addr, url string) error) SessionOption {
	return func(s *Session) error {
		s.probe = probe
		return nil
	}
}

// WithSleep replaces the function used for every wait of the session.
func WithSleep(sleep func(time.Duration)) SessionOption {
	return func(s *Session) error {
		if sleep == nil {
			return errors.New("nil sleep function")
		}
		s.sleep = sleep
		return nil
	}
}

// Session drives one remote browser for the length of a test.
type Session struct {
	cfg     *Config
	baseURL string
	driver  Driver
	guard   *PageGuard
	poller  *Poller
	state   State
	service stopper

	dial  DialFunc
	probe func(addr, url string) error
	sleep func(time.Duration)
}

// NewSession probes the configured server and opens a browser session on
// it.
func NewSession(cfg *Config, opts ...SessionOption) (*Session, error) {
	s := &Session{
		cfg:     cfg,
		baseURL: cfg.BaseURL,
		state:   StateConnecting,
		dial:    dialBackend,
		probe:   newProber().probe,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	extra, err := compileSignatures(cfg.PageSignatures)
	if err != nil {
		return nil, err
	}
	s.guard = NewPageGuard(extra...)
	s.poller = &Poller{MaxSeconds: cfg.MaxSleepTime, Interval: time.Second, sleep: s.sleep}

	kind, err := cfg.DriverKind()
	if err != nil {
		return nil, err
	}

	glog.Infof("-- ENV          : %s/%s", runtime.GOOS, runtime.GOARCH)
	glog.Infof("-- Selenium Host: %s", cfg.SeleniumHost)
	glog.Infof("-- Selenium Port: %d", cfg.SeleniumPort)
	glog.Infof("-- BROWSER      : %s", cfg.Browser)
	glog.Infof("-- base_url     : %s", s.baseURL)

	if s.service, err = startService(cfg.Service, int(cfg.SeleniumPort)); err != nil {
		s.state = StateFailed
		return nil, err
	}

	if err := s.probe(cfg.Addr(), "http://"+cfg.Addr()+cfg.ProbePath); err != nil {
		s.abort()
		return nil, err
	}
	s.state = StateVerified

	d, err := s.dial(cfg, kind, s.baseURL)
	if err != nil {
		s.abort()
		return nil, fmt.Errorf("starting %s session: %w", kind, err)
	}
	s.driver = d
	glog.Infof("-- Driver       : %s", kind)

	if kind == KindSelenium && cfg.FullscreenMode {
		if err := d.Maximize(); err != nil {
			glog.Warningf("-- could not maximize the window: %v", err)
		}
	}
	s.state = StateReady
	return s, nil
}

func dialBackend(cfg *Config, kind, baseURL string) (Driver, error) {
	switch kind {
	case KindWebDriver:
		d, err := dialWebDriver(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindSelenium:
		d, err := dialRC(cfg, baseURL)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown driver kind %q", kind)
}

func (s *Session) abort() {
	s.state = StateFailed
	if s.service == nil {
		return
	}
	if err := s.service.Stop(); err != nil {
		glog.Warningf("-- stopping %s service: %v", s.cfg.Service.Kind, err)
	}
	s.service = nil
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Config returns the configuration the session was built from.
func (s *Session) Config() *Config { return s.cfg }

// Driver returns the backend.
func (s *Session) Driver() Driver { return s.driver }

// BaseURL returns the resolved base URL.
func (s *Session) BaseURL() string { return s.baseURL }

// CreateURL joins the base URL and a relative URL.
func (s *Session) CreateURL(relative string) string {
	return s.baseURL + relative
}

// Common returns a value of common.yaml.
func (s *Session) Common(key string) (interface{}, bool) {
	v, ok := s.cfg.Common[key]
	return v, ok
}

// CommonString returns a value of common.yaml as a string, or "" if the key
// is missing.
func (s *Session) CommonString(key string) string {
	v, ok := s.Common(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Navigate loads url.
func (s *Session) Navigate(url string) error {
	glog.Infof("-- navigating to: %s", url)
	return s.driver.Navigate(url)
}

// Click clicks the element found by locator.
func (s *Session) Click(locator string) error {
	debugLog("click %s", locator)
	return s.driver.Click(locator)
}

// PartialLinkTextClick clicks the first link whose text contains locator.
func (s *Session) PartialLinkTextClick(locator string) error {
	return s.driver.PartialLinkTextClick(locator)
}

// Type replaces the content of the element found by locator with text.
func (s *Session) Type(locator, text string) error {
	if err := s.driver.Clear(locator); err != nil {
		return err
	}
	return s.driver.Type(locator, text)
}

// Select picks option in the dropdown found by locator.
func (s *Session) Select(locator, option string) error {
	glog.Infof("-- selecting {%s} in {%s}", option, locator)
	return s.driver.Select(locator, option)
}

// Check checks a checkbox.
func (s *Session) Check(locator string) error {
	return s.driver.Check(locator)
}

// Uncheck unchecks a checkbox.
func (s *Session) Uncheck(locator string) error {
	return s.driver.Uncheck(locator)
}

// IsChecked reports whether a checkbox or radio button is checked.
func (s *Session) IsChecked(locator string) (bool, error) {
	return s.driver.IsChecked(locator)
}

// VerifyChecked fails unless the element found by locator is checked.
func (s *Session) VerifyChecked(locator string) error {
	glog.Infof("-- verifying if {%s} is checked...", locator)
	ok, err := s.IsChecked(locator)
	if err != nil {
		return err
	}
	if !ok {
		return verifyErrorf("option {%s} is not checked on the page", locator)
	}
	glog.Infof("-- OK")
	return nil
}

// IsSelected reports whether option is selected in the dropdown.
func (s *Session) IsSelected(locator, option string) (bool, error) {
	return s.driver.IsSelected(locator, option)
}

// VerifySelected fails unless option is selected in the dropdown.
func (s *Session) VerifySelected(locator, option string) error {
	glog.Infof("-- verifying if {%s} is selected...", option)
	ok, err := s.IsSelected(locator, option)
	if err != nil {
		return err
	}
	if !ok {
		return verifyErrorf("option {%s} is not selected on the page", option)
	}
	glog.Infof("-- OK")
	return nil
}

// MouseOver moves the pointer over an element.
func (s *Session) MouseOver(locator string) error {
	return s.driver.MouseOver(locator)
}

// MouseClick presses and releases the mouse over an element.
func (s *Session) MouseClick(locator string) error {
	return s.driver.MouseClick(locator)
}

// BodyText returns the page text. A failed read is retried once after
// BodyTextRetryDelay, since it usually means the page was still loading.
func (s *Session) BodyText() (string, error) {
	body, err := s.driver.BodyText()
	if err == nil {
		return body, nil
	}
	debugLog("reading body text: %v, retrying in %v", err, BodyTextRetryDelay)
	s.sleep(BodyTextRetryDelay)
	return s.driver.BodyText()
}

// HTMLSource returns the page markup.
func (s *Session) HTMLSource() (string, error) {
	return s.driver.HTMLSource()
}

// checkPage runs the page guard over the current body text.
func (s *Session) checkPage() (string, error) {
	body, err := s.BodyText()
	if err != nil {
		return "", err
	}
	return body, s.guard.Check(body)
}

// ElementExists checks the page for failure signatures and reports whether
// locator resolves to an element.
func (s *Session) ElementExists(locator string) (bool, error) {
	if _, err := s.checkPage(); err != nil {
		return false, err
	}
	return s.driver.IsElementPresent(locator), nil
}

// AnyElementExists reports whether any of the locators resolves.
func (s *Session) AnyElementExists(locators []string) (bool, error) {
	for _, l := range locators {
		ok, err := s.ElementExists(l)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// VerifyElement fails unless locator resolves.
func (s *Session) VerifyElement(locator string) error {
	glog.Infof("-- Verifying page elements...")
	ok, err := s.ElementExists(locator)
	if err != nil {
		return err
	}
	if !ok {
		return verifyErrorf("not able to verify element: %s", locator)
	}
	glog.Infof("-- OK: page element verified [ %s ] !", locator)
	return nil
}

// TextExists checks the page for failure signatures and reports whether the
// body contains text.
func (s *Session) TextExists(text string) (bool, error) {
	body, err := s.checkPage()
	if err != nil {
		return false, err
	}
	out := "-- does text exist ?: {" + text + "}"
	if !strings.Contains(body, text) {
		glog.Infof("%s :: no", out)
		return false, nil
	}
	glog.Infof("%s :: yes", out)
	return true, nil
}

// VerifyText fails unless the body contains text.
func (s *Session) VerifyText(text string) error {
	glog.Infof("-- Verifying page text: [ %s ]", text)
	ok, err := s.TextExists(text)
	if err != nil {
		return err
	}
	if !ok {
		return verifyErrorf("not able to verify text: %s", text)
	}
	glog.Infof("-- OK: page text verified [ %s ] !", text)
	return nil
}

// VerifyTextPattern fails unless the regular expression pattern matches the
// body.
func (s *Session) VerifyTextPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	body, err := s.checkPage()
	if err != nil {
		return err
	}
	glog.Infof("-- searching for text using pattern matching, text: {%s}", pattern)
	if !re.MatchString(body) {
		return verifyErrorf("not able to find text: {%s} anywhere in the page", pattern)
	}
	glog.Infof("-- OK: text {%s} verified", pattern)
	return nil
}

// MatchPattern reports whether pattern matches text, ignoring case. An
// invalid pattern matches nothing.
func MatchPattern(pattern, text string) bool {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		glog.Warningf("   => [WARNING]: invalid pattern {%s}: %v", pattern, err)
		return false
	}
	if !re.MatchString(text) {
		glog.Warningf("   => [WARNING]: not able to verify pattern {%s}, text follows:\n\n%s", pattern, text)
		return false
	}
	glog.Infof("   => [OK]: pattern {%s} verified", pattern)
	return true
}

// LocationHas reports whether the current URL matches pattern.
func (s *Session) LocationHas(pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	u, err := s.driver.CurrentURL()
	if err != nil {
		return false, err
	}
	return re.MatchString(u), nil
}

// VerifyLocation fails unless the current URL matches pattern.
func (s *Session) VerifyLocation(pattern string) error {
	glog.Infof("-- checking if location (absolute url of this page) has pattern: {%s}", pattern)
	ok, err := s.LocationHas(pattern)
	if err != nil {
		return err
	}
	if !ok {
		return verifyErrorf("pattern {%s} not found in current page location", pattern)
	}
	glog.Infof("-- pattern matched")
	return nil
}

// ExtractTextAndCompare fails unless the text of the element found by
// locator equals want.
func (s *Session) ExtractTextAndCompare(locator, want string) error {
	glog.Infof("-- checking element [ %s ] for the following value: %s", locator, want)
	el, err := resolve(s.driver, "extract text", locator)
	if err != nil {
		return err
	}
	got, err := el.Text()
	if err != nil {
		return err
	}
	glog.Infof("-- current value in a given element: %s", got)
	if got != want {
		return verifyErrorf("%s not found in [ %s ], got %q", want, locator, got)
	}
	glog.Infof("-- OK: [ %s ] found!", want)
	return nil
}

// ClearCookie deletes the named cookie. options ("path=/, domain=...") are
// only honored by the legacy backend.
func (s *Session) ClearCookie(name, options string) error {
	glog.Infof("-- clearing cookie: %s with options [%s]...", name, options)
	if cookies, err := s.driver.Cookies(); err == nil {
		for _, c := range cookies {
			debugLog("-- cookies: name => %s || value => %s", c.Name, c.Value)
		}
	}
	return s.driver.DeleteCookie(name, options)
}

// Eval evaluates a JavaScript expression in the page.
func (s *Session) Eval(expression string) (string, error) {
	glog.Infof("-- evaluating expression: %s", expression)
	v, err := s.driver.Eval(expression)
	if err != nil {
		return "", err
	}
	glog.Infof("-- expression evaluated to: %s", v)
	return v, nil
}

// CaptureScreenshot writes a screenshot of the browser to path, creating
// the parent directory if needed.
func (s *Session) CaptureScreenshot(path string) error {
	img, err := s.driver.Screenshot()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, img, 0644)
}

// WaitForElement waits until locator resolves.
func (s *Session) WaitForElement(locator string) error {
	return s.poller.WaitUntilPresent(fmt.Sprintf("element (%s)", locator), func() (bool, error) {
		return s.ElementExists(locator)
	})
}

// WaitForAnyElement waits until one of the locators resolves.
func (s *Session) WaitForAnyElement(locators []string) error {
	return s.poller.WaitUntilPresent(fmt.Sprintf("any of the elements (%s)", strings.Join(locators, ", ")), func() (bool, error) {
		return s.AnyElementExists(locators)
	})
}

// WaitForElementToDisappear waits until locator no longer resolves.
func (s *Session) WaitForElementToDisappear(locator string) error {
	return s.poller.WaitUntilAbsent(fmt.Sprintf("element (%s)", locator), func() (bool, error) {
		return s.ElementExists(locator)
	})
}

// WaitForText waits until the body contains text.
func (s *Session) WaitForText(text string) error {
	return s.poller.WaitUntilPresent(fmt.Sprintf("text (%s)", text), func() (bool, error) {
		return s.TextExists(text)
	})
}

// WaitForTextToDisappear waits until the body no longer contains text. The
// page is checked for failure signatures again on every miss.
func (s *Session) WaitForTextToDisappear(text string) error {
	return s.poller.WaitUntilAbsent(fmt.Sprintf("text (%s)", text), func() (bool, error) {
		ok, err := s.TextExists(text)
		if err != nil || !ok {
			return ok, err
		}
		if _, err := s.checkPage(); err != nil {
			return false, err
		}
		return true, nil
	})
}

type browserLogger interface {
	BrowserLog() ([]log.Message, error)
}

// dumpBrowserLog logs the browser console when the backend collects it.
func (s *Session) dumpBrowserLog() {
	bl, ok := s.driver.(browserLogger)
	if !ok || s.cfg.BrowserLogLevel == "" {
		return
	}
	msgs, err := bl.BrowserLog()
	if err != nil {
		glog.Warningf("-- reading browser log: %v", err)
		return
	}
	for _, m := range msgs {
		glog.Infof("-- [browser %s] %s %s", m.Level, m.Timestamp.Format(time.RFC3339), m.Message)
	}
}

// CleanShutdown ends the session and reports the outcome. On failure the
// body text is logged when dump_body_on_error is set, and the browser is
// left open when debug_mode is set. A failure to quit the browser fails the
// outcome.
func (s *Session) CleanShutdown(passed bool) Outcome {
	glog.Infof("-- exiting test framework...")
	if !passed && s.cfg.DumpBodyOnError && s.driver != nil {
		if body, err := s.BodyText(); err != nil {
			glog.Warningf("-- could not read the body text: %v", err)
		} else {
			glog.Infof("%s", body)
		}
	}

	if passed || !s.cfg.DebugMode {
		if err := s.close(); err != nil {
			glog.Errorf("ERROR: %v", err)
			passed = false
		}
	} else {
		glog.Warningf("-- debug mode: leaving the browser open")
	}

	if passed {
		glog.Infof("-- PASSED !")
		return Outcome{Passed: true, ExitCode: s.cfg.StatusPassed}
	}
	glog.Infof("-- FAILED !")
	return Outcome{Passed: false, ExitCode: s.cfg.StatusFailed}
}

func (s *Session) close() error {
	var err error
	if s.driver != nil {
		err = s.driver.Quit()
	}
	if s.service != nil {
		if serr := s.service.Stop(); serr != nil && err == nil {
			err = serr
		}
		s.service = nil
	}
	if err != nil {
		s.state = StateFailed
		return err
	}
	s.state = StateClosed
	return nil
}
