package websuite

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/log"
)

var errNoSuchElement = errors.New("no such element")

// fakeElement implements the parts of selenium.WebElement the backend uses.
// Calling any other method panics.
type fakeElement struct {
	selenium.WebElement

	text     string
	typed    string
	selected bool
	clicks   int
	moves    int
	options  []*fakeElement
	// xpaths records the option queries made against a dropdown.
	xpaths []string
}

func (e *fakeElement) Click() error {
	e.clicks++
	e.selected = !e.selected
	return nil
}

func (e *fakeElement) SendKeys(keys string) error {
	e.typed += keys
	return nil
}

func (e *fakeElement) Clear() error {
	e.typed = ""
	return nil
}

func (e *fakeElement) Text() (string, error) { return e.text, nil }

func (e *fakeElement) IsSelected() (bool, error) { return e.selected, nil }

func (e *fakeElement) MoveTo(x, y int) error {
	e.moves++
	return nil
}

func (e *fakeElement) FindElements(by, value string) ([]selenium.WebElement, error) {
	e.xpaths = append(e.xpaths, value)
	var found []selenium.WebElement
	for _, o := range e.options {
		switch {
		case by == selenium.ByTagName:
			found = append(found, o)
		case strings.HasPrefix(value, ".//option[normalize-space(.) = "):
			if value == `.//option[normalize-space(.) = "`+escapeQuotes(strings.Join(strings.Fields(o.text), " "))+`"]` {
				found = append(found, o)
			}
		case strings.HasPrefix(value, ".//option[contains(., "):
			sub := strings.TrimSuffix(strings.TrimPrefix(value, `.//option[contains(., "`), `")]`)
			if strings.Contains(o.text, sub) {
				found = append(found, o)
			}
		}
	}
	return found, nil
}

// fakeWebDriver implements the parts of selenium.WebDriver the backend uses.
type fakeWebDriver struct {
	selenium.WebDriver

	elements map[string]*fakeElement // keyed by "by=value"
	url      string
	source   string
	cookies  []selenium.Cookie
	scripts  []string
	version  string
	clicks   []int
	quits    int
	logs     []log.Message
}

func (d *fakeWebDriver) FindElement(by, value string) (selenium.WebElement, error) {
	if e, ok := d.elements[by+"="+value]; ok {
		return e, nil
	}
	return nil, errNoSuchElement
}

func (d *fakeWebDriver) Get(url string) error {
	if strings.Contains(url, "unreachable") {
		return errors.New("unknown error: net::ERR_NAME_NOT_RESOLVED")
	}
	d.url = url
	return nil
}

func (d *fakeWebDriver) CurrentURL() (string, error) { return d.url, nil }

func (d *fakeWebDriver) PageSource() (string, error) { return d.source, nil }

func (d *fakeWebDriver) GetCookies() ([]selenium.Cookie, error) { return d.cookies, nil }

func (d *fakeWebDriver) DeleteCookie(name string) error {
	var kept []selenium.Cookie
	for _, c := range d.cookies {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	d.cookies = kept
	return nil
}

func (d *fakeWebDriver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	d.scripts = append(d.scripts, script)
	switch script {
	case "return document.title":
		return "Home", nil
	case "return 6*7":
		return float64(42), nil
	}
	return nil, nil
}

func (d *fakeWebDriver) Click(button int) error {
	d.clicks = append(d.clicks, button)
	return nil
}

func (d *fakeWebDriver) Status() (*selenium.Status, error) {
	s := &selenium.Status{}
	s.Build.Version = d.version
	return s, nil
}

func (d *fakeWebDriver) Log(typ log.Type) ([]log.Message, error) {
	if typ != log.Browser {
		return nil, errors.New("unexpected log type")
	}
	return d.logs, nil
}

func (d *fakeWebDriver) Quit() error {
	d.quits++
	return nil
}

func newFakeWebDriver() *fakeWebDriver {
	return &fakeWebDriver{elements: map[string]*fakeElement{}}
}

func (d *fakeWebDriver) add(by, value string, e *fakeElement) *fakeElement {
	d.elements[by+"="+value] = e
	return e
}

func TestWebDriverLocate(t *testing.T) {
	fwd := newFakeWebDriver()
	q := fwd.add(selenium.ByID, "q", &fakeElement{})
	fwd.add(selenium.ByLinkText, "Sign in", &fakeElement{})
	fwd.add(selenium.ByXPATH, "//div[2]", &fakeElement{})
	d := &wdDriver{wd: fwd}

	tests := []struct {
		locator string
		want    bool
	}{
		{"id=q", true},
		{"link=Sign in", true},
		{"//div[2]", true},
		{"id=missing", false},
		{"css=div.q", false},
		{"q", false},
	}
	for _, tc := range tests {
		if got := d.IsElementPresent(tc.locator); got != tc.want {
			t.Errorf("IsElementPresent(%q) = %t, want %t", tc.locator, got, tc.want)
		}
	}

	el, ok := d.Locate("id=q")
	if !ok {
		t.Fatal("Locate(id=q) = false, want true")
	}
	if el != Element(q) {
		t.Errorf("Locate(id=q) returned %v, want the q element", el)
	}
}

func TestWebDriverInteractions(t *testing.T) {
	fwd := newFakeWebDriver()
	q := fwd.add(selenium.ByID, "q", &fakeElement{})
	box := fwd.add(selenium.ByID, "box", &fakeElement{})
	link := fwd.add(selenium.ByPartialLinkText, "Next", &fakeElement{})
	d := &wdDriver{wd: fwd}

	if err := d.Type("id=q", "golang"); err != nil {
		t.Fatalf("Type() returned error: %v", err)
	}
	if q.typed != "golang" {
		t.Errorf("typed = %q, want %q", q.typed, "golang")
	}
	if err := d.Clear("id=q"); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}
	if q.typed != "" {
		t.Errorf("typed after Clear = %q, want empty", q.typed)
	}

	// Check and Uncheck click only when the state changes.
	for _, step := range []func(string) error{d.Check, d.Check, d.Uncheck, d.Uncheck} {
		if err := step("id=box"); err != nil {
			t.Fatalf("Check/Uncheck returned error: %v", err)
		}
	}
	if box.clicks != 2 {
		t.Errorf("checkbox clicked %d times, want 2", box.clicks)
	}
	checked, err := d.IsChecked("id=box")
	if err != nil || checked {
		t.Errorf("IsChecked() = %t, %v, want false", checked, err)
	}

	if err := d.PartialLinkTextClick("link=Next"); err != nil {
		t.Fatalf("PartialLinkTextClick() returned error: %v", err)
	}
	if link.clicks != 1 {
		t.Errorf("link clicked %d times, want 1", link.clicks)
	}

	if err := d.MouseOver("id=q"); err != nil {
		t.Fatalf("MouseOver() returned error: %v", err)
	}
	if err := d.MouseClick("id=q"); err != nil {
		t.Fatalf("MouseClick() returned error: %v", err)
	}
	if q.moves != 2 {
		t.Errorf("pointer moved to element %d times, want 2", q.moves)
	}
	if diff := cmp.Diff([]int{selenium.LeftButton}, fwd.clicks); diff != "" {
		t.Errorf("mouse buttons differ (-want/+got):\n%s", diff)
	}
}

func TestWebDriverMissingElement(t *testing.T) {
	d := &wdDriver{wd: newFakeWebDriver()}
	ops := map[string]func() error{
		"click":                   func() error { return d.Click("id=nope") },
		"type":                    func() error { return d.Type("id=nope", "x") },
		"select":                  func() error { return d.Select("id=nope", "x") },
		"check":                   func() error { return d.Check("id=nope") },
		"partial link text click": func() error { return d.PartialLinkTextClick("link=nope") },
		"unsupported":             func() error { return d.Click("css=.nope") },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrElementNotFound) {
			t.Errorf("%s: got %v, want ErrElementNotFound", name, err)
		}
	}
}

func TestWebDriverSelect(t *testing.T) {
	one := &fakeElement{text: "One"}
	two := &fakeElement{text: "  Two  "}
	quoted := &fakeElement{text: `Say "hi"`}
	fwd := newFakeWebDriver()
	list := fwd.add(selenium.ByID, "list", &fakeElement{options: []*fakeElement{one, two, quoted}})
	d := &wdDriver{wd: fwd}

	if err := d.Select("id=list", "Two"); err != nil {
		t.Fatalf("Select(Two) returned error: %v", err)
	}
	if !two.selected || one.selected {
		t.Errorf("after Select(Two): one.selected = %t, two.selected = %t", one.selected, two.selected)
	}
	// Selecting the selected option does not click it again.
	if err := d.Select("id=list", "Two"); err != nil {
		t.Fatalf("Select(Two) returned error: %v", err)
	}
	if two.clicks != 1 {
		t.Errorf("option clicked %d times, want 1", two.clicks)
	}

	if err := d.Select("id=list", `Say "hi"`); err != nil {
		t.Fatalf(`Select(Say "hi") returned error: %v`, err)
	}
	if want := `.//option[normalize-space(.) = "Say \"hi\""]`; list.xpaths[len(list.xpaths)-1] != want {
		t.Errorf("option query = %q, want %q", list.xpaths[len(list.xpaths)-1], want)
	}

	if err := d.Select("id=list", "Three"); err == nil || !strings.Contains(err.Error(), "can't find option {Three}") {
		t.Errorf("Select(Three) = %v, want a missing option error", err)
	}

	for _, tc := range []struct {
		option string
		want   bool
	}{{"Two", true}, {"One", false}, {"Three", false}} {
		got, err := d.IsSelected("id=list", tc.option)
		if err != nil || got != tc.want {
			t.Errorf("IsSelected(%q) = %t, %v, want %t", tc.option, got, err, tc.want)
		}
	}
}

func TestWebDriverPage(t *testing.T) {
	fwd := newFakeWebDriver()
	fwd.add(selenium.ByTagName, "body", &fakeElement{text: "Hello"})
	fwd.add(selenium.ByID, "msg", &fakeElement{text: "Hi there"})
	fwd.source = "<html><body>Hello</body></html>"
	fwd.cookies = []selenium.Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	d := &wdDriver{wd: fwd}

	if err := d.Navigate("http://example.test/"); err != nil {
		t.Fatalf("Navigate() returned error: %v", err)
	}
	if err := d.Navigate("http://unreachable.test/"); !errors.Is(err, ErrNavigation) {
		t.Errorf("Navigate(unreachable) = %v, want ErrNavigation", err)
	}
	u, err := d.CurrentURL()
	if err != nil || u != "http://example.test/" {
		t.Errorf("CurrentURL() = %q, %v", u, err)
	}
	body, err := d.BodyText()
	if err != nil || body != "Hello" {
		t.Errorf("BodyText() = %q, %v, want %q", body, err, "Hello")
	}
	text, err := d.Text("id=msg")
	if err != nil || text != "Hi there" {
		t.Errorf("Text() = %q, %v, want %q", text, err, "Hi there")
	}
	src, err := d.HTMLSource()
	if err != nil || src != fwd.source {
		t.Errorf("HTMLSource() = %q, %v", src, err)
	}

	if err := d.DeleteCookie("a", "path=/"); err != nil {
		t.Fatalf("DeleteCookie() returned error: %v", err)
	}
	cookies, err := d.Cookies()
	if err != nil {
		t.Fatalf("Cookies() returned error: %v", err)
	}
	if diff := cmp.Diff([]selenium.Cookie{{Name: "b", Value: "2"}}, cookies); diff != "" {
		t.Errorf("Cookies() after DeleteCookie returned diff (-want/+got):\n%s", diff)
	}
}

func TestWebDriverEval(t *testing.T) {
	fwd := newFakeWebDriver()
	d := &wdDriver{wd: fwd}

	tests := []struct {
		expr string
		want string
	}{
		{"document.title", "Home"},
		{"6*7", "42"},
		{"undefined", ""},
	}
	for _, tc := range tests {
		got, err := d.Eval(tc.expr)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Errorf("Eval(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
	if diff := cmp.Diff([]string{"return document.title", "return 6*7", "return undefined"}, fwd.scripts); diff != "" {
		t.Errorf("scripts differ (-want/+got):\n%s", diff)
	}
}

func TestWebDriverQuit(t *testing.T) {
	fwd := newFakeWebDriver()
	d := &wdDriver{wd: fwd}
	for i := 0; i < 2; i++ {
		if err := d.Quit(); err != nil {
			t.Fatalf("Quit() returned error: %v", err)
		}
	}
	if fwd.quits != 1 {
		t.Errorf("Quit sent %d times, want 1", fwd.quits)
	}
	var never *wdDriver
	if err := never.Quit(); err != nil {
		t.Errorf("Quit() on a nil driver returned error: %v", err)
	}
}

func TestCheckServerVersion(t *testing.T) {
	tests := []struct {
		server, min string
		wantErr     bool
	}{
		{"3.141.59", "3.0", false},
		{"3.141.59", "3.141.59", false},
		{"2.53.1", "3", true},
		{"garbage", "3", true},
		{"3.141.59", "not a version", true},
	}
	for _, tc := range tests {
		fwd := newFakeWebDriver()
		fwd.version = tc.server
		err := checkServerVersion(fwd, tc.min)
		if gotErr := err != nil; gotErr != tc.wantErr {
			t.Errorf("checkServerVersion(server %q, min %q) = %v, want error: %t", tc.server, tc.min, err, tc.wantErr)
		}
	}
}

func TestDialWebDriver(t *testing.T) {
	fwd := newFakeWebDriver()
	fwd.version = "2.53.1"

	var gotCaps selenium.Capabilities
	var gotURL string
	defer func(orig func(selenium.Capabilities, string) (selenium.WebDriver, error)) { newRemote = orig }(newRemote)
	newRemote = func(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error) {
		gotCaps, gotURL = caps, urlPrefix
		return fwd, nil
	}

	cfg := DefaultConfig()
	cfg.SeleniumHost = "grid.test"
	cfg.Browser = "*googlechrome"
	d, err := dialWebDriver(cfg)
	if err != nil {
		t.Fatalf("dialWebDriver() returned error: %v", err)
	}
	if d.wd != fwd {
		t.Error("dialWebDriver() did not keep the remote session")
	}
	if want := "http://grid.test:4444/wd/hub"; gotURL != want {
		t.Errorf("remote URL = %q, want %q", gotURL, want)
	}
	if gotCaps["browserName"] != "chrome" {
		t.Errorf("browserName = %v, want chrome", gotCaps["browserName"])
	}

	// An old server is rejected and its session closed.
	cfg.MinServerVersion = "3.0.0"
	if _, err := dialWebDriver(cfg); err == nil {
		t.Error("dialWebDriver() against an old server returned nil error")
	}
	if fwd.quits != 1 {
		t.Errorf("rejected session quit %d times, want 1", fwd.quits)
	}
}

func TestBrowserLog(t *testing.T) {
	fwd := newFakeWebDriver()
	fwd.logs = []log.Message{{Level: log.Severe, Message: "Uncaught TypeError"}}
	d := &wdDriver{wd: fwd}
	got, err := d.BrowserLog()
	if err != nil {
		t.Fatalf("BrowserLog() returned error: %v", err)
	}
	if diff := cmp.Diff(fwd.logs, got); diff != "" {
		t.Errorf("BrowserLog() returned diff (-want/+got):\n%s", diff)
	}
}
