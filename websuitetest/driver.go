// Package websuitetest provides an in-memory websuite.Driver for testing
// code built on websuite without a browser.
package websuitetest

import (
	"errors"
	"fmt"

	"github.com/wanmail/websuite"
)

// Element is a fake page element.
type Element struct {
	// Content is returned by Text.
	Content string
	// Value accumulates the keys typed into the element.
	Value    string
	Selected bool
	// Options are the visible texts of a dropdown's options; Chosen is the
	// selected one.
	Options []string
	Chosen  string
	Clicks  int
}

func (e *Element) Click() error {
	e.Clicks++
	return nil
}

func (e *Element) SendKeys(keys string) error {
	e.Value += keys
	return nil
}

func (e *Element) Clear() error {
	e.Value = ""
	return nil
}

func (e *Element) Text() (string, error) { return e.Content, nil }

func (e *Element) IsSelected() (bool, error) { return e.Selected, nil }

// Driver is a fake websuite.Driver. Elements are found by their exact
// locator string. Every call is appended to Calls.
type Driver struct {
	Elements map[string]*Element
	Body     string
	// BodyErrs are returned, in order, by the first calls to BodyText.
	BodyErrs []error
	// OnBodyText is called with the call number (starting at 1) before each
	// BodyText, and may change the driver.
	OnBodyText func(d *Driver, n int)
	URL        string
	HTML       string
	Jar        []websuite.Cookie
	Image      []byte
	Evals      map[string]string

	NavigateErr   error
	ScreenshotErr error
	QuitErr       error

	Calls     []string
	Navigated []string
	Quits     int
	bodyCalls int
}

// NewDriver returns a driver with no elements and an empty page.
func NewDriver() *Driver {
	return &Driver{Elements: map[string]*Element{}, Evals: map[string]string{}}
}

// Add adds an element under locator and returns it.
func (d *Driver) Add(locator string, e *Element) *Element {
	if d.Elements == nil {
		d.Elements = map[string]*Element{}
	}
	d.Elements[locator] = e
	return e
}

// Dial returns a websuite.DialFunc that hands out d.
func (d *Driver) Dial() websuite.DialFunc {
	return func(*websuite.Config, string, string) (websuite.Driver, error) {
		return d, nil
	}
}

// BodyTextCalls returns the number of BodyText calls.
func (d *Driver) BodyTextCalls() int { return d.bodyCalls }

func (d *Driver) record(format string, args ...interface{}) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Driver) element(op, locator string) (*Element, error) {
	e, ok := d.Elements[locator]
	if !ok {
		return nil, &websuite.ElementError{Locator: locator, Op: op}
	}
	return e, nil
}

func (d *Driver) Navigate(url string) error {
	d.record("navigate %s", url)
	if d.NavigateErr != nil {
		return &websuite.NavigationError{URL: url, Err: d.NavigateErr}
	}
	d.Navigated = append(d.Navigated, url)
	d.URL = url
	return nil
}

func (d *Driver) Locate(locator string) (websuite.Element, bool) {
	e, ok := d.Elements[locator]
	if !ok {
		return nil, false
	}
	return e, true
}

func (d *Driver) IsElementPresent(locator string) bool {
	_, ok := d.Elements[locator]
	return ok
}

func (d *Driver) Click(locator string) error {
	d.record("click %s", locator)
	e, err := d.element("click", locator)
	if err != nil {
		return err
	}
	return e.Click()
}

func (d *Driver) PartialLinkTextClick(locator string) error {
	d.record("partial link text click %s", locator)
	for l, e := range d.Elements {
		if l == locator || l == "link="+locator {
			return e.Click()
		}
	}
	return &websuite.ElementError{Locator: locator, Op: "partial link text click"}
}

func (d *Driver) Type(locator, text string) error {
	d.record("type %s %s", locator, text)
	e, err := d.element("type", locator)
	if err != nil {
		return err
	}
	return e.SendKeys(text)
}

func (d *Driver) Clear(locator string) error {
	d.record("clear %s", locator)
	e, err := d.element("clear", locator)
	if err != nil {
		return err
	}
	return e.Clear()
}

func (d *Driver) Select(locator, option string) error {
	d.record("select %s %s", locator, option)
	e, err := d.element("select", locator)
	if err != nil {
		return err
	}
	for _, o := range e.Options {
		if o == option {
			e.Chosen = option
			return nil
		}
	}
	return fmt.Errorf("can't find option {%s} in dropdown list", option)
}

func (d *Driver) Check(locator string) error {
	d.record("check %s", locator)
	e, err := d.element("check", locator)
	if err != nil {
		return err
	}
	e.Selected = true
	return nil
}

func (d *Driver) Uncheck(locator string) error {
	d.record("uncheck %s", locator)
	e, err := d.element("uncheck", locator)
	if err != nil {
		return err
	}
	e.Selected = false
	return nil
}

func (d *Driver) IsChecked(locator string) (bool, error) {
	e, err := d.element("is checked", locator)
	if err != nil {
		return false, err
	}
	return e.Selected, nil
}

func (d *Driver) IsSelected(locator, option string) (bool, error) {
	e, err := d.element("is selected", locator)
	if err != nil {
		return false, err
	}
	return e.Chosen == option, nil
}

func (d *Driver) MouseOver(locator string) error {
	d.record("mouse over %s", locator)
	_, err := d.element("mouse over", locator)
	return err
}

func (d *Driver) MouseClick(locator string) error {
	d.record("mouse click %s", locator)
	_, err := d.element("mouse click", locator)
	return err
}

func (d *Driver) Text(locator string) (string, error) {
	e, err := d.element("text", locator)
	if err != nil {
		return "", err
	}
	return e.Content, nil
}

func (d *Driver) BodyText() (string, error) {
	d.bodyCalls++
	if d.OnBodyText != nil {
		d.OnBodyText(d, d.bodyCalls)
	}
	if len(d.BodyErrs) > 0 {
		err := d.BodyErrs[0]
		d.BodyErrs = d.BodyErrs[1:]
		return "", err
	}
	return d.Body, nil
}

func (d *Driver) HTMLSource() (string, error) { return d.HTML, nil }

func (d *Driver) CurrentURL() (string, error) { return d.URL, nil }

func (d *Driver) Cookies() ([]websuite.Cookie, error) { return d.Jar, nil }

func (d *Driver) DeleteCookie(name, options string) error {
	d.record("delete cookie %s %s", name, options)
	var kept []websuite.Cookie
	for _, c := range d.Jar {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	d.Jar = kept
	return nil
}

func (d *Driver) Eval(expression string) (string, error) {
	v, ok := d.Evals[expression]
	if !ok {
		return "", errors.New("websuitetest: no result for " + expression)
	}
	return v, nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	if d.ScreenshotErr != nil {
		return nil, d.ScreenshotErr
	}
	return d.Image, nil
}

func (d *Driver) Maximize() error {
	d.record("maximize")
	return nil
}

func (d *Driver) Quit() error {
	d.record("quit")
	d.Quits++
	return d.QuitErr
}

// Probe is a reachability probe that always succeeds.
func Probe(addr, url string) error { return nil }
