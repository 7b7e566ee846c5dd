package websuite

import (
	"regexp"

	"github.com/golang/glog"

	"github.com/wanmail/websuite/rc"
)

// scriptLocator matches "locators" that are really scripts to run, a
// convention of tests written for the RC backend.
var scriptLocator = regexp.MustCompile(`jQuery`)

// rcDriver implements Driver over the Selenium RC protocol. RC resolves
// locators on the server, so any locator syntax the server understands is
// accepted.
type rcDriver struct {
	c *rc.Client
}

func dialRC(cfg *Config, baseURL string) (*rcDriver, error) {
	c := rc.New("http://"+cfg.Addr(), cfg.Browser, baseURL)
	c.Debug = debugFlag
	if _, err := c.Start(); err != nil {
		return nil, err
	}
	return &rcDriver{c: c}, nil
}

type rcElement struct {
	c       *rc.Client
	locator string
}

func (e *rcElement) Click() error {
	_, err := e.c.Do(rc.CmdClick, e.locator)
	return err
}

func (e *rcElement) SendKeys(keys string) error {
	_, err := e.c.Do(rc.CmdType, e.locator, keys)
	return err
}

func (e *rcElement) Clear() error {
	return e.SendKeys("")
}

func (e *rcElement) Text() (string, error) {
	return e.c.Do(rc.CmdGetText, e.locator)
}

func (e *rcElement) IsSelected() (bool, error) {
	return e.c.Bool(rc.CmdIsChecked, e.locator)
}

func (d *rcDriver) Navigate(url string) error {
	if _, err := d.c.Do(rc.CmdOpen, url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

func (d *rcDriver) Locate(locator string) (Element, bool) {
	if !d.IsElementPresent(locator) {
		return nil, false
	}
	return &rcElement{c: d.c, locator: locator}, true
}

func (d *rcDriver) IsElementPresent(locator string) bool {
	ok, err := d.c.Bool(rc.CmdIsElementPresent, locator)
	if err != nil {
		debugLog("isElementPresent(%q): %v", locator, err)
		return false
	}
	return ok
}

func (d *rcDriver) Click(locator string) error {
	if scriptLocator.MatchString(locator) {
		glog.Infof("-- running script: %s", locator)
		_, err := d.c.Do(rc.CmdRunScript, locator)
		return err
	}
	el, err := resolve(d, "click", locator)
	if err != nil {
		return err
	}
	return el.Click()
}

func (d *rcDriver) PartialLinkTextClick(locator string) error {
	glog.Warningf("   :: partial link text click is not implemented for selenium RC, trying a regular click on %q", locator)
	return d.Click(locator)
}

func (d *rcDriver) Type(locator, text string) error {
	el, err := resolve(d, "type", locator)
	if err != nil {
		return err
	}
	return el.SendKeys(text)
}

func (d *rcDriver) Clear(locator string) error {
	el, err := resolve(d, "clear", locator)
	if err != nil {
		return err
	}
	return el.Clear()
}

func (d *rcDriver) Select(locator, option string) error {
	if _, err := resolve(d, "select", locator); err != nil {
		return err
	}
	_, err := d.c.Do(rc.CmdSelect, locator, option)
	return err
}

func (d *rcDriver) Check(locator string) error {
	if _, err := resolve(d, "check", locator); err != nil {
		return err
	}
	_, err := d.c.Do(rc.CmdCheck, locator)
	return err
}

func (d *rcDriver) Uncheck(locator string) error {
	if _, err := resolve(d, "uncheck", locator); err != nil {
		return err
	}
	_, err := d.c.Do(rc.CmdUncheck, locator)
	return err
}

func (d *rcDriver) IsChecked(locator string) (bool, error) {
	return d.c.Bool(rc.CmdIsChecked, locator)
}

func (d *rcDriver) IsSelected(locator, option string) (bool, error) {
	label, err := d.c.Do(rc.CmdGetSelectedLabel, locator)
	if err != nil {
		return false, err
	}
	return label == option, nil
}

func (d *rcDriver) MouseOver(locator string) error {
	_, err := d.c.Do(rc.CmdMouseOver, locator)
	return err
}

func (d *rcDriver) MouseClick(locator string) error {
	if _, err := d.c.Do(rc.CmdMouseDown, locator); err != nil {
		return err
	}
	_, err := d.c.Do(rc.CmdMouseUp, locator)
	return err
}

func (d *rcDriver) Text(locator string) (string, error) {
	return d.c.Do(rc.CmdGetText, locator)
}

func (d *rcDriver) BodyText() (string, error) {
	return d.c.Do(rc.CmdGetBodyText)
}

func (d *rcDriver) HTMLSource() (string, error) {
	return d.c.Do(rc.CmdGetHTMLSource)
}

func (d *rcDriver) CurrentURL() (string, error) {
	return d.c.Do(rc.CmdGetLocation)
}

func (d *rcDriver) Cookies() ([]Cookie, error) {
	rcCookies, err := d.c.Cookies()
	if err != nil {
		return nil, err
	}
	cookies := make([]Cookie, len(rcCookies))
	for i, c := range rcCookies {
		cookies[i] = Cookie{Name: c.Name, Value: c.Value}
	}
	return cookies, nil
}

func (d *rcDriver) DeleteCookie(name, options string) error {
	_, err := d.c.Do(rc.CmdDeleteCookie, name, options)
	return err
}

func (d *rcDriver) Eval(expression string) (string, error) {
	return d.c.Do(rc.CmdGetEval, expression)
}

func (d *rcDriver) Screenshot() ([]byte, error) {
	return d.c.Screenshot()
}

func (d *rcDriver) Maximize() error {
	_, err := d.c.Do(rc.CmdWindowMaximize)
	return err
}

func (d *rcDriver) Quit() error {
	if d == nil || d.c == nil {
		return nil
	}
	return d.c.Stop()
}
