package websuite

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/log"
)

// newRemote opens a W3C session. Tests replace it with a fake.
var newRemote = selenium.NewRemote

// wdDriver implements Driver over the WebDriver protocol.
type wdDriver struct {
	wd   selenium.WebDriver
	quit bool
}

// WebDriverURL returns the endpoint of the WebDriver server at addr.
func WebDriverURL(addr string) string {
	return fmt.Sprintf("http://%s/wd/hub", addr)
}

func dialWebDriver(cfg *Config) (*wdDriver, error) {
	caps, err := desiredCapabilities(cfg)
	if err != nil {
		return nil, err
	}
	wd, err := newRemote(caps, WebDriverURL(cfg.Addr()))
	if err != nil {
		return nil, err
	}
	if cfg.MinServerVersion != "" {
		if err := checkServerVersion(wd, cfg.MinServerVersion); err != nil {
			if qerr := wd.Quit(); qerr != nil {
				glog.Warningf("quitting rejected session: %v", qerr)
			}
			return nil, err
		}
	}
	return &wdDriver{wd: wd}, nil
}

// checkServerVersion returns an error if the server reports a build older
// than min.
func checkServerVersion(wd selenium.WebDriver, min string) error {
	want, err := semver.ParseTolerant(min)
	if err != nil {
		return fmt.Errorf("invalid min_server_version %q: %v", min, err)
	}
	status, err := wd.Status()
	if err != nil {
		return err
	}
	got, err := semver.ParseTolerant(status.Build.Version)
	if err != nil {
		return fmt.Errorf("server reported unparsable build version %q: %v", status.Build.Version, err)
	}
	if got.LT(want) {
		return fmt.Errorf("server build %s is older than min_server_version %s", got, want)
	}
	debugLog("server build %s", got)
	return nil
}

func (d *wdDriver) find(locator string) (selenium.WebElement, bool) {
	l := ParseLocator(locator)
	if !l.Supported() {
		glog.Warningf("   :: unsupported locator {%s}", locator)
		return nil, false
	}
	el, err := d.wd.FindElement(l.By, l.Value)
	if err != nil {
		debugLog("FindElement(%s): %v", l, err)
		return nil, false
	}
	return el, true
}

func (d *wdDriver) mustFind(op, locator string) (selenium.WebElement, error) {
	el, ok := d.find(locator)
	if !ok {
		return nil, &ElementError{Locator: locator, Op: op}
	}
	return el, nil
}

func (d *wdDriver) Navigate(url string) error {
	if err := d.wd.Get(url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

func (d *wdDriver) Locate(locator string) (Element, bool) {
	el, ok := d.find(locator)
	if !ok {
		return nil, false
	}
	return el, true
}

func (d *wdDriver) IsElementPresent(locator string) bool {
	_, ok := d.find(locator)
	return ok
}

func (d *wdDriver) Click(locator string) error {
	el, err := d.mustFind("click", locator)
	if err != nil {
		return err
	}
	return el.Click()
}

func (d *wdDriver) PartialLinkTextClick(locator string) error {
	l := PartialLinkText(locator)
	el, err := d.wd.FindElement(l.By, l.Value)
	if err != nil {
		debugLog("FindElement(%s): %v", l, err)
		return &ElementError{Locator: locator, Op: "partial link text click"}
	}
	return el.Click()
}

func (d *wdDriver) Type(locator, text string) error {
	el, err := d.mustFind("type", locator)
	if err != nil {
		return err
	}
	return el.SendKeys(text)
}

func (d *wdDriver) Clear(locator string) error {
	el, err := d.mustFind("clear", locator)
	if err != nil {
		return err
	}
	return el.Clear()
}

func (d *wdDriver) Select(locator, option string) error {
	dropdown, err := d.mustFind("select", locator)
	if err != nil {
		return err
	}
	opt, err := findOption(dropdown, option)
	if err != nil {
		return err
	}
	return setSelected(opt, true)
}

func (d *wdDriver) Check(locator string) error {
	el, err := d.mustFind("check", locator)
	if err != nil {
		return err
	}
	return setSelected(el, true)
}

func (d *wdDriver) Uncheck(locator string) error {
	el, err := d.mustFind("uncheck", locator)
	if err != nil {
		return err
	}
	return setSelected(el, false)
}

func (d *wdDriver) IsChecked(locator string) (bool, error) {
	el, err := d.mustFind("is checked", locator)
	if err != nil {
		return false, err
	}
	return el.IsSelected()
}

func (d *wdDriver) IsSelected(locator, option string) (bool, error) {
	dropdown, err := d.mustFind("is selected", locator)
	if err != nil {
		return false, err
	}
	options, err := findOptions(dropdown, option)
	if err != nil || len(options) == 0 {
		return false, err
	}
	return options[0].IsSelected()
}

func (d *wdDriver) MouseOver(locator string) error {
	el, err := d.mustFind("mouse over", locator)
	if err != nil {
		return err
	}
	return el.MoveTo(0, 0)
}

func (d *wdDriver) MouseClick(locator string) error {
	el, err := d.mustFind("mouse click", locator)
	if err != nil {
		return err
	}
	if err := el.MoveTo(0, 0); err != nil {
		return err
	}
	return d.wd.Click(selenium.LeftButton)
}

func (d *wdDriver) Text(locator string) (string, error) {
	el, err := d.mustFind("text", locator)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (d *wdDriver) BodyText() (string, error) {
	body, err := d.wd.FindElement(selenium.ByTagName, "body")
	if err != nil {
		return "", err
	}
	return body.Text()
}

func (d *wdDriver) HTMLSource() (string, error) {
	return d.wd.PageSource()
}

func (d *wdDriver) CurrentURL() (string, error) {
	return d.wd.CurrentURL()
}

func (d *wdDriver) Cookies() ([]Cookie, error) {
	return d.wd.GetCookies()
}

// DeleteCookie ignores options; WebDriver deletes by name only.
func (d *wdDriver) DeleteCookie(name, options string) error {
	if options != "" {
		debugLog("cookie options %q ignored by webdriver", options)
	}
	return d.wd.DeleteCookie(name)
}

func (d *wdDriver) Eval(expression string) (string, error) {
	v, err := d.wd.ExecuteScript("return "+expression, nil)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return fmt.Sprint(v), nil
}

func (d *wdDriver) Screenshot() ([]byte, error) {
	return d.wd.Screenshot()
}

func (d *wdDriver) Maximize() error {
	return d.wd.MaximizeWindow("")
}

// BrowserLog returns the browser console messages collected since the last
// call. It needs browser_log_level to be set.
func (d *wdDriver) BrowserLog() ([]log.Message, error) {
	return d.wd.Log(log.Browser)
}

func (d *wdDriver) Quit() error {
	if d == nil || d.wd == nil || d.quit {
		return nil
	}
	d.quit = true
	return d.wd.Quit()
}
