package websuite

import (
	"github.com/tebeka/selenium"
)

// Methods by which a locator resolves to an element. The values are the
// WebDriver find strategies.
const (
	ByID              = selenium.ByID
	ByLinkText        = selenium.ByLinkText
	ByXPATH           = selenium.ByXPATH
	ByPartialLinkText = selenium.ByPartialLinkText
)

// Kinds of remote automation backends.
const (
	// KindSelenium is the legacy Selenium RC protocol.
	KindSelenium = "selenium"
	// KindWebDriver is the W3C WebDriver protocol.
	KindWebDriver = "webdriver"
)

// Cookie represents an HTTP cookie in the browser's jar.
type Cookie = selenium.Cookie

// Element is a resolved handle to a page element.
type Element interface {
	// Click clicks on the element.
	Click() error
	// SendKeys types into the element.
	SendKeys(keys string) error
	// Clear clears the element.
	Clear() error
	// Text returns the visible text of the element.
	Text() (string, error)
	// IsSelected returns true if a checkbox, radio or option is selected.
	IsSelected() (bool, error)
}

// Driver normalizes the remote automation protocols into one capability
// set. A Session owns exactly one Driver.
type Driver interface {
	// Navigate loads url in the browser.
	Navigate(url string) error

	// Locate resolves a locator. The second result is false when the locator
	// is unsupported by the backend or matched nothing; Locate never fails.
	Locate(locator string) (Element, bool)
	// IsElementPresent reports whether locator resolves to an element.
	IsElementPresent(locator string) bool

	// Click clicks the element found by locator.
	Click(locator string) error
	// PartialLinkTextClick clicks the first link whose text contains
	// locator (with any "link=" prefix removed).
	PartialLinkTextClick(locator string) error
	// Type sends text to the element found by locator.
	Type(locator, text string) error
	// Clear empties the element found by locator.
	Clear(locator string) error
	// Select picks the option with the given visible text in a dropdown.
	Select(locator, option string) error
	// Check makes sure a checkbox is checked.
	Check(locator string) error
	// Uncheck makes sure a checkbox is not checked.
	Uncheck(locator string) error
	// IsChecked reports whether a checkbox or radio is checked.
	IsChecked(locator string) (bool, error)
	// IsSelected reports whether option is the selected entry of a dropdown.
	IsSelected(locator, option string) (bool, error)
	// MouseOver moves the pointer over the element.
	MouseOver(locator string) error
	// MouseClick presses and releases the mouse button over the element.
	MouseClick(locator string) error

	// Text returns the visible text of the element found by locator.
	Text(locator string) (string, error)
	// BodyText returns the visible text of the whole page.
	BodyText() (string, error)
	// HTMLSource returns the page's markup.
	HTMLSource() (string, error)
	// CurrentURL returns the browser's current location.
	CurrentURL() (string, error)

	// Cookies returns the cookies visible to the current page.
	Cookies() ([]Cookie, error)
	// DeleteCookie removes the named cookie. Options are only understood by
	// the legacy backend ("path=/, domain=.example.com").
	DeleteCookie(name, options string) error

	// Eval evaluates a JavaScript expression and returns its value as text.
	Eval(expression string) (string, error)
	// Screenshot captures the browser window. The bytes are a decoded image.
	Screenshot() ([]byte, error)
	// Maximize maximizes the browser window.
	Maximize() error

	// Quit releases the remote session. It is safe to call more than once,
	// and on a driver that never connected.
	Quit() error
}
