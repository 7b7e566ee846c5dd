package websuite

import "strings"

// Locator is a parsed locator string. By is empty when the string uses a
// syntax the WebDriver backend cannot resolve.
type Locator struct {
	By    string
	Value string
}

// Supported reports whether the locator maps to a WebDriver find strategy.
func (l Locator) Supported() bool {
	return l.By != ""
}

func (l Locator) String() string {
	if !l.Supported() {
		return "unsupported(" + l.Value + ")"
	}
	return l.By + "=" + l.Value
}

// ParseLocator classifies a locator string. The checks are substring checks
// applied in order, so "//a[@id=x]" is an id locator.
func ParseLocator(s string) Locator {
	switch {
	case strings.Contains(s, "id="):
		return Locator{By: ByID, Value: strings.ReplaceAll(s, "id=", "")}
	case strings.Contains(s, "link="):
		return Locator{By: ByLinkText, Value: strings.ReplaceAll(s, "link=", "")}
	case strings.Contains(s, "//"):
		return Locator{By: ByXPATH, Value: s}
	}
	return Locator{Value: s}
}

// PartialLinkText builds a partial link text locator from s.
func PartialLinkText(s string) Locator {
	return Locator{By: ByPartialLinkText, Value: strings.ReplaceAll(s, "link=", "")}
}

// resolve locates an element for an interaction named op.
func resolve(d Driver, op, locator string) (Element, error) {
	el, ok := d.Locate(locator)
	if !ok {
		return nil, &ElementError{Locator: locator, Op: op}
	}
	return el, nil
}
