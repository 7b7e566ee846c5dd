package websuite

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// findOptions returns the options of a dropdown whose visible text is text.
// When no option matches exactly and text contains spaces, options are
// compared again with surrounding white space trimmed.
func findOptions(dropdown selenium.WebElement, text string) ([]selenium.WebElement, error) {
	options, err := dropdown.FindElements(selenium.ByXPATH, `.//option[normalize-space(.) = "`+escapeQuotes(text)+`"]`)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 || !strings.Contains(text, " ") {
		return options, nil
	}

	var candidates []selenium.WebElement
	if sub := longestWord(text); sub == "" {
		// text is empty or only spaces.
		candidates, err = dropdown.FindElements(selenium.ByTagName, "option")
	} else {
		candidates, err = dropdown.FindElements(selenium.ByXPATH, `.//option[contains(., "`+escapeQuotes(sub)+`")]`)
	}
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(text)
	var matched []selenium.WebElement
	for _, option := range candidates {
		o, err := option.Text()
		if err != nil {
			return nil, err
		}
		if trimmed == strings.TrimSpace(o) {
			matched = append(matched, option)
		}
	}
	return matched, nil
}

func findOption(dropdown selenium.WebElement, text string) (selenium.WebElement, error) {
	options, err := findOptions(dropdown, text)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("can't find option {%s} in dropdown list", text)
	}
	return options[0], nil
}

func escapeQuotes(str string) string {
	return strings.Replace(str, `"`, `\"`, -1)
}

func longestWord(s string) string {
	result := ""
	for _, t := range strings.Split(s, " ") {
		if len(t) > len(result) {
			result = t
		}
	}
	return result
}

// setSelected clicks el if its selection state differs from selected.
func setSelected(el selenium.WebElement, selected bool) error {
	sel, err := el.IsSelected()
	if err != nil {
		return err
	}
	if sel != selected {
		return el.Click()
	}
	return nil
}
