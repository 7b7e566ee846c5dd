package websuite

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/log"
)

// browserFamily maps an RC-style browser string ("*googlechrome",
// "*iexplore", "firefox", ...) to a WebDriver browser name. Unknown strings
// select Chrome.
func browserFamily(browser string) string {
	b := strings.ToLower(browser)
	switch {
	case strings.Contains(b, "google"), strings.Contains(b, "chrome"):
		return "chrome"
	case strings.Contains(b, "firefox"):
		return "firefox"
	case strings.Contains(b, "ie"):
		return "internet explorer"
	}
	return "chrome"
}

// desiredCapabilities builds the WebDriver capabilities for cfg.
func desiredCapabilities(cfg *Config) (selenium.Capabilities, error) {
	family := browserFamily(cfg.Browser)
	caps := selenium.Capabilities{
		"browserName":    family,
		"acceptSslCerts": true,
	}
	switch family {
	case "chrome":
		caps["name"] = "Chrome Browser"
		var args []string
		if cfg.FullscreenMode {
			args = append(args, "--start-maximized")
		}
		caps.AddChrome(chrome.Capabilities{Args: args})
	case "firefox":
		caps["name"] = "Firefox Browser"
		caps.AddFirefox(firefox.Capabilities{})
	case "internet explorer":
		caps["name"] = "IE Browser"
		caps["ie.ensureCleanSession"] = true
	}

	if cfg.BrowserLogLevel != "" {
		level, err := logLevel(cfg.BrowserLogLevel)
		if err != nil {
			return nil, err
		}
		caps.SetLogLevel(log.Browser, level)
	}
	return caps, nil
}

func logLevel(s string) (log.Level, error) {
	level := log.Level(strings.ToUpper(s))
	switch level {
	case log.Off, log.Severe, log.Warning, log.Info, log.Debug, log.All:
		return level, nil
	}
	return "", fmt.Errorf("unknown browser_log_level %q", s)
}
