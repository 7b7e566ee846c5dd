package websuite

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// Kinds of local services the harness can start before connecting.
const (
	ServiceSelenium     = "selenium"
	ServiceChromeDriver = "chromedriver"
	ServiceGeckoDriver  = "geckodriver"
)

// ServiceConfig is the "service" block of env.yaml. When Kind is empty the
// harness expects the automation server to be already running.
type ServiceConfig struct {
	// Kind is one of ServiceSelenium, ServiceChromeDriver or
	// ServiceGeckoDriver.
	Kind string `yaml:"kind"`
	// Path is the Selenium standalone jar or the driver binary.
	Path string `yaml:"path"`
	// JavaPath overrides the java binary used for the Selenium jar.
	JavaPath string `yaml:"java_path"`
	// GeckoDriver is passed to the Selenium jar as webdriver.gecko.driver.
	GeckoDriver string `yaml:"gecko_driver"`
	// FrameBuffer starts an Xvfb display for the browser.
	FrameBuffer bool `yaml:"frame_buffer"`
	// Verbose copies the service output to stderr.
	Verbose bool `yaml:"verbose"`
}

// Enabled reports whether a local service should be started.
func (c ServiceConfig) Enabled() bool {
	return c.Kind != ""
}

func (c ServiceConfig) validate() error {
	switch c.Kind {
	case "":
		return nil
	case ServiceSelenium, ServiceChromeDriver, ServiceGeckoDriver:
	default:
		return fmt.Errorf("service.kind %q is not one of %q, %q or %q", c.Kind, ServiceSelenium, ServiceChromeDriver, ServiceGeckoDriver)
	}
	if c.Path == "" {
		return fmt.Errorf("service.path is required for a %s service", c.Kind)
	}
	if c.Kind != ServiceSelenium && (c.JavaPath != "" || c.GeckoDriver != "") {
		return fmt.Errorf("service.java_path and service.gecko_driver only apply to a %s service", ServiceSelenium)
	}
	return nil
}

func (c ServiceConfig) options() []selenium.ServiceOption {
	var opts []selenium.ServiceOption
	if c.FrameBuffer {
		opts = append(opts, selenium.StartFrameBuffer())
	}
	if c.Verbose {
		opts = append(opts, selenium.Output(os.Stderr))
	}
	if c.JavaPath != "" {
		opts = append(opts, selenium.JavaPath(c.JavaPath))
	}
	if c.GeckoDriver != "" {
		opts = append(opts, selenium.GeckoDriver(c.GeckoDriver))
	}
	return opts
}

// stopper is a running local service.
type stopper interface {
	Stop() error
}

// startService launches the configured service on port. It returns a nil
// stopper when no service is configured.
func startService(c ServiceConfig, port int) (stopper, error) {
	if !c.Enabled() {
		return nil, nil
	}
	glog.Infof("-- starting %s service from %s on port %d", c.Kind, c.Path, port)
	var (
		s   *selenium.Service
		err error
	)
	switch c.Kind {
	case ServiceSelenium:
		s, err = selenium.NewSeleniumService(c.Path, port, c.options()...)
	case ServiceChromeDriver:
		s, err = selenium.NewChromeDriverService(c.Path, port, c.options()...)
	case ServiceGeckoDriver:
		s, err = selenium.NewGeckoDriverService(c.Path, port, c.options()...)
	default:
		return nil, fmt.Errorf("unknown service kind %q", c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("starting %s service: %v", c.Kind, err)
	}
	return s, nil
}
