package websuite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blang/semver"
	"gopkg.in/yaml.v3"
)

// Files read by LoadConfig.
const (
	EnvFile     = "env.yaml"
	UserEnvFile = "user.env.yaml"
	CommonFile  = "common.yaml"
)

// Environment variables consulted by the harness.
const (
	// BaseURLEnv overrides the configured base_url when set and non-empty.
	BaseURLEnv = "qa_base_url"
	// ReportsDirEnv names the directory that receives failure screenshots.
	ReportsDirEnv = "REPORTS_DIR"
)

// Config is the harness configuration.
type Config struct {
	SeleniumHost    string `yaml:"selenium_host"`
	SeleniumPort    Port   `yaml:"selenium_port"`
	Browser         string `yaml:"browser"`
	Driver          string `yaml:"driver"`
	BaseURL         string `yaml:"base_url"`
	DebugMode       bool   `yaml:"debug_mode"`
	DumpBodyOnError bool   `yaml:"dump_body_on_error"`
	// MaxSleepTime is the ceiling, in seconds, of every wait operation.
	MaxSleepTime   int  `yaml:"max_sleep_time"`
	FullscreenMode bool `yaml:"fullscreen_mode"`
	StatusPassed   int  `yaml:"STATUS_PASSED"`
	StatusFailed   int  `yaml:"STATUS_FAILED"`

	// ProbePath is requested by the reachability probe.
	ProbePath string `yaml:"probe_path"`
	// MinServerVersion, if set, is the oldest WebDriver server build accepted.
	MinServerVersion string `yaml:"min_server_version"`
	// BrowserLogLevel enables browser console logging on the WebDriver
	// backend ("INFO", "WARNING", ...).
	BrowserLogLevel string            `yaml:"browser_log_level"`
	PageSignatures  []SignatureConfig `yaml:"page_signatures"`
	Service         ServiceConfig     `yaml:"service"`

	// ReportsDir is taken from the environment, not from YAML.
	ReportsDir string `yaml:"-"`
	// Common holds the shared test data of common.yaml.
	Common map[string]interface{} `yaml:"-"`
}

// DefaultConfig returns the settings used for keys missing from env.yaml.
func DefaultConfig() *Config {
	return &Config{
		SeleniumHost: "localhost",
		SeleniumPort: 4444,
		Browser:      "*firefox",
		Driver:       KindSelenium,
		MaxSleepTime: 30,
		StatusPassed: 0,
		StatusFailed: 1,
		ProbePath:    "/selenium-server/",
	}
}

// LoadConfig reads env.yaml from dir, overlays the keys of user.env.yaml that
// env.yaml already defines, loads common.yaml if present and applies the
// environment overrides.
func LoadConfig(dir string) (*Config, error) {
	envPath := filepath.Join(dir, EnvFile)
	raw, err := readYAMLMap(envPath)
	if err != nil {
		return nil, err
	}

	user, err := readYAMLMap(filepath.Join(dir, UserEnvFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		overlay(raw, user)
	}

	cfg, err := decodeConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", envPath, err)
	}

	common, err := readYAMLMap(filepath.Join(dir, CommonFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		cfg.Common = common
	}

	cfg.BaseURL = ResolveBaseURL(cfg.BaseURL, os.LookupEnv)
	cfg.ReportsDir = os.Getenv(ReportsDirEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readYAMLMap(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return m, nil
}

// overlay copies the values of src whose keys are already set in dst.
func overlay(dst, src map[string]interface{}) {
	for k, v := range src {
		if cur, ok := dst[k]; ok && cur != nil {
			dst[k] = v
		}
	}
}

func decodeConfig(raw map[string]interface{}) (*Config, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveBaseURL returns the value of the qa_base_url environment variable
// when it is set and non-empty, and configured otherwise.
func ResolveBaseURL(configured string, lookupEnv func(string) (string, bool)) string {
	if v, ok := lookupEnv(BaseURLEnv); ok && v != "" {
		return v
	}
	return configured
}

// Port is a TCP port that may be written as a YAML number or string.
type Port int

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Port) UnmarshalYAML(n *yaml.Node) error {
	v, err := strconv.Atoi(strings.TrimSpace(n.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid port %q", n.Line, n.Value)
	}
	*p = Port(v)
	return nil
}

// DriverKind maps the driver setting to KindWebDriver or KindSelenium.
// "webdriver" is matched first, as a substring.
func (c *Config) DriverKind() (string, error) {
	switch {
	case strings.Contains(c.Driver, KindWebDriver):
		return KindWebDriver, nil
	case strings.Contains(c.Driver, KindSelenium):
		return KindSelenium, nil
	}
	return "", fmt.Errorf("no correct driver was defined in %s (got %q) - either %q or %q should be defined", EnvFile, c.Driver, KindSelenium, KindWebDriver)
}

// Addr is the host:port of the remote automation server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.SeleniumHost, c.SeleniumPort)
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if _, err := c.DriverKind(); err != nil {
		return err
	}
	if c.SeleniumHost == "" {
		return errors.New("selenium_host is empty")
	}
	if c.SeleniumPort <= 0 || c.SeleniumPort > 65535 {
		return fmt.Errorf("selenium_port %d is out of range", c.SeleniumPort)
	}
	if c.MaxSleepTime <= 0 {
		return fmt.Errorf("max_sleep_time must be positive, got %d", c.MaxSleepTime)
	}
	if c.MinServerVersion != "" {
		if _, err := semver.ParseTolerant(c.MinServerVersion); err != nil {
			return fmt.Errorf("min_server_version %q: %v", c.MinServerVersion, err)
		}
	}
	if c.BrowserLogLevel != "" {
		if _, err := logLevel(c.BrowserLogLevel); err != nil {
			return err
		}
	}
	if _, err := compileSignatures(c.PageSignatures); err != nil {
		return err
	}
	return c.Service.validate()
}
