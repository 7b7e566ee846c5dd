package websuite

import (
	"strings"
	"testing"
)

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		desc string
		cfg  ServiceConfig
		want string // substring of the error, "" for valid
	}{
		{
			desc: "disabled",
			cfg:  ServiceConfig{},
		},
		{
			desc: "selenium jar",
			cfg:  ServiceConfig{Kind: ServiceSelenium, Path: "deps/selenium-server.jar", JavaPath: "/usr/bin/java", GeckoDriver: "deps/geckodriver"},
		},
		{
			desc: "chromedriver",
			cfg:  ServiceConfig{Kind: ServiceChromeDriver, Path: "deps/chromedriver", FrameBuffer: true},
		},
		{
			desc: "unknown kind",
			cfg:  ServiceConfig{Kind: "phantomjs", Path: "phantomjs"},
			want: "service.kind",
		},
		{
			desc: "missing path",
			cfg:  ServiceConfig{Kind: ServiceGeckoDriver},
			want: "service.path",
		},
		{
			desc: "java path on a driver",
			cfg:  ServiceConfig{Kind: ServiceGeckoDriver, Path: "deps/geckodriver", JavaPath: "/usr/bin/java"},
			want: "only apply",
		},
	}
	for _, tc := range tests {
		err := tc.cfg.validate()
		switch {
		case tc.want == "" && err != nil:
			t.Errorf("%s: validate() returned error: %v", tc.desc, err)
		case tc.want != "" && (err == nil || !strings.Contains(err.Error(), tc.want)):
			t.Errorf("%s: validate() = %v, want an error containing %q", tc.desc, err, tc.want)
		}
	}
}

func TestServiceOptions(t *testing.T) {
	cfg := ServiceConfig{Kind: ServiceSelenium, Path: "x.jar", FrameBuffer: true, Verbose: true, JavaPath: "java", GeckoDriver: "gd"}
	if got := len(cfg.options()); got != 4 {
		t.Errorf("len(options()) = %d, want 4", got)
	}
	if got := len((ServiceConfig{Kind: ServiceChromeDriver, Path: "cd"}).options()); got != 0 {
		t.Errorf("len(options()) = %d, want 0", got)
	}
}

func TestStartServiceDisabled(t *testing.T) {
	s, err := startService(ServiceConfig{}, 4444)
	if err != nil || s != nil {
		t.Errorf("startService(disabled) = %v, %v, want nil, nil", s, err)
	}
}
