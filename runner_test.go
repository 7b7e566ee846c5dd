package websuite_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wanmail/websuite"
	"github.com/wanmail/websuite/websuitetest"
)

// scriptedTest records its phases and fails or panics where told to.
type scriptedTest struct {
	setupErr    error
	runErr      error
	teardownErr error
	panicIn     string
	phases      []string
}

func (t *scriptedTest) Name() string        { return "ScriptedTest" }
func (t *scriptedTest) Description() string { return "records its phases" }

func (t *scriptedTest) phase(name string, err error) error {
	t.phases = append(t.phases, name)
	if t.panicIn == name {
		panic(name + " exploded")
	}
	return err
}

func (t *scriptedTest) Setup(*websuite.Session) error    { return t.phase("setup", t.setupErr) }
func (t *scriptedTest) Run(*websuite.Session) error      { return t.phase("run", t.runErr) }
func (t *scriptedTest) Teardown(*websuite.Session) error { return t.phase("teardown", t.teardownErr) }

func runOpts(d *websuitetest.Driver) []websuite.SessionOption {
	r := &recorder{}
	return []websuite.SessionOption{
		websuite.WithDialer(d.Dial()),
		websuite.WithProbe(websuitetest.Probe),
		websuite.WithSleep(r.Sleep),
	}
}

func TestRun(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		desc       string
		test       *scriptedTest
		want       websuite.Outcome
		wantPhases []string
	}{
		{
			desc:       "passes",
			test:       &scriptedTest{},
			want:       websuite.Outcome{Passed: true, ExitCode: 10},
			wantPhases: []string{"setup", "run", "teardown"},
		},
		{
			desc:       "setup fails",
			test:       &scriptedTest{setupErr: boom},
			want:       websuite.Outcome{Passed: false, ExitCode: 11},
			wantPhases: []string{"setup", "teardown"},
		},
		{
			desc:       "run fails",
			test:       &scriptedTest{runErr: boom},
			want:       websuite.Outcome{Passed: false, ExitCode: 11},
			wantPhases: []string{"setup", "run", "teardown"},
		},
		{
			desc:       "run panics",
			test:       &scriptedTest{panicIn: "run"},
			want:       websuite.Outcome{Passed: false, ExitCode: 11},
			wantPhases: []string{"setup", "run", "teardown"},
		},
		{
			desc:       "teardown fails",
			test:       &scriptedTest{teardownErr: boom},
			want:       websuite.Outcome{Passed: false, ExitCode: 11},
			wantPhases: []string{"setup", "run", "teardown"},
		},
		{
			desc:       "teardown panics",
			test:       &scriptedTest{panicIn: "teardown"},
			want:       websuite.Outcome{Passed: false, ExitCode: 11},
			wantPhases: []string{"setup", "run", "teardown"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			d := websuitetest.NewDriver()
			got := websuite.Run(testConfig(), tc.test, runOpts(d)...)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Run() returned diff (-want/+got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantPhases, tc.test.phases); diff != "" {
				t.Errorf("phases differ (-want/+got):\n%s", diff)
			}
			if d.Quits != 1 {
				t.Errorf("Quit called %d times, want 1", d.Quits)
			}
		})
	}
}

func TestRunUnreachable(t *testing.T) {
	cfg := testConfig()
	ran := false
	test := websuite.NewTest("Unreachable", func(*websuite.Session) error {
		ran = true
		return nil
	})
	got := websuite.Run(cfg, test,
		websuite.WithProbe(func(addr, url string) error {
			return &websuite.ConnectionError{Addr: addr, Attempts: 3}
		}))
	if diff := cmp.Diff(websuite.Outcome{Passed: false, ExitCode: 11}, got); diff != "" {
		t.Errorf("Run() returned diff (-want/+got):\n%s", diff)
	}
	if ran {
		t.Error("test ran without a session")
	}
}

func TestRunScreenshotOnFailure(t *testing.T) {
	d := websuitetest.NewDriver()
	d.Image = []byte("\x89PNG")
	cfg := testConfig()
	cfg.ReportsDir = filepath.Join(t.TempDir(), "reports")

	test := websuite.NewTest("LoginTest", func(s *websuite.Session) error {
		return s.VerifyText("Welcome back")
	})
	if got := websuite.Run(cfg, test, runOpts(d)...); got.Passed {
		t.Fatal("Run() passed a failing test")
	}

	got, err := os.ReadFile(filepath.Join(cfg.ReportsDir, "LoginTest.png"))
	if err != nil {
		t.Fatalf("os.ReadFile() returned error: %v", err)
	}
	if diff := cmp.Diff(d.Image, got); diff != "" {
		t.Errorf("screenshot differs (-want/+got):\n%s", diff)
	}
}

func TestRunNoScreenshotWhenPassing(t *testing.T) {
	cfg := testConfig()
	cfg.ReportsDir = t.TempDir()

	test := websuite.NewTest("Passing", func(*websuite.Session) error { return nil })
	if got := websuite.Run(cfg, test, runOpts(websuitetest.NewDriver())...); !got.Passed {
		t.Fatal("Run() failed a passing test")
	}
	entries, err := os.ReadDir(cfg.ReportsDir)
	if err != nil {
		t.Fatalf("os.ReadDir() returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("reports directory has %d entries, want 0", len(entries))
	}
}
