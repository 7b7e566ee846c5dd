// Binary websuite runs the bundled end-to-end tests against a remote browser
// and exits with the configured pass/fail status.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/golang/glog"

	"github.com/wanmail/websuite"
	"github.com/wanmail/websuite/macro"
)

var (
	configDir = flag.String("config_dir", ".", "Directory holding env.yaml, user.env.yaml and common.yaml.")
	testName  = flag.String("test", "GoogleSearchTest", "Name of the test to run.")
	list      = flag.Bool("list", false, "List the available tests and exit.")
	debug     = flag.Bool("debug", false, "Log every remote protocol command.")
)

var tests = map[string]websuite.Test{
	"GoogleSearchTest": macro.GoogleSearchTest{},
}

func main() {
	// Log to stderr unless told otherwise.
	if f := flag.Lookup("logtostderr"); f != nil {
		f.Value.Set("true")
	}
	flag.Parse()
	defer glog.Flush()

	if *list {
		var names []string
		for name := range tests {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println(strings.Join(names, "\n"))
		return
	}

	cfg, err := websuite.LoadConfig(*configDir)
	if err != nil {
		glog.Errorf("-- ERROR: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	websuite.SetDebug(*debug || cfg.DebugMode)

	t, ok := tests[*testName]
	if !ok {
		glog.Errorf("-- ERROR: unknown test %q", *testName)
		glog.Flush()
		os.Exit(cfg.StatusFailed)
	}

	outcome := websuite.Run(cfg, t)
	glog.Flush()
	os.Exit(outcome.ExitCode)
}
