// Binary fetchdeps downloads the Selenium servers and browser drivers used
// by websuite.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/wanmail/websuite/internal/download"
)

var (
	dir           = flag.String("dir", "deps", "Directory to download into.")
	chromeVersion = flag.String("chromedriver_version", "", "ChromeDriver version to download. Empty means the latest release.")
	withRC        = flag.Bool("rc", true, "Download the Selenium 2 server that speaks the RC protocol.")
	withWebDriver = flag.Bool("webdriver", true, "Download the Selenium 3 server, ChromeDriver and Geckodriver.")
	unpack        = flag.Bool("unpack", true, "Extract downloaded archives.")
)

func main() {
	flag.Parse()
	defer glog.Flush()
	ctx := context.Background()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		glog.Exitf("Unable to create %q: %v", *dir, err)
	}

	var files []download.File
	if *withRC {
		files = append(files, download.SeleniumRCFile)
	}
	if *withWebDriver {
		files = append(files, download.SeleniumFile)

		chromedriver, err := download.ChromeDriverFile(ctx, *chromeVersion)
		if err != nil {
			glog.Errorf("Unable to find ChromeDriver: %v", err)
		} else {
			chromedriver.Rename = []string{"chromedriver_linux64/chromedriver", "chromedriver"}
			files = append(files, chromedriver)
		}

		gecko, err := download.LatestGitHubRelease(ctx, nil, "mozilla", "geckodriver", download.GeckoDriverAsset, "geckodriver.tar.gz")
		if err != nil {
			glog.Errorf("Unable to find the latest Geckodriver: %v", err)
		} else {
			files = append(files, gecko)
		}
	}

	f := &download.Fetcher{Dir: *dir, Unpack: *unpack}
	if err := f.FetchAll(ctx, files); err != nil {
		glog.Exit(err)
	}
}
