/*
Package websuite runs browser end-to-end tests against a remote automation
server.

A Session talks to either a legacy Selenium RC server (driver "selenium") or
a WebDriver endpoint (driver "webdriver") through the same Driver interface.
Before the browser is started the server is probed: a 2xx, 403 or 404 reply
to http://host:port/selenium-server/ counts as alive.

Configuration lives in a directory holding env.yaml, an optional
user.env.yaml that overrides keys already present in env.yaml, and an
optional common.yaml with free-form data for the tests:

	selenium_host: localhost
	selenium_port: 4444
	browser: "*googlechrome"
	driver: webdriver
	base_url: http://www.google.com
	max_sleep_time: 30
	STATUS_PASSED: 0
	STATUS_FAILED: 1

The qa_base_url environment variable replaces base_url, and REPORTS_DIR
names the directory failure screenshots are written to.

Every query on the page first scans the body for known failure signatures
("Internal Server Error", "Oops", ...), so a broken page fails the test with
a *PageError instead of a timeout.

Example usage:

	cfg, err := websuite.LoadConfig("config")
	if err != nil {
		glog.Exit(err)
	}
	test := websuite.NewTest("Search", func(s *websuite.Session) error {
		if err := s.Navigate(s.CreateURL("/")); err != nil {
			return err
		}
		if err := s.Type("q", "golang"); err != nil {
			return err
		}
		if err := s.Click("btnG"); err != nil {
			return err
		}
		return s.WaitForText("The Go Programming Language")
	})
	os.Exit(websuite.Run(cfg, test).ExitCode)
*/
package websuite
