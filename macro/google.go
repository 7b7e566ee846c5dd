// Package macro holds reusable multi-step browser flows.
package macro

import (
	"github.com/golang/glog"

	"github.com/wanmail/websuite"
)

// Locators of the search page.
const (
	GoogleQueryField   = "q"
	GoogleSearchButton = "btnG"
)

// Keys of common.yaml read by GoogleSearch.
const (
	QuoteKey  = "quote"
	ResultKey = "result"
)

// GoogleSearch opens the base URL, searches for the common.yaml "quote" and
// waits for the common.yaml "result" to show up.
func GoogleSearch(s *websuite.Session) error {
	glog.Infof("-- google macro...")
	if err := s.Navigate(s.CreateURL("/")); err != nil {
		return err
	}
	if err := s.WaitForText("Google"); err != nil {
		return err
	}
	if err := s.Type(GoogleQueryField, s.CommonString(QuoteKey)); err != nil {
		return err
	}
	if err := s.Click(GoogleSearchButton); err != nil {
		return err
	}
	return s.WaitForText(s.CommonString(ResultKey))
}

// GoogleSearchTest runs GoogleSearch as a websuite.Test.
type GoogleSearchTest struct{}

func (GoogleSearchTest) Name() string { return "GoogleSearchTest" }

func (GoogleSearchTest) Description() string {
	return "searches Google for the common quote and expects the common result"
}

func (GoogleSearchTest) Run(s *websuite.Session) error { return GoogleSearch(s) }
