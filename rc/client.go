// Package rc is a client for the legacy Selenium Remote Control protocol,
// in which every command is a form POST to the server's driver servlet and
// every reply is a plain text "OK[,value]" or an error message.
package rc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// DriverPath is the path of the RC command servlet.
const DriverPath = "/selenium-server/driver/"

// ErrNoSession is returned by commands issued before Start.
var ErrNoSession = errors.New("rc: no browser session")

// CommandError is an error reported by the RC server for a command.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("rc: %s: %s", e.Command, e.Message)
}

// Client drives one RC browser session.
type Client struct {
	url                 string
	browser, browserURL string
	sessionID           string

	// HTTPClient is used for all requests. It defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
	// Debug logs every command and reply.
	Debug bool
}

// New returns a client for the server at addr ("http://host:port"). browser
// is the RC browser start command ("*firefox", "*googlechrome", ...) and
// browserURL the base URL the browser is opened on.
func New(addr, browser, browserURL string) *Client {
	return &Client{
		url:        strings.TrimSuffix(addr, "/") + DriverPath,
		browser:    browser,
		browserURL: browserURL,
		HTTPClient: http.DefaultClient,
	}
}

// SessionID returns the current session ID, or "" before Start.
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(command string, withSession bool, args ...string) (string, error) {
	values := url.Values{}
	values.Add("cmd", command)
	for i, arg := range args {
		values.Add(strconv.Itoa(i+1), arg)
	}
	if withSession {
		if c.sessionID == "" {
			return "", ErrNoSession
		}
		values.Add("sessionId", c.sessionID)
	}
	if c.Debug {
		glog.Infof("-> %s %v", command, args)
	}

	response, err := c.HTTPClient.PostForm(c.url, values)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	msg := string(buf)
	if c.Debug {
		glog.Infof("<- %s %s", response.Status, msg)
	}

	if !strings.HasPrefix(msg, "OK") {
		if msg == "" {
			msg = response.Status
		}
		return "", &CommandError{Command: command, Message: strings.TrimLeft(strings.TrimPrefix(msg, "ERROR"), ":, ")}
	}
	if len(msg) > 3 {
		return msg[3:], nil
	}
	return "", nil
}

// Do runs command in the current session and returns the reply value.
func (c *Client) Do(command string, args ...string) (string, error) {
	return c.do(command, true, args...)
}

// Bool runs a boolean query command.
func (c *Client) Bool(command string, args ...string) (bool, error) {
	v, err := c.Do(command, args...)
	if err != nil {
		return false, err
	}
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &CommandError{Command: command, Message: fmt.Sprintf("expected a boolean reply, got %q", v)}
}

// Start opens a new browser session.
func (c *Client) Start() (string, error) {
	id, err := c.do(CmdNewBrowserSession, false, c.browser, c.browserURL)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", &CommandError{Command: CmdNewBrowserSession, Message: "empty session id"}
	}
	c.sessionID = id
	return id, nil
}

// Stop closes the browser session. It does nothing when no session is open.
func (c *Client) Stop() error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.Do(CmdTestComplete)
	if err == nil {
		c.sessionID = ""
	}
	return err
}

// Screenshot captures the browser window and returns the decoded PNG.
func (c *Client) Screenshot() ([]byte, error) {
	data, err := c.Do(CmdCaptureScreenshotToString)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(data))
}

// Cookie is a name/value pair as reported by getCookie.
type Cookie struct {
	Name, Value string
}

// Cookies returns the cookies of the current page.
func (c *Client) Cookies() ([]Cookie, error) {
	v, err := c.Do(CmdGetCookie)
	if err != nil {
		return nil, err
	}
	return ParseCookies(v), nil
}

// ParseCookies parses a "name=value; name2=value2" cookie string.
func ParseCookies(s string) []Cookie {
	var cookies []Cookie
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		cookies = append(cookies, Cookie{Name: name, Value: value})
	}
	return cookies
}
