package websuite

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/golang/glog"
)

// DumpLimit is the number of leading body characters logged by a signature
// with Dump set. Shorter bodies are not dumped.
const DumpLimit = 2000

// Signature is a known pattern in page content that indicates a failure.
type Signature struct {
	Name    string
	Pattern *regexp.Regexp
	Message string
	// Dump logs the head of the page body before the error is returned.
	Dump bool
}

func literal(name, phrase, message string) Signature {
	return Signature{
		Name:    name,
		Pattern: regexp.MustCompile(regexp.QuoteMeta(phrase)),
		Message: message,
	}
}

// DefaultSignatures is the built-in signature table, in priority order.
var DefaultSignatures = []Signature{
	literal("bad-credentials", "User name or password is incorrect", "User name incorrect !"),
	literal("oops", "Oops", "Oops word found !"),
	literal("not-found", "was not found on this server", "404 Document not found !"),
	literal("not-a-function", "is null or undefined, not a Function object", "phrase 'is null or undefined, not a Function object' found !"),
	literal("null-or-undefined", "is null or undefined", "phrase 'is null or undefined' found !"),
	literal("internal-server-error", "Internal Server Error", "phrase 'Internal Server Error' found !"),
	literal("service-unavailable", "Service Unavailable", "phrase 'Service Unavailable' found !"),
	literal("service-temporarily-unavailable", "Service Temporarily Unavailable", "phrase 'Service Temporarily Unavailable' found !"),
	literal("rate-limit", "Rate limit exceeded", "phrase 'Rate limit exceeded' found !"),
	{
		Name:    "error-occurred",
		Pattern: regexp.MustCompile(regexp.QuoteMeta("An Error Occurred")),
		Message: "Exception occured !",
		Dump:    true,
	},
}

// PageGuard scans page bodies for failure signatures. The zero value checks
// nothing; use NewPageGuard.
type PageGuard struct {
	signatures []Signature
}

// NewPageGuard returns a guard that evaluates DefaultSignatures followed by
// extra.
func NewPageGuard(extra ...Signature) *PageGuard {
	sigs := make([]Signature, 0, len(DefaultSignatures)+len(extra))
	sigs = append(sigs, DefaultSignatures...)
	sigs = append(sigs, extra...)
	return &PageGuard{signatures: sigs}
}

// Signatures returns the table in evaluation order.
func (g *PageGuard) Signatures() []Signature {
	return g.signatures
}

// Check returns a *PageError for the first signature found in body.
func (g *PageGuard) Check(body string) error {
	for _, sig := range g.signatures {
		if !sig.Pattern.MatchString(body) {
			continue
		}
		if sig.Dump {
			glog.Errorf("-- Error occured, dumping partial stack trace to the screen...")
			if head, ok := dumpHead(body); ok {
				glog.Error(head)
			}
		}
		return &PageError{Signature: sig}
	}
	return nil
}

// dumpHead returns the first DumpLimit characters of body, or false when the
// body is shorter.
func dumpHead(body string) (string, bool) {
	if utf8.RuneCountInString(body) < DumpLimit {
		return "", false
	}
	return string([]rune(body)[:DumpLimit]), true
}

// SignatureConfig is the configuration form of a Signature.
type SignatureConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
	Dump    bool   `yaml:"dump"`
}

func compileSignatures(cfgs []SignatureConfig) ([]Signature, error) {
	var sigs []Signature
	for _, c := range cfgs {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("page signature %q: %v", c.Name, err)
		}
		msg := c.Message
		if msg == "" {
			msg = fmt.Sprintf("phrase '%s' found !", c.Pattern)
		}
		sigs = append(sigs, Signature{Name: c.Name, Pattern: re, Message: msg, Dump: c.Dump})
	}
	return sigs, nil
}
