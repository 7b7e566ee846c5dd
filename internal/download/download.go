// Package download fetches the automation servers and browser drivers the
// harness talks to.
package download

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// File describes how to download a file from the Web.
type File struct {
	URL  string
	Name string
	// Hash is the hex digest of the download. Files with a hash are not
	// downloaded again when a copy with the same digest exists.
	Hash     string
	HashType string // default is sha256
	// Rename, if set, renames Rename[0] to Rename[1] after unpacking.
	Rename []string
}

var (
	// SeleniumRCFile is the last Selenium standalone server that still
	// serves the RC protocol.
	SeleniumRCFile = File{
		URL:  "https://selenium-release.storage.googleapis.com/2.53/selenium-server-standalone-2.53.1.jar",
		Name: "selenium-server-rc.jar",
	}

	// SeleniumFile is the Selenium 3 standalone server, for the WebDriver
	// backend.
	SeleniumFile = File{
		URL:  "https://selenium-release.storage.googleapis.com/3.141/selenium-server-standalone-3.141.59.jar",
		Name: "selenium-server.jar",
		Hash: "acf71b77d1b66b55db6fb0bed6d8bae2bbd481311bcbedfeff472c0d15e8f3cb",
	}
)

// ChromeDriverBucket is the public GCS bucket holding ChromeDriver builds.
const ChromeDriverBucket = "chromedriver"

// ChromeDriverFile resolves the linux64 ChromeDriver archive of version from
// the ChromeDriver bucket. An empty version selects LATEST_RELEASE.
func ChromeDriverFile(ctx context.Context, version string, opts ...option.ClientOption) (File, error) {
	if len(opts) == 0 {
		opts = []option.ClientOption{option.WithHTTPClient(http.DefaultClient)}
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return File{}, fmt.Errorf("cannot create a storage client for downloading chromedriver: %v", err)
	}
	defer client.Close()

	bkt := client.Bucket(ChromeDriverBucket)
	if version == "" {
		r, err := bkt.Object("LATEST_RELEASE").NewReader(ctx)
		if err != nil {
			return File{}, fmt.Errorf("cannot read gs://%s/LATEST_RELEASE: %v", ChromeDriverBucket, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return File{}, fmt.Errorf("cannot read gs://%s/LATEST_RELEASE: %v", ChromeDriverBucket, err)
		}
		version = strings.TrimSpace(string(data))
	}

	object := path.Join(version, "chromedriver_linux64.zip")
	attrs, err := bkt.Object(object).Attrs(ctx)
	if err != nil {
		return File{}, fmt.Errorf("cannot get gs://%s/%s attrs: %v", ChromeDriverBucket, object, err)
	}
	return File{
		URL:      attrs.MediaLink,
		Name:     "chromedriver.zip",
		Hash:     hex.EncodeToString(attrs.MD5),
		HashType: "md5",
	}, nil
}

// GeckoDriverAsset matches the linux64 archive of a geckodriver release.
var GeckoDriverAsset = regexp.MustCompile(`geckodriver-.*linux64\.tar\.gz$`)

// LatestGitHubRelease resolves the asset of the latest owner/repo release
// whose name matches asset. A nil client uses the public API.
func LatestGitHubRelease(ctx context.Context, client *github.Client, owner, repo string, asset *regexp.Regexp, localName string) (File, error) {
	if client == nil {
		client = github.NewClient(nil)
	}
	rel, _, err := client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return File{}, err
	}
	for _, a := range rel.Assets {
		if !asset.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s does not have a download URL", a.GetName())
		}
		return File{URL: u, Name: localName}, nil
	}
	return File{}, fmt.Errorf("release asset %s not found at https://github.com/%s/%s/releases", asset, owner, repo)
}

// Fetcher downloads files into a directory.
type Fetcher struct {
	Dir    string
	Client *http.Client
	// Unpack extracts archives after download.
	Unpack bool
}

func (f *Fetcher) path(file File) string {
	return filepath.Join(f.Dir, file.Name)
}

// FetchAll downloads files concurrently and returns the first error.
func (f *Fetcher) FetchAll(ctx context.Context, files []File) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := f.Fetch(ctx, file); err != nil {
				return fmt.Errorf("error handling %s: %v", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Fetch downloads one file unless an identical copy is present.
func (f *Fetcher) Fetch(ctx context.Context, file File) error {
	if file.Hash != "" && f.sameHash(file) {
		glog.Infof("Skipping file %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := f.download(ctx, file); err != nil {
			return err
		}
	}
	if !f.Unpack {
		return nil
	}
	if err := f.unpack(file); err != nil {
		return err
	}
	if rename := file.Rename; len(rename) == 2 {
		from := filepath.Join(f.Dir, rename[0])
		to := filepath.Join(f.Dir, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			glog.Warningf("Error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

func newHash(hashType string) hash.Hash {
	switch strings.ToLower(hashType) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	}
	return sha256.New()
}

func (f *Fetcher) download(ctx context.Context, file File) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: error downloading %q: %s", file.Name, file.URL, resp.Status)
	}

	out, err := os.Create(f.path(file))
	if err != nil {
		return fmt.Errorf("error creating %q: %v", f.path(file), err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %v", f.path(file), closeErr)
		}
	}()

	h := newHash(file.HashType)
	if _, err := io.Copy(io.MultiWriter(out, h), resp.Body); err != nil {
		return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.URL, err)
	}
	if file.Hash == "" {
		return nil
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		return fmt.Errorf("%s: got hash %q, want %q", file.Name, sum, file.Hash)
	}
	return nil
}

func (f *Fetcher) sameHash(file File) bool {
	in, err := os.Open(f.path(file))
	if err != nil {
		return false
	}
	defer in.Close()

	h := newHash(file.HashType)
	if _, err := io.Copy(h, in); err != nil {
		return false
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

func (f *Fetcher) unpack(file File) error {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	var cmd []string
	switch path.Ext(file.Name) {
	case ".zip":
		cmd = []string{"unzip", "-d", dir, "-o", f.path(file)}
	case ".gz":
		cmd = []string{"tar", "-xzf", f.path(file), "-C", dir}
	case ".bz2":
		cmd = []string{"tar", "-xjf", f.path(file), "-C", dir}
	default:
		return nil
	}
	glog.Infof("Unpacking %q", f.path(file))
	if err := exec.Command(cmd[0], cmd[1:]...).Run(); err != nil {
		return fmt.Errorf("error unpacking %q: %v", file.Name, err)
	}
	return nil
}
