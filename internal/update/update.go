package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultRepo = "appengine-ltd/agrodm"
	githubAPI   = "https://api.github.com"

	maxReleaseBytes = 1 << 20
)

var (
	allowedAssetHosts = map[string]struct{}{
		"github.com":                            {},
		"objects.githubusercontent.com":         {},
		"github-releases.githubusercontent.com": {},
	}
	repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

// Checker asks GitHub for the latest agrodm release.
type Checker struct {
	Repo    string
	BaseURL string
	HTTP    *http.Client
}

func NewChecker() *Checker {
	return &Checker{
		Repo:    DefaultRepo,
		BaseURL: githubAPI,
		HTTP:    &http.Client{Timeout: 20 * time.Second},
	}
}

// Result describes how the running build compares with the latest release.
// AssetURL is empty when the release carries no archive for this platform.
type Result struct {
	Current  string
	Latest   string
	Newer    bool
	AssetURL string
}

func (r Result) String() string {
	switch {
	case r.Current == "" || r.Current == "dev":
		return fmt.Sprintf("Latest release is v%s.", r.Latest)
	case !r.Newer:
		return fmt.Sprintf("Up to date (v%s).", r.Current)
	case r.AssetURL == "":
		return fmt.Sprintf("Update available: v%s → v%s (no build for %s/%s).", r.Current, r.Latest, runtime.GOOS, runtime.GOARCH)
	default:
		return fmt.Sprintf("Update available: v%s → v%s. Download %s", r.Current, r.Latest, r.AssetURL)
	}
}

func (c *Checker) Check(ctx context.Context, currentVersion string) (Result, error) {
	rel, err := c.latestRelease(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Current: strings.TrimPrefix(currentVersion, "v"),
		Latest:  strings.TrimPrefix(rel.TagName, "v"),
	}
	if res.Current == "" || res.Current == "dev" {
		return res, nil
	}
	res.Newer = compareVersions(res.Latest, res.Current) > 0
	if res.Newer {
		res.AssetURL = findAssetURL(rel, ArchiveName(rel.TagName, runtime.GOOS, runtime.GOARCH))
	}
	return res, nil
}

type githubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

func validateRepo(repo string) error {
	if !repoPattern.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %q", repo)
	}
	return nil
}

func validateHTTPSURL(raw string, allowedHosts map[string]struct{}) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	host := strings.ToLower(parsed.Hostname())
	if _, ok := allowedHosts[host]; !ok {
		return fmt.Errorf("unsupported URL host: %s", host)
	}
	return nil
}

func (c *Checker) latestRelease(ctx context.Context) (*githubRelease, error) {
	if err := validateRepo(c.Repo); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(c.BaseURL, "/"), c.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("github latest release: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var rel githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReleaseBytes)).Decode(&rel); err != nil {
		return nil, err
	}
	if rel.TagName == "" {
		return nil, errors.New("latest release has no tag_name")
	}
	for _, asset := range rel.Assets {
		if err := validateHTTPSURL(asset.BrowserDownloadURL, allowedAssetHosts); err != nil {
			return nil, fmt.Errorf("invalid asset URL for %s: %w", asset.Name, err)
		}
	}
	return &rel, nil
}

func findAssetURL(rel *githubRelease, name string) string {
	for _, a := range rel.Assets {
		if a.Name == name {
			return a.BrowserDownloadURL
		}
	}
	return ""
}

// ArchiveName is the release archive GoReleaser publishes for a platform.
func ArchiveName(tag, goos, goarch string) string {
	ext := "tar.gz"
	if goos == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("agrodm_%s_%s_%s.%s", strings.TrimPrefix(tag, "v"), goos, goarch, ext)
}

// compareVersions orders dotted numeric versions. Pre-release suffixes after
// a dash are ignored, and missing parts count as zero.
func compareVersions(a, b string) int {
	pa, pb := versionParts(a), versionParts(b)
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return 0
}

func versionParts(v string) []int {
	v, _, _ = strings.Cut(strings.TrimPrefix(v, "v"), "-")
	var out []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
