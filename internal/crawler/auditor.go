// Package crawler implements a bounded security audit of a web target:
// a frontier-driven crawl that flags exposed directory listings, followed
// by a concurrent probe of well-known sensitive files in every directory
// the crawl discovered.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; sentinel-auditor/1.0)"

// seedGuesses are common sensitive directories tried even when no link
// points at them.
var seedGuesses = []string{
	"/api/", "/v1/", "/v2/", "/dev/", "/test/", "/backup/", "/old/", "/storage/",
	"/admin/", "/config/", "/uploads/", "/tmp/", "/private/", "/.git/",
	"/js/", "/assets/",
}

// probeFiles are fetched in every discovered directory during the probing
// phase; each hit is verified by verifyLeak before being reported.
var probeFiles = []string{
	".env", ".git/config", ".vscode/settings.json",
	"web.config", "phpinfo.php", "config.php.bak",
}

var (
	listingSignatures = []string{
		"index of", "parent directory", "last modified",
		"directory listing", "folder listing",
	}
	disallowRe = regexp.MustCompile(`Disallow:\s*(/[^\s#]+)`)
)

// Options bound the audit. Zero values fall back to the defaults from
// production tuning: 40 pages, depth 5, 7s per fetch.
type Options struct {
	MaxPages  int
	MaxDepth  int
	Timeout   time.Duration
	UserAgent string
}

func (o Options) withDefaults() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = 40
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 7 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

// Result summarizes one audit run.
type Result struct {
	Audited  int      // distinct URLs fetched during the crawl phase
	Findings []string // deduplicated human-readable vulnerability descriptors
}

// Auditor crawls a single target per Audit call. The crawl client follows
// redirects; the probe client does not, so a redirect-to-login cannot be
// mistaken for a leaked file.
type Auditor struct {
	crawlClient *http.Client
	probeClient *http.Client
	opts        Options
}

func New(opts Options) *Auditor {
	opts = opts.withDefaults()
	return &Auditor{
		crawlClient: &http.Client{Timeout: opts.Timeout},
		probeClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		opts: opts,
	}
}

type frontierEntry struct {
	url   string
	depth int
}

// Audit runs the full crawl plus probing phase. It returns an error only
// when the target address cannot be parsed; every per-URL network failure
// is swallowed so a dead link never aborts the run.
func (a *Auditor) Audit(ctx context.Context, target string) (Result, error) {
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	base, err := url.Parse(target)
	if err != nil || base.Host == "" {
		return Result{}, fmt.Errorf("invalid crawl target %q", target)
	}
	origin := base.Scheme + "://" + base.Host
	startPath := base.Path
	if startPath == "" {
		startPath = "/"
	}

	visited := make(map[string]bool, a.opts.MaxPages)
	var findings []string

	frontier := []frontierEntry{
		{origin + startPath, 0},
		{origin + "/", 0},
	}
	frontier = append(frontier, a.robotsSeeds(ctx, origin)...)
	for _, guess := range seedGuesses {
		frontier = append(frontier, frontierEntry{origin + guess, 1})
	}

	for i := 0; i < len(frontier) && len(visited) < a.opts.MaxPages; i++ {
		entry := frontier[i]
		if visited[entry.url] {
			continue
		}
		visited[entry.url] = true

		body, status, ok := a.fetch(ctx, entry.url)
		if !ok {
			continue
		}
		lower := strings.ToLower(body)

		if status == http.StatusOK && looksLikeListing(lower) {
			path := urlPath(entry.url)
			findings = append(findings, path+" [directory listing]")
		}

		if entry.depth < a.opts.MaxDepth {
			for _, link := range extractLinks(body, base) {
				if !visited[link] {
					frontier = append(frontier, frontierEntry{link, entry.depth + 1})
				}
			}
		}
	}

	findings = append(findings, a.probeDirectories(ctx, directoriesOf(visited))...)

	return Result{Audited: len(visited), Findings: dedupe(findings)}, nil
}

// robotsSeeds fetches /robots.txt and turns every Disallow rule into a
// frontier entry: paths the operator wanted hidden are exactly the ones
// worth auditing.
func (a *Auditor) robotsSeeds(ctx context.Context, origin string) []frontierEntry {
	body, status, ok := a.fetch(ctx, origin+"/robots.txt")
	if !ok || status != http.StatusOK {
		return nil
	}
	var seeds []frontierEntry
	for _, m := range disallowRe.FindAllStringSubmatch(body, -1) {
		path := strings.SplitN(m[1], "*", 2)[0]
		if path == "" {
			continue
		}
		seeds = append(seeds, frontierEntry{origin + path, 1})
	}
	return seeds
}

func (a *Auditor) fetch(ctx context.Context, rawURL string) (body string, status int, ok bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, false
	}
	req.Header.Set("User-Agent", a.opts.UserAgent)
	resp, err := a.crawlClient.Do(req)
	if err != nil {
		return "", 0, false
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", 0, false
	}
	return string(b), resp.StatusCode, true
}

// looksLikeListing requires both a textual index signature and structural
// evidence, so a blog post mentioning "index of" is not a finding.
func looksLikeListing(lower string) bool {
	signature := false
	for _, s := range listingSignatures {
		if strings.Contains(lower, s) {
			signature = true
			break
		}
	}
	if !signature {
		return false
	}
	return strings.Contains(lower, "<table") ||
		strings.Contains(lower, "<pre") ||
		strings.Contains(lower, "href=")
}

// probeDirectories fetches every directory x probe-file combination
// concurrently and keeps only strictly verified leaks.
func (a *Auditor) probeDirectories(ctx context.Context, dirs []string) []string {
	var (
		mu    sync.Mutex
		leaks []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, dir := range dirs {
		for _, file := range probeFiles {
			target := dir + file
			g.Go(func() error {
				if leak, ok := a.probeFile(gctx, target); ok {
					mu.Lock()
					leaks = append(leaks, leak)
					mu.Unlock()
				}
				return nil
			})
		}
	}
	_ = g.Wait()
	sort.Strings(leaks)
	return leaks
}

func (a *Auditor) probeFile(ctx context.Context, rawURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", a.opts.UserAgent)
	resp, err := a.probeClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", false
	}
	if !verifyLeak(rawURL, resp.Header.Get("Content-Type"), body) {
		return "", false
	}
	return urlPath(rawURL) + " [sensitive leak]", true
}

// verifyLeak applies stricter content checks than the crawl phase: a 200
// alone is not enough, the body must look like the real artifact.
func verifyLeak(rawURL, contentType string, body []byte) bool {
	text := strings.ToLower(string(body))
	switch {
	case strings.Contains(rawURL, ".env"):
		return strings.Contains(text, "app_") || strings.Contains(text, "db_") ||
			strings.Contains(text, "secret") || strings.Contains(text, "key")
	case strings.Contains(rawURL, ".git/config"):
		return strings.Contains(text, "[core]")
	case strings.Contains(rawURL, "phpinfo"):
		return strings.Contains(text, "php version")
	default:
		ct := strings.ToLower(contentType)
		return ct != "" && !strings.Contains(ct, "text/html") && len(body) > 10
	}
}

// directoriesOf trims every visited URL to its containing directory.
func directoriesOf(visited map[string]bool) []string {
	set := make(map[string]bool, len(visited))
	for u := range visited {
		dir := u
		if !strings.HasSuffix(dir, "/") {
			if i := strings.LastIndex(dir, "/"); i > len("https://") {
				dir = dir[:i+1]
			} else {
				dir += "/"
			}
		}
		set[dir] = true
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return u.Path
	}
	return "/"
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
