package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// pathLiteralRe loosely matches path-like string literals so paths buried
// in script bundles are discovered too.
var pathLiteralRe = regexp.MustCompile(`["'](/[a-zA-Z0-9\-_/]+\.[a-z0-9]+|[a-zA-Z0-9\-_/]+/)["']`)

var sensitiveExts = []string{".env", ".js", ".json", ".sql", ".php"}

// extractLinks pulls candidate URLs from a page: href/src attributes via a
// proper HTML parse, plus loosely matched path literals. Only same-origin,
// length-bounded links that look like subdirectories or sensitive files
// are kept.
func extractLinks(body string, base *url.URL) []string {
	raw := attributeLinks(body)
	for _, m := range pathLiteralRe.FindAllStringSubmatch(body, -1) {
		raw = append(raw, m[1])
	}

	seen := make(map[string]bool, len(raw))
	var out []string
	for _, link := range raw {
		ref, err := url.Parse(strings.TrimSpace(link))
		if err != nil {
			continue
		}
		full := base.ResolveReference(ref)
		if full.Host != base.Host || len(full.Path) >= 150 {
			continue
		}
		if !worthFollowing(full.Path) {
			continue
		}
		full.Fragment = ""
		s := full.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// attributeLinks walks the parsed DOM collecting href and src attributes.
// html.Parse tolerates the malformed markup real sites serve, which is why
// this is not a regex.
func attributeLinks(body string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}
	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if (attr.Key == "href" || attr.Key == "src") && attr.Val != "" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func worthFollowing(path string) bool {
	if strings.HasSuffix(path, "/") {
		return true
	}
	for _, ext := range sensitiveExts {
		if strings.Contains(path, ext) {
			return true
		}
	}
	return false
}
