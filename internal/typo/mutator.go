// Package typo detects phishing domains mimicking a target: it generates
// plausible look-alike spellings of the domain and checks which of them
// actually resolve in DNS.
package typo

import (
	"fmt"
	"strings"
)

// alphabet is the set of characters allowed in generated labels.
const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789-"

// homoglyphs maps characters to visually similar substitutes.
var homoglyphs = map[byte]byte{
	'o': '0', 'l': '1', 'i': '1', 's': '5', 'a': '4', 'e': '3',
}

// CleanDomain strips scheme and path from an address, leaving name.tld.
func CleanDomain(addr string) (name, tld string, err error) {
	clean := strings.TrimSpace(addr)
	if i := strings.Index(clean, "://"); i >= 0 {
		clean = clean[i+3:]
	}
	clean = strings.SplitN(clean, "/", 2)[0]
	if clean == "" {
		return "", "", fmt.Errorf("empty domain")
	}
	i := strings.LastIndex(clean, ".")
	if i <= 0 || i == len(clean)-1 {
		return "", "", fmt.Errorf("invalid domain format %q", addr)
	}
	return strings.ToLower(clean[:i]), strings.ToLower(clean[i+1:]), nil
}

// Variants generates look-alike domains via five mutation classes:
// omission, insertion, adjacent transposition, homoglyph substitution and
// bitsquatting. The original domain is excluded and the result is
// deduplicated and capped (cost bound, not a completeness guarantee).
// Insertion alone is O(len(name) x len(alphabet)), so the cap matters.
func Variants(addr string, limit int) ([]string, error) {
	name, tld, err := CleanDomain(addr)
	if err != nil {
		return nil, err
	}
	original := name + "." + tld

	seen := map[string]bool{original: true}
	var out []string
	add := func(label string) {
		if label == "" {
			return
		}
		d := label + "." + tld
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}

	// omission
	for i := range name {
		add(name[:i] + name[i+1:])
	}
	// insertion
	for i := 0; i <= len(name); i++ {
		for _, ch := range []byte(alphabet) {
			add(name[:i] + string(ch) + name[i:])
		}
	}
	// adjacent transposition
	for i := 0; i < len(name)-1; i++ {
		add(name[:i] + string(name[i+1]) + string(name[i]) + name[i+2:])
	}
	// homoglyph substitution
	for i := 0; i < len(name); i++ {
		if sub, ok := homoglyphs[name[i]]; ok {
			add(name[:i] + string(sub) + name[i+1:])
		}
	}
	// bitsquatting
	for i := 0; i < len(name); i++ {
		for bit := 0; bit < 8; bit++ {
			flipped := name[i] ^ (1 << bit)
			if strings.IndexByte(alphabet, flipped) >= 0 {
				add(name[:i] + string(flipped) + name[i+1:])
			}
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
