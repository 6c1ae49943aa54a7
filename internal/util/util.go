// Package util provides content hashing and small request helpers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// LocalPath returns the path and query of ref when it points back at this
// site, or fallback otherwise. It keeps redirects from leaving the site.
func LocalPath(ref, host, fallback string) string {
	if ref == "" {
		return fallback
	}

	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.Host != "" && u.Host != host {
		return fallback
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}

	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
