// Package video recognises embeddable video links.
package video

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	shortHost    = "youtu.be"
	canonicalDom = "youtube.com"
	embedBase    = "https://www.youtube.com/embed/"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractEmbedID returns the video ID of a short-link or canonical watch URL.
// Anything it cannot parse or does not recognise yields ok == false.
func ExtractEmbedID(raw string) (id string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == shortHost:
		id, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	case host == canonicalDom || strings.HasSuffix(host, "."+canonicalDom):
		id = u.Query().Get("v")
	default:
		return "", false
	}

	if !idPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// EmbedURL is the player address for a video ID.
func EmbedURL(id string) string {
	return embedBase + id
}
