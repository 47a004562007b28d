package urltitle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// IRIToURI converts an internationalized URL into plain ASCII: the host is
// IDNA-encoded and any other non-ASCII bytes are percent-encoded. ASCII input
// is returned unchanged.
func IRIToURI(iri string) (string, error) {
	if isASCII(iri) {
		return iri, nil
	}
	if !utf8.ValidString(iri) {
		return iri, fmt.Errorf("url is not valid UTF-8")
	}

	schemeEnd := strings.Index(iri, "://")
	if schemeEnd < 0 {
		return iri, fmt.Errorf("url has no scheme")
	}
	prefix := iri[:schemeEnd+3]
	rest := iri[schemeEnd+3:]

	authority := rest
	tail := ""
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		authority = rest[:i]
		tail = rest[i:]
	}

	userinfo := ""
	hostport := authority
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		userinfo = authority[:i+1]
		hostport = authority[i+1:]
	}

	host := hostport
	port := ""
	if i := strings.LastIndex(hostport, ":"); i >= 0 && !strings.HasSuffix(hostport, "]") {
		host = hostport[:i]
		port = hostport[i:]
	}

	asciiHost, err := idna.ToASCII(host)
	if err != nil {
		return iri, fmt.Errorf("failed to convert host %q: %w", host, err)
	}

	return prefix + escapeNonASCII(userinfo) + asciiHost + port + escapeNonASCII(tail), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func escapeNonASCII(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < utf8.RuneSelf {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// Hostname returns the part of url between the scheme and the first slash,
// the way it is shown next to a title.
func Hostname(url string) string {
	idx := 7
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "https://") {
		idx = 8
	} else if strings.HasPrefix(lower, "ftp://") {
		idx = 6
	}
	if idx > len(url) {
		return ""
	}
	hostname := url[idx:]
	if slash := strings.Index(hostname, "/"); slash != -1 {
		hostname = hostname[:slash]
	}
	return hostname
}
