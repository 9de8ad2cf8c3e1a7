package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the caller's IP address, or "" when none can be parsed.
//
// Functions usually run behind a platform front end, so forwarding headers
// are consulted before the socket peer:
//  1. X-Forwarded-For, first valid entry
//  2. Forwarded (RFC 7239), first valid for= parameter
//  3. X-Real-IP
//  4. RemoteAddr
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for ip := range strings.SplitSeq(forwarded, ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}

	if forwarded := r.Header.Get("Forwarded"); forwarded != "" {
		if parsed := forwardedFor(forwarded); parsed != "" {
			return parsed
		}
	}

	if parsed := parseIP(r.Header.Get("X-Real-IP")); parsed != "" {
		return parsed
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// forwardedFor extracts the first usable for= node of a Forwarded header.
func forwardedFor(header string) string {
	for element := range strings.SplitSeq(header, ",") {
		for pair := range strings.SplitSeq(element, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok || !strings.EqualFold(key, "for") {
				continue
			}
			value = strings.Trim(value, `"`)
			if host, _, err := net.SplitHostPort(value); err == nil {
				value = host
			}
			value = strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
			if parsed := parseIP(value); parsed != "" {
				return parsed
			}
		}
	}
	return ""
}

// parseIP validates and normalizes an IP address string.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
