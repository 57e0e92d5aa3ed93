package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const unknownCountry = "ZZ"

// edge proxies in front of the scoreboard, most specific first.
var (
	clientIPHeaders      = []string{"Fly-Client-IP", "CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}
	clientCountryHeaders = []string{"Fly-Client-Country", "CF-IPCountry", "X-Vercel-IP-Country", "CloudFront-Viewer-Country"}
)

// clientIP returns the caller address as reported by the first proxy header
// carrying a parseable IP, falling back to the socket peer.
func clientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		if ip, ok := parseClientIP(r.Header.Get(header)); ok {
			return ip
		}
	}
	if ip, ok := parseClientIP(r.RemoteAddr); ok {
		return ip
	}
	return ""
}

// clientCountry returns the ISO alpha-2 country an edge proxy attached, or ZZ.
func clientCountry(r *http.Request) string {
	for _, header := range clientCountryHeaders {
		if code, ok := parseCountry(r.Header.Get(header)); ok {
			return code
		}
	}
	return unknownCountry
}

func parseClientIP(raw string) (string, bool) {
	value, _, _ := strings.Cut(raw, ",")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}

func parseCountry(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 || code == "XX" {
		return "", false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return code, true
}
