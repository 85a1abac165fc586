// Package netutil extracts the client address and user agent that the
// access log records for every request.
package netutil

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const (
	MaxUserAgentLength = 512
	// UnknownClient is logged when a request carries no remote address.
	UnknownClient = "unknown"
)

// NormalizeIP returns the canonical form of the IP in raw. raw may carry a
// port, brackets or an IPv6 zone; IPv4-mapped IPv6 addresses are unmapped.
// When no IP can be read, raw is returned trimmed and ok is false.
func NormalizeIP(raw string) (ip string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, host := range hostCandidates(raw) {
		if addr, err := netip.ParseAddr(host); err == nil {
			return addr.WithZone("").Unmap().String(), true
		}
	}
	return raw, false
}

// hostCandidates lists raw itself followed by raw with its port stripped.
func hostCandidates(raw string) []string {
	out := []string{raw}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		return append(out, host)
	}
	if strings.HasPrefix(raw, "[") {
		if end := strings.Index(raw, "]"); end > 1 {
			out = append(out, raw[1:end])
		}
	} else if strings.Count(raw, ":") == 1 {
		out = append(out, raw[:strings.Index(raw, ":")])
	}
	return out
}

// ClientIP is the address logged for r. chi's RealIP middleware has already
// rewritten RemoteAddr when the portal sits behind a trusted proxy. An
// address that is not an IP (a unix socket name, for instance) is kept
// verbatim.
func ClientIP(r *http.Request) string {
	ip, _ := NormalizeIP(r.RemoteAddr)
	if ip == "" {
		return UnknownClient
	}
	return ip
}

// TruncateUserAgent cuts ua to MaxUserAgentLength runes.
func TruncateUserAgent(ua string) string {
	n := 0
	for i := range ua {
		if n == MaxUserAgentLength {
			return ua[:i]
		}
		n++
	}
	return ua
}
