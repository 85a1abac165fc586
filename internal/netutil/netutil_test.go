package netutil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "ipv4 with port", input: "192.0.2.4:8080", expected: "192.0.2.4", ok: true},
		{name: "ipv6 with port", input: "[2001:db8::1]:443", expected: "2001:db8::1", ok: true},
		{name: "ipv6 textual port", input: "[::1]:port", expected: "::1", ok: true},
		{name: "bracketed ipv6", input: "[2001:db8::2]", expected: "2001:db8::2", ok: true},
		{name: "plain ipv4", input: "203.0.113.9", expected: "203.0.113.9", ok: true},
		{name: "plain ipv6", input: "2001:db8::3", expected: "2001:db8::3", ok: true},
		{name: "zoned ipv6", input: "fe80::1%eth0", expected: "fe80::1", ok: true},
		{name: "mapped ipv4", input: "[::ffff:198.51.100.1]:9000", expected: "198.51.100.1", ok: true},
		{name: "unix socket", input: "pipe", expected: "pipe", ok: false},
		{name: "host name", input: "localhost:8080", expected: "localhost:8080", ok: false},
		{name: "empty", input: "  ", expected: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeIP(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"198.51.100.7:52000": "198.51.100.7",
		"pipe":               "pipe",
		"":                   UnknownClient,
	}
	for remote, want := range tests {
		r := httptest.NewRequest("GET", "/api/health", nil)
		r.RemoteAddr = remote
		assert.Equal(t, want, ClientIP(r), remote)
	}
}

func TestTruncateUserAgent(t *testing.T) {
	long := strings.Repeat("ї", MaxUserAgentLength+10)
	truncated := TruncateUserAgent(long)
	assert.Len(t, []rune(truncated), MaxUserAgentLength)
	assert.True(t, strings.HasPrefix(long, truncated))

	exact := strings.Repeat("a", MaxUserAgentLength)
	assert.Equal(t, exact, TruncateUserAgent(exact))
	assert.Equal(t, "curl/8", TruncateUserAgent("curl/8"))
	assert.Empty(t, TruncateUserAgent(""))
}
