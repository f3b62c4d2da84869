package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/inkwell-sh/inkwell/pkg/config"
)

// RemoteIP returns the client address for a request, honoring
// X-Forwarded-For only when the connection comes from a trusted proxy.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if !config.Get().IsTrustedProxy(host) {
		return host
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return host
	}

	// The client address is the first entry; proxies append.
	parts := strings.Split(forwarded, ",")
	client := strings.TrimSpace(parts[0])
	if net.ParseIP(client) == nil {
		return host
	}
	return client
}
