package api

import (
	"net"
	"net/http"
	"strings"
)

const (
	forwardedForHeader = "X-Forwarded-For"
	unknownIP          = "unknown"
	loopbackIPv6       = "::1"
	loopbackIPv4       = "127.0.0.1"
)

// ResolveClientIP derives the rate limiting key for a request. The forwarding
// header is trusted as sent, so the result is spoofable and must not be used
// for authentication.
func ResolveClientIP(header http.Header, remoteAddr string) string {
	ip := ""
	if values := header.Values(forwardedForHeader); len(values) > 0 {
		ip, _, _ = strings.Cut(values[0], ",")
		ip = strings.TrimSpace(ip)
	}
	// a blank header counts as absent
	if ip == "" {
		ip = hostOnly(remoteAddr)
	}

	if ip == loopbackIPv6 {
		ip = loopbackIPv4
	}
	if ip == "" {
		return unknownIP
	}
	return ip
}

// hostOnly strips the port from a socket address such as "1.2.3.4:5678" or "[::1]:80".
func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}

// resolveClientIP stores the caller IP in the request context for the handlers
func resolveClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ResolveClientIP(r.Header, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctxWithClientIP(r.Context(), ip)))
	})
}

// clientIP returns the IP resolved for r
func clientIP(r *http.Request) string {
	if ip := ctxGetClientIP(r.Context()); ip != "" {
		return ip
	}
	return ResolveClientIP(r.Header, r.RemoteAddr)
}
