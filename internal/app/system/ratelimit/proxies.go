// internal/app/system/ratelimit/proxies.go
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Proxies is the set of networks whose X-Forwarded-For and X-Real-IP headers
// are believed. The zero value trusts nobody.
type Proxies struct {
	nets []*net.IPNet
}

// ParseProxies accepts plain IPs and CIDR blocks.
func ParseProxies(list []string) (Proxies, error) {
	var p Proxies
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			ip := net.ParseIP(s)
			if ip == nil {
				return Proxies{}, fmt.Errorf("trusted proxy %q is not an IP or CIDR", s)
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			}
			p.nets = append(p.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return Proxies{}, fmt.Errorf("trusted proxy %q: %w", s, err)
		}
		p.nets = append(p.nets, n)
	}
	return p, nil
}

// Trusts reports whether ip belongs to a trusted proxy.
func (p Proxies) Trusts(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range p.nets {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller's address. Forwarding headers count only when
// the direct peer is a trusted proxy; X-Forwarded-For is walked from the
// right and the first hop that is not a trusted proxy wins.
func (p Proxies) ClientIP(r *http.Request) string {
	remote := ClientIP(r)
	if !p.Trusts(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		client := ""
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			client = hop
			if !p.Trusts(hop) {
				break
			}
		}
		if client != "" {
			return client
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return remote
}

// RealIP sets r.RemoteAddr to the resolved client address, so everything
// downstream (rate limit keys, audit records) sees the same caller.
func (p Proxies) RealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := p.ClientIP(r); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}
