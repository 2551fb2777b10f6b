// ABOUTME: Client address resolution behind reverse proxies
// ABOUTME: Forwarding headers are honored only when the direct peer is a configured proxy

package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// TrustedProxies lists the networks whose X-Forwarded-For and X-Real-IP
// headers are believed. A nil *TrustedProxies trusts nobody.
type TrustedProxies struct {
	nets []*net.IPNet
}

// NewTrustedProxies parses CIDRs or single addresses. An empty list returns
// nil, so only the peer address is used.
func NewTrustedProxies(entries []string) (*TrustedProxies, error) {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, n)
	}

	if len(nets) == 0 {
		return nil, nil
	}
	return &TrustedProxies{nets: nets}, nil
}

func (p *TrustedProxies) trusts(addr string) bool {
	if p == nil {
		return false
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range p.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the address a request is attributed to. The forwarding
// chain is walked from the right and the first hop that is not a trusted
// proxy wins.
func (p *TrustedProxies) ClientIP(r *http.Request) string {
	peer := remoteIP(r)
	if !p.trusts(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !p.trusts(hop) || i == 0 {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

// remoteIP is the direct peer address without its port
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
