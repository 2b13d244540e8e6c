package filters

import (
	"net"
	"strings"

	"github.com/lopn/routing"
	"github.com/lopn/routing/apperr"
)

// IPFilterOptions configures IP allow/deny rules.
type IPFilterOptions struct {
	Allow        []string
	Deny         []string
	UseForwarded bool
}

// IPFilter rejects requests from denied addresses, or from addresses outside
// a non-empty allow list, with a forbidden error.
func IPFilter(options IPFilterOptions) (routing.Filter, error) {
	allow, err := parseNets(options.Allow)
	if err != nil {
		return nil, err
	}
	deny, err := parseNets(options.Deny)
	if err != nil {
		return nil, err
	}

	return func(ctx *routing.Context, _ ...string) (any, error) {
		ip := clientIP(ctx, options.UseForwarded)
		switch {
		case ip == nil, contains(deny, ip), len(allow) > 0 && !contains(allow, ip):
			return nil, apperr.Forbidden("ip not allowed", nil)
		}
		return nil, nil
	}, nil
}

func parseNets(entries []string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			_, cidr, err := net.ParseCIDR(entry)
			if err != nil {
				return nil, err
			}
			nets = append(nets, cidr)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, net.InvalidAddrError(entry)
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets, nil
}

func contains(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func clientIP(ctx *routing.Context, useForwarded bool) net.IP {
	req := ctx.Request
	if useForwarded {
		first, _, _ := strings.Cut(req.Header.Get("X-Forwarded-For"), ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return net.ParseIP(req.RemoteAddr)
	}
	return net.ParseIP(host)
}
