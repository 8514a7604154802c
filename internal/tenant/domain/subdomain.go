package domain

import (
	"net"
	"regexp"
	"strings"
)

var ipv4Pattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

// ExtractSubdomain derives the tenant subdomain from a request host.
// It returns "" when the host carries no tenant: localhost, raw IPv4
// addresses, hosts with fewer than three labels, the www prefix and the
// apex brand label all resolve to the default tenant.
func ExtractSubdomain(host, apexBrand string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if host == "localhost" || ipv4Pattern.MatchString(host) {
		return ""
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return ""
	}

	first := parts[0]
	if first == "www" {
		// www.acme.swaybrasil.com still belongs to acme; www on a
		// three-label host is the bare site.
		if len(parts) > 3 {
			return parts[1]
		}
		return ""
	}
	if first == apexBrand {
		return ""
	}
	return first
}
