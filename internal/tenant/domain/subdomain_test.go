package domain

import "testing"

func TestExtractSubdomain(t *testing.T) {
	cases := []struct {
		name string
		host string
		want string
	}{
		{"localhost", "localhost", ""},
		{"localhost with port", "localhost:8080", ""},
		{"ipv4", "127.0.0.1", ""},
		{"ipv4 with port", "192.168.1.10:3000", ""},
		{"bare brand domain", "swaybrasil.com", ""},
		{"brand with country tld", "swaybrasil.com.br", ""},
		{"www bare", "www.sway.com", ""},
		{"tenant on brand domain", "acme.swaybrasil.com", "acme"},
		{"tenant with port", "acme.swaybrasil.com:443", "acme"},
		{"www then tenant", "www.acme.swaybrasil.com", "acme"},
		{"www three labels", "www.abc.com", ""},
		{"two labels", "acme.localhost", ""},
		{"brand as first label", "swaybrasil.app.io", ""},
		{"empty", "", ""},
		{"uppercase host", "ACME.SWAYBRASIL.COM", "acme"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractSubdomain(tc.host, "swaybrasil")
			if got != tc.want {
				t.Fatalf("ExtractSubdomain(%q) = %q, want %q", tc.host, got, tc.want)
			}
		})
	}
}
