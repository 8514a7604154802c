// Package oauth implements a simulated social login flow. No real
// identity provider is contacted: the authorize step redirects straight
// back to the callback with a synthetic code, and the exchange step
// derives a deterministic profile from that code.
package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

var supportedProviders = map[string]string{
	"google":   "Google",
	"facebook": "Facebook",
	"apple":    "Apple",
}

type Profile struct {
	Provider   string
	ProviderID string
	Name       string
	Email      string
	Avatar     string
}

type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) Supported(provider string) bool {
	_, ok := supportedProviders[strings.ToLower(provider)]
	return ok
}

// AuthorizeURL builds the callback URL the client is redirected to,
// carrying a synthetic authorization code.
func (s *Simulator) AuthorizeURL(provider, callbackBase string) (string, error) {
	provider = strings.ToLower(provider)
	if !s.Supported(provider) {
		return "", fmt.Errorf("unsupported provider %q", provider)
	}
	code, err := randomCode(provider)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("code", code)
	q.Set("provider", provider)
	return fmt.Sprintf("%s?%s", callbackBase, q.Encode()), nil
}

// Exchange turns an authorization code into a profile. The same code
// always yields the same identity so repeated logins reuse one account.
func (s *Simulator) Exchange(provider, code string) (*Profile, error) {
	provider = strings.ToLower(provider)
	display, ok := supportedProviders[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("missing authorization code")
	}

	sum := sha256.Sum256([]byte(provider + ":" + code))
	id := hex.EncodeToString(sum[:8])
	return &Profile{
		Provider:   provider,
		ProviderID: id,
		Name:       fmt.Sprintf("Usuário %s", display),
		Email:      fmt.Sprintf("user-%s@%s.example.com", id[:8], provider),
		Avatar:     fmt.Sprintf("https://avatars.swaybrasil.com/%s/%s.png", provider, id),
	}, nil
}

func randomCode(provider string) (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return fmt.Sprintf("sim-%s-%s", provider, hex.EncodeToString(raw)), nil
}
