package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// NetworkType defines the endpoint profile to test (mainnet or testnet).
type NetworkType string

// Constants for known network types.
const (
	NetworkMainnet NetworkType = "mainnet"
	NetworkTestnet NetworkType = "testnet"
)

// ParseNetworkType converts a raw string into a known NetworkType.
func ParseNetworkType(raw string) (NetworkType, error) {
	switch NetworkType(strings.ToLower(strings.TrimSpace(raw))) {
	case NetworkMainnet:
		return NetworkMainnet, nil
	case NetworkTestnet:
		return NetworkTestnet, nil
	default:
		return "", fmt.Errorf("unknown network type '%s'", raw)
	}
}

// Title returns the display form of the network name.
func (n NetworkType) Title() string {
	switch n {
	case NetworkMainnet:
		return "Mainnet"
	case NetworkTestnet:
		return "Testnet"
	default:
		return string(n)
	}
}

// EndpointURL represents the base origin of a block engine endpoint.
type EndpointURL string

// NewEndpointURL validates rawURL as an http(s) origin without a trailing path.
func NewEndpointURL(rawURL string) (EndpointURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("endpoint url cannot be empty")
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint url format '%s': %w", rawURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("endpoint url '%s' has unsupported scheme: '%s'", rawURL, u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("endpoint url '%s' has no host", rawURL)
	}
	if u.Path != "" && u.Path != "/" {
		return "", fmt.Errorf("endpoint url '%s' must not carry a path", rawURL)
	}

	return EndpointURL(strings.TrimSuffix(rawURL, "/")), nil
}

// String returns the string representation of the EndpointURL.
func (u EndpointURL) String() string {
	return string(u)
}

// Endpoint is a named block engine location. Values are immutable and are
// passed around by copy.
type Endpoint struct {
	Name string
	URL  EndpointURL
}
