package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpointURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    EndpointURL
		wantErr bool
	}{
		{name: "https origin", raw: "https://ny.mainnet.block-engine.jito.wtf", want: "https://ny.mainnet.block-engine.jito.wtf"},
		{name: "trailing slash trimmed", raw: "http://127.0.0.1:8080/", want: "http://127.0.0.1:8080"},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "websocket scheme", raw: "wss://example.com", wantErr: true},
		{name: "path not allowed", raw: "https://example.com/api/v1", wantErr: true},
		{name: "not a url", raw: "example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEndpointURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNetworkType(t *testing.T) {
	n, err := ParseNetworkType(" Testnet ")
	require.NoError(t, err)
	assert.Equal(t, NetworkTestnet, n)
	assert.Equal(t, "Testnet", n.Title())

	n, err = ParseNetworkType("mainnet")
	require.NoError(t, err)
	assert.Equal(t, NetworkMainnet, n)

	_, err = ParseNetworkType("devnet")
	assert.Error(t, err)
}
