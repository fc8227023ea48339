package discovery_test

import (
	"testing"

	"github.com/brutella/dnssd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/fireface-oscbridge/internal/discovery"
)

func TestServiceTypeIsValidDNSSDFormat(t *testing.T) {
	assert.Equal(t, "_osc._udp", discovery.ServiceType)

	_, err := dnssd.NewService(dnssd.Config{
		Name: "test-bridge",
		Type: discovery.ServiceType,
		Port: 8222,
	})
	require.NoError(t, err)
}

func TestServiceAcceptsEmptyNameForHostnameDerivation(t *testing.T) {
	_, err := dnssd.NewService(dnssd.Config{
		Type: discovery.ServiceType,
		Port: 8222,
	})
	require.NoError(t, err)
}
