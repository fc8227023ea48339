package main

import (
	"fmt"
	"net"
	"strings"
)

// parseUDPAddr resolves an address in the "type!host!port" form spec.md §6
// describes (only "udp" is a supported type), matching the general shape
// of kissnet.go's "hostname:port" connection strings but with the
// type-prefixed separator the original CLI uses.
func parseUDPAddr(s string) (*net.UDPAddr, error) {
	parts := strings.Split(s, "!")
	if len(parts) != 3 || parts[0] != "udp" {
		return nil, fmt.Errorf("oscmixbridge: address %q must be of the form udp!host!port", s)
	}
	return net.ResolveUDPAddr("udp", net.JoinHostPort(parts[1], parts[2]))
}
