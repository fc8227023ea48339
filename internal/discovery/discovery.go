// Package discovery announces the bridge's OSC endpoint over mDNS/DNS-SD so
// control surfaces on the same network can find it without the user typing
// in an IP and port, the same job src/dns_sd.go does for its KISS TCP
// service, ported from brutella/dnssd's TCP service config to a UDP one.
package discovery

import (
	"context"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

// ServiceType is the DNS-SD service type oscmixbridge announces.
const ServiceType = "_osc._udp"

// serviceConfig builds the dnssd.Config Announce registers, split out so the
// name/type/port wiring can be checked without opening any sockets.
func serviceConfig(name string, port int) dnssd.Config {
	return dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
	}
}

// Announce registers name/port under ServiceType and serves mDNS responses
// in the background until ctx is canceled. A zero-value name asks
// dnssd.NewService to derive one from the hostname.
func Announce(ctx context.Context, logger *log.Logger, name string, port int) error {
	cfg := serviceConfig(name, port)

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return err
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		return err
	}

	if _, err := rp.Add(sv); err != nil {
		return err
	}

	logger.Info("announcing OSC endpoint", "service", ServiceType, "port", port, "name", cfg.Name)

	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			logger.Error("dns-sd responder stopped", "error", err)
		}
	}()

	return nil
}
