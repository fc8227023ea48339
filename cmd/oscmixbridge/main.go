// Command oscmixbridge bridges a Fireface-class device's MIDI sysex
// register protocol to an OSC/UDP endpoint. It reads sysex from fd 6 and
// writes to fd 7 (a wrapper process or systemd unit is expected to have
// those already connected to the device's rawmidi node), and speaks OSC 1.0
// bundles/messages over UDP, matching spec.md §6's CLI and transport
// description. Grounded on the teacher's cmd/direwolf and kissutil.go CLI
// style, reworked from cgo-wrapped C config into plain Go flag parsing.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/doismellburning/fireface-oscbridge/internal/config"
	"github.com/doismellburning/fireface-oscbridge/internal/discovery"
	"github.com/doismellburning/fireface-oscbridge/internal/engine"
	"github.com/doismellburning/fireface-oscbridge/internal/logging"
	"github.com/doismellburning/fireface-oscbridge/internal/miditransport"
	"github.com/doismellburning/fireface-oscbridge/internal/osc"
	"github.com/doismellburning/fireface-oscbridge/internal/profile"
)

const heartbeatInterval = 100 * time.Millisecond

func defaults() config.Settings {
	return config.Settings{
		Device:       "ffucxii",
		RecvAddr:     "udp!127.0.0.1!7222",
		SendAddr:     "udp!127.0.0.1!8222",
		MIDIReadFD:   miditransport.DefaultReadFD,
		MIDIWriteFD:  miditransport.DefaultWriteFD,
		AnnounceName: "oscmixbridge",
	}
}

func main() {
	debug := pflag.BoolP("debug", "d", false, "enable debug logging")
	levels := pflag.BoolP("levels", "l", false, "request periodic level snapshots")
	multicast := pflag.BoolP("multicast", "m", false, "send OSC to the 224.0.0.1:8222 multicast group instead of -s")
	recvAddr := pflag.StringP("recv", "r", "", "OSC receive address (udp!host!port)")
	sendAddr := pflag.StringP("send", "s", "", "OSC send address (udp!host!port)")
	deviceID := pflag.StringP("profile", "p", "", "device profile id (else $MIDIPORT)")
	configPath := pflag.String("config", "", "optional YAML config file overriding the above")
	announce := pflag.Bool("announce", false, "advertise the OSC endpoint over mDNS/DNS-SD")
	announceName := pflag.String("announce-name", "", "service name used with --announce (default \"oscmixbridge\")")

	pflag.Parse()

	if *deviceID == "" {
		*deviceID = os.Getenv("MIDIPORT")
	}

	fileCfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscmixbridge: reading config: %v\n", err)
		os.Exit(1)
	}

	flagCfg := config.Settings{
		Device:       *deviceID,
		RecvAddr:     *recvAddr,
		SendAddr:     *sendAddr,
		Debug:        *debug,
		Announce:     *announce,
		AnnounceName: *announceName,
	}
	settings := config.Merge(fileCfg, flagCfg, defaults())

	if *multicast {
		settings.SendAddr = "udp!224.0.0.1!8222"
	}

	prof, ok := profile.ByID(settings.Device)
	if !ok {
		fmt.Fprintf(os.Stderr, "oscmixbridge: unknown device profile %q\n", settings.Device)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, settings.Debug)

	recv, err := parseUDPAddr(settings.RecvAddr)
	if err != nil {
		logger.Error("bad receive address", "error", err)
		os.Exit(1)
	}
	send, err := parseUDPAddr(settings.SendAddr)
	if err != nil {
		logger.Error("bad send address", "error", err)
		os.Exit(1)
	}
	conn, err := net.ListenUDP("udp", recv)
	if err != nil {
		logger.Error("listening for OSC", "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	if err := setReuseAddr(conn); err != nil {
		logger.Error("SO_REUSEADDR failed, continuing anyway", "error", err)
	}

	midi := miditransport.OpenFDsAt(settings.MIDIReadFD, settings.MIDIWriteFD)
	scanner := miditransport.NewFrameScanner(midi.R)

	eng := engine.New(prof, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	if settings.Announce {
		_, port, _ := net.SplitHostPort(recv.String())
		p := 0
		fmt.Sscanf(port, "%d", &p)
		if err := discovery.Announce(ctx, logger, settings.AnnounceName, p); err != nil {
			logger.Error("mDNS announce failed", "error", err)
		}
	}

	go oscReceiveLoop(conn, midi, eng, logger)
	go midiReceiveLoop(scanner, conn, send, eng, logger)
	heartbeatLoop(ctx, midi, eng, *levels, logger)
}

func oscReceiveLoop(conn *net.UDPConn, midi *miditransport.Transport, eng *engine.Engine, logger *log.Logger) {
	buf := make([]byte, 65536)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			logger.Error("osc read failed", "error", err)
			return
		}
		msgs, err := osc.DecodeBundleOrMessage(append([]byte(nil), buf[:n]...))
		if err != nil {
			logger.Error("osc decode failed", "error", err)
			continue
		}
		frame, err := eng.HandleOSCMessages(msgs)
		if err != nil {
			logger.Error("osc dispatch failed", "error", err)
			continue
		}
		if frame == nil {
			continue
		}
		if err := miditransport.WriteFrame(midi.W, frame); err != nil {
			logger.Error("midi write failed", "error", err)
		}
	}
}

func midiReceiveLoop(scanner *miditransport.FrameScanner, conn *net.UDPConn, send *net.UDPAddr, eng *engine.Engine, logger *log.Logger) {
	for {
		frames, err := scanner.ReadFrames()
		if err != nil {
			if err == miditransport.ErrFrameTooLarge {
				logger.Error("dropped oversized midi frame")
			} else {
				logger.Error("midi read failed", "error", err)
				return
			}
		}
		for _, frame := range frames {
			msgs, err := eng.HandleSysexFrame(frame)
			if err != nil {
				logger.Error("sysex decode failed", "error", err)
				continue
			}
			if len(msgs) == 0 {
				continue
			}
			b := osc.NewBundle()
			for _, m := range msgs {
				b.AddMessage(m)
			}
			if _, err := conn.WriteToUDP(b.Bytes(), send); err != nil {
				logger.Error("osc send failed", "error", err)
			}
		}
	}
}

func heartbeatLoop(ctx context.Context, midi *miditransport.Transport, eng *engine.Engine, levels bool, logger *log.Logger) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frames, err := eng.Heartbeat(levels)
			if err != nil {
				logger.Error("heartbeat failed", "error", err)
				continue
			}
			for _, f := range frames {
				if err := miditransport.WriteFrame(midi.W, f); err != nil {
					logger.Error("midi write failed", "error", err)
				}
			}
		}
	}
}
