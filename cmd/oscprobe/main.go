// Command oscprobe is a small standalone tool for manually exercising a
// running oscmixbridge: it listens on a UDP socket and prints any OSC
// packets it receives, and lets the user type "/address type args..." lines
// on stdin to send OSC messages. Grounded on kissutil.go's role as a manual
// TNC-exercising companion to direwolf, ported from a KISS-frame/ax.25
// reader-writer to an OSC-packet one.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/doismellburning/fireface-oscbridge/internal/osc"
)

func main() {
	listenAddr := pflag.StringP("listen", "l", "127.0.0.1:8222", "address to listen for OSC on")
	sendAddr := pflag.StringP("send", "s", "127.0.0.1:7222", "address to send typed OSC messages to")
	verbose := pflag.BoolP("verbose", "v", false, "print each decoded message's type tag alongside its args")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - manual probe for an oscmixbridge endpoint.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Prints OSC packets received on -l, and sends lines typed on stdin\n")
		fmt.Fprintf(os.Stderr, "(\"/address typetag arg1 arg2 ...\") to -s.\n")
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	lAddr, err := net.ResolveUDPAddr("udp", *listenAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscprobe: bad listen address: %v\n", err)
		os.Exit(1)
	}
	sAddr, err := net.ResolveUDPAddr("udp", *sendAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscprobe: bad send address: %v\n", err)
		os.Exit(1)
	}

	conn, err := net.ListenUDP("udp", lAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscprobe: listen failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	go receiveLoop(conn, *verbose)
	sendLoop(conn, sAddr)
}

func receiveLoop(conn *net.UDPConn, verbose bool) {
	buf := make([]byte, 65536)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "oscprobe: read error: %v\n", err)
			return
		}
		msgs, err := osc.DecodeBundleOrMessage(append([]byte(nil), buf[:n]...))
		if err != nil {
			fmt.Fprintf(os.Stderr, "oscprobe: malformed packet from %s: %v\n", from, err)
			continue
		}
		for _, m := range msgs {
			printMessage(m, verbose)
		}
	}
}

func printMessage(m osc.Message, verbose bool) {
	r := osc.NewReader(m)
	var args []string
	for _, tag := range m.Types {
		switch tag {
		case 'i':
			args = append(args, strconv.FormatInt(int64(r.Int()), 10))
		case 'f':
			args = append(args, strconv.FormatFloat(float64(r.Float()), 'g', -1, 32))
		case 's':
			args = append(args, r.String())
		default:
			args = append(args, string(tag))
		}
	}
	if verbose {
		fmt.Printf("%s ,%s %s\n", m.Address, m.Types, strings.Join(args, " "))
	} else {
		fmt.Printf("%s %s\n", m.Address, strings.Join(args, " "))
	}
}

// sendLoop reads "/address typetag arg..." lines from stdin and sends each
// as a single OSC message to sAddr, matching kissutil's keyboard-input loop.
func sendLoop(conn *net.UDPConn, sAddr *net.UDPAddr) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			fmt.Fprintln(os.Stderr, "oscprobe: expected \"/address typetag [args...]\"")
			continue
		}

		addr := fields[0]
		types := fields[1]
		rest := fields[2:]

		args, err := parseArgs(types, rest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "oscprobe: %v\n", err)
			continue
		}

		buf, err := osc.EncodeMessage(addr, types, args...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "oscprobe: encode failed: %v\n", err)
			continue
		}
		if _, err := conn.WriteToUDP(buf, sAddr); err != nil {
			fmt.Fprintf(os.Stderr, "oscprobe: send failed: %v\n", err)
		}
	}
}

func parseArgs(types string, fields []string) ([]any, error) {
	var args []any
	fi := 0
	for _, tag := range types {
		switch tag {
		case 'i':
			if fi >= len(fields) {
				return nil, fmt.Errorf("missing int argument for type tag %q", types)
			}
			v, err := strconv.ParseInt(fields[fi], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("bad int argument %q: %w", fields[fi], err)
			}
			args = append(args, int32(v))
			fi++
		case 'f':
			if fi >= len(fields) {
				return nil, fmt.Errorf("missing float argument for type tag %q", types)
			}
			v, err := strconv.ParseFloat(fields[fi], 32)
			if err != nil {
				return nil, fmt.Errorf("bad float argument %q: %w", fields[fi], err)
			}
			args = append(args, float32(v))
			fi++
		case 's':
			if fi >= len(fields) {
				return nil, fmt.Errorf("missing string argument for type tag %q", types)
			}
			args = append(args, fields[fi])
			fi++
		case 'T', 'F', 'N':
			// tag-only, no field consumed.
		default:
			return nil, fmt.Errorf("unsupported type tag %q", tag)
		}
	}
	return args, nil
}
