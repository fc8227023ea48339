// Package miditransport wraps the two raw MIDI file descriptors
// oscmixbridge is handed by its caller (fd 6 for reading sysex from the
// device, fd 7 for writing sysex to it, matching original_source/main.c's
// hardcoded "6"/"7" in its poll() loop and writemidi), and implements the
// frame-scanning loop that splits a raw byte stream on F0...F7 boundaries
// (original_source/main.c's midiread).
package miditransport

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultReadFD and DefaultWriteFD are the descriptor numbers
// original_source/main.c reads/writes MIDI on; a wrapper process (e.g. a
// small shell script invoking amidi, or systemd socket activation) is
// expected to have these already open and connected to the device's
// rawmidi node before exec'ing oscmixbridge.
const (
	DefaultReadFD  = 6
	DefaultWriteFD = 7
)

// Transport is the raw byte-stream view of the MIDI connection: an
// io.Reader for inbound bytes and an io.Writer for outbound sysex frames,
// already fully formed by internal/sysex before they reach Write.
type Transport struct {
	R io.Reader
	W io.Writer
}

// OpenFDs wraps DefaultReadFD/DefaultWriteFD as a Transport.
func OpenFDs() *Transport {
	return OpenFDsAt(DefaultReadFD, DefaultWriteFD)
}

// OpenFDsAt wraps an arbitrary read/write fd pair as a Transport (a
// --config file or flag may point at fds other than the 6/7 default). Both
// fds are switched to non-blocking mode with unix.SetNonblock first:
// os.NewFile only hands a blocking fd off to Go's runtime poller when the
// fd is already non-blocking, and kissnet.go's connect_listen_thread
// similarly reaches past the net package to massage an inherited fd's
// socket options before handing it back to ordinary blocking-looking
// Read/Write calls.
func OpenFDsAt(readFD, writeFD int) *Transport {
	_ = unix.SetNonblock(readFD, true)
	_ = unix.SetNonblock(writeFD, true)
	return &Transport{
		R: os.NewFile(uintptr(readFD), "midi-in"),
		W: os.NewFile(uintptr(writeFD), "midi-out"),
	}
}

const maxFrameBuf = 8192

// FrameScanner re-implements original_source/main.c's midiread: it buffers
// raw bytes from a Transport and yields each complete F0...F7 sysex frame.
// An over-long frame with no terminating F7 is dropped (matching the
// original's "sysex packet too large; dropping"); a frame with no leading
// F0 is never buffered at all.
type FrameScanner struct {
	r   io.Reader
	buf []byte
}

// NewFrameScanner wraps r (typically a Transport's R field).
func NewFrameScanner(r io.Reader) *FrameScanner {
	return &FrameScanner{r: r, buf: make([]byte, 0, maxFrameBuf)}
}

// ErrFrameTooLarge is returned (alongside whatever frames were already
// pending to be dropped) when an unterminated frame fills the whole buffer.
var ErrFrameTooLarge = fmt.Errorf("miditransport: sysex frame too large, dropping")

// ReadFrames blocks on a single Read from the underlying reader, then
// returns every complete sysex frame that read produced (zero or more),
// retaining any trailing partial frame for the next call, exactly like
// midiread's "memmove(data, datapos, dataend - datapos)" carry-over.
func (s *FrameScanner) ReadFrames() ([][]byte, error) {
	free := cap(s.buf) - len(s.buf)
	if free == 0 {
		// The buffer is entirely a carried-over partial frame with no F7
		// yet and no room left; drop it, matching the original's overlong
		// frame handling so a wedged input never wedges forever.
		s.buf = s.buf[:0]
		return nil, ErrFrameTooLarge
	}

	n := len(s.buf)
	s.buf = s.buf[:n+free]
	read, err := s.r.Read(s.buf[n:])
	s.buf = s.buf[:n+read]
	if read == 0 && err != nil {
		return nil, err
	}

	var frames [][]byte
	pos := 0
	for {
		start := bytes.IndexByte(s.buf[pos:], 0xF0)
		if start == -1 {
			s.buf = s.buf[:0]
			break
		}
		start += pos
		end := bytes.IndexByte(s.buf[start+1:], 0xF7)
		if end == -1 {
			if len(s.buf) == cap(s.buf) {
				s.buf = s.buf[:0]
				return frames, ErrFrameTooLarge
			}
			remaining := append([]byte(nil), s.buf[start:]...)
			s.buf = append(s.buf[:0], remaining...)
			break
		}
		end += start + 1 + 1 // index relative to start+1, plus the F7 byte itself
		frame := append([]byte(nil), s.buf[start:end]...)
		frames = append(frames, frame)
		pos = end
	}
	return frames, err
}

// WriteFrame writes a complete, already-encoded sysex frame.
func WriteFrame(w io.Writer, frame []byte) error {
	_, err := w.Write(frame)
	return err
}
