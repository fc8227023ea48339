// Package engine wires together profile, mixmatrix, durec, tree, osc, sysex
// and bcodec into the running bridge, replacing original_source/oscmix.c's
// single translation unit (global state plus init/handlesysex/handleosc/
// handletimer) with an Engine value holding the same state behind a mutex,
// matching spec.md §5's single-writer model.
package engine

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/doismellburning/fireface-oscbridge/internal/bcodec"
	"github.com/doismellburning/fireface-oscbridge/internal/durec"
	"github.com/doismellburning/fireface-oscbridge/internal/levelmeter"
	"github.com/doismellburning/fireface-oscbridge/internal/mixmatrix"
	"github.com/doismellburning/fireface-oscbridge/internal/osc"
	"github.com/doismellburning/fireface-oscbridge/internal/profile"
	"github.com/doismellburning/fireface-oscbridge/internal/sysex"
	"github.com/doismellburning/fireface-oscbridge/internal/tree"
)

const (
	manufacturerID = 0x00200D // RME
	deviceID       = 0x10
	subIDRegisters = 0
	subIDLevelsMin = 1
	subIDLevelsMax = 5

	regSerial = 0x3f00
)

// Engine is the bridge's complete runtime state: the selected device
// profile, the mix matrix, the DUREC projection, and the address tree built
// from all three. A single mutex protects everything, matching
// original_source/oscmix.c's implicit single-threaded-event-loop model
// (main.c's poll() loop called midiread/oscread/handletimer one at a time)
// reworked into an explicit lock so concurrent goroutines (MIDI reader, OSC
// reader, heartbeat timer) can share it safely.
type Engine struct {
	mu      sync.Mutex
	profile *profile.Profile
	matrix  *mixmatrix.Matrix
	durec   *durec.State
	levels  *levelmeter.State
	tree    *tree.Tree
	logger  *log.Logger

	refreshing bool
	serial     byte
}

// New builds an Engine for p and constructs its address tree.
func New(p *profile.Profile, logger *log.Logger) *Engine {
	numIn := len(p.Inputs)
	numOut := len(p.Outputs)
	e := &Engine{
		profile: p,
		matrix:  mixmatrix.New(numOut, numIn),
		durec:   durec.New(),
		levels:  levelmeter.New(),
		tree:    tree.New(),
		logger:  logger,
	}
	e.buildTree()
	return e
}

// Profile returns the engine's device profile.
func (e *Engine) Profile() *profile.Profile { return e.profile }

// --- inbound sysex -> OSC -------------------------------------------------

// HandleSysexFrame decodes one F0...F7 frame and dispatches it by sub-ID:
// register updates (sub-ID 0) run every changed register's Emitter
// (handlesysex's subid-0 branch into handleregs); sub-IDs 1-5 carry
// peak/RMS level-meter triples decoded by internal/levelmeter, matching
// handlesysex's subid-1..5 branch into handlelevels.
func (e *Engine) HandleSysexFrame(frame []byte) ([]osc.Message, error) {
	f, err := sysex.Decode(frame, sysex.MfrID|sysex.DevID|sysex.SubID)
	if err != nil {
		return nil, err
	}
	if f.ManufacturerID != manufacturerID || f.DeviceID != deviceID {
		return nil, fmt.Errorf("engine: unexpected sysex header %06x/%02x", f.ManufacturerID, f.DeviceID)
	}

	payload, err := bcodec.Base128Decode(f.Data)
	if err != nil {
		return nil, err
	}

	switch {
	case f.SubID == subIDRegisters:
		return e.handleRegisters(payload)
	case f.SubID >= subIDLevelsMin && f.SubID <= subIDLevelsMax:
		return e.handleLevels(int(f.SubID), payload)
	default:
		return nil, fmt.Errorf("engine: unknown sysex sub-id %d", f.SubID)
	}
}

// handleLevels unpacks subid's payload into LE32 words and runs it through
// the level-meter shadow/decode state, matching handlelevels' "len /= 3" and
// peak/RMS-to-dB conversion.
func (e *Engine) handleLevels(subid int, payload []byte) ([]osc.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	words := make([]uint32, len(payload)/4)
	for i := range words {
		words[i] = bcodec.GetLE32(payload[i*4:])
	}

	ems, err := e.levels.Decode(subid, words)
	if err != nil {
		return nil, err
	}

	out := make([]osc.Message, 0, len(ems))
	for _, em := range ems {
		buf, err := osc.EncodeMessage(em.Addr, em.Types, em.Args...)
		if err != nil {
			return nil, err
		}
		m, err := osc.DecodeMessage(buf)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (e *Engine) handleRegisters(payload []byte) ([]osc.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []osc.Message
	for i := 0; i+4 <= len(payload); i += 4 {
		word := bcodec.GetLE32(payload[i:])
		if !bcodec.RegisterWordParityOK(word) {
			e.logger.Error("register word failed parity check", "word", fmt.Sprintf("%08x", word))
			continue
		}
		reg := int(word >> 16 & 0x7fff)
		val := bcodec.SignExtend16(word & 0xffff)

		msgs, ok := e.tree.HandleRegisterUpdate(reg, val)
		if ok {
			out = append(out, msgs...)
		}
	}
	return out, nil
}

// --- outbound OSC -> sysex -------------------------------------------------

// HandleOSCMessages runs every message's Setter and encodes the resulting
// register writes into a single sub-ID 0 sysex frame, matching
// writesysex/setreg's "each register write becomes one 4-byte word in the
// sub-ID 0 payload" contract.
func (e *Engine) HandleOSCMessages(msgs []osc.Message) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var writes []tree.RegWrite
	for _, m := range msgs {
		w, err := e.tree.Dispatch(m)
		if err != nil {
			e.logger.Error("osc dispatch failed", "address", m.Address, "error", err)
			continue
		}
		writes = append(writes, w...)
	}
	if len(writes) == 0 {
		return nil, nil
	}
	return e.encodeRegisterWrites(writes)
}

func (e *Engine) encodeRegisterWrites(writes []tree.RegWrite) ([]byte, error) {
	payload := make([]byte, 0, len(writes)*4)
	for _, w := range writes {
		word := bcodec.RegisterWord(uint16(w.Reg), uint16(w.Val))
		var b [4]byte
		bcodec.PutLE32(b[:], word)
		payload = append(payload, b[:]...)
	}
	return e.encodeSysex(subIDRegisters, payload)
}

func (e *Engine) encodeSysex(subID byte, payload []byte) ([]byte, error) {
	packed := bcodec.Base128Encode(payload)
	f := sysex.Frame{ManufacturerID: manufacturerID, DeviceID: deviceID, SubID: subID, Data: packed}
	flags := sysex.MfrID | sysex.DevID | sysex.SubID
	buf := make([]byte, sysex.EncodedLen(&f, flags))
	sysex.Encode(&f, buf, flags)
	return buf, nil
}

// Heartbeat builds the 100ms-timer sysex frame: a rolling 4-bit serial
// number written to register 0x3f00, matching handletimer's
// "setreg(0x3f00, serial); serial = (serial + 1) & 0xf;". A meter-refresh
// frame (sub-ID 2, empty payload) is included unless refreshing is true,
// matching handletimer's "if (levels && !refreshing) writesysex(2, ...)".
func (e *Engine) Heartbeat(levels bool) ([][]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var frames [][]byte
	if levels && !e.refreshing {
		f, err := e.encodeSysex(2, nil)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}

	var b [4]byte
	bcodec.PutLE32(b[:], bcodec.RegisterWord(regSerial, uint16(e.serial)))
	serialFrame, err := e.encodeSysex(subIDRegisters, b[:])
	if err != nil {
		return nil, err
	}
	frames = append(frames, serialFrame)
	e.serial = (e.serial + 1) & 0xf
	return frames, nil
}

// SetRefreshing toggles whether the engine considers itself mid-refresh
// (spec.md's note that meter-request sysex is suppressed while refreshing).
func (e *Engine) SetRefreshing(v bool) {
	e.mu.Lock()
	e.refreshing = v
	e.mu.Unlock()
}

