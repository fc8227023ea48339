// Package durec projects the device's durable-recorder ("DUREC") register
// stream into a diffed state machine: each Update* call either changes
// nothing observable or returns the OSC message the caller should emit.
// Grounded on original_source/oscmix.c's durec global and its
// newdurecstatus/newdurectime/newdurecusbstatus/newdurectotalspace/
// newdurecfreespace/newdurecfileslen/newdurecfile/newdurecnext/
// newdurecrecordtime/newdurecindex/newdurecname/newdurecinfo/
// newdureclength handlers.
package durec

var statusNames = []string{
	"No Media", "Filesystem Error", "Initializing", "Reinitializing", "",
	"Stopped", "Recording", "", "", "",
	"Playing", "Paused",
}

var playModeNames = []string{
	"Single", "UFX Single", "Continuous", "Single Next", "Repeat Single", "Repeat All",
}

var sampleRates = []int{32000, 44100, 48000, 64000, 88200, 96000, 128000, 176400, 192000}

// SampleRate looks up the device's sample-rate enum, matching
// original_source/oscmix.c's getsamplerate. It returns 0 for index 0 and
// for an out-of-range index.
func SampleRate(val int) int {
	if val > 0 && val < len(sampleRates) {
		return sampleRates[val]
	}
	return 0
}

// File mirrors original_source/oscmix.c's struct durecfile.
type File struct {
	Name       [9]byte // UTF-16LE-decoded-in-place name buffer (9 bytes: 4 16-bit halves + NUL)
	SampleRate int
	Channels   int
	Length     int
}

// State is the running projection of the device's DUREC subsystem,
// replacing the original's static `durec` global.
type State struct {
	Status      int
	Position    int
	Time        int
	USBErrors   int
	USBLoad     int
	TotalSpace  float32
	FreeSpace   float32
	Files       []File
	RecordName  int // "file" register: currently selected file for naming
	RecordTime  int
	Index       int
	Next        int
	PlayMode    int
}

// New returns a State with the same initial index as the original's
// `durec = {.index = -1}`.
func New() *State {
	return &State{Index: -1}
}

// Emission is an OSC update durec's state machine wants sent. Addr is
// relative, e.g. "/durec/status"; Types/Args follow internal/osc's
// EncodeMessage convention.
type Emission struct {
	Addr  string
	Types string
	Args  []any
}

func (s *State) UpdateStatus(val int) *Emission {
	var e *Emission
	status := val & 0xf
	if status != s.Status {
		s.Status = status
		name := ""
		if status >= 0 && status < len(statusNames) {
			name = statusNames[status]
		}
		e = &Emission{Addr: "/durec/status", Types: "is", Args: []any{int32(status), name}}
	}
	position := (val >> 8) * 100 / 65
	if position != s.Position {
		s.Position = position
		if e == nil {
			e = &Emission{Addr: "/durec/position", Types: "i", Args: []any{int32(position)}}
		}
	}
	return e
}

func (s *State) UpdateTime(val int) *Emission {
	if val == s.Time {
		return nil
	}
	s.Time = val
	return &Emission{Addr: "/durec/time", Types: "i", Args: []any{int32(val)}}
}

func (s *State) UpdateUSBStatus(val int) (load, errs *Emission) {
	usbload := val >> 8
	if usbload != s.USBLoad {
		s.USBLoad = usbload
		load = &Emission{Addr: "/durec/usbload", Types: "i", Args: []any{int32(usbload)}}
	}
	usberrors := val & 0xff
	if usberrors != s.USBErrors {
		s.USBErrors = usberrors
		errs = &Emission{Addr: "/durec/usberrors", Types: "i", Args: []any{int32(usberrors)}}
	}
	return
}

func (s *State) UpdateTotalSpace(val int) *Emission {
	ts := float32(val) / 16
	if ts == s.TotalSpace {
		return nil
	}
	s.TotalSpace = ts
	return &Emission{Addr: "/durec/totalspace", Types: "f", Args: []any{ts}}
}

func (s *State) UpdateFreeSpace(val int) *Emission {
	fs := float32(val) / 16
	if fs == s.FreeSpace {
		return nil
	}
	s.FreeSpace = fs
	return &Emission{Addr: "/durec/freespace", Types: "f", Args: []any{fs}}
}

// UpdateFilesLen grows (never shrinks below what's needed) the Files slice
// on demand, matching newdurecfileslen's realloc-and-zero-extend semantics.
func (s *State) UpdateFilesLen(val int) *Emission {
	if val < 0 || val == len(s.Files) {
		return nil
	}
	s.growFiles(val)
	if s.Index >= len(s.Files) {
		s.Index = -1
	}
	return &Emission{Addr: "/durec/numfiles", Types: "i", Args: []any{int32(val)}}
}

func (s *State) growFiles(n int) {
	if n <= len(s.Files) {
		s.Files = s.Files[:n]
		return
	}
	grown := make([]File, n)
	copy(grown, s.Files)
	s.Files = grown
}

func (s *State) UpdateFile(val int) *Emission {
	if val == s.RecordName {
		return nil
	}
	s.RecordName = val
	return &Emission{Addr: "/durec/file", Types: "i", Args: []any{int32(val)}}
}

func (s *State) UpdateNext(val int) (next, playMode *Emission) {
	n := ((val & 0xfff) ^ 0x800) - 0x800
	if n != s.Next {
		s.Next = n
		next = &Emission{Addr: "/durec/next", Types: "i", Args: []any{int32(n)}}
	}
	pm := val >> 12
	if pm != s.PlayMode {
		s.PlayMode = pm
		name := ""
		if pm >= 0 && pm < len(playModeNames) {
			name = playModeNames[pm]
		}
		playMode = &Emission{Addr: "/durec/playmode", Types: "is", Args: []any{int32(pm), name}}
	}
	return
}

func (s *State) UpdateRecordTime(val int) *Emission {
	if val == s.RecordTime {
		return nil
	}
	s.RecordTime = val
	return &Emission{Addr: "/durec/recordtime", Types: "i", Args: []any{int32(val)}}
}

// UpdateIndex selects the file the following name/info/length registers
// refer to, growing Files if the device reports an index beyond what
// UpdateFilesLen has announced yet (matching newdurecindex).
func (s *State) UpdateIndex(val int) *Emission {
	var grow *Emission
	if val+1 > len(s.Files) {
		grow = s.UpdateFilesLen(val + 1)
	}
	s.Index = val
	return grow
}

// UpdateNameFragment writes a UTF-16LE code unit into the selected file's
// name buffer at the 2-byte offset (reg-0x358b)*2, matching newdurecname.
// reg is the DUREC_NAME-relative register offset (0..3).
func (s *State) UpdateNameFragment(reg int, val int) *Emission {
	if s.Index < 0 || s.Index >= len(s.Files) {
		return nil
	}
	f := &s.Files[s.Index]
	off := reg * 2
	if off < 0 || off+2 > len(f.Name) {
		return nil
	}
	old := [2]byte{f.Name[off], f.Name[off+1]}
	f.Name[off] = byte(val)
	f.Name[off+1] = byte(val >> 8)
	if old != [2]byte{f.Name[off], f.Name[off+1]} {
		return &Emission{Addr: "/durec/name", Types: "is", Args: []any{int32(s.Index), decodeName(f.Name[:])}}
	}
	return nil
}

// decodeName decodes a NUL-padded UTF-16LE name buffer into a string,
// stopping at the first NUL code unit.
func decodeName(buf []byte) string {
	var out []rune
	for i := 0; i+1 < len(buf); i += 2 {
		u := uint16(buf[i]) | uint16(buf[i+1])<<8
		if u == 0 {
			break
		}
		out = append(out, rune(u))
	}
	return string(out)
}

func (s *State) UpdateInfo(val int) (rate, channels *Emission) {
	if s.Index < 0 || s.Index >= len(s.Files) {
		return nil, nil
	}
	f := &s.Files[s.Index]
	sr := SampleRate(val & 0xff)
	if sr != f.SampleRate {
		f.SampleRate = sr
		rate = &Emission{Addr: "/durec/samplerate", Types: "ii", Args: []any{int32(s.Index), int32(sr)}}
	}
	ch := val >> 8
	if ch != f.Channels {
		f.Channels = ch
		channels = &Emission{Addr: "/durec/channels", Types: "ii", Args: []any{int32(s.Index), int32(ch)}}
	}
	return
}

func (s *State) UpdateLength(val int) *Emission {
	if s.Index < 0 || s.Index >= len(s.Files) {
		return nil
	}
	f := &s.Files[s.Index]
	if val == f.Length {
		return nil
	}
	f.Length = val
	return &Emission{Addr: "/durec/length", Types: "ii", Args: []any{int32(s.Index), int32(val)}}
}

// Register/value pairs the transport control setters write, matching
// setdurecstop/setdurecplay/setdurecrecord/setdurecdelete's literal
// setreg() calls.
const (
	ActionReg = 0x3e9a
	StopVal   = 0x8120
	PlayVal   = 0x8123
	RecordVal = 0x8122

	DeleteReg     = 0x3e9b
	DeleteValBase = 0x8000

	SelectFileReg     = 0x3e9c
	SelectFileValBase = 0x8000
)

// DeleteVal returns the register value for deleting file index idx.
func DeleteVal(idx int) int { return DeleteValBase | idx }

// SelectFileVal returns the register value for selecting file index idx to
// write name/info into (setdurecfile).
func SelectFileVal(idx int) int { return SelectFileValBase | idx }
