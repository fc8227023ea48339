// Package profile holds the static per-device-model tables and the
// bidirectional register<->control mapping oscmixbridge needs to talk to a
// specific Fireface unit. Grounded on original_source/device.h (the
// inputinfo/outputinfo/flags shapes) and original_source/device_ffucxii.c
// and device_ff802.c (the concrete profile data and regtoctl/ctltoreg
// arithmetic), reworked from C function pointers plus a packed-int control
// id into Go value types and a Control struct.
package profile

import "fmt"

// ChannelFlags records which optional controls a channel strip exposes,
// mirroring original_source/device.h's inputflags/outputflags.
type ChannelFlags int

const (
	HasGain ChannelFlags = 1 << iota
	HasAutoset
	HasRefLevel
	Has48V
	HasHiZ
)

// DeviceFlags records device-wide optional subsystems, mirroring
// original_source/device.h's deviceflags.
type DeviceFlags int

const (
	HasDurec DeviceFlags = 1 << iota
	HasRoomEQ
)

// ChannelInfo describes one input or output strip.
type ChannelInfo struct {
	Name       string
	Flags      ChannelFlags
	GainMin    int // tenths of a dB, only meaningful when HasGain is set
	GainMax    int
	RefLevels  []string // display labels for the reflevel enum, if HasRefLevel
}

// Section identifies which register bank a Control belongs to, mirroring
// the (commented-out) segment table in device_ffucxii.c.
type Section int

const (
	SectionInput Section = iota
	SectionOutput
	SectionReverb
	SectionEcho
	SectionCtlRoom
	SectionClock
	SectionHardware
	SectionRoomEQ
	SectionDurec
)

// ControlID names a control within a section. The same ControlID string can
// mean different things in different sections (e.g. "lowcut" is both the
// per-channel CtlLowcut and the reverb's CtlReverbLowcut, and "record" is
// both CtlRecord and CtlDurecRecord), so ControlID is always interpreted
// together with a Section.
type ControlID string

const (
	CtlMute      ControlID = "mute"
	CtlFxSend    ControlID = "fxsend"
	CtlStereo    ControlID = "stereo"
	CtlRecord    ControlID = "record"
	CtlPlayChan  ControlID = "playchan"
	CtlMSProc    ControlID = "msproc"
	CtlPhase     ControlID = "phase"
	CtlGain      ControlID = "gain"
	CtlRefLevel  ControlID = "reflevel" // also carries the 48V bit for inputs
	CtlAutoset   ControlID = "autoset"
	CtlVolume    ControlID = "volume"
	CtlBalance   ControlID = "balance"
	CtlFxReturn  ControlID = "fxreturn"
	CtlCrossfeed ControlID = "crossfeed"
	CtlVolumeCal ControlID = "volumecal"

	CtlLowcut      ControlID = "lowcut"
	CtlLowcutFreq  ControlID = "lowcut.freq"
	CtlLowcutSlope ControlID = "lowcut.slope"

	CtlEQ          ControlID = "eq"
	CtlEQBand1Type ControlID = "eq.band1.type"
	CtlEQBand1Gain ControlID = "eq.band1.gain"
	CtlEQBand1Freq ControlID = "eq.band1.freq"
	CtlEQBand1Q    ControlID = "eq.band1.q"
	CtlEQBand2Gain ControlID = "eq.band2.gain"
	CtlEQBand2Freq ControlID = "eq.band2.freq"
	CtlEQBand2Q    ControlID = "eq.band2.q"
	CtlEQBand3Type ControlID = "eq.band3.type"
	CtlEQBand3Gain ControlID = "eq.band3.gain"
	CtlEQBand3Freq ControlID = "eq.band3.freq"
	CtlEQBand3Q    ControlID = "eq.band3.q"

	CtlDynamics           ControlID = "dynamics"
	CtlDynamicsGain       ControlID = "dynamics.gain"
	CtlDynamicsAttack     ControlID = "dynamics.attack"
	CtlDynamicsRelease    ControlID = "dynamics.release"
	CtlDynamicsCompThres  ControlID = "dynamics.compthres"
	CtlDynamicsCompRatio  ControlID = "dynamics.compratio"
	CtlDynamicsExpThres   ControlID = "dynamics.expthres"
	CtlDynamicsExpRatio   ControlID = "dynamics.expratio"

	CtlAutolevel          ControlID = "autolevel"
	CtlAutolevelMaxGain   ControlID = "autolevel.maxgain"
	CtlAutolevelHeadroom  ControlID = "autolevel.headroom"
	CtlAutolevelRisetime  ControlID = "autolevel.risetime"

	CtlReverbEnabled   ControlID = "enabled"
	CtlReverbType      ControlID = "type"
	CtlReverbPredelay  ControlID = "predelay"
	CtlReverbLowcut    ControlID = "lowcut"
	CtlReverbRoomscale ControlID = "roomscale"
	CtlReverbAttack    ControlID = "attack"
	CtlReverbHold      ControlID = "hold"
	CtlReverbRelease   ControlID = "release"
	CtlReverbHighcut   ControlID = "highcut"
	CtlReverbTime      ControlID = "time"
	CtlReverbHighdamp  ControlID = "highdamp"
	CtlReverbSmooth    ControlID = "smooth"
	CtlReverbVolume    ControlID = "volume"
	CtlReverbWidth     ControlID = "width"

	CtlEchoEnabled ControlID = "enabled"
	CtlEchoType    ControlID = "type"
	CtlEchoDelay   ControlID = "delay"
	CtlEchoFeedback ControlID = "feedback"
	CtlEchoHighcut ControlID = "highcut"
	CtlEchoVolume  ControlID = "volume"
	CtlEchoWidth   ControlID = "width"

	CtlCtlRoomMainOut       ControlID = "mainout"
	CtlCtlRoomMainMono      ControlID = "mainmono"
	CtlCtlRoomMuteEnable    ControlID = "muteenable"
	CtlCtlRoomDimReduction  ControlID = "dimreduction"
	CtlCtlRoomDim           ControlID = "dim"
	CtlCtlRoomRecallVolume  ControlID = "recallvolume"

	CtlClockSource     ControlID = "source"
	CtlClockSampleRate ControlID = "samplerate"
	CtlClockWckOut     ControlID = "wckout"
	CtlClockWckSingle  ControlID = "wcksingle"
	CtlClockWckTerm    ControlID = "wckterm"

	CtlHwOpticalOut       ControlID = "opticalout"
	CtlHwSpdifOut         ControlID = "spdifout"
	CtlHwCCMode           ControlID = "ccmode"
	CtlHwCCMix            ControlID = "ccmix"
	CtlHwStandaloneMIDI   ControlID = "standalonemidi"
	CtlHwStandaloneARC    ControlID = "standalonearc"
	CtlHwLockKeys         ControlID = "lockkeys"
	CtlHwRemapKeys        ControlID = "remapkeys"
	CtlHwDSPLoad          ControlID = "dspload"
	CtlHwDSPAvail         ControlID = "dspavail"
	CtlHwDSPStatus        ControlID = "dspstatus"
	CtlHwARCDelta         ControlID = "arcdelta"

	CtlDurecStatus     ControlID = "status"
	CtlDurecTime       ControlID = "time"
	CtlDurecUSBLoad    ControlID = "usbload"
	CtlDurecTotalSpace ControlID = "totalspace"
	CtlDurecFreeSpace  ControlID = "freespace"
	CtlDurecNumFiles   ControlID = "numfiles"
	CtlDurecFile       ControlID = "file"
	CtlDurecNext       ControlID = "next"
	CtlDurecRecordTime ControlID = "recordtime"
	CtlDurecStop       ControlID = "stop"
	CtlDurecPlay       ControlID = "play"
	CtlDurecRecord     ControlID = "record"
	CtlDurecDelete     ControlID = "delete"
)

// Control identifies a single addressable register: which section it lives
// in, which channel within that section (-1 for global sections), and which
// control within the channel.
type Control struct {
	Section Section
	Channel int
	ID      ControlID
}

func (c Control) String() string {
	if c.Channel < 0 {
		return fmt.Sprintf("%d/%s", c.Section, c.ID)
	}
	return fmt.Sprintf("%d/%d/%s", c.Section, c.Channel, c.ID)
}

// inputRegs0 and outputRegs0 are the channel-private register offsets 0-11
// (register & 0x3f < 12), ported from device_ffucxii.c's inputregs/
// outputregs index arrays.
var inputRegs0 = []ControlID{
	CtlMute, CtlFxSend, CtlStereo, CtlRecord, "",
	CtlPlayChan, CtlMSProc, CtlPhase, CtlGain, CtlRefLevel,
	CtlAutoset,
}

var outputRegs0 = []ControlID{
	CtlVolume, CtlBalance, CtlMute, CtlFxReturn, CtlStereo,
	CtlRecord, "", CtlPlayChan, CtlPhase, CtlRefLevel,
	CtlCrossfeed, CtlVolumeCal,
}

// fxRegs are the channel-shared register offsets 12-38, shared between
// input and output channels (the "fxctls" table in device_ffucxii.c's
// regtoctl/ctltoreg).
var fxRegs = []ControlID{
	CtlLowcut, CtlLowcutFreq, CtlLowcutSlope,
	CtlEQ, CtlEQBand1Type, CtlEQBand1Gain, CtlEQBand1Freq, CtlEQBand1Q,
	CtlEQBand2Gain, CtlEQBand2Freq, CtlEQBand2Q,
	CtlEQBand3Type, CtlEQBand3Gain, CtlEQBand3Freq, CtlEQBand3Q,
	CtlDynamics, CtlDynamicsGain, CtlDynamicsAttack, CtlDynamicsRelease,
	CtlDynamicsCompThres, CtlDynamicsCompRatio, CtlDynamicsExpThres, CtlDynamicsExpRatio,
	CtlAutolevel, CtlAutolevelMaxGain, CtlAutolevelHeadroom, CtlAutolevelRisetime,
}

const channelRegStep = 0x40 // register 6 (idx<<6) step between channels

var reverbRegs = []ControlID{
	CtlReverbEnabled, CtlReverbType, CtlReverbPredelay, CtlReverbLowcut,
	CtlReverbRoomscale, CtlReverbAttack, CtlReverbHold, CtlReverbRelease,
	CtlReverbHighcut, CtlReverbTime, CtlReverbHighdamp, CtlReverbSmooth,
	CtlReverbVolume, CtlReverbWidth,
}

var echoRegs = []ControlID{
	CtlEchoEnabled, CtlEchoType, CtlEchoDelay, CtlEchoFeedback,
	CtlEchoHighcut, CtlEchoVolume, CtlEchoWidth,
}

var ctlRoomRegMap = map[int]ControlID{
	0: CtlCtlRoomMainOut, 1: CtlCtlRoomMainMono, 3: CtlCtlRoomMuteEnable,
	4: CtlCtlRoomDimReduction, 5: CtlCtlRoomDim, 6: CtlCtlRoomRecallVolume,
}

var clockRegMap = map[int]ControlID{
	4: CtlClockSource, 5: CtlClockSampleRate, 6: CtlClockWckOut,
	7: CtlClockWckSingle, 8: CtlClockWckTerm,
}

var hardwareRegMap = map[int]ControlID{
	8: CtlHwOpticalOut, 9: CtlHwSpdifOut, 10: CtlHwCCMode, 11: CtlHwCCMix,
	12: CtlHwStandaloneMIDI, 13: CtlHwStandaloneARC, 14: CtlHwLockKeys,
	15: CtlHwRemapKeys, 16: CtlHwDSPLoad, 17: CtlHwDSPAvail, 18: CtlHwDSPStatus,
	19: CtlHwARCDelta,
}

var durecRegMap = map[int]ControlID{
	0: CtlDurecStatus, 1: CtlDurecTime, 3: CtlDurecUSBLoad, 4: CtlDurecTotalSpace,
	5: CtlDurecFreeSpace, 6: CtlDurecNumFiles, 7: CtlDurecFile, 8: CtlDurecNext,
	9: CtlDurecRecordTime,
}

const (
	baseReverb   = 0x3000
	baseEcho     = 0x3014
	baseCtlRoom  = 0x3050
	baseClock    = 0x3060
	baseHardware = 0x3070
	baseDurec    = 0x3580
	// DurecActionBase is the register that DUREC_STOP/PLAY/RECORD write to;
	// DurecDeleteReg is the register DUREC_DELETE writes to.
	DurecActionBase = 0x3E9A
	DurecDeleteReg  = 0x3E9B
)

// Profile is a device model's complete static description plus its
// register<->control mapping, replacing original_source/device.h's struct
// device and its regtoctl/ctltoreg function pointers with plain data and
// two pure functions closed over that data.
type Profile struct {
	ID      string
	Name    string
	Version int
	Flags   DeviceFlags
	Inputs  []ChannelInfo
	Outputs []ChannelInfo
}

func (p *Profile) HasDurec() bool   { return p.Flags&HasDurec != 0 }
func (p *Profile) HasRoomEQ() bool  { return p.Flags&HasRoomEQ != 0 }

// RegToControl maps a 15-bit device register to the Control it addresses,
// ported from device_ffucxii.c's regtoctl.
func (p *Profile) RegToControl(reg int) (Control, bool) {
	if reg < 0 {
		return Control{}, false
	}
	if reg < 0x1000 {
		idx := reg >> 6
		off := reg & 0x3f
		nIn := len(p.Inputs)
		nOut := len(p.Outputs)
		switch {
		case idx < nIn:
			if int(off) < len(inputRegs0) && inputRegs0[off] != "" {
				return Control{Section: SectionInput, Channel: idx, ID: inputRegs0[off]}, true
			}
			fi := off - 12
			if fi < 0 || fi >= len(fxRegs) {
				return Control{}, false
			}
			return Control{Section: SectionInput, Channel: idx, ID: fxRegs[fi]}, true
		case idx < nIn+nOut:
			ch := idx - nIn
			if int(off) < len(outputRegs0) && outputRegs0[off] != "" {
				return Control{Section: SectionOutput, Channel: ch, ID: outputRegs0[off]}, true
			}
			fi := off - 12
			if fi < 0 || fi >= len(fxRegs) {
				return Control{}, false
			}
			return Control{Section: SectionOutput, Channel: ch, ID: fxRegs[fi]}, true
		default:
			return Control{}, false
		}
	}
	if reg-0x3000 < 0x1000 {
		switch {
		case reg >= baseReverb && reg-baseReverb < len(reverbRegs):
			return Control{Section: SectionReverb, Channel: -1, ID: reverbRegs[reg-baseReverb]}, true
		case reg >= baseEcho && reg-baseEcho < len(echoRegs):
			return Control{Section: SectionEcho, Channel: -1, ID: echoRegs[reg-baseEcho]}, true
		case reg >= baseCtlRoom && reg < baseClock:
			if id, ok := ctlRoomRegMap[reg-baseCtlRoom]; ok {
				return Control{Section: SectionCtlRoom, Channel: -1, ID: id}, true
			}
		case reg >= baseClock && reg < baseHardware:
			if id, ok := clockRegMap[reg-baseClock]; ok {
				return Control{Section: SectionClock, Channel: -1, ID: id}, true
			}
		case reg >= baseHardware && reg < baseDurec:
			if id, ok := hardwareRegMap[reg-baseHardware]; ok {
				return Control{Section: SectionHardware, Channel: -1, ID: id}, true
			}
		case reg >= baseDurec:
			if id, ok := durecRegMap[reg-baseDurec]; ok {
				return Control{Section: SectionDurec, Channel: -1, ID: id}, true
			}
		}
		return Control{}, false
	}
	return Control{}, false
}

// ControlToReg maps a Control back to its device register, ported from
// device_ffucxii.c's ctltoreg.
func (p *Profile) ControlToReg(c Control) (int, bool) {
	if c.Section == SectionDurec {
		switch c.ID {
		case CtlDurecStop, CtlDurecPlay, CtlDurecRecord:
			return DurecActionBase, true
		case CtlDurecDelete:
			return DurecDeleteReg, true
		}
	}

	switch c.Section {
	case SectionInput:
		if off := indexOf(inputRegs0, c.ID); off >= 0 {
			return c.Channel<<6 | off, true
		}
		if fi := indexOf(fxRegs, c.ID); fi >= 0 {
			return c.Channel<<6 | (fi + 12), true
		}
	case SectionOutput:
		nIn := len(p.Inputs)
		if off := indexOf(outputRegs0, c.ID); off >= 0 {
			return (nIn+c.Channel)<<6 | off, true
		}
		if fi := indexOf(fxRegs, c.ID); fi >= 0 {
			return (nIn+c.Channel)<<6 | (fi + 12), true
		}
	case SectionReverb:
		if off := indexOf(reverbRegs, c.ID); off >= 0 {
			return baseReverb + off, true
		}
	case SectionEcho:
		if off := indexOf(echoRegs, c.ID); off >= 0 {
			return baseEcho + off, true
		}
	case SectionCtlRoom:
		if off, ok := reverseLookup(ctlRoomRegMap, c.ID); ok {
			return baseCtlRoom + off, true
		}
	case SectionClock:
		if off, ok := reverseLookup(clockRegMap, c.ID); ok {
			return baseClock + off, true
		}
	case SectionHardware:
		if off, ok := reverseLookup(hardwareRegMap, c.ID); ok {
			return baseHardware + off, true
		}
	case SectionDurec:
		if off, ok := reverseLookup(durecRegMap, c.ID); ok {
			return baseDurec + off, true
		}
	}
	return 0, false
}

func indexOf(regs []ControlID, id ControlID) int {
	for i, r := range regs {
		if r == id {
			return i
		}
	}
	return -1
}

func reverseLookup(m map[int]ControlID, id ControlID) (int, bool) {
	for k, v := range m {
		if v == id {
			return k, true
		}
	}
	return 0, false
}
