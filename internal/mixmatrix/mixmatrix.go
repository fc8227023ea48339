// Package mixmatrix holds per-(output,input) mix coefficients and the
// vol/pan/width <-> linear-gain conversions used by the OSC /mix tree.
// Grounded on original_source/oscmix.c's calclevel/setlevel/setmix/newmix
// (lines ~560-770), reworked from raw pointer arithmetic over global
// inputs[]/outputs[] arrays into a Matrix type owning its own state.
package mixmatrix

import "math"

// Level is the user-facing (vol, pan, width) triple a mix cell is read or
// written as, matching original_source/oscmix.c's struct level.
type Level struct {
	Vol   float32 // linear coefficient, not dB: 0 is mute, 1 is 0dB, about 2 is +6dB
	Pan   int32   // -100 (left) to 100 (right)
	Width int32   // -100 (reversed) to 100 (full stereo)
}

// MonoWrite is a single register/value pair the matrix's underlying sysex
// writer needs to send, mirroring setmonolevel's call sites in setlevel.
type MonoWrite struct {
	Reg   int
	Level float32
}

// Matrix is the full set of output x input mix coefficients plus the
// runtime stereo-link and mute state needed to interpret them, replacing
// the original's global inputs[]/outputs[] arrays and each output's mix[]
// slice.
type Matrix struct {
	numOutputs int
	numInputs  int
	outStereo  []bool
	inStereo   []bool
	inMute     []bool
	mix        [][]float32 // mix[outIdx][inIdx], linear coefficients
}

// New allocates a Matrix for a device with the given output and input
// channel counts (inputs includes any virtual playback-return channels the
// profile appends, per spec.md's "virtual playback inputs" note).
func New(numOutputs, numInputs int) *Matrix {
	mix := make([][]float32, numOutputs)
	for i := range mix {
		mix[i] = make([]float32, numInputs)
	}
	return &Matrix{
		numOutputs: numOutputs,
		numInputs:  numInputs,
		outStereo:  make([]bool, numOutputs),
		inStereo:   make([]bool, numInputs),
		inMute:     make([]bool, numInputs),
		mix:        mix,
	}
}

func (m *Matrix) SetOutputStereo(idx int, v bool) { m.outStereo[idx] = v }
func (m *Matrix) SetInputStereo(idx int, v bool)  { m.inStereo[idx] = v }
func (m *Matrix) SetInputMute(idx int, v bool)    { m.inMute[idx] = v }

func (m *Matrix) OutputStereo(idx int) bool { return m.outStereo[idx] }
func (m *Matrix) InputStereo(idx int) bool  { return m.inStereo[idx] }

// normalizeOut returns the left channel of out's stereo pair if out is an
// odd-indexed member of a stereo-linked pair, matching
// "if (out->stereo && (out - outputs) & 1) --out;".
func (m *Matrix) normalizeOut(outIdx int) int {
	if outIdx&1 != 0 && m.outStereo[outIdx-1] {
		return outIdx - 1
	}
	return outIdx
}

// normalizeIn mirrors normalizeOut for the input side, but only applies
// when the caller is treating the input as stereo.
func (m *Matrix) normalizeIn(inIdx int, asStereo bool) int {
	if asStereo && m.inStereo[inIdx] && inIdx&1 != 0 {
		return inIdx - 1
	}
	return inIdx
}

// CalcLevel reads back the current mix cell for (outIdx, inIdx) as a
// (vol, pan, width) triple. instereo requests stereo-pair interpretation of
// the input side (calclevel's "instereo" parameter); it is downgraded to
// false if the channel at inIdx isn't actually stereo-linked.
func (m *Matrix) CalcLevel(outIdx, inIdx int, instereo bool) Level {
	if instereo {
		instereo = m.inStereo[inIdx]
	}
	in := m.normalizeIn(inIdx, instereo)
	out := m.normalizeOut(outIdx)

	var l Level
	if m.outStereo[out] {
		ll := m.mix[out][in]
		lr := m.mix[out+1][in]
		if instereo {
			rl := m.mix[out][in+1]
			rr := m.mix[out+1][in+1]
			var w float64
			if ll+rl == 0 {
				w = 1
			} else {
				w = 2*float64(ll)/float64(ll+rl) - 1
			}
			if ll < rr {
				l.Vol = float32(2 * float64(rr) / (1 + w))
				l.Pan = int32(math.Round(100 * (1 - float64(ll)/float64(rr))))
			} else {
				l.Vol = float32(2 * float64(ll) / (1 + w))
				if ll == 0 {
					l.Pan = 0
				} else {
					l.Pan = int32(math.Round(100 * (float64(rr)/float64(ll) - 1)))
				}
			}
			l.Width = int32(math.Round(100 * w))
		} else {
			l.Vol = float32(math.Sqrt(float64(ll)*float64(ll) + float64(lr)*float64(lr)))
			if l.Vol != 0 {
				l.Pan = int32(math.Round(math.Acos(float64(ll)/float64(l.Vol))*400/math.Pi - 100))
			}
		}
	} else {
		ll := m.mix[out][in]
		if instereo {
			rl := m.mix[out][in+1]
			if ll < rl {
				l.Vol = 2 * rl
				l.Pan = int32(math.Round(100 * (1 - float64(ll)/float64(rl))))
			} else {
				l.Vol = 2 * ll
				if ll == 0 {
					l.Pan = 0
				} else {
					l.Pan = int32(math.Round(100 * (float64(rl)/float64(ll) - 1)))
				}
			}
		} else {
			l.Vol = ll
		}
	}
	return l
}

// SetLevel writes l into the mix cell(s) for (outIdx, inIdx), returning the
// register writes the caller must send to the device for any unmuted
// channels touched (setlevel's setmonolevel calls).
func (m *Matrix) SetLevel(outIdx, inIdx int, instereo bool, l Level) []MonoWrite {
	if instereo {
		instereo = m.inStereo[inIdx]
	}
	in := m.normalizeIn(inIdx, instereo)
	out := m.normalizeOut(outIdx)

	var writes []MonoWrite
	muted := m.inMute[in]

	if m.outStereo[out] {
		var ll, lr, rl, rr float32
		if instereo {
			w := float32(l.Width) / 100
			if l.Pan > 0 {
				p := float32(100 - l.Pan)
				ll = p * (1 + w) / 200 * l.Vol
				lr = (1 - w) / 2 * l.Vol
				rl = p * (1 - w) / 200 * l.Vol
				rr = (1 + w) / 2 * l.Vol
			} else {
				p := float32(100 + l.Pan)
				ll = (1 + w) / 2 * l.Vol
				lr = p * (1 - w) / 200 * l.Vol
				rl = (1 - w) / 2 * l.Vol
				rr = p * (1 + w) / 200 * l.Vol
			}
			m.mix[out][in+1] = rl
			m.mix[out+1][in+1] = rr
			if !muted {
				writes = append(writes,
					MonoWrite{Reg: 0x4000 | out<<6 | (in + 1), Level: rl},
					MonoWrite{Reg: 0x4000 | (out+1)<<6 | (in + 1), Level: rr},
				)
			}
		} else {
			theta := float64(l.Pan+100) * math.Pi / 400
			ll = float32(math.Cos(theta)) * l.Vol
			lr = float32(math.Sin(theta)) * l.Vol
		}
		m.mix[out][in] = ll
		m.mix[out+1][in] = lr
		if !muted {
			writes = append(writes,
				MonoWrite{Reg: 0x4000 | out<<6 | in, Level: ll},
				MonoWrite{Reg: 0x4000 | (out+1)<<6 | in, Level: lr},
			)
		}
	} else {
		var ll, rl float32
		if instereo {
			if l.Pan > 0 {
				ll = float32(100-l.Pan) / 200 * l.Vol
				rl = l.Vol / 2
			} else {
				ll = l.Vol / 2
				rl = float32(100+l.Pan) / 200 * l.Vol
			}
			m.mix[out][in+1] = rl
			if !muted {
				writes = append(writes, MonoWrite{Reg: 0x4000 | out<<6 | (in + 1), Level: rl})
			}
		} else {
			ll = l.Vol
		}
		m.mix[out][in] = ll
		if !muted {
			writes = append(writes, MonoWrite{Reg: 0x4000 | out<<6 | in, Level: ll})
		}
	}
	return writes
}

// VolFromDB converts a fader value in dB (as sent over OSC) to the linear
// coefficient stored in the matrix, matching setmix's "vol <= -65.f ? 0 :
// powf(10, vol/20)".
func VolFromDB(db float32) float32 {
	if db <= -65 {
		return 0
	}
	return float32(math.Pow(10, float64(db)/20))
}

// DBFromVol is the inverse of VolFromDB, used when emitting the current
// fader position back over OSC (setdb's "20*log10f(level.vol)"). It
// returns negative infinity for a fully muted cell.
func DBFromVol(vol float32) float32 {
	if vol <= 0 {
		return float32(math.Inf(-1))
	}
	return float32(20 * math.Log10(float64(vol)))
}

// ClampPan clamps a raw OSC pan argument to [-100, 100], matching setmix's
// bounds check.
func ClampPan(pan int32) int32 {
	if pan < -100 {
		return -100
	}
	if pan > 100 {
		return 100
	}
	return pan
}

// MonoLevelToRegVal converts a linear level coefficient to the 16-bit
// device register value setmonolevel writes: round(level*0x8000), folded
// into the device's compressed range above 0x4000, matching
// original_source/oscmix.c's setmonolevel.
func MonoLevelToRegVal(level float32) uint16 {
	val := int32(math.Round(float64(level) * 0x8000))
	if val > 0x4000 {
		val = (val >> 3) - 0x8000
	}
	return uint16(val)
}

// SummaryVolVal and SummaryPanVal encode the high-bit-discriminated
// register values newmix/setmix use for the "summary" mix register bank
// (register 0x20xx, distinct from the per-cell 0x4000 bank): the top bit of
// the 16-bit value selects whether the low 15 bits are a pan (1) or a dB*10
// fixed-point volume (0). Matches setdb/setpan's "& 0x7fff" wire encoding:
// the returned value is the full register word, not a plain signed dB*10
// integer.
func SummaryVolVal(db float32) int32 {
	v := int32(math.Round(float64(db) * 10))
	if math.IsInf(float64(db), -1) {
		v = -650
	}
	return v & 0x7fff
}

func SummaryPanVal(pan int32) int32 {
	return (pan & 0x7fff) | 0x8000
}

// DecodeSummaryVal inverts SummaryVolVal/SummaryPanVal for an inbound
// summary-register update, matching newmix's "ispan = val & 0x8000" /
// sign-extend-15-bit decode. When isPan is true, pan carries the decoded
// value and vol is meaningless (and vice versa) — the register only ever
// carries one of the two fields per write.
func DecodeSummaryVal(val int32) (isPan bool, pan int32, vol float32) {
	isPan = val&0x8000 != 0
	v := ((val & 0x7fff) ^ 0x4000) - 0x4000
	if isPan {
		return true, v, 0
	}
	return false, 0, VolFromDB(float32(v) / 10)
}
