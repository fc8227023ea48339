// Package levelmeter decodes the device's peak/RMS level-meter sysex
// payloads (sub-IDs 1-5) into dB values and OSC meter messages, matching
// original_source/oscmix.c's handlelevels. Sub-IDs 1 and 3 are fx-pre
// snapshots for input/output, captured into a per-channel shadow rather than
// emitted; sub-ID 2 (playback) has no fx-pre shadow and always emits; sub-IDs
// 4 and 5 are post-fx snapshots for input/output and emit alongside the
// shadow captured by sub-ID 1/3.
package levelmeter

import (
	"fmt"
	"math"
)

// maxChannels bounds the fx-pre shadow arrays, matching handlelevels'
// static inputpeakfx/outputpeakfx[22] sizing.
const maxChannels = 22

// sample is one channel's decoded (rms, peak) meter pair.
type sample struct {
	rms  uint64
	peak uint32
}

// Emission is the OSC update a decoded triple produces.
type Emission struct {
	Addr  string
	Types string
	Args  []any
}

// State holds the fx-pre shadow captured by sub-IDs 1 and 3.
type State struct {
	inputFx  [maxChannels]sample
	outputFx [maxChannels]sample
}

// New returns an empty level-meter shadow.
func New() *State {
	return &State{}
}

func peakDB(peak uint32) float32 {
	v := float64(peak>>4) / math.Ldexp(1, 23)
	if v <= 0 {
		return float32(math.Inf(-1))
	}
	return float32(20 * math.Log10(v))
}

func rmsDB(rms uint64) float32 {
	v := float64(rms) / math.Ldexp(1, 54)
	if v <= 0 {
		return float32(math.Inf(-1))
	}
	return float32(10 * math.Log10(v))
}

// Decode processes sub-ID subid's payload (interleaved rms_lo, rms_hi, peak
// uint32 triples, one per channel) and returns the OSC emissions it
// produces. Sub-IDs 1 and 3 only refresh the fx-pre shadow and never emit.
func (s *State) Decode(subid int, words []uint32) ([]Emission, error) {
	if len(words)%3 != 0 {
		return nil, fmt.Errorf("levelmeter: payload length %d not a multiple of 3", len(words))
	}

	var typ string
	var shadow *[maxChannels]sample
	switch subid {
	case 1:
		shadow = &s.inputFx
	case 4:
		typ = "input"
		shadow = &s.inputFx
	case 3:
		shadow = &s.outputFx
	case 5:
		typ = "output"
		shadow = &s.outputFx
	case 2:
		typ = "playback"
	default:
		return nil, fmt.Errorf("levelmeter: unexpected sub-id %d", subid)
	}

	n := len(words) / 3
	var out []Emission
	for i := 0; i < n; i++ {
		rms := uint64(words[i*3]) | uint64(words[i*3+1])<<32
		peak := words[i*3+2]

		if typ == "" {
			if i < maxChannels {
				shadow[i] = sample{rms: rms, peak: peak}
			}
			continue
		}

		addr := fmt.Sprintf("/%s/%d/level", typ, i+1)
		if shadow != nil && i < maxChannels {
			fx := shadow[i]
			out = append(out, Emission{
				Addr:  addr,
				Types: "ffffi",
				Args:  []any{peakDB(peak), rmsDB(rms), peakDB(fx.peak), rmsDB(fx.rms), int32(peak & fx.peak & 1)},
			})
		} else {
			out = append(out, Emission{
				Addr:  addr,
				Types: "ffi",
				Args:  []any{peakDB(peak), rmsDB(rms), int32(peak & 1)},
			})
		}
	}
	return out, nil
}
