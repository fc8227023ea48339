package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/doismellburning/fireface-oscbridge/internal/durec"
	"github.com/doismellburning/fireface-oscbridge/internal/mixmatrix"
	"github.com/doismellburning/fireface-oscbridge/internal/osc"
	"github.com/doismellburning/fireface-oscbridge/internal/profile"
	"github.com/doismellburning/fireface-oscbridge/internal/tree"
)

const durecBase = 0x3580 // matches profile's baseDurec

// mixSummaryBase is the "summary" mix register bank (spec.md §4.5): one
// register per (output, input) cell, shared between vol and pan via the
// high-bit discriminator mixmatrix.SummaryVolVal/SummaryPanVal encode,
// distinct from the per-cell 0x4000 bank setmonolevel writes to. Matches
// original_source/oscmix.c's "mix", 0x2000 top-level node offset.
const mixSummaryBase = 0x2000

// durec register offsets not exposed through profile.Profile.ControlToReg
// (the per-file name/info/length sub-tree), ported directly from
// oscmix.c's durec child node table.
const (
	regDurecIndex  = durecBase + 10
	regDurecName0  = durecBase + 11
	regDurecName3  = durecBase + 14
	regDurecInfo   = durecBase + 15
	regDurecLength = durecBase + 16
)

// buildTree populates e.tree with every addressable control the selected
// profile exposes: per-channel strip controls, the full input x output mix
// matrix, and the DUREC transport, matching init's single top-to-bottom
// pass building the static oscnode tree in original_source/oscmix.c.
func (e *Engine) buildTree() {
	for i, ch := range e.profile.Inputs {
		e.addChannelControls("/input/"+slug(ch.Name, i), profile.SectionInput, i, ch)
	}
	for i, ch := range e.profile.Outputs {
		e.addChannelControls("/output/"+slug(ch.Name, i), profile.SectionOutput, i, ch)
	}
	e.addMixMatrix()
	if e.profile.HasDurec() {
		e.addDurec()
	}
}

// slug turns a channel's display name into a single OSC address segment
// (lowercased, with spaces and slashes stripped so names like "Mic/Line 1"
// or "Analog 1" become one path component rather than several).
func slug(name string, idx int) string {
	if name == "" {
		return fmt.Sprintf("%d", idx)
	}
	s := strings.ToLower(name)
	s = strings.NewReplacer(" ", "", "/", "").Replace(s)
	return s
}

func (e *Engine) addChannelControls(prefix string, section profile.Section, idx int, ch profile.ChannelInfo) {
	add := func(id profile.ControlID, leaf string) {
		reg, ok := e.profile.ControlToReg(profile.Control{Section: section, Channel: idx, ID: id})
		if !ok {
			return
		}
		e.tree.Add(e.intNode(prefix+"/"+leaf, reg))
	}

	add(profile.CtlMute, "mute")
	if reg, ok := e.profile.ControlToReg(profile.Control{Section: section, Channel: idx, ID: profile.CtlStereo}); ok {
		e.tree.Add(e.stereoNode(prefix+"/stereo", reg, section, idx))
	}
	add(profile.CtlRecord, "record")
	add(profile.CtlPlayChan, "playchan")
	add(profile.CtlPhase, "phase")
	if section == profile.SectionOutput {
		add(profile.CtlVolume, "volume")
		add(profile.CtlBalance, "balance")
		add(profile.CtlCrossfeed, "crossfeed")
	}
	if ch.Flags&profile.HasGain != 0 {
		add(profile.CtlGain, "gain")
	}
	if ch.Flags&(profile.HasRefLevel|profile.Has48V) != 0 {
		add(profile.CtlRefLevel, "reflevel")
	}
	if ch.Flags&profile.HasAutoset != 0 {
		add(profile.CtlAutoset, "autoset")
	}
	add(profile.CtlLowcut, "lowcut")
	add(profile.CtlLowcutFreq, "lowcut/freq")
	add(profile.CtlLowcutSlope, "lowcut/slope")
	add(profile.CtlEQ, "eq")
	add(profile.CtlEQBand1Gain, "eq/band1/gain")
	add(profile.CtlEQBand1Freq, "eq/band1/freq")
	add(profile.CtlEQBand1Q, "eq/band1/q")
	add(profile.CtlDynamics, "dynamics")
	add(profile.CtlDynamicsGain, "dynamics/gain")
	add(profile.CtlDynamicsAttack, "dynamics/attack")
	add(profile.CtlDynamicsRelease, "dynamics/release")
	add(profile.CtlAutolevel, "autolevel")
	add(profile.CtlAutolevelMaxGain, "autolevel/maxgain")
}

// intNode builds a plain integer register control: the Setter writes
// whatever int32 argument it's given straight to reg, and the Emitter
// re-emits that value as an OSC int whenever it actually changes, mirroring
// the great majority of oscmix.c's .set/.new pairs (e.g. setint/newint).
func (e *Engine) intNode(addr string, reg int) *tree.Node {
	last := int32(0)
	haveLast := false
	return &tree.Node{
		Addr: addr,
		Reg:  reg,
		Set: func(r *osc.Reader) ([]tree.RegWrite, error) {
			v := r.Int()
			if err := r.End(); err != nil {
				return nil, err
			}
			return []tree.RegWrite{{Reg: reg, Val: v}}, nil
		},
		New: func(val int32) ([]osc.Message, bool) {
			if haveLast && val == last {
				return nil, false
			}
			last = val
			haveLast = true
			msg, err := osc.EncodeMessage(addr, "i", val)
			if err != nil {
				return nil, false
			}
			m, err := osc.DecodeMessage(msg)
			if err != nil {
				return nil, false
			}
			return []osc.Message{m}, true
		},
	}
}

// stereoNode wraps intNode's register semantics with a side effect on
// e.matrix's stereo-link state: writing this control both sets reg (as
// every other boolean control does) and flips the matrix's outStereo/
// inStereo bit the mix-matrix Set/New closures consult, matching
// original_source/oscmix.c's setstereo, which updates out->stereo/in->stereo
// directly rather than going through a plain setint.
func (e *Engine) stereoNode(addr string, reg int, section profile.Section, idx int) *tree.Node {
	n := e.intNode(addr, reg)
	n.Set = func(r *osc.Reader) ([]tree.RegWrite, error) {
		v := r.Int()
		if err := r.End(); err != nil {
			return nil, err
		}
		if section == profile.SectionOutput {
			e.matrix.SetOutputStereo(idx, v != 0)
		} else {
			e.matrix.SetInputStereo(idx, v != 0)
		}
		return []tree.RegWrite{{Reg: reg, Val: v}}, nil
	}
	return n
}

// addMixMatrix registers one "/mix/<out>/<in>" node per (output, input)
// pair, matching oscmix.c's per-cell {"", in, .set=setmix, .new=newmix}
// leaves nested under each output's "mix" child. Each node carries both
// directions on the same register bank (0x2000 | out<<6 | in, the
// "summary" bank): Set accepts a (vol dB, pan, width) triple, width and pan
// optional per spec.md's S3 scenario, and writes both the per-cell 0x4000
// registers and the two summary registers; New decodes a summary-register
// echo back into the single /mix/<out>/<in> OSC message spec.md §4.5
// describes.
func (e *Engine) addMixMatrix() {
	outs := e.profile.Outputs
	ins := e.profile.Inputs
	for oi, out := range outs {
		for ii, in := range ins {
			oi, ii := oi, ii
			addr := fmt.Sprintf("/mix/%s/%s", slug(out.Name, oi), slug(in.Name, ii))
			summaryReg := mixSummaryBase | oi<<6 | ii
			e.tree.Add(&tree.Node{
				Addr: addr,
				Reg:  summaryReg,
				Set: func(r *osc.Reader) ([]tree.RegWrite, error) {
					l := e.matrix.CalcLevel(oi, ii, true)
					l.Vol = mixmatrix.VolFromDB(r.Float())
					if r.More() {
						l.Pan = mixmatrix.ClampPan(r.Int())
						if r.More() && e.matrix.InputStereo(ii) && e.matrix.OutputStereo(oi) {
							l.Width = int32(math.Round(float64(r.Float())))
						}
					}
					if err := r.End(); err != nil {
						return nil, err
					}

					mw := e.matrix.SetLevel(oi, ii, true, l)
					writes := make([]tree.RegWrite, 0, len(mw)+4)
					for _, w := range mw {
						writes = append(writes, tree.RegWrite{Reg: w.Reg, Val: int32(mixmatrix.MonoLevelToRegVal(w.Level))})
					}

					writes = append(writes, summaryWrites(summaryReg, e.matrix.CalcLevel(oi, ii, false))...)
					if e.matrix.InputStereo(ii) {
						writes = append(writes, summaryWrites(summaryReg+1, e.matrix.CalcLevel(oi, ii+1, false))...)
					}
					return writes, nil
				},
				New: func(val int32) ([]osc.Message, bool) {
					isPan, pan, vol := mixmatrix.DecodeSummaryVal(val)
					l := e.matrix.CalcLevel(oi, ii, false)
					if isPan {
						l.Pan = pan
					} else {
						l.Vol = vol
					}
					e.matrix.SetLevel(oi, ii, false, l)

					msg, err := osc.EncodeMessage(addr, "fi", mixmatrix.DBFromVol(l.Vol), l.Pan)
					if err != nil {
						return nil, false
					}
					m, err := osc.DecodeMessage(msg)
					if err != nil {
						return nil, false
					}
					return []osc.Message{m}, true
				},
			})
		}
	}
}

// summaryWrites builds the two register writes (dB then pan) setmix sends
// after every cell write, matching oscmix.c's "setdb(reg, ...); setpan(reg,
// ...)" pair.
func summaryWrites(reg int, l mixmatrix.Level) []tree.RegWrite {
	return []tree.RegWrite{
		{Reg: reg, Val: mixmatrix.SummaryVolVal(mixmatrix.DBFromVol(l.Vol))},
		{Reg: reg, Val: mixmatrix.SummaryPanVal(l.Pan)},
	}
}

// addDurec wires the DUREC transport and status sub-tree: action setters
// writing the literal register values original_source/oscmix.c's
// setdurecstop/setdurecplay/setdurecrecord/setdurecdelete use, plus
// Emitters that project each incoming register update through
// internal/durec's diff-then-emit State.
func (e *Engine) addDurec() {
	d := e.durec

	noArgSetter := func(reg, val int) tree.Setter {
		return func(r *osc.Reader) ([]tree.RegWrite, error) {
			if err := r.End(); err != nil {
				return nil, err
			}
			return []tree.RegWrite{{Reg: reg, Val: int32(val)}}, nil
		}
	}
	e.tree.Add(&tree.Node{Addr: "/durec/stop", Set: noArgSetter(durec.ActionReg, durec.StopVal)})
	e.tree.Add(&tree.Node{Addr: "/durec/play", Set: noArgSetter(durec.ActionReg, durec.PlayVal)})
	e.tree.Add(&tree.Node{Addr: "/durec/record", Set: noArgSetter(durec.ActionReg, durec.RecordVal)})
	e.tree.Add(&tree.Node{
		Addr: "/durec/delete",
		Set: func(r *osc.Reader) ([]tree.RegWrite, error) {
			idx := r.Int()
			if err := r.End(); err != nil {
				return nil, err
			}
			return []tree.RegWrite{{Reg: durec.DeleteReg, Val: int32(durec.DeleteVal(int(idx)))}}, nil
		},
	})
	e.tree.Add(&tree.Node{
		Addr: "/durec/file",
		Set: func(r *osc.Reader) ([]tree.RegWrite, error) {
			idx := r.Int()
			if err := r.End(); err != nil {
				return nil, err
			}
			return []tree.RegWrite{{Reg: durec.SelectFileReg, Val: int32(durec.SelectFileVal(int(idx)))}}, nil
		},
	})

	emit := func(em *durec.Emission) ([]osc.Message, bool) {
		if em == nil {
			return nil, false
		}
		buf, err := osc.EncodeMessage(em.Addr, em.Types, em.Args...)
		if err != nil {
			return nil, false
		}
		m, err := osc.DecodeMessage(buf)
		if err != nil {
			return nil, false
		}
		return []osc.Message{m}, true
	}

	reg := func(offset int) int { return durecBase + offset }

	e.tree.Add(&tree.Node{Reg: reg(0), New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateStatus(int(v))) }})
	e.tree.Add(&tree.Node{Reg: reg(1), New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateTime(int(v))) }})
	e.tree.Add(&tree.Node{Reg: reg(3), New: func(v int32) ([]osc.Message, bool) {
		load, errs := d.UpdateUSBStatus(int(v))
		msgs, ok := emit(load)
		m2, ok2 := emit(errs)
		return append(msgs, m2...), ok || ok2
	}})
	e.tree.Add(&tree.Node{Reg: reg(4), New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateTotalSpace(int(v))) }})
	e.tree.Add(&tree.Node{Reg: reg(5), New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateFreeSpace(int(v))) }})
	e.tree.Add(&tree.Node{Reg: reg(6), New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateFilesLen(int(v))) }})
	e.tree.Add(&tree.Node{Reg: reg(8), New: func(v int32) ([]osc.Message, bool) {
		next, mode := d.UpdateNext(int(v))
		msgs, ok := emit(next)
		m2, ok2 := emit(mode)
		return append(msgs, m2...), ok || ok2
	}})
	e.tree.Add(&tree.Node{Reg: reg(9), New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateRecordTime(int(v))) }})
	e.tree.Add(&tree.Node{Reg: regDurecIndex, New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateIndex(int(v))) }})
	for r := regDurecName0; r <= regDurecName3; r++ {
		off := r - regDurecName0
		e.tree.Add(&tree.Node{Reg: r, New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateNameFragment(off, int(v))) }})
	}
	e.tree.Add(&tree.Node{Reg: regDurecInfo, New: func(v int32) ([]osc.Message, bool) {
		rate, ch := d.UpdateInfo(int(v))
		msgs, ok := emit(rate)
		m2, ok2 := emit(ch)
		return append(msgs, m2...), ok || ok2
	}})
	e.tree.Add(&tree.Node{Reg: regDurecLength, New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateLength(int(v))) }})

	fileReg, ok := durecFileReg(e.profile)
	if ok {
		e.tree.Add(&tree.Node{
			Addr: "/durec/recordfile",
			Reg:  fileReg,
			Set: func(r *osc.Reader) ([]tree.RegWrite, error) {
				v := r.Int()
				if err := r.End(); err != nil {
					return nil, err
				}
				return []tree.RegWrite{{Reg: fileReg, Val: v}}, nil
			},
			New: func(v int32) ([]osc.Message, bool) { return emit(d.UpdateFile(int(v))) },
		})
	}
}

func durecFileReg(p *profile.Profile) (int, bool) {
	return p.ControlToReg(profile.Control{Section: profile.SectionDurec, Channel: -1, ID: profile.CtlDurecFile})
}
