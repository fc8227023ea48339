// Package tree is the OSC address <-> device register dispatcher. The
// original C engine walked a static prefix tree per message, accumulating a
// register number node-by-node (original_source/oscmix.c's handleosc /
// handleregs). Since every concrete address this engine ever handles is
// known once a profile is selected (inputs/outputs are a fixed, enumerable
// set of channels), oscmixbridge builds a flat address->node and
// register->node index once at startup instead: a node lookup is then a map
// read rather than a tree walk, and register->address lookup (needed to
// label an inbound sysex register update) is O(1) instead of the linear
// "off += node->reg" scan handleregs performs.
package tree

import (
	"fmt"

	"github.com/doismellburning/fireface-oscbridge/internal/osc"
)

// Setter applies an incoming OSC message to the device, returning the
// sysex register writes needed (set as a register/value pair; callers
// encode and send them). Matches a C "set" node function, minus the path
// array (each Setter already knows its own register from closure capture).
type Setter func(r *osc.Reader) ([]RegWrite, error)

// Emitter builds the OSC message(s) to send in response to a register
// changing to val, or reports ok=false when the update is a no-op (a C
// "new" node function that decided nothing changed).
type Emitter func(val int32) ([]osc.Message, bool)

// RegWrite is a single outbound register write a Setter produces.
type RegWrite struct {
	Reg int
	Val int32
}

// Node is one addressable leaf: an OSC address, the register it
// corresponds to (for reverse lookup), and its Setter/Emitter.
type Node struct {
	Addr string
	Reg  int
	Set  Setter
	New  Emitter
}

var (
	// ErrNoMatch is returned by Dispatch when no node's address matches
	// the incoming OSC message.
	ErrNoMatch = fmt.Errorf("tree: no matching address")
)

// Tree is the flat, built-once index described above.
type Tree struct {
	byAddr map[string]*Node
	byReg  map[int]*Node
	// all caches the insertion order of all nodes, used only
	// when an incoming message itself contains glob characters (a client
	// broadcasting to several channels at once); the common case is an
	// exact address and skips this entirely.
	all []*Node
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{byAddr: make(map[string]*Node), byReg: make(map[int]*Node)}
}

// Add registers a node. Addr must be a concrete (non-glob) OSC address.
func (t *Tree) Add(n *Node) {
	t.byAddr[n.Addr] = n
	if n.New != nil {
		t.byReg[n.Reg] = n
	}
	t.all = append(t.all, n)
}

// LookupReg returns the node registered for reg, if any.
func (t *Tree) LookupReg(reg int) (*Node, bool) {
	n, ok := t.byReg[reg]
	return n, ok
}

// LookupAddr returns the node registered for an exact address, if any.
func (t *Tree) LookupAddr(addr string) (*Node, bool) {
	n, ok := t.byAddr[addr]
	return n, ok
}

// Match returns every node whose address matches an OSC address pattern
// (which may itself be a glob, per osc.MatchAddress), mirroring how a
// client can send "/input/*/mute" to address several channels in one
// message.
func (t *Tree) Match(pattern string) []*Node {
	if !osc.HasWildcard(pattern) {
		if n, ok := t.byAddr[pattern]; ok {
			return []*Node{n}
		}
		return nil
	}
	var out []*Node
	for _, n := range t.all {
		if osc.MatchAddress(pattern, n.Addr) {
			out = append(out, n)
		}
	}
	return out
}

// Dispatch runs an incoming OSC message's Setter(s), matching
// handleosc's tree walk + node->set call. Returns every register write the
// matched node(s) produced.
func (t *Tree) Dispatch(msg osc.Message) ([]RegWrite, error) {
	nodes := t.Match(msg.Address)
	if len(nodes) == 0 {
		return nil, ErrNoMatch
	}
	var writes []RegWrite
	for _, n := range nodes {
		if n.Set == nil {
			continue
		}
		r := osc.NewReader(msg)
		w, err := n.Set(r)
		if err != nil {
			return writes, fmt.Errorf("%s: %w", msg.Address, err)
		}
		writes = append(writes, w...)
	}
	return writes, nil
}

// HandleRegisterUpdate runs the Emitter registered for reg, matching
// handleregs' per-register node->new call. ok is false if reg has no
// registered node or the Emitter decided nothing changed.
func (t *Tree) HandleRegisterUpdate(reg int, val int32) ([]osc.Message, bool) {
	n, ok := t.byReg[reg]
	if !ok || n.New == nil {
		return nil, false
	}
	return n.New(val)
}
