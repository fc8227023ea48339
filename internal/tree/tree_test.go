package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/fireface-oscbridge/internal/osc"
	"github.com/doismellburning/fireface-oscbridge/internal/tree"
)

func boolSetter(reg int) tree.Setter {
	return func(r *osc.Reader) ([]tree.RegWrite, error) {
		v := r.Int()
		if err := r.End(); err != nil {
			return nil, err
		}
		return []tree.RegWrite{{Reg: reg, Val: v}}, nil
	}
}

func boolEmitter(addr string) tree.Emitter {
	var last int32 = -1
	return func(val int32) ([]osc.Message, bool) {
		if val == last {
			return nil, false
		}
		last = val
		return []osc.Message{mustMessage(addr, "i", val)}, true
	}
}

func mustMessage(addr, types string, args ...any) osc.Message {
	buf, err := osc.EncodeMessage(addr, types, args...)
	if err != nil {
		panic(err)
	}
	m, err := osc.DecodeMessage(buf)
	if err != nil {
		panic(err)
	}
	return m
}

func TestDispatchExactAddress(t *testing.T) {
	tr := tree.New()
	tr.Add(&tree.Node{Addr: "/input/1/mute", Reg: 0x0000, Set: boolSetter(0x0000), New: boolEmitter("/input/1/mute")})

	msg := mustMessage("/input/1/mute", "i", int32(1))
	writes, err := tr.Dispatch(msg)
	require.NoError(t, err)
	require.Len(t, writes, 1)
	assert.Equal(t, 0x0000, writes[0].Reg)
	assert.Equal(t, int32(1), writes[0].Val)
}

func TestDispatchNoMatch(t *testing.T) {
	tr := tree.New()
	msg := mustMessage("/nope", "")
	_, err := tr.Dispatch(msg)
	assert.ErrorIs(t, err, tree.ErrNoMatch)
}

func TestDispatchWildcardFansOut(t *testing.T) {
	tr := tree.New()
	tr.Add(&tree.Node{Addr: "/input/1/mute", Reg: 0x0000, Set: boolSetter(0x0000)})
	tr.Add(&tree.Node{Addr: "/input/2/mute", Reg: 0x0040, Set: boolSetter(0x0040)})
	tr.Add(&tree.Node{Addr: "/input/1/gain", Reg: 0x0008, Set: boolSetter(0x0008)})

	msg := mustMessage("/input/*/mute", "i", int32(1))
	writes, err := tr.Dispatch(msg)
	require.NoError(t, err)
	assert.Len(t, writes, 2)
}

func TestHandleRegisterUpdateEmitsOnChange(t *testing.T) {
	tr := tree.New()
	tr.Add(&tree.Node{Addr: "/input/1/mute", Reg: 0x0000, New: boolEmitter("/input/1/mute")})

	msgs, ok := tr.HandleRegisterUpdate(0x0000, 1)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "/input/1/mute", msgs[0].Address)

	_, ok = tr.HandleRegisterUpdate(0x0000, 1)
	assert.False(t, ok)
}

func TestHandleRegisterUpdateUnknownReg(t *testing.T) {
	tr := tree.New()
	_, ok := tr.HandleRegisterUpdate(0x9999, 0)
	assert.False(t, ok)
}
