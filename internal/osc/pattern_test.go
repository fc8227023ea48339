package osc_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/doismellburning/fireface-oscbridge/internal/osc"
)

func TestMatchAddressLiteral(t *testing.T) {
	assert.True(t, osc.MatchAddress("/input/1/gain", "/input/1/gain"))
	assert.False(t, osc.MatchAddress("/input/1/gain", "/input/2/gain"))
}

func TestMatchAddressStar(t *testing.T) {
	assert.True(t, osc.MatchAddress("/input/*/gain", "/input/12/gain"))
	assert.True(t, osc.MatchAddress("/input/*", "/input/12"))
	assert.False(t, osc.MatchAddress("/input/*/gain", "/input/12/pan/extra"))
	assert.False(t, osc.MatchAddress("/input/*/gain", "/input/1/2/gain"))
}

func TestMatchAddressQuestion(t *testing.T) {
	assert.True(t, osc.MatchAddress("/input/?/gain", "/input/3/gain"))
	assert.False(t, osc.MatchAddress("/input/?/gain", "/input/12/gain"))
}

func TestMatchAddressClass(t *testing.T) {
	assert.True(t, osc.MatchAddress("/input/[1-4]/gain", "/input/3/gain"))
	assert.False(t, osc.MatchAddress("/input/[1-4]/gain", "/input/5/gain"))
	assert.True(t, osc.MatchAddress("/input/[!1-4]/gain", "/input/5/gain"))
}

func TestMatchAddressAlternatives(t *testing.T) {
	assert.True(t, osc.MatchAddress("/input/1/{gain,mute}", "/input/1/gain"))
	assert.True(t, osc.MatchAddress("/input/1/{gain,mute}", "/input/1/mute"))
	assert.False(t, osc.MatchAddress("/input/1/{gain,mute}", "/input/1/pan"))
}

func TestMatchAddressNeverCrossesSlash(t *testing.T) {
	assert.False(t, osc.MatchAddress("/*", "/input/1/gain"))
	assert.True(t, osc.MatchAddress("/*/*/*", "/input/1/gain"))
}

func TestHasWildcard(t *testing.T) {
	assert.True(t, osc.HasWildcard("/input/*/gain"))
	assert.True(t, osc.HasWildcard("/input/[1-4]/gain"))
	assert.False(t, osc.HasWildcard("/input/1/gain"))
}

// TestMatchAddressStarProperty checks "/input/*/leaf" matches any concrete
// single-segment channel address and never crosses into a deeper path,
// matching spec §8's "glob matching" property.
func TestMatchAddressStarProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.IntRange(0, 99).Draw(t, "idx")
		leaf := rapid.SampledFrom([]string{"gain", "mute", "volume"}).Draw(t, "leaf")
		addr := fmt.Sprintf("/input/%d/%s", idx, leaf)

		assert.True(t, osc.MatchAddress("/input/*/"+leaf, addr))
		assert.False(t, osc.MatchAddress("/input/*/"+leaf, addr+"/extra"))
	})
}

// TestMatchAddressLiteralProperty checks a literal pattern only ever
// matches its own address, never a different index, matching spec §8's
// "glob matching" property.
func TestMatchAddressLiteralProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 99).Draw(t, "a")
		b := rapid.IntRange(0, 99).Draw(t, "b")
		addrA := fmt.Sprintf("/input/%d/gain", a)
		addrB := fmt.Sprintf("/input/%d/gain", b)

		assert.True(t, osc.MatchAddress(addrA, addrA))
		assert.Equal(t, a == b, osc.MatchAddress(addrA, addrB))
	})
}
