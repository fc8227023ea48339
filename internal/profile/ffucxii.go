package profile

var reflevelInput = []string{"+13dBu", "+19dBu"}
var reflevelOutput = []string{"+4dBu", "+13dBu", "+19dBu"}
var reflevelPhones = []string{"Low", "High"}

// FFUCXII is the Fireface UCX II device profile, ported from
// original_source/device_ffucxii.c.
var FFUCXII = &Profile{
	ID:      "ffucxii",
	Name:    "Fireface UCX II",
	Version: 30,
	Flags:   HasDurec | HasRoomEQ,
	Inputs: []ChannelInfo{
		{Name: "Mic/Line 1", Flags: HasGain | Has48V | HasAutoset, GainMin: 0, GainMax: 750},
		{Name: "Mic/Line 2", Flags: HasGain | Has48V | HasAutoset, GainMin: 0, GainMax: 750},
		{Name: "Inst/Line 3", Flags: HasGain | HasRefLevel | HasHiZ | HasAutoset, GainMin: 0, GainMax: 240, RefLevels: reflevelInput},
		{Name: "Inst/Line 4", Flags: HasGain | HasRefLevel | HasHiZ | HasAutoset, GainMin: 0, GainMax: 240, RefLevels: reflevelInput},
		{Name: "Analog 5", Flags: HasGain | HasRefLevel, RefLevels: reflevelInput},
		{Name: "Analog 6", Flags: HasGain | HasRefLevel, RefLevels: reflevelInput},
		{Name: "Analog 7", Flags: HasGain | HasRefLevel, RefLevels: reflevelInput},
		{Name: "Analog 8", Flags: HasGain | HasRefLevel, RefLevels: reflevelInput},
		{Name: "SPDIF L"}, {Name: "SPDIF R"},
		{Name: "AES L"}, {Name: "AES R"},
		{Name: "ADAT 1"}, {Name: "ADAT 2"}, {Name: "ADAT 3"}, {Name: "ADAT 4"},
		{Name: "ADAT 5"}, {Name: "ADAT 6"}, {Name: "ADAT 7"}, {Name: "ADAT 8"},
	},
	Outputs: []ChannelInfo{
		{Name: "Analog 1", Flags: HasRefLevel, RefLevels: reflevelOutput},
		{Name: "Analog 2", Flags: HasRefLevel, RefLevels: reflevelOutput},
		{Name: "Analog 3", Flags: HasRefLevel, RefLevels: reflevelOutput},
		{Name: "Analog 4", Flags: HasRefLevel, RefLevels: reflevelOutput},
		{Name: "Analog 5", Flags: HasRefLevel, RefLevels: reflevelOutput},
		{Name: "Analog 6", Flags: HasRefLevel, RefLevels: reflevelOutput},
		{Name: "Phones 7", Flags: HasRefLevel, RefLevels: reflevelPhones},
		{Name: "Phones 8", Flags: HasRefLevel, RefLevels: reflevelPhones},
		{Name: "SPDIF L"}, {Name: "SPDIF R"},
		{Name: "AES L"}, {Name: "AES R"},
		{Name: "ADAT 1"}, {Name: "ADAT 2"}, {Name: "ADAT 3"}, {Name: "ADAT 4"},
		{Name: "ADAT 5"}, {Name: "ADAT 6"}, {Name: "ADAT 7"}, {Name: "ADAT 8"},
	},
}
